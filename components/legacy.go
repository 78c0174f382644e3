package components

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gobuffalo/flect"
	"github.com/spf13/cast"
)

// applyLegacy runs the compatibility transform chain over the canonical
// options. The stage order is fixed and load-bearing: class concatenation is
// order-sensitive and downstream tests depend on the output being stable.
//
// Stages: base class, "ui" marker, "dynamic" marker, responsive grid DSL,
// name-derived class/data, reactive shorthand expansion.
func applyLegacy(st *renderState) {
	applyBaseClass(st)
	applyUI(st)
	applyDynamic(st)
	applyResponsive(st)
	applyName(st)
	applyReactive(st)
}

// applyBaseClass injects the component's configured base class ahead of any
// caller-supplied classes.
func applyBaseClass(st *renderState) {
	st.prependClass(st.def.CSSClass)
}

// applyUI handles the `ui` marker key. Literal false means "suppress";
// any other value (including junk) means "prepend". The key never survives.
func applyUI(st *renderState) {
	v, present := st.opts["ui"]
	if !present {
		return
	}
	delete(st.opts, "ui")
	if b, isBool := v.(bool); isBool && !b {
		return
	}
	st.prependClass("ui")
}

// applyDynamic handles the `dynamic` marker key: truthy appends the class,
// present-but-false just removes the key.
func applyDynamic(st *renderState) {
	v, present := st.opts["dynamic"]
	if !present {
		return
	}
	delete(st.opts, "dynamic")
	if looseBool(v) {
		st.addClass("dynamic")
	}
}

// looseBool reads marker-key truthiness the way applyUI does: a recognized
// false spelling ("false", "0", "f", bool false) or nil suppresses, any
// other present value counts as true. A bare attribute from the tag expander
// arrives as "" and counts as true by presence.
func looseBool(v any) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	if b, err := cast.ToBoolE(strings.TrimSpace(fmt.Sprint(v))); err == nil {
		return b
	}
	return true
}

// applyResponsive consumes the grid-sizing DSL keys. Fragments append in a
// fixed order: only, size, then computer/tablet/mobile in that order.
// Values arrive as ints from Go callers and as strings from the tag
// expander, so reads go through cast.
func applyResponsive(st *renderState) {
	if v, ok := st.opts["only"]; ok {
		delete(st.opts, "only")
		if s := fmt.Sprint(v); s != "" && v != nil {
			st.addClass(s + " only")
		}
	}

	if v, ok := st.opts["size"]; ok {
		delete(st.opts, "size")
		st.addClass(NumberToWords(cast.ToInt(v)))
	}

	for _, device := range []string{"computer", "tablet", "mobile"} {
		v, ok := st.opts[device]
		if !ok {
			continue
		}
		delete(st.opts, device)
		if words := NumberToWords(cast.ToInt(v)); words != "" {
			st.addClass(words + " wide " + device)
		}
	}
}

var (
	slugStrip   = regexp.MustCompile(`[^a-z0-9_]+`)
	slugSqueeze = regexp.MustCompile(`_+`)
)

// applyName appends the raw name value as a class and records a slugged form
// under data.name. Slugging is ASCII-only: underscore word separation via
// flect, then everything outside [a-z0-9_] is squeezed to underscores.
func applyName(st *renderState) {
	v, present := st.opts["name"]
	if !present {
		return
	}
	delete(st.opts, "name")
	raw := fmt.Sprint(v)
	if raw == "" {
		return
	}
	st.addClass(raw)
	st.data["name"] = slugify(raw)
}

func slugify(s string) string {
	slug := strings.ToLower(flect.Underscore(s))
	slug = slugStrip.ReplaceAllString(slug, "_")
	slug = slugSqueeze.ReplaceAllString(slug, "_")
	return strings.Trim(slug, "_")
}

// reactiveShorthand maps the single-letter shorthand keys to their long
// forms. The shorthand always wins when both are present.
var reactiveShorthand = map[string]string{
	"c": "controller",
	"a": "action",
	"t": "target",
	"p": "params",
	"v": "values",
}

// applyReactive expands the reactive-component shorthand. After the copy,
// target/params/values mappings fan out into data attributes keyed by
// controller name; controller and action stay in the options for the
// attribute builder to resolve.
func applyReactive(st *renderState) {
	for short, long := range reactiveShorthand {
		if v, ok := st.opts[short]; ok {
			st.opts[long] = v
		}
		delete(st.opts, short)
	}

	if targets := asOptions(st.opts["target"]); targets != nil {
		for controller, target := range targets {
			st.data[controller+"-target"] = fmt.Sprint(target)
		}
	}
	delete(st.opts, "target")

	if params := asOptions(st.opts["params"]); params != nil {
		for controller, pairs := range params {
			if m := asOptions(pairs); m != nil {
				for param, value := range m {
					st.data[controller+"-"+param+"-param"] = fmt.Sprint(value)
				}
			}
		}
	}
	delete(st.opts, "params")

	if values := asOptions(st.opts["values"]); values != nil {
		for controller, pairs := range values {
			if m := asOptions(pairs); m != nil {
				for name, value := range m {
					st.data[controller+"-"+name+"-value"] = fmt.Sprint(value)
				}
			}
		}
	}
	delete(st.opts, "values")
}
