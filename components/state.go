package components

import (
	"fmt"
	"html/template"
	"strings"
)

// renderState is the mutable per-invocation working state. It is created
// fresh for every render, mutated in place by each pipeline stage, and
// discarded after the tag is built.
//
// Invariant: component-targeting metadata (session id, personality, variant
// name, css layer, AI flags) lives only in data, never as top-level
// attributes.
type renderState struct {
	name string
	def  ComponentDefinition

	opts    Options
	classes []string
	data    map[string]string
	styles  []string

	variantName string
	variant     *VariantDefinition

	block func() template.HTML
}

func newRenderState(name string, def ComponentDefinition, opts Options) *renderState {
	st := &renderState{
		name: name,
		def:  def,
		opts: opts,
		data: map[string]string{},
	}

	// Fold a caller-supplied class string into the class list up front so
	// later stages can prepend/append around it.
	if cls := strings.TrimSpace(stringOpt(opts, "class")); cls != "" {
		st.classes = append(st.classes, cls)
	}
	delete(opts, "class")

	// Same for a caller-supplied data sub-mapping: it seeds the accumulator.
	if m := asOptions(opts["data"]); m != nil {
		for k, v := range m {
			st.data[k] = fmt.Sprint(v)
		}
	}
	delete(opts, "data")

	// A caller-supplied style string becomes the first accumulator fragment.
	if s := strings.TrimSpace(stringOpt(opts, "style")); s != "" {
		st.styles = append(st.styles, strings.TrimSuffix(s, ";"))
	}
	delete(opts, "style")

	return st
}

// addClass appends non-empty class fragments.
func (st *renderState) addClass(fragments ...string) {
	for _, f := range fragments {
		if f != "" {
			st.classes = append(st.classes, f)
		}
	}
}

// prependClass puts a fragment in front of the accumulated list.
func (st *renderState) prependClass(fragment string) {
	if fragment == "" {
		return
	}
	st.classes = append([]string{fragment}, st.classes...)
}

// addStyle appends a "prop: value" fragment to the style accumulator.
func (st *renderState) addStyle(fragment string) {
	if fragment != "" {
		st.styles = append(st.styles, fragment)
	}
}

// classString space-joins the accumulated class list, dropping empties.
func (st *renderState) classString() string {
	return joinWords(st.classes...)
}

// styleString joins the accumulated style fragments.
func (st *renderState) styleString() string {
	return strings.Join(st.styles, "; ")
}

// renderMethod resolves the effective data-driven renderer: an active
// variant's method wins over the definition's for this invocation only.
func (st *renderState) renderMethod() string {
	if st.variant != nil && st.variant.RenderMethod != "" {
		return st.variant.RenderMethod
	}
	return st.def.RenderMethod
}

// stringOpt reads an option as a string; absent or non-scalar reads as "".
func stringOpt(opts Options, key string) string {
	v, ok := opts[key]
	if !ok || v == nil {
		return ""
	}
	switch s := v.(type) {
	case string:
		return s
	case template.HTML:
		return string(s)
	case bool, int, int64, float64:
		return fmt.Sprint(s)
	default:
		return ""
	}
}

// firstOpt returns the first non-empty string among the given keys. Renderer
// input contracts accept several historical spellings per field.
func firstOpt(opts Options, keys ...string) string {
	for _, k := range keys {
		if s := stringOpt(opts, k); s != "" {
			return s
		}
	}
	return ""
}

// sliceOpt reads an option as a sequence, nil when absent or not a sequence.
func sliceOpt(opts Options, key string) []any {
	switch v := opts[key].(type) {
	case []any:
		return v
	case []Options:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out
	default:
		return nil
	}
}

// firstSlice returns the first non-empty sequence among the given keys.
func firstSlice(opts Options, keys ...string) []any {
	for _, k := range keys {
		if items := sliceOpt(opts, k); len(items) > 0 {
			return items
		}
	}
	return nil
}

// itemString reads a field from a sequence item, which may be a mapping with
// several accepted key spellings or a bare scalar.
func itemString(item any, keys ...string) string {
	m := asOptions(item)
	if m == nil {
		return ""
	}
	return firstOpt(m, keys...)
}
