package components

import (
	"reflect"
	"strings"
	"testing"
)

func widgetState(opts Options) *renderState {
	def := ComponentDefinition{Tag: "div", CSSClass: "widget"}
	return newRenderState("widget", def, opts)
}

func TestApplyUI(t *testing.T) {
	tests := []struct {
		name      string
		opts      Options
		wantClass string
	}{
		{"absent", Options{}, "widget"},
		{"true", Options{"ui": true}, "ui widget"},
		{"literal false suppresses", Options{"ui": false}, "widget"},
		{"junk value still counts", Options{"ui": "yes please"}, "ui widget"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := widgetState(tt.opts)
			applyLegacy(st)
			if got := st.classString(); got != tt.wantClass {
				t.Errorf("class = %q; want %q", got, tt.wantClass)
			}
			if _, ok := st.opts["ui"]; ok {
				t.Error("ui key should be consumed")
			}
		})
	}
}

func TestApplyDynamic(t *testing.T) {
	st := widgetState(Options{"dynamic": true})
	applyLegacy(st)
	if got := st.classString(); got != "widget dynamic" {
		t.Errorf("class = %q; want %q", got, "widget dynamic")
	}

	st = widgetState(Options{"dynamic": false})
	applyLegacy(st)
	if got := st.classString(); got != "widget" {
		t.Errorf("false dynamic should only remove the key; class = %q", got)
	}
	if _, ok := st.opts["dynamic"]; ok {
		t.Error("dynamic key should be consumed")
	}

	// Like ui, an unrecognized value counts as present-and-true; the tag
	// expander also delivers bare attributes as empty strings.
	tests := []struct {
		value any
		want  string
	}{
		{"enabled", "widget dynamic"},
		{"", "widget dynamic"},
		{"false", "widget"},
		{"0", "widget"},
		{1, "widget dynamic"},
	}
	for _, tt := range tests {
		st = widgetState(Options{"dynamic": tt.value})
		applyLegacy(st)
		if got := st.classString(); got != tt.want {
			t.Errorf("dynamic=%v: class = %q; want %q", tt.value, got, tt.want)
		}
	}
}

func TestApplyResponsiveOrder(t *testing.T) {
	st := widgetState(Options{"only": "mobile", "size": 4, "mobile": 2})
	applyLegacy(st)

	// Fragments append in fixed order: only, size, then device widths.
	want := "widget mobile only four two wide mobile"
	if got := st.classString(); got != want {
		t.Errorf("class = %q; want %q", got, want)
	}
	for _, key := range []string{"only", "size", "mobile"} {
		if _, ok := st.opts[key]; ok {
			t.Errorf("%s key should be consumed", key)
		}
	}
}

func TestApplyResponsiveStringValues(t *testing.T) {
	// The tag expander delivers attribute values as strings.
	st := widgetState(Options{"size": "16", "computer": "3", "tablet": "1"})
	applyLegacy(st)

	want := "widget sixteen three wide computer one wide tablet"
	if got := st.classString(); got != want {
		t.Errorf("class = %q; want %q", got, want)
	}
}

func TestApplyName(t *testing.T) {
	st := widgetState(Options{"name": "Add User!"})
	applyLegacy(st)

	if got := st.classString(); got != "widget Add User!" {
		t.Errorf("raw name should append as class; got %q", got)
	}
	if got := st.data["name"]; got != "add_user" {
		t.Errorf("data.name = %q; want %q", got, "add_user")
	}
	if _, ok := st.opts["name"]; ok {
		t.Error("name key should be consumed")
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Add User", "add_user"},
		{"CamelCase", "camel_case"},
		{"lots   of---junk!!", "lots_of_junk"},
		{"already_fine", "already_fine"},
	}
	for _, tt := range tests {
		if got := slugify(tt.in); got != tt.want {
			t.Errorf("slugify(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

func TestApplyReactiveShorthand(t *testing.T) {
	st := widgetState(Options{
		"c": "dropdown",
		"a": "click->dropdown#toggle",
		"t": map[string]any{"dropdown": "menu"},
		"p": map[string]any{"dropdown": map[string]any{"url": "/items"}},
		"v": map[string]any{"dropdown": map[string]any{"open": false}},
	})
	applyLegacy(st)

	// Shorthand copies to the long keys; controller/action stay for the
	// attribute builder.
	if st.opts["controller"] != "dropdown" {
		t.Errorf("controller = %v; want dropdown", st.opts["controller"])
	}
	if st.opts["action"] != "click->dropdown#toggle" {
		t.Errorf("action = %v", st.opts["action"])
	}

	wantData := map[string]string{
		"dropdown-target":     "menu",
		"dropdown-url-param":  "/items",
		"dropdown-open-value": "false",
	}
	if !reflect.DeepEqual(st.data, wantData) {
		t.Errorf("data = %v; want %v", st.data, wantData)
	}

	for _, key := range []string{"c", "a", "t", "p", "v", "target", "params", "values"} {
		if _, ok := st.opts[key]; ok {
			t.Errorf("%s key should be consumed", key)
		}
	}
}

func TestShorthandWinsOverLongKey(t *testing.T) {
	st := widgetState(Options{"c": "short", "controller": "long"})
	applyLegacy(st)
	if st.opts["controller"] != "short" {
		t.Errorf("controller = %v; shorthand should win", st.opts["controller"])
	}
}

func TestCallerClassAndStyleSeedState(t *testing.T) {
	st := widgetState(Options{
		"class": "primary",
		"style": "color: red;",
		"data":  map[string]any{"x": 1},
	})
	applyLegacy(st)

	if got := st.classString(); got != "widget primary" {
		t.Errorf("class = %q; want %q", got, "widget primary")
	}
	if !strings.Contains(st.styleString(), "color: red") {
		t.Errorf("style = %q; want color fragment", st.styleString())
	}
	if st.data["x"] != "1" {
		t.Errorf("data.x = %q; want 1", st.data["x"])
	}
}
