package agentctx

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

func TestWithAndFrom(t *testing.T) {
	if From(context.Background()) != nil {
		t.Error("empty context should have no agent context")
	}
	if From(nil) != nil {
		t.Error("nil context should have no agent context")
	}

	ac := &Context{SessionID: "s1"}
	ctx := With(context.Background(), ac)
	if got := From(ctx); got != ac {
		t.Errorf("From = %v; want %v", got, ac)
	}
}

func TestScopedRestoration(t *testing.T) {
	outer := &Context{Personality: "outer"}
	inner := &Context{Personality: "inner"}

	ctx := With(context.Background(), outer)

	// A nested scope is a derived context; the parent keeps its value.
	nested := With(ctx, inner)
	if From(nested).Personality != "inner" {
		t.Error("nested scope should see the inner context")
	}
	if From(ctx).Personality != "outer" {
		t.Error("parent scope must be untouched by nesting")
	}
}

func TestScopedRestorationUnderError(t *testing.T) {
	outer := &Context{Personality: "outer"}
	ctx := With(context.Background(), outer)

	fail := func(ctx context.Context) error {
		ctx = With(ctx, &Context{Personality: "inner"})
		_ = From(ctx)
		return errors.New("boom")
	}

	if err := fail(ctx); err == nil {
		t.Fatal("expected error")
	}
	// Unwinding via error cannot leak the inner scope.
	if From(ctx).Personality != "outer" {
		t.Error("outer scope must survive an error unwind")
	}
}

func TestMergeChildWins(t *testing.T) {
	parent := &Context{
		SessionID:   "p",
		Personality: "formal",
		ThemePreferences: map[string]string{
			"accent":  "blue",
			"spacing": "1rem",
		},
		UIPreferences: map[string]any{"density": "cozy"},
	}
	child := &Context{
		Personality:      "playful",
		ThemePreferences: map[string]string{"accent": "red"},
	}

	merged := parent.Merge(child)

	if merged.Personality != "playful" {
		t.Errorf("Personality = %q; child should win", merged.Personality)
	}
	if merged.SessionID != "p" {
		t.Errorf("SessionID = %q; parent should fill gaps", merged.SessionID)
	}

	wantTheme := map[string]string{"accent": "red", "spacing": "1rem"}
	if !reflect.DeepEqual(merged.ThemePreferences, wantTheme) {
		t.Errorf("ThemePreferences = %v; want %v", merged.ThemePreferences, wantTheme)
	}
	if merged.UIPreferences["density"] != "cozy" {
		t.Errorf("UIPreferences = %v; parent keys should union in", merged.UIPreferences)
	}
}

func TestMergeLeavesInputsUntouched(t *testing.T) {
	parent := &Context{ThemePreferences: map[string]string{"accent": "blue"}}
	child := &Context{ThemePreferences: map[string]string{"accent": "red"}}

	_ = parent.Merge(child)

	if parent.ThemePreferences["accent"] != "blue" {
		t.Error("parent mutated by Merge")
	}
	if child.ThemePreferences["accent"] != "red" {
		t.Error("child mutated by Merge")
	}
}

func TestMergeNilOperands(t *testing.T) {
	parent := &Context{Personality: "p"}

	if got := parent.Merge(nil); got.Personality != "p" {
		t.Errorf("nil child should clone the parent, got %+v", got)
	}

	var none *Context
	if got := none.Merge(&Context{Personality: "c"}); got.Personality != "c" {
		t.Errorf("nil parent should clone the child, got %+v", got)
	}
}

type fullSource struct{}

func (fullSource) SessionID() string                   { return "sid" }
func (fullSource) Personality() string                 { return "warm" }
func (fullSource) ThemePreferences() map[string]string { return map[string]string{"a": "b"} }
func (fullSource) UIPreferences() map[string]any       { return map[string]any{"x": 1} }

type idOnlySource struct{}

func (idOnlySource) ID() string { return "legacy-id" }

func TestFromSource(t *testing.T) {
	ac := FromSource(fullSource{})
	if ac.SessionID != "sid" || ac.Personality != "warm" {
		t.Errorf("FromSource = %+v", ac)
	}
	if ac.ThemePreferences["a"] != "b" || ac.UIPreferences["x"] != 1 {
		t.Errorf("preferences not captured: %+v", ac)
	}

	// The historical ID() spelling is a fallback for SessionID().
	if got := FromSource(idOnlySource{}); got.SessionID != "legacy-id" {
		t.Errorf("SessionID = %q; want legacy-id", got.SessionID)
	}

	// A capability-free source yields an empty, usable context.
	if got := FromSource(struct{}{}); got == nil || got.SessionID != "" {
		t.Errorf("FromSource(struct{}{}) = %+v", got)
	}
	if FromSource(nil) == nil {
		t.Error("FromSource(nil) should be non-nil")
	}
}
