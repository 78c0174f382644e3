// Package components implements a declarative, configuration-driven HTML
// component factory for Buffalo applications. Markup is produced from short
// component names ("widget", "card", "hero") whose tag, classes, data
// attributes, and nested-content rendering all come from a YAML table rather
// than hardcoded templates.
//
// The pipeline for every invocation:
//
//	Normalize -> legacy compat transforms -> variant overlay ->
//	agent-context enhancement -> attribute build + content dispatch -> tag
//
// Components can be rendered programmatically:
//
//	html, err := registry.Render(ctx, "card", nil, components.Options{
//	    "variant": "featured",
//	    "cards":   []any{...},
//	})
//
// or declaratively from templates via <ck-*> tags expanded by the response
// middleware (see expander.go):
//
//	<ck-button variant="primary" name="Save">Save changes</ck-button>
//
// The component table is replaced wholesale on reconfiguration; renders in
// flight observe either the old table or the new one, never a mix.
package components

import (
	"context"
	"fmt"
	"html/template"
	"sort"
	"sync/atomic"

	"github.com/gobuffalo/tags/v3"
	"github.com/gobuffalo/tags/v3/form"
	"github.com/sirupsen/logrus"
)

// ComponentError is the only error surfaced from the hot render path. It is
// fatal to the single invocation that raised it and propagates to the
// caller; soft conditions (unknown variant, unknown render method, bridge
// failure) log and fall back instead.
type ComponentError struct {
	Component string
	Reason    string
}

func (e *ComponentError) Error() string {
	return fmt.Sprintf("components: %s: %s", e.Component, e.Reason)
}

// Registry resolves component names to definitions and drives the render
// pipeline. The definition table is an immutable snapshot swapped atomically
// by Reconfigure, so concurrent renders never see a partially built table.
type Registry struct {
	table  atomic.Pointer[ConfigTable]
	log    logrus.FieldLogger
	bridge PreferenceBridge
}

// NewRegistry creates a registry over a validated config table. Pass
// DefaultTable() for the embedded zero-configuration table.
func NewRegistry(table *ConfigTable) *Registry {
	r := &Registry{log: logrus.New()}
	if table == nil {
		table = DefaultTable()
	}
	r.table.Store(table)
	return r
}

// SetLogger replaces the registry's logger. Wire() points this at the
// Buffalo app logger.
func (r *Registry) SetLogger(log logrus.FieldLogger) {
	if log != nil {
		r.log = log
	}
}

// SetBridge installs the optional preference-bridge collaborator consulted
// for agent-aware components.
func (r *Registry) SetBridge(bridge PreferenceBridge) {
	r.bridge = bridge
}

// Reconfigure swaps in a new component table wholesale. Readers racing the
// swap observe the fully-old or fully-new table.
func (r *Registry) Reconfigure(table *ConfigTable) error {
	if table == nil {
		return fmt.Errorf("components: nil config table")
	}
	if err := ValidateTable(table); err != nil {
		return err
	}
	r.table.Store(table)
	return nil
}

// Definition looks up a component definition by name.
func (r *Registry) Definition(name string) (ComponentDefinition, bool) {
	def, ok := r.table.Load().UI[name]
	return def, ok
}

// Names returns the registered component names, sorted.
func (r *Registry) Names() []string {
	table := r.table.Load()
	names := make([]string, 0, len(table.UI))
	for name := range table.UI {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Render renders a component from positional args plus an options mapping,
// supporting every historical calling convention (see Normalize). Content
// comes from structured data options or a literal text option.
func (r *Registry) Render(ctx context.Context, name string, args []any, kwargs Options) (template.HTML, error) {
	return r.render(ctx, name, args, kwargs, nil)
}

// RenderBlock renders a component around explicit nested content. Block
// content bypasses the data-driven dispatcher entirely.
func (r *Registry) RenderBlock(ctx context.Context, name string, kwargs Options, block func() template.HTML) (template.HTML, error) {
	return r.render(ctx, name, nil, kwargs, block)
}

func (r *Registry) render(ctx context.Context, name string, args []any, kwargs Options, block func() template.HTML) (template.HTML, error) {
	def, ok := r.Definition(name)
	if !ok {
		return "", &ComponentError{Component: name, Reason: "unknown component"}
	}
	if def.Tag == "" {
		return "", &ComponentError{Component: name, Reason: "definition has no tag"}
	}

	st := newRenderState(name, def, Normalize(args, kwargs))
	st.block = block

	applyLegacy(st)
	applyVariant(st, r.log)
	applyAgentContext(ctx, st)
	applyPreferenceBridge(ctx, st, r.bridge, r.log)

	content := dispatchContent(st, r.log)
	tagName, attrs := buildAttributes(st)

	return buildTag(name, tagName, attrs, content), nil
}

// buildTag hands off to the render primitive. Forms go through the form
// builder; everything else (anchors included) through the generic tag
// builder.
func buildTag(name, tagName string, attrs tags.Options, content template.HTML) template.HTML {
	if name == "form" || tagName == "form" {
		f := form.New(attrs)
		if content != "" {
			f.Append(content)
		}
		return f.HTML()
	}

	t := tags.New(tagName, attrs)
	if content != "" {
		t.Append(content)
	}
	return t.HTML()
}
