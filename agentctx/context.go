// Package agentctx carries per-request agent (caller) personality and
// preference data through the rendering pipeline. A Context describes who
// the markup is being rendered for; agent-aware components read it to emit
// personalized theme variables and data attributes.
//
// Scoping is request-scoped, not global: the current Context rides on a
// context.Context, so entering a nested scope and unwinding (including
// unwinding via error) always restores exactly the value that was current
// before. There is no save/restore bookkeeping to get wrong.
package agentctx

import (
	"context"

	"dario.cat/mergo"
)

// Context is an immutable per-request agent profile. Merge produces a new
// instance rather than mutating; nothing in the render path writes to one.
type Context struct {
	// SessionID identifies the agent session this profile came from.
	SessionID string

	// Personality is a free-form style descriptor ("concise", "playful")
	// surfaced to components as data-personality.
	Personality string

	// ThemePreferences map theme tokens to values and are emitted as CSS
	// variables on agent-aware components.
	ThemePreferences map[string]string

	// UIPreferences hold structural preferences (density, motion, layout
	// hints). Values are mixed scalars/mappings.
	UIPreferences map[string]any
}

// Merge composes a parent scope with a child scope: child values win,
// preference maps are unioned (child keys kept, missing keys filled from
// the parent). Both inputs are left untouched.
func (c *Context) Merge(child *Context) *Context {
	if child == nil {
		return c.clone()
	}
	merged := child.clone()
	if c != nil {
		// Fill-empty merge: anything the child didn't set comes from the
		// parent, and map keys union without overriding the child's.
		_ = mergo.Merge(merged, *c)
	}
	return merged
}

func (c *Context) clone() *Context {
	if c == nil {
		return &Context{}
	}
	out := &Context{
		SessionID:   c.SessionID,
		Personality: c.Personality,
	}
	if c.ThemePreferences != nil {
		out.ThemePreferences = make(map[string]string, len(c.ThemePreferences))
		for k, v := range c.ThemePreferences {
			out.ThemePreferences[k] = v
		}
	}
	if c.UIPreferences != nil {
		out.UIPreferences = make(map[string]any, len(c.UIPreferences))
		for k, v := range c.UIPreferences {
			out.UIPreferences[k] = v
		}
	}
	return out
}

type contextKey struct{}

// With returns a context carrying ac as the current agent context. The
// previous value is untouched in the parent context, so exiting the scope
// is just dropping the derived context.
func With(ctx context.Context, ac *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

// From returns the current agent context, or nil when none is in scope.
func From(ctx context.Context) *Context {
	if ctx == nil {
		return nil
	}
	ac, _ := ctx.Value(contextKey{}).(*Context)
	return ac
}

// The narrow source adapter. Arbitrary session/profile objects expose at
// most these four capabilities; absence of any is normal and defaults the
// field, never errors.

// SessionIDProvider exposes an agent session identifier.
type SessionIDProvider interface {
	SessionID() string
}

// IDProvider is the historical spelling some session objects use.
type IDProvider interface {
	ID() string
}

// PersonalityProvider exposes a personality descriptor.
type PersonalityProvider interface {
	Personality() string
}

// ThemePreferenceProvider exposes theme token preferences.
type ThemePreferenceProvider interface {
	ThemePreferences() map[string]string
}

// UIPreferenceProvider exposes structural UI preferences.
type UIPreferenceProvider interface {
	UIPreferences() map[string]any
}

// FromSource builds a Context from any object exposing some subset of the
// provider capabilities. A source with none of them yields an empty
// (but non-nil) Context.
func FromSource(src any) *Context {
	ac := &Context{}
	if src == nil {
		return ac
	}

	if p, ok := src.(SessionIDProvider); ok {
		ac.SessionID = p.SessionID()
	} else if p, ok := src.(IDProvider); ok {
		ac.SessionID = p.ID()
	}
	if p, ok := src.(PersonalityProvider); ok {
		ac.Personality = p.Personality()
	}
	if p, ok := src.(ThemePreferenceProvider); ok {
		ac.ThemePreferences = p.ThemePreferences()
	}
	if p, ok := src.(UIPreferenceProvider); ok {
		ac.UIPreferences = p.UIPreferences()
	}
	return ac
}
