// Package compkit turns a YAML component table into server-rendered HTML for
// Buffalo applications. Components are declared as configuration (tag, base
// class, variants, data-driven renderer) rather than templates, and can be
// rendered programmatically or written as <ck-*> tags that middleware
// expands before the response leaves the server.
//
// Compkit is designed around a few principles:
//   - Configuration over templates (one YAML table drives all markup)
//   - Server-side rendering first (no client runtime required)
//   - Personalization as data (agent preferences become CSS variables and
//     data attributes, never alternate code paths)
//   - Everything degrades gracefully (unknown variants, failed preference
//     lookups, and malformed calls fall back to base output)
//
// The main entry point is Wire(), which installs the expansion middleware,
// the agent-context middleware, and the template helpers in one call.
package compkit

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"os"

	"github.com/gobuffalo/buffalo"
	"github.com/gobuffalo/envy"

	"github.com/johnjansen/compkit/agentctx"
	"github.com/johnjansen/compkit/components"
)

// Config holds all configuration for compkit.
type Config struct {
	// DevMode adds component boundary comments to expanded HTML so rendered
	// fragments are traceable back to their <ck-*> tags.
	DevMode bool

	// ConfigPath points at the YAML component table. When empty, the
	// COMPKIT_CONFIG environment variable is consulted; when that is unset
	// or the file is missing, the embedded default table is used.
	ConfigPath string

	// Table supplies a pre-parsed component table directly, taking
	// precedence over ConfigPath.
	Table *components.ConfigTable

	// Bridge is the optional preference collaborator consulted for
	// agent-aware components. Failures are logged and rendering proceeds
	// with base configuration.
	Bridge components.PreferenceBridge

	// SessionTenant scopes agent-session resolution: a stored profile from
	// another tenant is ignored. Empty disables the check.
	SessionTenant string
}

// Kit holds references to compkit subsystems after wiring.
type Kit struct {
	// Components is the render registry. Use it directly from handlers:
	// kit.Components.Render(ctx, "hero", nil, opts)
	Components *components.Registry

	// Sessions stores agent profiles between requests. Put a profile and
	// hand its ID to the browser session as "agent_session_id".
	Sessions *agentctx.Store

	// Config that was used to wire compkit.
	Config Config
}

// Wire installs compkit into a Buffalo application:
//
//	kit, err := compkit.Wire(app, compkit.Config{DevMode: ENV == "development"})
//
// It loads and validates the component table, builds the registry, starts
// the agent profile store, and adds three pieces of middleware: agent
// context resolution, <ck-*> expansion, and the template helpers.
func Wire(app *buffalo.App, cfg Config) (*Kit, error) {
	table := cfg.Table
	if table == nil {
		path := cfg.ConfigPath
		if path == "" {
			path = envy.Get("COMPKIT_CONFIG", "")
		}
		if path != "" {
			loaded, err := components.LoadTable(path)
			if err != nil {
				// A missing file falls back to the embedded table; a
				// present-but-invalid one is a hard configuration error.
				if !errors.Is(err, os.ErrNotExist) {
					return nil, fmt.Errorf("compkit: %w", err)
				}
				table = components.DefaultTable()
			} else {
				table = loaded
			}
		} else {
			table = components.DefaultTable()
		}
	}

	registry := components.NewRegistry(table)
	if cfg.Bridge != nil {
		registry.SetBridge(cfg.Bridge)
	}

	kit := &Kit{
		Components: registry,
		Sessions:   agentctx.NewStore(agentctx.DefaultStoreConfig()),
		Config:     cfg,
	}

	// Resolve the browser session to an agent profile before anything
	// renders. The profile rides on the Buffalo context as "agent_context";
	// the expander and the helpers scope it onto the render context.
	app.Use(func(next buffalo.Handler) buffalo.Handler {
		return func(c buffalo.Context) error {
			if id, ok := c.Session().Get("agent_session_id").(string); ok && id != "" {
				if ac := kit.Sessions.Resolve(id, cfg.SessionTenant); ac != nil {
					c.Set("agent_context", ac)
				}
			}
			return next(c)
		}
	})

	app.Use(components.ExpanderMiddleware(registry, cfg.DevMode))

	// Template helpers, in the same spirit as Buffalo's own:
	//
	//	<%= component("hero", {"headline": "Welcome"}) %>
	app.Use(func(next buffalo.Handler) buffalo.Handler {
		return func(c buffalo.Context) error {
			c.Set("compkit", kit)

			c.Set("component", func(name string, opts map[string]any) template.HTML {
				html, err := registry.Render(renderContext(c), name, nil, components.Options(opts))
				if err != nil {
					return ""
				}
				return html
			})

			c.Set("agent_personality", func() string {
				if ac, ok := c.Value("agent_context").(*agentctx.Context); ok && ac != nil {
					return ac.Personality
				}
				return ""
			})

			return next(c)
		}
	})

	return kit, nil
}

// renderContext scopes the resolved agent profile (if any) onto the context
// handed to the render pipeline.
func renderContext(c buffalo.Context) context.Context {
	var ctx context.Context = c
	if ac, ok := c.Value("agent_context").(*agentctx.Context); ok && ac != nil {
		ctx = agentctx.With(ctx, ac)
	}
	return ctx
}

// Version returns the current compkit version.
func Version() string {
	return "0.1.0-alpha"
}
