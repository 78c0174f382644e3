package components

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/johnjansen/compkit/agentctx"
)

// applyAgentContext layers the ambient agent profile onto an agent-aware
// component: session/personality metadata into data, theme preferences into
// CSS variables, UI preferences into data attributes. Components that are
// not agent-aware ignore the ambient context entirely.
func applyAgentContext(ctx context.Context, st *renderState) {
	if !st.def.AgentAware {
		return
	}
	ac := agentctx.From(ctx)
	if ac == nil {
		return
	}

	if ac.SessionID != "" {
		st.data["agent-session"] = ac.SessionID
	}
	if ac.Personality != "" {
		st.data["personality"] = ac.Personality
	}

	keys := make([]string, 0, len(ac.ThemePreferences))
	for k := range ac.ThemePreferences {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		st.addStyle(fmt.Sprintf("--theme-%s: %s", slugifyToken(k), ac.ThemePreferences[k]))
	}

	prefKeys := make([]string, 0, len(ac.UIPreferences))
	for k := range ac.UIPreferences {
		prefKeys = append(prefKeys, k)
	}
	sort.Strings(prefKeys)
	for _, k := range prefKeys {
		switch v := ac.UIPreferences[k].(type) {
		case map[string]any:
			// One level of nesting fans out ("motion: {reduce: true}" ->
			// data-pref-motion-reduce).
			nested := make([]string, 0, len(v))
			for nk := range v {
				nested = append(nested, nk)
			}
			sort.Strings(nested)
			for _, nk := range nested {
				st.data["pref-"+slugifyToken(k)+"-"+slugifyToken(nk)] = fmt.Sprint(v[nk])
			}
		default:
			st.data["pref-"+slugifyToken(k)] = fmt.Sprint(v)
		}
	}
}

// slugifyToken makes a preference key safe for data-attribute names.
func slugifyToken(s string) string {
	return strings.ReplaceAll(slugify(s), "_", "-")
}

// PreferenceBridge is the optional collaborator that turns learned agent
// preferences into concrete render hints for one component invocation.
// Any failure is caught and logged; rendering proceeds with the base
// configuration only.
type PreferenceBridge interface {
	Apply(ctx context.Context, req BridgeRequest) (BridgeResponse, error)
}

// BridgeRequest describes the invocation being personalized.
type BridgeRequest struct {
	ComponentType string
	BaseConfig    ComponentDefinition
	ComponentData Options
}

// PreferencesApplied reports which preference sources influenced the result.
type PreferencesApplied struct {
	Learned bool
	ABTest  bool
}

// AttributeHints groups bridge attribute output by category. Each category
// has a fixed key vocabulary; unknown keys are ignored.
type AttributeHints struct {
	Layout        map[string]any
	Animation     map[string]any
	Accessibility map[string]any
	Responsive    map[string]any
	Interaction   map[string]any
}

// BridgeRendered carries the bridge's concrete output.
type BridgeRendered struct {
	ThemeVariables map[string]string
	HTMLAttributes AttributeHints
}

// BridgeResponse is the full bridge result.
type BridgeResponse struct {
	PreferencesApplied PreferencesApplied
	Rendered           BridgeRendered
}

// Fixed fan-out vocabularies per category: bridge key -> attribute name.
// Accessibility keys become real attributes (role/aria-*/tabindex);
// everything else becomes data-*.
var (
	bridgeLayoutKeys = map[string]string{
		"layout":         "data-layout",
		"flex-direction": "data-flex-direction",
		"justify":        "data-justify",
		"align":          "data-align",
		"grid-cols":      "data-grid-cols",
		"gap":            "data-gap",
	}
	bridgeAnimationKeys = map[string]string{
		"animation":  "data-animation",
		"duration":   "data-animation-duration",
		"delay":      "data-animation-delay",
		"transition": "data-transition",
	}
	bridgeAccessibilityKeys = map[string]string{
		"role":             "role",
		"aria-label":       "aria-label",
		"aria-labelledby":  "aria-labelledby",
		"aria-describedby": "aria-describedby",
		"aria-expanded":    "aria-expanded",
		"aria-hidden":      "aria-hidden",
		"aria-live":        "aria-live",
		"tabindex":         "tabindex",
	}
	bridgeResponsiveKeys = map[string]string{
		"responsive":      "data-responsive",
		"mobile-visible":  "data-mobile-visible",
		"tablet-visible":  "data-tablet-visible",
		"desktop-visible": "data-desktop-visible",
		"breakpoint":      "data-breakpoint",
	}
	bridgeInteractionKeys = map[string]string{
		"interactive":  "data-interactive",
		"hover-effect": "data-hover-effect",
		"focus-style":  "data-focus-style",
		"click-action": "data-click-action",
		"touch-target": "data-touch-target",
	}
)

// applyPreferenceBridge consults the bridge for an agent-aware component and
// merges its output into the render state. Only theme variables carrying the
// component's own prefix ("--<name>-") land in style; attribute hints fan
// out per the fixed category vocabularies.
func applyPreferenceBridge(ctx context.Context, st *renderState, bridge PreferenceBridge, log logrus.FieldLogger) {
	if bridge == nil || !st.def.AgentAware {
		return
	}

	resp, err := bridge.Apply(ctx, BridgeRequest{
		ComponentType: st.name,
		BaseConfig:    st.def,
		ComponentData: st.opts,
	})
	if err != nil {
		log.WithFields(logrus.Fields{
			"component": st.name,
		}).WithError(err).Warn("preference bridge failed, rendering base configuration")
		return
	}

	prefix := "--" + strings.ReplaceAll(st.name, "_", "-") + "-"
	vars := make([]string, 0, len(resp.Rendered.ThemeVariables))
	for k := range resp.Rendered.ThemeVariables {
		if strings.HasPrefix(k, prefix) {
			vars = append(vars, k)
		}
	}
	sort.Strings(vars)
	for _, k := range vars {
		st.addStyle(fmt.Sprintf("%s: %s", k, resp.Rendered.ThemeVariables[k]))
	}

	hints := resp.Rendered.HTMLAttributes
	fanOutHints(st, hints.Layout, bridgeLayoutKeys)
	fanOutHints(st, hints.Animation, bridgeAnimationKeys)
	fanOutHints(st, hints.Accessibility, bridgeAccessibilityKeys)
	fanOutHints(st, hints.Responsive, bridgeResponsiveKeys)
	fanOutHints(st, hints.Interaction, bridgeInteractionKeys)
}

func fanOutHints(st *renderState, hints map[string]any, vocab map[string]string) {
	for key, value := range hints {
		attr, known := vocab[key]
		if !known || value == nil {
			continue
		}
		if strings.HasPrefix(attr, "data-") {
			st.data[strings.TrimPrefix(attr, "data-")] = fmt.Sprint(value)
		} else {
			// Real attributes (role/aria-*/tabindex) pass through the
			// options so the attribute builder emits them top-level.
			st.opts[attr] = fmt.Sprint(value)
		}
	}
}
