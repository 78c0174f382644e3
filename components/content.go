package components

import (
	"html/template"
	"strings"

	"github.com/sirupsen/logrus"
)

// heroTypeNames always classify as hero regardless of payload.
var heroTypeNames = map[string]bool{
	"hero": true, "banner": true, "jumbotron": true,
	"masthead": true, "showcase": true,
}

// nonHeroNames never classify as hero on payload heuristics alone. These are
// structural/control components where a stray title option must not flip the
// rendering path.
var nonHeroNames = map[string]bool{
	"button": true, "btn": true, "icon": true, "input": true, "form": true,
	"link": true, "table": true, "grid": true, "list": true, "badge": true,
	"chip": true, "avatar": true, "divider": true, "spinner": true,
	"tooltip": true, "dropdown": true, "menu": true, "nav": true,
	"navbar": true, "breadcrumb": true, "pagination": true, "footer": true,
	"label": true, "segment": true, "modal": true, "tabs": true,
	"accordion": true, "sidebar": true,
}

// isHeroComponent classifies a component as hero-type. The rules run in
// order; the first that applies decides.
func isHeroComponent(st *renderState) bool {
	name := st.name

	if heroTypeNames[name] || strings.Contains(name, "hero") {
		return true
	}
	// An explicit non-hero render method always wins.
	if m := st.def.RenderMethod; m != "" && m != "hero" {
		return false
	}
	if nonHeroNames[name] {
		return false
	}
	// Namespaced names ("nav.item") are never heroes by heuristic.
	if strings.Contains(name, ".") {
		return false
	}
	return firstOpt(st.opts, "headline", "title", "subtitle") != ""
}

// isDataDriven reports whether this invocation renders from structured data.
func isDataDriven(st *renderState) bool {
	if isHeroComponent(st) {
		return true
	}
	for _, key := range []string{"statistics", "cards", "items", "entries", "rows"} {
		if len(sliceOpt(st.opts, key)) > 0 {
			return true
		}
	}
	return st.def.DataDriven
}

type renderFunc func(st *renderState) template.HTML

// contentRenderers is the named-renderer table. Variant and definition
// render methods resolve against it; unknown names warn and fall through
// to the next routing rule.
var contentRenderers map[string]renderFunc

func init() {
	contentRenderers = map[string]renderFunc{
		"hero":       renderHero,
		"hero_video": renderHeroVideo,
		"hero_split": renderHeroSplit,
		"statistics": renderStatistics,
		"cards":      renderCards,
		"grid":       renderGrid,
		"list":       renderList,
		"accordion":  renderAccordion,
		"tabs":       renderTabs,
		"table":      renderTable,
		"timeline":   renderTimeline,
		"split":      renderSplit,
		"sidebar":    renderSidebar,
		"modal":      renderModal,
		"article":    renderArticle,
		"generic":    renderGeneric,
	}
}

// dispatchContent decides where an invocation's content comes from: an
// explicit block, structured data, literal text, or nothing. Exactly one
// path runs; content is never double-rendered.
func dispatchContent(st *renderState, log logrus.FieldLogger) template.HTML {
	if st.block != nil {
		return st.block()
	}
	if isDataDriven(st) {
		return routeDataDriven(st, log)
	}
	if text := stringOpt(st.opts, "text"); text != "" {
		return template.HTML(template.HTMLEscapeString(text))
	}
	return ""
}

// routeDataDriven picks exactly one named renderer per invocation.
// Priority: active variant's render method, then the definition's, then the
// hero heuristic, then the component's literal name, then generic.
func routeDataDriven(st *renderState, log logrus.FieldLogger) template.HTML {
	if st.variant != nil && st.variant.RenderMethod != "" {
		if fn, ok := contentRenderers[st.variant.RenderMethod]; ok {
			return fn(st)
		}
		log.WithFields(logrus.Fields{
			"component": st.name,
			"variant":   st.variantName,
			"method":    st.variant.RenderMethod,
		}).Warn("unknown variant render method")
	}

	if m := st.def.RenderMethod; m != "" {
		if fn, ok := contentRenderers[m]; ok {
			return fn(st)
		}
		log.WithFields(logrus.Fields{
			"component": st.name,
			"method":    m,
		}).Warn("unknown render method")
	}

	if isHeroComponent(st) {
		return renderHero(st)
	}

	switch st.name {
	case "statistics":
		return renderStatistics(st)
	case "cards":
		return renderCards(st)
	case "grid":
		return renderGrid(st)
	case "list":
		return renderList(st)
	}
	return renderGeneric(st)
}
