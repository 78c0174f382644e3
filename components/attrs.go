package components

import (
	"fmt"
	"strings"

	"github.com/gobuffalo/tags/v3"
)

// dataDrivenKeys are option keys that carry structured content for the
// dispatcher. They must never leak into the HTML attribute set: for every
// invocation the attributes handed to the tag builder and the content
// consumed by the dispatcher are disjoint in these keys.
var dataDrivenKeys = map[string]bool{
	"headline": true, "title": true, "subtitle": true, "description": true,
	"text": true, "section_title": true, "section_subtitle": true,
	"statistics": true, "cards": true, "items": true, "entries": true,
	"rows": true, "headers": true, "columns": true, "sections": true,
	"tabs": true, "events": true, "layout": true,
	"cta_text": true, "cta_url": true, "button_text": true, "button_link": true,
	"secondary_cta_text": true, "secondary_cta_url": true,
	"background_image": true, "image_url": true, "media_url": true,
	"video_url": true, "poster": true, "reverse": true, "reversed": true,
	"left": true, "right": true, "content": true, "image": true,
	"main": true, "sidebar": true, "aside": true, "sidebar_position": true,
	"body": true, "author": true, "date": true, "published_at": true,
	"featured_image": true, "meta": true, "link": true, "icon": true,
	"color": true, "label": true, "value": true, "time": true,
}

// heroGradient is the fixed dark overlay layered over hero background images.
const heroGradient = "--hero-overlay: linear-gradient(rgba(15, 23, 42, 0.55), rgba(15, 23, 42, 0.85))"

// buildAttributes converts the fully processed render state into the tag
// name and attribute set for the tag builder. This is the last stage before
// rendering; everything left in st.opts that isn't structured content or a
// pipeline key passes through as a plain attribute.
func buildAttributes(st *renderState) (string, tags.Options) {
	attrs := tags.Options{}

	// Tag resolution: an explicit tag option overrides the definition, so
	// the same logical component can render as a different element.
	tagName := st.def.Tag
	if t := stringOpt(st.opts, "tag"); t != "" {
		tagName = t
	}
	delete(st.opts, "tag")

	// Controller resolution: explicit option, else active variant, else
	// definition. The resolved controller appends to any existing
	// data.controller rather than replacing it.
	controller := stringOpt(st.opts, "controller")
	if controller == "" && st.variant != nil {
		controller = st.variant.StimulusController
	}
	if controller == "" {
		controller = st.def.StimulusController
	}
	delete(st.opts, "controller")
	if controller != "" {
		st.data["controller"] = joinWords(st.data["controller"], controller)
	}

	// Action resolution works the same way, minus the variant hop.
	if action := stringOpt(st.opts, "action"); action != "" {
		st.data["action"] = joinWords(st.data["action"], action)
	}
	delete(st.opts, "action")

	// Hero background: CSS variable fragments append after normal style
	// assembly so they stay last in the override order.
	if isHeroComponent(st) {
		if bg := firstOpt(st.opts, "background_image", "image_url"); bg != "" {
			st.addStyle(fmt.Sprintf("--hero-bg-image: url('%s')", bg))
			st.addStyle(heroGradient)
		}
	}

	// Pass through remaining options, stripping structured-content keys and
	// slot payloads extracted by the tag expander.
	for key, value := range st.opts {
		if dataDrivenKeys[key] || strings.HasPrefix(key, "slot_") {
			continue
		}
		attrs[key] = value
	}

	if cls := st.classString(); cls != "" {
		attrs["class"] = cls
	}
	if style := st.styleString(); style != "" {
		attrs["style"] = style
	}

	// Input components carry their configured type unless the caller set one.
	if st.def.Type != "" {
		if _, set := attrs["type"]; !set {
			attrs["type"] = st.def.Type
		}
	}

	// The data accumulator always exists; it fans out to data-* attributes
	// here since the tag builder works on flat attribute names.
	if st.def.CSSLayer != "" {
		st.data["css-layer"] = st.def.CSSLayer
	}
	if st.def.AIControllable {
		st.data["ai-controllable"] = "true"
		st.data["ai-commands"] = strings.Join(st.def.AICommands, ",")
	}
	for k, v := range st.data {
		attrs["data-"+k] = v
	}

	return tagName, attrs
}
