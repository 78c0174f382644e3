package components

import (
	"fmt"
	"html/template"
	"regexp"
	"sort"

	"github.com/gobuffalo/tags/v3"
	"github.com/spf13/cast"
)

// The renderers below all follow the same tolerance contract: a missing
// optional field omits its markup fragment, and an empty top-level
// collection renders nothing at all (empty output, never an error).

func esc(s string) string {
	return template.HTMLEscapeString(s)
}

// textTag builds an element with a class and escaped text content.
func textTag(name, class, text string) *tags.Tag {
	t := tags.New(name, tags.Options{"class": class})
	t.Append(esc(text))
	return t
}

func truthy(v any) bool {
	if v == nil {
		return false
	}
	return cast.ToBool(fmt.Sprint(v))
}

// maxColumns caps grid/card column counts.
const maxColumns = 4

func columnCount(n int) int {
	if n > maxColumns {
		return maxColumns
	}
	return n
}

// heroContent builds the inner hero block: headline, subtitle, CTA group.
// Any element whose required text+url pair is incomplete is omitted. Returns
// nil when every field is absent.
func heroContent(st *renderState) *tags.Tag {
	headline := firstOpt(st.opts, "headline", "title")
	subtitle := firstOpt(st.opts, "subtitle", "description")
	ctaText := firstOpt(st.opts, "cta_text", "button_text")
	ctaURL := firstOpt(st.opts, "cta_url", "button_link")
	secondaryText := stringOpt(st.opts, "secondary_cta_text")
	secondaryURL := stringOpt(st.opts, "secondary_cta_url")

	content := tags.New("div", tags.Options{"class": "hero-content"})
	empty := true

	if headline != "" {
		content.Append(textTag("h1", "hero-headline", headline))
		empty = false
	}
	if subtitle != "" {
		content.Append(textTag("p", "hero-subtitle", subtitle))
		empty = false
	}

	cta := tags.New("div", tags.Options{"class": "hero-cta"})
	hasCTA := false
	if ctaText != "" && ctaURL != "" {
		primary := tags.New("a", tags.Options{"class": "hero-btn hero-btn--primary", "href": ctaURL})
		primary.Append(esc(ctaText))
		cta.Append(primary)
		hasCTA = true
	}
	if secondaryText != "" && secondaryURL != "" {
		secondary := tags.New("a", tags.Options{"class": "hero-btn hero-btn--secondary", "href": secondaryURL})
		secondary.Append(esc(secondaryText))
		cta.Append(secondary)
		hasCTA = true
	}
	if hasCTA {
		content.Append(cta)
		empty = false
	}

	if empty {
		return nil
	}
	return content
}

// renderHero emits the standard hero block. The background-image style is
// the attribute builder's job: it lands on the outer container, not here.
func renderHero(st *renderState) template.HTML {
	content := heroContent(st)
	if content == nil {
		return ""
	}
	return content.HTML()
}

// renderHeroVideo layers a video element beneath the standard hero block.
func renderHeroVideo(st *renderState) template.HTML {
	var out template.HTML

	if videoURL := stringOpt(st.opts, "video_url"); videoURL != "" {
		opts := tags.Options{
			"class":       "hero-video",
			"autoplay":    "autoplay",
			"muted":       "muted",
			"loop":        "loop",
			"playsinline": "playsinline",
		}
		if poster := stringOpt(st.opts, "poster"); poster != "" {
			opts["poster"] = poster
		}
		video := tags.New("video", opts)
		video.Append(tags.New("source", tags.Options{"src": videoURL}))
		out += video.HTML()
	}

	if content := heroContent(st); content != nil {
		out += content.HTML()
	}
	return out
}

// renderHeroSplit emits a two-column hero: content column plus media column.
// The reverse flag swaps visual order with a class modifier only; the DOM
// column order stays fixed.
func renderHeroSplit(st *renderState) template.HTML {
	content := heroContent(st)
	media := firstOpt(st.opts, "media_url", "image_url", "background_image")
	if content == nil && media == "" {
		return ""
	}

	class := "hero-split"
	if truthy(st.opts["reverse"]) {
		class += " hero-split--reverse"
	}
	wrap := tags.New("div", tags.Options{"class": class})

	contentCol := tags.New("div", tags.Options{"class": "hero-split-content"})
	if content != nil {
		contentCol.Append(content)
	}
	wrap.Append(contentCol)

	if media != "" {
		mediaCol := tags.New("div", tags.Options{"class": "hero-split-media"})
		imgOpts := tags.Options{"src": media}
		if alt := firstOpt(st.opts, "headline", "title"); alt != "" {
			imgOpts["alt"] = alt
		}
		mediaCol.Append(tags.New("img", imgOpts))
		wrap.Append(mediaCol)
	}

	return wrap.HTML()
}

// renderStatistics emits a grid of stat items with optional section heading.
func renderStatistics(st *renderState) template.HTML {
	stats := sliceOpt(st.opts, "statistics")
	if len(stats) == 0 {
		return ""
	}

	var out template.HTML
	if title := stringOpt(st.opts, "section_title"); title != "" {
		out += textTag("h2", "section-title", title).HTML()
	}

	layout := stringOpt(st.opts, "layout")
	if layout == "" {
		layout = "horizontal"
	}
	grid := tags.New("div", tags.Options{"class": "stats-grid stats-grid--" + layout})

	for _, item := range stats {
		stat := tags.New("div", tags.Options{"class": "stat-item"})
		if icon := itemString(item, "icon"); icon != "" {
			stat.Append(tags.New("i", tags.Options{"class": "stat-icon " + icon}))
		}
		valueOpts := tags.Options{"class": "stat-value"}
		if color := itemString(item, "color"); color != "" {
			valueOpts["style"] = "color: " + color
		}
		value := tags.New("span", valueOpts)
		value.Append(esc(itemString(item, "value")))
		stat.Append(value)
		if label := itemString(item, "label"); label != "" {
			stat.Append(textTag("span", "stat-label", label))
		}
		grid.Append(stat)
	}

	return out + grid.HTML()
}

// renderCards emits a card grid, column count clamped to four, with an
// optional section header block.
func renderCards(st *renderState) template.HTML {
	cardsData := sliceOpt(st.opts, "cards")
	if len(cardsData) == 0 {
		return ""
	}

	var out template.HTML
	title := stringOpt(st.opts, "section_title")
	subtitle := stringOpt(st.opts, "section_subtitle")
	if title != "" || subtitle != "" {
		header := tags.New("div", tags.Options{"class": "section-header"})
		if title != "" {
			header.Append(textTag("h2", "section-title", title))
		}
		if subtitle != "" {
			header.Append(textTag("p", "section-subtitle", subtitle))
		}
		out += header.HTML()
	}

	grid := tags.New("div", tags.Options{
		"class": fmt.Sprintf("cards-grid cards-grid--cols-%d", columnCount(len(cardsData))),
	})

	for _, item := range cardsData {
		card := tags.New("div", tags.Options{"class": "card"})
		if image := itemString(item, "image"); image != "" {
			imgOpts := tags.Options{"class": "card-image", "src": image}
			if alt := itemString(item, "title", "header"); alt != "" {
				imgOpts["alt"] = alt
			}
			card.Append(tags.New("img", imgOpts))
		}

		body := tags.New("div", tags.Options{"class": "card-body"})
		if cardTitle := itemString(item, "title", "header"); cardTitle != "" {
			body.Append(textTag("h3", "card-title", cardTitle))
		}
		if desc := itemString(item, "description"); desc != "" {
			body.Append(textTag("p", "card-description", desc))
		}
		if meta := itemString(item, "meta"); meta != "" {
			body.Append(textTag("div", "card-meta", meta))
		}
		if link := itemString(item, "link"); link != "" {
			linkText := itemString(item, "link_text")
			if linkText == "" {
				linkText = "Learn more"
			}
			anchor := tags.New("a", tags.Options{"class": "card-link", "href": link})
			anchor.Append(esc(linkText))
			body.Append(anchor)
		}
		card.Append(body)
		grid.Append(card)
	}

	return out + grid.HTML()
}

// gridItems builds the shared item markup for grid and list layouts. Items
// may be plain scalars or mappings.
func gridItems(items []any, itemClass string) []*tags.Tag {
	built := make([]*tags.Tag, 0, len(items))
	for _, item := range items {
		node := tags.New("div", tags.Options{"class": itemClass})
		if m := asOptions(item); m != nil {
			if icon := firstOpt(m, "icon"); icon != "" {
				node.Append(tags.New("i", tags.Options{"class": "item-icon " + icon}))
			}
			if title := firstOpt(m, "title", "header"); title != "" {
				node.Append(textTag("h4", "item-title", title))
			}
			if desc := firstOpt(m, "description", "content"); desc != "" {
				node.Append(textTag("p", "item-description", desc))
			}
		} else {
			node.Append(textTag("p", "item-text", fmt.Sprint(item)))
		}
		built = append(built, node)
	}
	return built
}

// renderGrid emits an item grid, columns clamped to four.
func renderGrid(st *renderState) template.HTML {
	items := sliceOpt(st.opts, "items")
	if len(items) == 0 {
		return ""
	}

	var out template.HTML
	if title := stringOpt(st.opts, "section_title"); title != "" {
		out += textTag("h2", "section-title", title).HTML()
	}

	grid := tags.New("div", tags.Options{
		"class": fmt.Sprintf("item-grid item-grid--cols-%d", columnCount(len(items))),
	})
	for _, node := range gridItems(items, "grid-item") {
		grid.Append(node)
	}
	return out + grid.HTML()
}

// renderList is the vertical counterpart of renderGrid.
func renderList(st *renderState) template.HTML {
	items := sliceOpt(st.opts, "items")
	if len(items) == 0 {
		return ""
	}

	var out template.HTML
	if title := stringOpt(st.opts, "section_title"); title != "" {
		out += textTag("h2", "section-title", title).HTML()
	}

	list := tags.New("div", tags.Options{"class": "item-list"})
	for _, node := range gridItems(items, "list-item") {
		list.Append(node)
	}
	return out + list.HTML()
}

// renderAccordion emits a toggle list. Items without a title get a
// positional fallback ("Item 1", "Item 2", ...).
func renderAccordion(st *renderState) template.HTML {
	items := firstSlice(st.opts, "items", "sections")
	if len(items) == 0 {
		return ""
	}

	wrap := tags.New("div", tags.Options{"class": "accordion-items"})
	for i, item := range items {
		title := itemString(item, "title", "header")
		if title == "" {
			title = fmt.Sprintf("Item %d", i+1)
		}

		node := tags.New("div", tags.Options{"class": "accordion-item"})
		trigger := tags.New("button", tags.Options{
			"class":         "accordion-trigger",
			"type":          "button",
			"aria-expanded": "false",
		})
		trigger.Append(esc(title))
		node.Append(trigger)

		panel := tags.New("div", tags.Options{"class": "accordion-panel", "hidden": "hidden"})
		if content := itemString(item, "content", "description"); content != "" {
			panel.Append(esc(content))
		}
		node.Append(panel)
		wrap.Append(node)
	}
	return wrap.HTML()
}

// renderTabs emits a tab header row plus panel set; the first tab is active.
func renderTabs(st *renderState) template.HTML {
	items := firstSlice(st.opts, "tabs", "items")
	if len(items) == 0 {
		return ""
	}

	list := tags.New("div", tags.Options{"class": "tab-list", "role": "tablist"})
	panels := tags.New("div", tags.Options{"class": "tab-panels"})

	for i, item := range items {
		label := itemString(item, "label", "title")
		if label == "" {
			label = fmt.Sprintf("Tab %d", i+1)
		}

		tabClass := "tab"
		panelClass := "tab-panel"
		if i == 0 {
			tabClass += " tab--active"
			panelClass += " tab-panel--active"
		}

		tab := tags.New("button", tags.Options{
			"class": tabClass,
			"type":  "button",
			"role":  "tab",
		})
		tab.Append(esc(label))
		list.Append(tab)

		panel := tags.New("div", tags.Options{"class": panelClass, "role": "tabpanel"})
		if content := itemString(item, "content", "description"); content != "" {
			panel.Append(esc(content))
		}
		panels.Append(panel)
	}

	return list.HTML() + panels.HTML()
}

// renderTable emits a table from rows plus optional headers. Empty rows mean
// no output at all, even when headers are given.
func renderTable(st *renderState) template.HTML {
	rows := sliceOpt(st.opts, "rows")
	if len(rows) == 0 {
		return ""
	}

	headers := firstSlice(st.opts, "headers", "columns")
	table := tags.New("table", tags.Options{"class": "table"})

	if len(headers) > 0 {
		thead := tags.New("thead", tags.Options{})
		tr := tags.New("tr", tags.Options{})
		for _, h := range headers {
			tr.Append(textTag("th", "", fmt.Sprint(h)))
		}
		thead.Append(tr)
		table.Append(thead)
	}

	tbody := tags.New("tbody", tags.Options{})
	for _, row := range rows {
		tr := tags.New("tr", tags.Options{})
		for _, cell := range tableCells(row, headers) {
			td := tags.New("td", tags.Options{})
			td.Append(esc(cell))
			tr.Append(td)
		}
		tbody.Append(tr)
	}
	table.Append(tbody)

	return table.HTML()
}

// tableCells flattens one row into cell strings. Mapping rows follow header
// order when headers exist (matched by slug), otherwise sorted key order;
// sequence rows keep their order; anything else is a single cell.
func tableCells(row any, headers []any) []string {
	if m := asOptions(row); m != nil {
		if len(headers) > 0 {
			cells := make([]string, 0, len(headers))
			for _, h := range headers {
				key := slugify(fmt.Sprint(h))
				cells = append(cells, fmt.Sprint(valueOrBlank(m, key)))
			}
			return cells
		}
		keys := make([]string, 0, len(m))
		for k := range m {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		cells := make([]string, 0, len(keys))
		for _, k := range keys {
			cells = append(cells, fmt.Sprint(m[k]))
		}
		return cells
	}

	if seq, ok := row.([]any); ok {
		cells := make([]string, 0, len(seq))
		for _, c := range seq {
			cells = append(cells, fmt.Sprint(c))
		}
		return cells
	}

	return []string{fmt.Sprint(row)}
}

func valueOrBlank(m Options, key string) any {
	if v, ok := m[key]; ok && v != nil {
		return v
	}
	return ""
}

// renderTimeline emits a vertical event list.
func renderTimeline(st *renderState) template.HTML {
	events := firstSlice(st.opts, "events", "items")
	if len(events) == 0 {
		return ""
	}

	wrap := tags.New("div", tags.Options{"class": "timeline-items"})
	for _, event := range events {
		node := tags.New("div", tags.Options{"class": "timeline-item"})
		if date := itemString(event, "date", "time"); date != "" {
			node.Append(textTag("span", "timeline-date", date))
		}
		if title := itemString(event, "title", "header"); title != "" {
			node.Append(textTag("h4", "timeline-title", title))
		}
		if desc := itemString(event, "description", "content"); desc != "" {
			node.Append(textTag("p", "timeline-description", desc))
		}
		wrap.Append(node)
	}
	return wrap.HTML()
}

var imagePathPattern = regexp.MustCompile(`(?i)\.(png|jpe?g|gif|webp|svg|avif)(\?.*)?$`)

// renderSplit emits a two-column content/media layout. A right value that
// looks like an image path renders as an image, anything else as text.
func renderSplit(st *renderState) template.HTML {
	left := firstOpt(st.opts, "left", "content")
	right := firstOpt(st.opts, "right", "image")
	if left == "" && right == "" {
		return ""
	}

	class := "split-layout"
	if truthy(st.opts["reversed"]) {
		class += " split-layout--reversed"
	}
	wrap := tags.New("div", tags.Options{"class": class})

	if left != "" {
		content := tags.New("div", tags.Options{"class": "split-content"})
		content.Append(textTag("p", "", left))
		wrap.Append(content)
	}
	if right != "" {
		media := tags.New("div", tags.Options{"class": "split-media"})
		if imagePathPattern.MatchString(right) {
			media.Append(tags.New("img", tags.Options{"src": right}))
		} else {
			media.Append(textTag("p", "", right))
		}
		wrap.Append(media)
	}

	return wrap.HTML()
}

// renderSidebar emits main content plus an aside; sidebar_position controls
// the visual order.
func renderSidebar(st *renderState) template.HTML {
	mainText := firstOpt(st.opts, "main", "content")
	sideText := firstOpt(st.opts, "sidebar", "aside")
	if mainText == "" && sideText == "" {
		return ""
	}

	position := stringOpt(st.opts, "sidebar_position")
	if position != "left" {
		position = "right"
	}
	wrap := tags.New("div", tags.Options{"class": "with-sidebar with-sidebar--" + position})

	mainCol := tags.New("div", tags.Options{"class": "main-content"})
	if mainText != "" {
		mainCol.Append(esc(mainText))
	}
	aside := tags.New("aside", tags.Options{"class": "sidebar"})
	if sideText != "" {
		aside.Append(esc(sideText))
	}

	if position == "left" {
		wrap.Append(aside)
		wrap.Append(mainCol)
	} else {
		wrap.Append(mainCol)
		wrap.Append(aside)
	}
	return wrap.HTML()
}

// renderModal emits the fixed dialog/backdrop/close-button structure.
func renderModal(st *renderState) template.HTML {
	title := stringOpt(st.opts, "title")
	content := firstOpt(st.opts, "content", "body")
	if title == "" && content == "" {
		return ""
	}

	backdrop := tags.New("div", tags.Options{"class": "modal-backdrop"})
	dialog := tags.New("div", tags.Options{
		"class":      "modal",
		"role":       "dialog",
		"aria-modal": "true",
	})

	header := tags.New("div", tags.Options{"class": "modal-header"})
	if title != "" {
		header.Append(textTag("h3", "modal-title", title))
	}
	closeBtn := tags.New("button", tags.Options{
		"class":      "modal-close",
		"type":       "button",
		"aria-label": "Close",
	})
	closeBtn.Append("&times;")
	header.Append(closeBtn)
	dialog.Append(header)

	body := tags.New("div", tags.Options{"class": "modal-body"})
	if content != "" {
		body.Append(esc(content))
	}
	dialog.Append(body)

	backdrop.Append(dialog)
	return backdrop.HTML()
}

// renderArticle emits title, byline, featured image, and body.
func renderArticle(st *renderState) template.HTML {
	title := firstOpt(st.opts, "title", "headline")
	author := stringOpt(st.opts, "author")
	date := firstOpt(st.opts, "date", "published_at")
	body := firstOpt(st.opts, "content", "body")
	image := firstOpt(st.opts, "image", "featured_image")
	if title == "" && body == "" {
		return ""
	}

	var out template.HTML

	header := tags.New("header", tags.Options{"class": "article-header"})
	if title != "" {
		header.Append(textTag("h1", "article-title", title))
	}
	if author != "" || date != "" {
		byline := tags.New("div", tags.Options{"class": "article-byline"})
		if author != "" {
			byline.Append(textTag("span", "article-author", author))
		}
		if date != "" {
			byline.Append(textTag("time", "article-date", date))
		}
		header.Append(byline)
	}
	out += header.HTML()

	if image != "" {
		imgOpts := tags.Options{"class": "article-image", "src": image}
		if title != "" {
			imgOpts["alt"] = title
		}
		out += tags.New("img", imgOpts).HTML()
	}

	if body != "" {
		out += textTag("div", "article-body", body).HTML()
	}
	return out
}

// renderGeneric is the key-value fallback: it takes the first non-empty
// collection and renders each entry as a primary/secondary text pair.
func renderGeneric(st *renderState) template.HTML {
	items := firstSlice(st.opts, "items", "entries", "statistics", "cards")
	if len(items) == 0 {
		return ""
	}

	list := tags.New("div", tags.Options{"class": "content-list"})
	for _, item := range items {
		node := tags.New("div", tags.Options{"class": "content-item"})

		primary := itemString(item, "title", "header", "label", "value", "name", "text")
		if primary == "" {
			if asOptions(item) == nil {
				primary = fmt.Sprint(item)
			}
		}
		if primary != "" {
			node.Append(textTag("span", "content-primary", primary))
		}
		if secondary := itemString(item, "description", "content", "meta"); secondary != "" {
			node.Append(textTag("span", "content-secondary", secondary))
		}
		list.Append(node)
	}
	return list.HTML()
}
