package components

import (
	"strings"
	"testing"
)

func stateFor(name string, def ComponentDefinition, opts Options) *renderState {
	return newRenderState(name, def, opts)
}

func TestIsHeroComponent(t *testing.T) {
	tests := []struct {
		name string
		def  ComponentDefinition
		opts Options
		want bool
	}{
		{"hero by name", ComponentDefinition{}, Options{}, true},
		{"banner allowlisted", ComponentDefinition{}, Options{}, true},
		{"hero substring", ComponentDefinition{}, Options{}, true},
		{"explicit non-hero render method", ComponentDefinition{RenderMethod: "cards"}, Options{"headline": "x"}, false},
		{"excluded name", ComponentDefinition{}, Options{"title": "x"}, false},
		{"namespaced name", ComponentDefinition{}, Options{"headline": "x"}, false},
		{"payload heuristic", ComponentDefinition{}, Options{"headline": "x"}, true},
		{"no payload", ComponentDefinition{}, Options{}, false},
	}
	names := []string{"hero", "banner", "page_hero", "promo", "button", "nav.item", "promo", "promo"}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := stateFor(names[i], tt.def, tt.opts)
			if got := isHeroComponent(st); got != tt.want {
				t.Errorf("isHeroComponent(%s) = %v; want %v", names[i], got, tt.want)
			}
		})
	}
}

func TestIsDataDriven(t *testing.T) {
	if !isDataDriven(stateFor("promo", ComponentDefinition{}, Options{"items": []any{"a"}})) {
		t.Error("non-empty items should be data driven")
	}
	if isDataDriven(stateFor("promo", ComponentDefinition{}, Options{"items": []any{}})) {
		t.Error("empty items should not be data driven")
	}
	if !isDataDriven(stateFor("promo", ComponentDefinition{DataDriven: true}, Options{})) {
		t.Error("definition flag should force data driven")
	}
}

func TestRenderAccordionFallbackTitles(t *testing.T) {
	st := stateFor("accordion", ComponentDefinition{}, Options{
		"items": []any{
			map[string]any{"title": "First", "content": "a"},
			map[string]any{"content": "b"},
		},
	})
	out := string(renderAccordion(st))

	if !strings.Contains(out, ">First</button>") {
		t.Errorf("expected given title, got %q", out)
	}
	if !strings.Contains(out, ">Item 2</button>") {
		t.Errorf("expected positional fallback title, got %q", out)
	}
}

func TestRenderTabsFirstActive(t *testing.T) {
	st := stateFor("tabs", ComponentDefinition{}, Options{
		"tabs": []any{
			map[string]any{"label": "One", "content": "1"},
			map[string]any{"label": "Two", "content": "2"},
		},
	})
	out := string(renderTabs(st))

	if got := strings.Count(out, "tab--active"); got != 1 {
		t.Errorf("expected exactly one active tab, got %d in %q", got, out)
	}
	activeIdx := strings.Index(out, "tab--active")
	twoIdx := strings.Index(out, ">Two<")
	if activeIdx == -1 || twoIdx == -1 || activeIdx > twoIdx {
		t.Errorf("first tab should be the active one: %q", out)
	}
}

func TestRenderCardsClampsColumns(t *testing.T) {
	cards := make([]any, 7)
	for i := range cards {
		cards[i] = map[string]any{"title": "c"}
	}
	st := stateFor("cards", ComponentDefinition{}, Options{"cards": cards})
	out := string(renderCards(st))

	if !strings.Contains(out, "cards-grid--cols-4") {
		t.Errorf("column count should clamp to 4, got %q", out)
	}
	if got := strings.Count(out, `class="card"`); got != 7 {
		t.Errorf("expected 7 cards, got %d", got)
	}
}

func TestRenderGridScalarItems(t *testing.T) {
	st := stateFor("grid", ComponentDefinition{}, Options{
		"items":         []any{"alpha", "beta"},
		"section_title": "Things",
	})
	out := string(renderGrid(st))

	if !strings.Contains(out, ">Things</h2>") {
		t.Errorf("expected section title, got %q", out)
	}
	if !strings.Contains(out, ">alpha</p>") || !strings.Contains(out, ">beta</p>") {
		t.Errorf("expected scalar items as text, got %q", out)
	}
	if !strings.Contains(out, "item-grid--cols-2") {
		t.Errorf("expected two columns, got %q", out)
	}
}

func TestRenderTableShapes(t *testing.T) {
	st := stateFor("table", ComponentDefinition{}, Options{
		"headers": []any{"Name", "Role"},
		"rows": []any{
			map[string]any{"name": "Ada", "role": "eng"},
			[]any{"Grace", "admiral"},
			"just a string",
		},
	})
	out := string(renderTable(st))

	if !strings.Contains(out, "<thead>") || !strings.Contains(out, ">Name</th>") {
		t.Errorf("expected header row, got %q", out)
	}
	for _, cell := range []string{">Ada</td>", ">eng</td>", ">Grace</td>", ">admiral</td>", ">just a string</td>"} {
		if !strings.Contains(out, cell) {
			t.Errorf("missing cell %s in %q", cell, out)
		}
	}
}

func TestRenderTimeline(t *testing.T) {
	st := stateFor("timeline", ComponentDefinition{}, Options{
		"events": []any{
			map[string]any{"date": "2021", "title": "Started", "description": "d"},
		},
	})
	out := string(renderTimeline(st))

	if !strings.Contains(out, ">2021</span>") || !strings.Contains(out, ">Started</h4>") {
		t.Errorf("expected timeline fields, got %q", out)
	}
}

func TestRenderSplitImageDetection(t *testing.T) {
	st := stateFor("split", ComponentDefinition{}, Options{
		"left":  "Some prose",
		"right": "/img/photo.jpg",
	})
	out := string(renderSplit(st))
	if !strings.Contains(out, "<img") {
		t.Errorf("image-like right side should render as img, got %q", out)
	}

	st = stateFor("split", ComponentDefinition{}, Options{
		"left":  "Some prose",
		"right": "More prose",
	})
	out = string(renderSplit(st))
	if strings.Contains(out, "<img") {
		t.Errorf("text right side should not render as img, got %q", out)
	}
	if !strings.Contains(out, ">More prose</p>") {
		t.Errorf("expected paragraph, got %q", out)
	}
}

func TestRenderSplitReversedClass(t *testing.T) {
	st := stateFor("split", ComponentDefinition{}, Options{
		"left":     "a",
		"right":    "b",
		"reversed": true,
	})
	out := string(renderSplit(st))
	if !strings.Contains(out, "split-layout--reversed") {
		t.Errorf("expected reversal class, got %q", out)
	}

	// Reversal is class-based; column order in the DOM stays fixed.
	if strings.Index(out, "split-content") > strings.Index(out, "split-media") {
		t.Errorf("DOM order should not change: %q", out)
	}
}

func TestRenderSidebarPosition(t *testing.T) {
	st := stateFor("sidebar", ComponentDefinition{}, Options{
		"main":             "body",
		"sidebar":          "nav",
		"sidebar_position": "left",
	})
	out := string(renderSidebar(st))

	if !strings.Contains(out, "with-sidebar--left") {
		t.Errorf("expected position class, got %q", out)
	}
	if strings.Index(out, "<aside") > strings.Index(out, "main-content") {
		t.Errorf("left sidebar should come first: %q", out)
	}
}

func TestRenderModalStructure(t *testing.T) {
	st := stateFor("modal", ComponentDefinition{}, Options{
		"title":   "Confirm",
		"content": "Are you sure?",
	})
	out := string(renderModal(st))

	for _, want := range []string{"modal-backdrop", `role="dialog"`, ">Confirm</h3>", "modal-close", "Are you sure?"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestRenderArticle(t *testing.T) {
	st := stateFor("article", ComponentDefinition{}, Options{
		"title":   "A Post",
		"author":  "Sam",
		"date":    "2024-01-01",
		"content": "Body text",
		"image":   "/img/cover.png",
	})
	out := string(renderArticle(st))

	for _, want := range []string{">A Post</h1>", ">Sam</span>", ">2024-01-01</time>", "article-image", ">Body text</div>"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestRenderHeroOmitsIncompleteCTA(t *testing.T) {
	st := stateFor("hero", ComponentDefinition{}, Options{
		"headline": "Hi",
		"cta_text": "Go", // no URL: the pair is incomplete
	})
	out := string(renderHero(st))

	if strings.Contains(out, "hero-btn") {
		t.Errorf("incomplete CTA pair must be omitted, got %q", out)
	}
	if !strings.Contains(out, ">Hi</h1>") {
		t.Errorf("headline should render, got %q", out)
	}
}

func TestRenderHeroVideo(t *testing.T) {
	st := stateFor("hero_video", ComponentDefinition{}, Options{
		"headline":  "Watch",
		"video_url": "/v.mp4",
		"poster":    "/p.jpg",
	})
	out := string(renderHeroVideo(st))

	videoIdx := strings.Index(out, "<video")
	contentIdx := strings.Index(out, "hero-content")
	if videoIdx == -1 {
		t.Fatalf("expected video element, got %q", out)
	}
	if contentIdx == -1 || videoIdx > contentIdx {
		t.Errorf("video layers beneath the hero block: %q", out)
	}

	st = stateFor("hero_video", ComponentDefinition{}, Options{"headline": "No video"})
	if out := string(renderHeroVideo(st)); strings.Contains(out, "<video") {
		t.Errorf("no video element without video_url, got %q", out)
	}
}

func TestRenderHeroSplitReverse(t *testing.T) {
	st := stateFor("hero_split", ComponentDefinition{}, Options{
		"headline":  "H",
		"media_url": "/m.png",
		"reverse":   true,
	})
	out := string(renderHeroSplit(st))

	if !strings.Contains(out, "hero-split--reverse") {
		t.Errorf("expected reverse class, got %q", out)
	}
	if strings.Index(out, "hero-split-content") > strings.Index(out, "hero-split-media") {
		t.Errorf("column DOM order must stay fixed: %q", out)
	}
}

func TestRenderStatisticsLayout(t *testing.T) {
	st := stateFor("statistics", ComponentDefinition{}, Options{
		"layout": "vertical",
		"statistics": []any{
			map[string]any{"icon": "fa-user", "color": "#f00", "value": "10", "label": "users"},
		},
	})
	out := string(renderStatistics(st))

	for _, want := range []string{"stats-grid--vertical", "stat-icon fa-user", "color: #f00", ">10</span>", ">users</span>"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in %q", want, out)
		}
	}
}

func TestRenderGenericFallback(t *testing.T) {
	st := stateFor("promo", ComponentDefinition{}, Options{
		"entries": []any{
			map[string]any{"title": "K", "description": "V"},
			"bare scalar",
		},
	})
	out := string(renderGeneric(st))

	if !strings.Contains(out, ">K</span>") || !strings.Contains(out, ">V</span>") {
		t.Errorf("expected primary/secondary pair, got %q", out)
	}
	if !strings.Contains(out, ">bare scalar</span>") {
		t.Errorf("expected scalar entry, got %q", out)
	}
}

func TestRenderersEmptyCollections(t *testing.T) {
	empty := Options{}
	for name, fn := range contentRenderers {
		st := stateFor("promo", ComponentDefinition{}, empty)
		if out := fn(st); out != "" {
			t.Errorf("%s with no data should render nothing, got %q", name, out)
		}
	}
}
