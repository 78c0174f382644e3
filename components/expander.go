package components

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gobuffalo/buffalo"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/johnjansen/compkit/agentctx"
)

// tagPrefix marks component tags in templates: <ck-card>, <ck-hero>, ...
// The element name after the prefix is the component name with dashes
// mapped to underscores (<ck-hero-split> -> hero_split).
const tagPrefix = "ck-"

// slotTag is the named-slot element inside a component tag.
const slotTag = "ck-slot"

// ExpanderMiddleware buffers text/html responses and expands every <ck-*>
// tag through the registry before the response reaches the client. Templates
// stay plain HTML; they never call into Go.
//
// Non-HTML responses pass through untouched. A component that fails to
// render keeps its original tag in place so the page still works (and in
// devMode the failure is visible in the markup rather than swallowed).
func ExpanderMiddleware(registry *Registry, devMode bool) buffalo.MiddlewareFunc {
	return func(next buffalo.Handler) buffalo.Handler {
		return func(c buffalo.Context) error {
			wrapper := &responseWrapper{
				ResponseWriter: c.Response(),
				body:           &bytes.Buffer{},
				statusCode:     http.StatusOK,
			}

			oldWriter := c.Response()
			c.Set("res", wrapper)
			err := next(c)
			c.Set("res", oldWriter)
			if err != nil {
				return err
			}

			contentType := wrapper.Header().Get("Content-Type")
			if !strings.Contains(contentType, "text/html") {
				oldWriter.WriteHeader(wrapper.statusCode)
				_, writeErr := oldWriter.Write(wrapper.body.Bytes())
				return writeErr
			}

			// The agent-context middleware stashes the resolved profile
			// under "agent_context"; scope it onto the context the
			// renderers see.
			var ctx context.Context = c
			if ac, ok := c.Value("agent_context").(*agentctx.Context); ok && ac != nil {
				ctx = agentctx.With(ctx, ac)
			}

			expanded, err := ExpandTags(ctx, wrapper.body.Bytes(), registry, devMode)
			if err != nil {
				// Ship the unexpanded HTML rather than an error page.
				oldWriter.WriteHeader(wrapper.statusCode)
				_, writeErr := oldWriter.Write(wrapper.body.Bytes())
				return writeErr
			}

			oldWriter.WriteHeader(wrapper.statusCode)
			_, err = oldWriter.Write(expanded)
			return err
		}
	}
}

// ExpandTags expands all <ck-*> tags in an HTML document. Nested component
// tags expand inner-first because child text has to exist before it can
// become the parent's block content. Exported for tests and for callers that
// post-process HTML outside the middleware.
func ExpandTags(ctx context.Context, htmlContent []byte, registry *Registry, devMode bool) ([]byte, error) {
	doc, err := html.Parse(bytes.NewReader(htmlContent))
	if err != nil {
		return htmlContent, err
	}

	var expand func(*html.Node) error
	expand = func(n *html.Node) error {
		// Children first, so nested components are already plain HTML by
		// the time the enclosing component renders them as block content.
		for c := n.FirstChild; c != nil; {
			next := c.NextSibling
			if err := expand(c); err != nil {
				return err
			}
			c = next
		}

		if n.Type != html.ElementNode || !strings.HasPrefix(n.Data, tagPrefix) || n.Data == slotTag {
			return nil
		}

		componentName := strings.ReplaceAll(strings.TrimPrefix(n.Data, tagPrefix), "-", "_")
		kwargs := tagOptions(n)

		rendered, err := registry.RenderBlock(ctx, componentName, kwargs, blockFor(n))
		if err != nil {
			// Unknown component: keep the tag, degrade gracefully.
			return nil
		}

		fragment, err := html.ParseFragment(strings.NewReader(string(rendered)), &html.Node{
			Type:     html.ElementNode,
			DataAtom: atom.Div,
			Data:     "div",
		})
		if err != nil {
			return nil
		}

		if devMode {
			n.Parent.InsertBefore(&html.Node{
				Type: html.CommentNode,
				Data: fmt.Sprintf(" %s ", n.Data),
			}, n)
		}
		for _, newNode := range fragment {
			n.Parent.InsertBefore(newNode, n)
		}
		if devMode {
			n.Parent.InsertBefore(&html.Node{
				Type: html.CommentNode,
				Data: fmt.Sprintf(" /%s ", n.Data),
			}, n)
		}
		n.Parent.RemoveChild(n)
		return nil
	}

	if err := expand(doc); err != nil {
		return htmlContent, err
	}

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return htmlContent, err
	}
	return buf.Bytes(), nil
}

// tagOptions converts a component tag's attributes and named slots into the
// options mapping. Attribute values are strings; the legacy layer's loose
// coercion handles numeric and boolean reads.
func tagOptions(n *html.Node) Options {
	kwargs := Options{}
	for _, attr := range n.Attr {
		kwargs[strings.ReplaceAll(attr.Key, "-", "_")] = attr.Val
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || c.Data != slotTag {
			continue
		}
		slotName := "default"
		for _, attr := range c.Attr {
			if attr.Key == "name" {
				slotName = attr.Val
				break
			}
		}
		var slotBuf bytes.Buffer
		for sc := c.FirstChild; sc != nil; sc = sc.NextSibling {
			_ = html.Render(&slotBuf, sc)
		}
		kwargs["slot_"+strings.ReplaceAll(slotName, "-", "_")] = slotBuf.String()
	}

	return kwargs
}

// blockFor captures a component tag's default content (everything except
// named slots) as the block renderer. Returns nil when the tag is empty so
// the data-driven dispatcher still runs for attribute-only tags.
func blockFor(n *html.Node) func() template.HTML {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.Data == slotTag {
			continue
		}
		_ = html.Render(&buf, c)
	}

	content := strings.TrimSpace(buf.String())
	if content == "" {
		return nil
	}
	return func() template.HTML {
		return template.HTML(content)
	}
}

// responseWrapper buffers a handler's response so the middleware can expand
// component tags before anything reaches the client.
type responseWrapper struct {
	http.ResponseWriter
	body       *bytes.Buffer
	statusCode int
}

func (w *responseWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
}

func (w *responseWrapper) Write(b []byte) (int, error) {
	return w.body.Write(b)
}
