package render

import (
	"bytes"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/vango-dev/ticketdesk/pkg/vdom"
)

func TestRenderText(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	got, err := renderer.RenderToString(vdom.Text("Hello, World!"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Hello, World!" {
		t.Errorf("got %q, want %q", got, "Hello, World!")
	}
}

func TestRenderTextEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	got, err := renderer.RenderToString(vdom.Text("<script>alert('xss')</script>"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("HTML should be escaped, got %q", got)
	}
	if !strings.Contains(got, "&lt;script&gt;") {
		t.Errorf("should contain escaped script tag, got %q", got)
	}
}

func TestRenderElement(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.MustBuild("div", vdom.Props{"className": "container", "id": "root"},
		vdom.MustBuild("h1", nil, "Title"),
		vdom.MustBuild("label", vdom.Props{"htmlFor": "title"}, "Title"),
		vdom.MustBuild("input", vdom.Props{"name": "title", "required": true, "disabled": false}),
	)
	got, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := `<div class="container" id="root"><h1>Title</h1><label for="title">Title</label><input name="title" required></div>`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestRenderAttributeEscaping(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.MustBuild("input", vdom.Props{"value": `"><script>x</script>`, "title": "a\nb"})
	got, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(got, "<script>") {
		t.Errorf("attribute value should be escaped, got %q", got)
	}
	if !strings.Contains(got, `title="a&#10;b"`) {
		t.Errorf("newline in attribute should be escaped, got %q", got)
	}
}

func TestRenderDropsInlineHandlers(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	node := vdom.MustBuild("button", vdom.Props{"onClick": "alert(1)", "onmouseover": "steal()", "open": true, "id": "b"}, "Open")
	got, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<button id="b" open>Open</button>`
	if got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestRenderHydrationMarkers(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	tree := vdom.MustBuild("div", nil,
		vdom.MustBuild("form", vdom.Props{"id": "add-ticket-form", "onSubmit": func() {}},
			vdom.MustBuild("button", vdom.Props{"type": "submit"}, "Add"),
		),
		vdom.MustBuild("button", vdom.Props{"onClick": func() {}, "onMouseEnter": func() {}, "render": func() {}}, "Open"),
	)
	vdom.AssignHIDs(tree, vdom.NewHIDGenerator())

	got, err := renderer.RenderToString(tree)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	doc, err := html.Parse(strings.NewReader(got))
	if err != nil {
		t.Fatalf("html.Parse() error = %v", err)
	}

	form := findElement(doc, "form")
	if attr(form, "data-hid") != "h1" || attr(form, "data-on-submit") != "true" {
		t.Errorf("form attributes = %v", form.Attr)
	}
	if attr(form, "onsubmit") != "" {
		t.Error("listener props must not be written as attributes")
	}

	buttons := findAll(doc, "button")
	if len(buttons) != 2 {
		t.Fatalf("found %d buttons, want 2", len(buttons))
	}
	if attr(buttons[0], "data-hid") != "" {
		t.Error("button without listeners should not have a data-hid")
	}
	status := buttons[1]
	if attr(status, "data-hid") != "h2" || attr(status, "data-on-click") != "true" || attr(status, "data-on-mouseenter") != "true" {
		t.Errorf("status button attributes = %v", status.Attr)
	}
	if attr(status, "render") != "" {
		t.Error("callables under non-event keys must not be written")
	}
}

func TestRenderChildren(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	root := vdom.Container("div", "root")
	root.ReplaceChildren(vdom.MustBuild("p", nil, "a"), vdom.MustBuild("p", nil, "b"))

	got, err := renderer.RenderChildren(root)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "<p>a</p><p>b</p>" {
		t.Errorf("RenderChildren() = %q", got)
	}
}

func TestRenderPretty(t *testing.T) {
	renderer := NewRenderer(RendererConfig{Pretty: true})

	node := vdom.MustBuild("ul", nil,
		vdom.MustBuild("li", nil, "one"),
		vdom.MustBuild("li", nil, "two"),
	)
	got, err := renderer.RenderToString(node)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "<ul>\n  <li>one</li>\n  <li>two</li>\n</ul>\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestRenderPage(t *testing.T) {
	renderer := NewRenderer(RendererConfig{})

	root := vdom.Container("div", "root")
	root.ReplaceChildren(vdom.MustBuild("h1", nil, "Tickets"))

	var buf bytes.Buffer
	err := renderer.RenderPage(&buf, PageData{
		Body:   root,
		Title:  "Tickets <dev>",
		Styles: []string{"body{margin:0}"},
		Meta:   []MetaTag{{Name: "description", Content: "Ticket tracker"}},
	})
	if err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	out := buf.String()

	if !strings.HasPrefix(out, "<!DOCTYPE html>\n<html lang=\"en\">") {
		t.Errorf("page should start with doctype and html, got %q", out[:40])
	}
	for _, want := range []string{
		"<title>Tickets &lt;dev&gt;</title>",
		"<style>body{margin:0}</style>",
		`<meta name="description" content="Ticket tracker">`,
		`<div id="root"><h1>Tickets</h1></div>`,
		`<script src="/_ticketdesk/client.js" defer></script>`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("page missing %q", want)
		}
	}

	buf.Reset()
	renderer.RenderPage(&buf, PageData{Body: root, NoScript: true})
	if strings.Contains(buf.String(), "<script") {
		t.Error("NoScript page should not include the client script")
	}
}

func findElement(n *html.Node, tag string) *html.Node {
	all := findAll(n, tag)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

func findAll(n *html.Node, tag string) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return out
}

func attr(n *html.Node, key string) string {
	if n == nil {
		return ""
	}
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}
