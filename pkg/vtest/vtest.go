package vtest

import (
	"fmt"
	"net/url"
	"strings"
	"testing"

	"github.com/vango-dev/ticketdesk/pkg/render"
	"github.com/vango-dev/ticketdesk/pkg/vdom"
)

// RootID is the id of the container the harness renders into.
const RootID = "root"

// Harness holds a root container and the view rendered into it.
type Harness struct {
	t       testing.TB
	root    *vdom.VNode
	view    vdom.View
	gen     *vdom.HIDGenerator
	renders int
}

// New renders view into a fresh container. A failed first render fails the test.
func New(t testing.TB, view vdom.View) *Harness {
	t.Helper()
	h := &Harness{
		t:    t,
		root: vdom.Container("div", RootID),
		view: view,
		gen:  vdom.NewHIDGenerator(),
	}
	if err := h.Rerender(); err != nil {
		t.Fatalf("vtest: initial render: %v", err)
	}
	return h
}

// Root returns the container.
func (h *Harness) Root() *vdom.VNode { return h.root }

// Renders returns how many successful renders have happened.
func (h *Harness) Renders() int { return h.renders }

// Rerender rebuilds the view into the container and reassigns HIDs.
func (h *Harness) Rerender() error {
	if err := vdom.Render(h.root, h.view); err != nil {
		return err
	}
	h.gen.Reset()
	vdom.AssignHIDs(h.root, h.gen)
	h.renders++
	return nil
}

// HTML renders the container's children.
func (h *Harness) HTML() string {
	h.t.Helper()
	out, err := render.NewRenderer(render.RendererConfig{}).RenderChildren(h.root)
	if err != nil {
		h.t.Fatalf("vtest: render HTML: %v", err)
	}
	return out
}

// Find returns every element for which match is true, in document order.
func (h *Harness) Find(match func(*vdom.VNode) bool) []*vdom.VNode {
	var out []*vdom.VNode
	vdom.Walk(h.root, func(n *vdom.VNode) bool {
		if n != h.root && n.Kind == vdom.KindElement && match(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}

// ByID returns the first element with the given id, or nil.
func (h *Harness) ByID(id string) *vdom.VNode {
	found := h.Find(func(n *vdom.VNode) bool { return n.Props.String("id") == id })
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

// ByClass returns every element carrying class.
func (h *Harness) ByClass(class string) []*vdom.VNode {
	return h.Find(func(n *vdom.VNode) bool {
		for _, c := range strings.Fields(n.Props.String("className")) {
			if c == class {
				return true
			}
		}
		return false
	})
}

// ByTag returns every element with the given tag.
func (h *Harness) ByTag(tag string) []*vdom.VNode {
	return h.Find(func(n *vdom.VNode) bool { return n.Tag == tag })
}

// ByText returns every element whose text content equals text.
func (h *Harness) ByText(text string) []*vdom.VNode {
	return h.Find(func(n *vdom.VNode) bool { return n.TextContent() == text })
}

// Texts returns the text content of each node.
func Texts(nodes []*vdom.VNode) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.TextContent()
	}
	return out
}

// Fire dispatches e on n and re-renders when at least one listener ran.
func (h *Harness) Fire(n *vdom.VNode, e *vdom.Event) error {
	if n == nil {
		return fmt.Errorf("vtest: %s on nil node", e.Type)
	}
	ran, err := n.Dispatch(e)
	if err != nil {
		return err
	}
	if ran == 0 {
		return fmt.Errorf("vtest: no %s listener on <%s>", e.Type, n.Tag)
	}
	return h.Rerender()
}

// Click fires a click event on n.
func (h *Harness) Click(n *vdom.VNode) error {
	return h.Fire(n, vdom.NewEvent("click"))
}

// Submit fires a submit event on n carrying values as form data.
func (h *Harness) Submit(n *vdom.VNode, values url.Values) error {
	e := vdom.NewEvent("submit")
	for k, vs := range values {
		for _, v := range vs {
			e.Form.Add(k, v)
		}
	}
	return h.Fire(n, e)
}
