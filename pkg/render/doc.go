// Package render writes node trees as HTML.
//
// Output is deterministic: attributes are sorted, text and attribute values
// are escaped, and callables in props are never written. Elements with bound
// listeners carry a data-hid attribute and a data-on-<event> marker for each
// event, which the thin client uses to forward interactions:
//
//	<button class="status" data-hid="h3" data-on-click="true">Open</button>
//
// # Basic Usage
//
//	vdom.AssignHIDs(root, gen)
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderChildren(root)
//
// RenderPage writes a complete document around the root container.
package render
