package vdom

import "strings"

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement VKind = iota // <div>, <button>, etc.
	KindText                 // Plain text node
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	default:
		return "Unknown"
	}
}

// VNode is a built node. Once appended to a parent it belongs to that tree.
type VNode struct {
	Kind      VKind                 // Node type
	Tag       string                // Element tag name (e.g., "div")
	Props     Props                 // Everything passed as props, listeners included
	Children  []*VNode              // Child nodes in append order
	Listeners map[string][]Listener // Event name -> bound listeners
	Text      string                // For KindText
	HID       string                // Hydration ID (assigned during render)
}

// Props holds attributes, properties and event handlers.
type Props map[string]any

// clone returns a shallow copy of p that is safe to extend.
func (p Props) clone(extra int) Props {
	out := make(Props, len(p)+extra)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// String returns the string value stored under key, or "".
func (p Props) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Children returns the children slice a component received from Build.
func (p Props) Children() []any {
	c, _ := p["children"].([]any)
	return c
}

// Child returns the i-th child a component received as a node.
// Text children are returned as text nodes. Out of range yields nil.
func (p Props) Child(i int) *VNode {
	c := p.Children()
	if i < 0 || i >= len(c) {
		return nil
	}
	switch v := c[i].(type) {
	case *VNode:
		return v
	case string:
		return Text(v)
	}
	return nil
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// IsInteractive returns true if this node has bound listeners and needs a HID.
func (v *VNode) IsInteractive() bool {
	if v == nil || v.Kind != KindElement {
		return false
	}
	for _, ls := range v.Listeners {
		if len(ls) > 0 {
			return true
		}
	}
	return false
}

// Events returns the names of the events bound on this node.
func (v *VNode) Events() []string {
	if v == nil {
		return nil
	}
	names := make([]string, 0, len(v.Listeners))
	for name, ls := range v.Listeners {
		if len(ls) > 0 {
			names = append(names, name)
		}
	}
	return names
}

// TextContent concatenates the text of all descendant text nodes.
func (v *VNode) TextContent() string {
	if v == nil {
		return ""
	}
	if v.Kind == KindText {
		return v.Text
	}
	var b strings.Builder
	v.writeText(&b)
	return b.String()
}

func (v *VNode) writeText(b *strings.Builder) {
	for _, child := range v.Children {
		if child.Kind == KindText {
			b.WriteString(child.Text)
			continue
		}
		child.writeText(b)
	}
}

// Walk visits v and every descendant depth-first. Returning false from fn
// stops the walk.
func Walk(v *VNode, fn func(*VNode) bool) bool {
	if v == nil {
		return true
	}
	if !fn(v) {
		return false
	}
	for _, child := range v.Children {
		if !Walk(child, fn) {
			return false
		}
	}
	return true
}
