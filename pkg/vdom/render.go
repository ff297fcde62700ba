package vdom

// View produces a fresh tree from the current application state.
type View func() (*VNode, error)

// ReplaceChildren replaces every child of v with nodes, skipping nils.
func (v *VNode) ReplaceChildren(nodes ...*VNode) {
	children := make([]*VNode, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			children = append(children, n)
		}
	}
	v.Children = children
}

// Render builds the view and, only if that succeeds, replaces all children
// of root with the result. On error root is left untouched.
func Render(root *VNode, view View) error {
	if root == nil {
		return &BuildError{Tag: "render", Index: -1, Err: ErrNilRoot}
	}
	tree, err := view()
	if err != nil {
		return err
	}
	if tree == nil {
		return &BuildError{Tag: "view", Index: -1, Err: ErrComponentContractViolation}
	}
	root.ReplaceChildren(tree)
	return nil
}

// Container creates a root element to render into.
func Container(tag, id string) *VNode {
	return &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    Props{"id": id},
		Children: make([]*VNode, 0, 1),
	}
}
