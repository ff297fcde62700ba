// Package vdom builds UI node trees.
//
// There is no diffing here. Application code describes a tree with nested
// Build calls, the builder materializes it bottom-up, and Render swaps the
// result in under a container. Every state change rebuilds the whole tree.
//
// # Building
//
// Build takes a tag name or a component function, a Props map and children:
//
//	btn, err := vdom.Build("button", vdom.Props{
//	    "className": "status",
//	    "onClick":   func() { toggle(id) },
//	}, "Open")
//
// Children may be nodes, strings (text nodes) or one level of slices of
// those. A component receives its props with a "children" entry and must
// return exactly one node.
//
// # Events
//
// A BindingPolicy decides which props are listeners. GenericPolicy binds any
// "on"-prefixed prop holding a callable under the lower-cased suffix;
// AllowListPolicy binds only a fixed set of events. Dispatch invokes the
// listeners bound for an event's type.
//
// # Hydration
//
// AssignHIDs gives interactive elements (those with listeners) hydration IDs
// that link rendered HTML back to server-side nodes.
package vdom
