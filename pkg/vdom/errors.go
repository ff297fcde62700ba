package vdom

import (
	"errors"
	"fmt"
)

// Build errors. All are unrecoverable at the point of detection; Build
// returns them wrapped in a *BuildError.
var (
	// ErrInvalidChildKind means a child was neither a node, a string, nor a
	// flat sequence of those.
	ErrInvalidChildKind = errors.New("vdom: invalid child kind")

	// ErrComponentContractViolation means a component returned something
	// other than a single built node.
	ErrComponentContractViolation = errors.New("vdom: component must return exactly one node")

	// ErrInvalidNodeType means the node type was neither a tag name nor a
	// component function.
	ErrInvalidNodeType = errors.New("vdom: invalid node type")

	// ErrNilRoot means Render was given no container to render into.
	ErrNilRoot = errors.New("vdom: nil render root")
)

// BuildError describes where a build failed.
type BuildError struct {
	// Tag is the element tag or the component's type name.
	Tag string

	// Index is the offending child index, or -1 when not child related.
	Index int

	// Value is the offending value, if any.
	Value any

	// Err is one of the sentinel errors above.
	Err error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	switch {
	case e.Index >= 0:
		return fmt.Sprintf("%s: <%s> child %d has type %T", e.Err, e.Tag, e.Index, e.Value)
	case e.Value != nil:
		return fmt.Sprintf("%s: %s returned %T", e.Err, e.Tag, e.Value)
	default:
		return fmt.Sprintf("%s: %s", e.Err, e.Tag)
	}
}

// Unwrap returns the sentinel error for errors.Is support.
func (e *BuildError) Unwrap() error {
	return e.Err
}
