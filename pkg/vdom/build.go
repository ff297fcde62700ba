package vdom

import (
	"reflect"
	"runtime"
	"sort"
	"strings"
)

// Component is a function descriptor. It receives the props merged with a
// "children" entry and must return exactly one node.
type Component func(props Props) (*VNode, error)

// Builder materializes descriptors into built nodes.
type Builder struct {
	// Policy decides which props become listeners. Nil means GenericPolicy.
	Policy BindingPolicy
}

// DefaultBuilder binds events with GenericPolicy.
var DefaultBuilder = &Builder{Policy: GenericPolicy{}}

// NewBuilder creates a builder with the given policy.
func NewBuilder(policy BindingPolicy) *Builder {
	if policy == nil {
		policy = GenericPolicy{}
	}
	return &Builder{Policy: policy}
}

// Build materializes a descriptor with DefaultBuilder.
func Build(typ any, props Props, children ...any) (*VNode, error) {
	return DefaultBuilder.Build(typ, props, children...)
}

// MustBuild is like Build but panics on error.
func MustBuild(typ any, props Props, children ...any) *VNode {
	node, err := DefaultBuilder.Build(typ, props, children...)
	if err != nil {
		panic(err)
	}
	return node
}

// Build materializes a descriptor.
//
// typ is a tag name or a component function. A component is invoked with
// props plus a "children" entry and its result is returned unchanged. A tag
// yields a new element with every prop assigned, listeners bound per the
// builder's policy, and children appended in order. Children may be nodes,
// strings, or flat slices of those; nil children are skipped.
func (b *Builder) Build(typ any, props Props, children ...any) (*VNode, error) {
	switch t := typ.(type) {
	case string:
		if t == "" {
			return nil, &BuildError{Tag: `""`, Index: -1, Err: ErrInvalidNodeType}
		}
		return b.element(t, props, children)
	case Component:
		return callComponent(t, t, props, children)
	case func(Props) (*VNode, error):
		return callComponent(t, t, props, children)
	case func(Props) *VNode:
		return callComponent(t, func(p Props) (*VNode, error) { return t(p), nil }, props, children)
	case func(Props) any:
		return callLoose(t, props, children)
	default:
		return nil, &BuildError{Tag: typeName(typ), Index: -1, Value: typ, Err: ErrInvalidNodeType}
	}
}

func componentProps(props Props, children []any) Props {
	merged := props.clone(1)
	merged["children"] = append([]any(nil), children...)
	return merged
}

func callComponent(fn any, c Component, props Props, children []any) (*VNode, error) {
	node, err := c(componentProps(props, children))
	if err != nil {
		return nil, err
	}
	if node == nil {
		return nil, &BuildError{Tag: funcName(fn), Index: -1, Err: ErrComponentContractViolation}
	}
	return node, nil
}

func callLoose(fn func(Props) any, props Props, children []any) (*VNode, error) {
	out := fn(componentProps(props, children))
	if err, ok := out.(error); ok {
		return nil, err
	}
	node, ok := out.(*VNode)
	if !ok || node == nil {
		return nil, &BuildError{Tag: funcName(fn), Index: -1, Value: out, Err: ErrComponentContractViolation}
	}
	return node, nil
}

func (b *Builder) element(tag string, props Props, children []any) (*VNode, error) {
	node := &VNode{
		Kind:     KindElement,
		Tag:      tag,
		Props:    props.clone(0),
		Children: make([]*VNode, 0, len(children)),
	}

	policy := b.Policy
	if policy == nil {
		policy = GenericPolicy{}
	}
	// Sorted so two keys binding the same event fire in a stable order.
	keys := make([]string, 0, len(props))
	for key := range props {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		value := props[key]
		event, ok := policy.EventName(key, value)
		if !ok {
			continue
		}
		l, _ := toListener(value)
		node.addListener(event, l)
	}

	for i, child := range children {
		if err := node.appendChild(child); err != nil {
			return nil, &BuildError{Tag: tag, Index: i, Value: child, Err: err}
		}
	}
	return node, nil
}

// appendChild appends one child argument, flattening exactly one level.
func (v *VNode) appendChild(child any) error {
	switch c := child.(type) {
	case nil:
	case *VNode:
		if c != nil {
			v.Children = append(v.Children, c)
		}
	case string:
		v.Children = append(v.Children, Text(c))
	case []*VNode:
		for _, n := range c {
			if n != nil {
				v.Children = append(v.Children, n)
			}
		}
	case []string:
		for _, s := range c {
			v.Children = append(v.Children, Text(s))
		}
	case []any:
		for _, item := range c {
			switch n := item.(type) {
			case nil:
			case *VNode:
				if n != nil {
					v.Children = append(v.Children, n)
				}
			case string:
				v.Children = append(v.Children, Text(n))
			default:
				return ErrInvalidChildKind
			}
		}
	default:
		return ErrInvalidChildKind
	}
	return nil
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}

func funcName(fn any) string {
	rv := reflect.ValueOf(fn)
	if rv.Kind() != reflect.Func || rv.IsNil() {
		return typeName(fn)
	}
	name := runtime.FuncForPC(rv.Pointer()).Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Scope builds a tree of descriptors and keeps the first error, so view code
// can nest calls the way markup nests. After an error every El returns nil.
type Scope struct {
	b   *Builder
	err error
}

// Scope returns a new Scope on b.
func (b *Builder) Scope() *Scope {
	return &Scope{b: b}
}

// El builds one descriptor within the scope.
func (s *Scope) El(typ any, props Props, children ...any) *VNode {
	if s.err != nil {
		return nil
	}
	node, err := s.b.Build(typ, props, children...)
	if err != nil {
		s.err = err
		return nil
	}
	return node
}

// Err returns the first error encountered.
func (s *Scope) Err() error {
	return s.err
}

// Result returns node, or the first error encountered.
func (s *Scope) Result(node *VNode) (*VNode, error) {
	if s.err != nil {
		return nil, s.err
	}
	return node, nil
}
