package vdom

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuildEmptyTag(t *testing.T) {
	for _, tag := range []string{"div", "ul", "my-widget", "button"} {
		t.Run(tag, func(t *testing.T) {
			node, err := Build(tag, Props{})
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if node.Kind != KindElement {
				t.Errorf("Kind = %v, want Element", node.Kind)
			}
			if node.Tag != tag {
				t.Errorf("Tag = %q, want %q", node.Tag, tag)
			}
			if len(node.Children) != 0 {
				t.Errorf("len(Children) = %d, want 0", len(node.Children))
			}
		})
	}
}

func TestBuildNilProps(t *testing.T) {
	node, err := Build("span", nil)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if node.Props == nil {
		t.Error("Props should be an empty map, not nil")
	}
}

func TestBuildPreservesChildOrder(t *testing.T) {
	a, b, c := Text("a"), Text("b"), MustBuild("em", nil)
	node, err := Build("p", nil, a, b, c)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := []*VNode{a, b, c}
	if len(node.Children) != len(want) {
		t.Fatalf("len(Children) = %d, want %d", len(node.Children), len(want))
	}
	for i := range want {
		if node.Children[i] != want[i] {
			t.Errorf("Children[%d] is not the node passed in position %d", i, i)
		}
	}
}

func TestBuildFlattensOneLevel(t *testing.T) {
	a, b := Text("a"), Text("b")

	tests := []struct {
		name  string
		child any
	}{
		{"node slice", []*VNode{a, b}},
		{"any slice", []any{a, b}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, err := Build("ul", nil, tt.child)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if len(node.Children) != 2 || node.Children[0] != a || node.Children[1] != b {
				t.Fatalf("Children = %v, want [a b] directly under <ul>", node.Children)
			}
		})
	}
}

func TestBuildTextChildren(t *testing.T) {
	node, err := Build("p", nil, "hello ", []string{"big", " "}, []any{"wide", nil}, nil, "world")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := []*VNode{Text("hello "), Text("big"), Text(" "), Text("wide"), Text("world")}
	if diff := cmp.Diff(want, node.Children); diff != "" {
		t.Errorf("Children mismatch (-want +got):\n%s", diff)
	}
	if got := node.TextContent(); got != "hello big wideworld" {
		t.Errorf("TextContent() = %q", got)
	}
}

func TestBuildInvalidChildKind(t *testing.T) {
	tests := []struct {
		name  string
		child any
		index int
	}{
		{"int", 42, 0},
		{"nested node slices", []any{[]*VNode{Text("x")}}, 0},
		{"nested any slices", []any{Text("ok"), []any{Text("x")}}, 0},
		{"map", map[string]string{}, 0},
		{"func", func() {}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build("div", nil, tt.child)
			if !errors.Is(err, ErrInvalidChildKind) {
				t.Fatalf("error = %v, want ErrInvalidChildKind", err)
			}
			var be *BuildError
			if !errors.As(err, &be) {
				t.Fatalf("error %T is not a *BuildError", err)
			}
			if be.Tag != "div" || be.Index != tt.index {
				t.Errorf("BuildError = {Tag:%q Index:%d}, want {div %d}", be.Tag, be.Index, tt.index)
			}
		})
	}
}

func TestBuildInvalidNodeType(t *testing.T) {
	for _, typ := range []any{"", 7, nil, func(int) {}} {
		if _, err := Build(typ, nil); !errors.Is(err, ErrInvalidNodeType) {
			t.Errorf("Build(%T) error = %v, want ErrInvalidNodeType", typ, err)
		}
	}
}

func TestBuildAssignsProps(t *testing.T) {
	render := func() {}
	node := MustBuild("input", Props{"type": "text", "name": "title", "render": render})
	if node.Props.String("type") != "text" || node.Props.String("name") != "title" {
		t.Errorf("Props = %v", node.Props)
	}
	if _, ok := node.Props["render"]; !ok {
		t.Error("callable under a non-event key should still be assigned as a prop")
	}
	if node.IsInteractive() {
		t.Error("node without event props should not be interactive")
	}
}

func TestBuildDoesNotAliasProps(t *testing.T) {
	props := Props{"id": "a"}
	node := MustBuild("div", props)
	node.Props["id"] = "b"
	if props["id"] != "a" {
		t.Error("Build should copy props, not alias the caller's map")
	}
}

func TestComponentDelegation(t *testing.T) {
	var got Props
	want := Text("result")
	comp := Component(func(p Props) (*VNode, error) {
		got = p
		return want, nil
	})

	child1, child2 := Text("c1"), Text("c2")
	node, err := Build(comp, Props{"id": 1}, child1, child2)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if node != want {
		t.Error("component result should be returned unchanged")
	}
	if got["id"] != 1 {
		t.Errorf("props[id] = %v, want 1", got["id"])
	}
	children := got.Children()
	if len(children) != 2 || children[0] != child1 || children[1] != child2 {
		t.Errorf("props[children] = %v, want [c1 c2]", children)
	}
}

func TestComponentChildrenScenario(t *testing.T) {
	componentX := func(p Props) (*VNode, error) {
		return Build("li", nil, p.Child(0), p.Child(1))
	}
	child1 := MustBuild("span", nil, "one")
	child2 := MustBuild("span", nil, "two")

	node, err := Build(componentX, Props{"id": 1}, child1, child2)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if node.Tag != "li" {
		t.Errorf("Tag = %q, want li", node.Tag)
	}
	if len(node.Children) != 2 || node.Children[0] != child1 || node.Children[1] != child2 {
		t.Errorf("Children = %v, want [child1 child2]", node.Children)
	}
}

func TestComponentContractViolation(t *testing.T) {
	tests := []struct {
		name string
		typ  any
	}{
		{"typed nil", Component(func(Props) (*VNode, error) { return nil, nil })},
		{"plain nil", func(Props) *VNode { return nil }},
		{"loose list", func(Props) any { return []*VNode{Text("a"), Text("b")} }},
		{"loose string", func(Props) any { return "text" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.typ, nil)
			if !errors.Is(err, ErrComponentContractViolation) {
				t.Fatalf("error = %v, want ErrComponentContractViolation", err)
			}
		})
	}
}

func TestComponentErrorPropagates(t *testing.T) {
	inner := func(Props) (*VNode, error) {
		return Build("div", nil, 3.14)
	}
	outer := func(Props) (*VNode, error) {
		return Build(inner, nil)
	}
	_, err := Build(outer, nil)
	if !errors.Is(err, ErrInvalidChildKind) {
		t.Fatalf("error = %v, want ErrInvalidChildKind from nested build", err)
	}
}

func TestScopeKeepsFirstError(t *testing.T) {
	s := DefaultBuilder.Scope()
	root := s.El("div", nil,
		s.El("p", nil, "fine"),
		s.El("p", nil, 12),
		s.El("p", nil, "after"),
	)
	if root != nil {
		t.Error("El should return nil once the scope has failed")
	}
	if _, err := s.Result(root); !errors.Is(err, ErrInvalidChildKind) {
		t.Errorf("Result() error = %v, want ErrInvalidChildKind", err)
	}
}

func TestScopeSuccess(t *testing.T) {
	s := NewBuilder(nil).Scope()
	root := s.El("ul", nil, s.El("li", nil, "a"), s.El("li", nil, "b"))
	node, err := s.Result(root)
	if err != nil {
		t.Fatalf("Result() error = %v", err)
	}
	if got := node.TextContent(); got != "ab" {
		t.Errorf("TextContent() = %q, want ab", got)
	}
}
