package vdom

import (
	"errors"
	"sort"
	"testing"
)

func TestClickScenario(t *testing.T) {
	calls := 0
	node, err := Build("button", Props{"onClick": func() { calls++ }}, "Open")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	n, err := node.Dispatch(NewEvent("click"))
	if err != nil {
		t.Fatalf("Dispatch() error = %v", err)
	}
	if n != 1 || calls != 1 {
		t.Errorf("Dispatch ran %d listeners, handler called %d times; want 1, 1", n, calls)
	}
	if got := node.TextContent(); got != "Open" {
		t.Errorf("TextContent() = %q, want Open", got)
	}

	node.Dispatch(NewEvent("click"))
	if calls != 2 {
		t.Errorf("calls after second click = %d, want 2", calls)
	}
}

func TestGenericPolicy(t *testing.T) {
	tests := []struct {
		key       string
		value     any
		wantEvent string
		wantBind  bool
	}{
		{"onClick", func() {}, "click", true},
		{"onSubmit", func(*Event) {}, "submit", true},
		{"onMouseEnter", func(*Event) error { return nil }, "mouseenter", true},
		{"onkeydown", Listener(func(*Event) error { return nil }), "keydown", true},
		{"onClick", "alert(1)", "", false},
		{"on", func() {}, "", false},
		{"render", func() {}, "", false},
		{"once", 1, "", false},
		{"onChange", func(int) {}, "", false},
		{"onClick", (func())(nil), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			event, ok := GenericPolicy{}.EventName(tt.key, tt.value)
			if ok != tt.wantBind || event != tt.wantEvent {
				t.Errorf("EventName(%q) = %q, %v; want %q, %v", tt.key, event, ok, tt.wantEvent, tt.wantBind)
			}
		})
	}
}

func TestAllowListPolicy(t *testing.T) {
	fn := func() {}
	tests := []struct {
		key      string
		wantBind bool
	}{
		{"onClick", true},
		{"onSubmit", true},
		{"onclick", false},
		{"onInput", false},
		{"onMouseEnter", false},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			_, ok := DefaultAllowList.EventName(tt.key, fn)
			if ok != tt.wantBind {
				t.Errorf("EventName(%q) bound = %v, want %v", tt.key, ok, tt.wantBind)
			}
		})
	}
}

func TestPoliciesDisagree(t *testing.T) {
	inputs := 0
	props := Props{"onInput": func() { inputs++ }}

	generic := MustBuild("input", props)
	allow, err := NewBuilder(DefaultAllowList).Build("input", props)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	generic.Dispatch(NewEvent("input"))
	allow.Dispatch(NewEvent("input"))
	if inputs != 1 {
		t.Errorf("input handler ran %d times, want 1 (generic binds, allow-list does not)", inputs)
	}
	if allow.IsInteractive() {
		t.Error("allow-list node should have no listeners for onInput")
	}
}

func TestNonEventCallableNeverInvoked(t *testing.T) {
	called := false
	node := MustBuild("div", Props{
		"render":  func() { called = true },
		"handler": func(*Event) { called = true },
	})
	for _, typ := range []string{"click", "submit", "render", "handler", "input"} {
		if n, _ := node.Dispatch(NewEvent(typ)); n != 0 {
			t.Errorf("Dispatch(%q) ran %d listeners, want 0", typ, n)
		}
	}
	if called {
		t.Error("callable under a non-event key was invoked")
	}
}

func TestDispatchOnlyMatchingEvent(t *testing.T) {
	var seen []string
	node := MustBuild("form", Props{
		"onSubmit": func(e *Event) { seen = append(seen, "submit:"+e.FormValue("title")) },
		"onClick":  func() { seen = append(seen, "click") },
	})

	e := NewEvent("submit")
	e.Form.Set("title", "Broken build")
	node.Dispatch(e)

	if len(seen) != 1 || seen[0] != "submit:Broken build" {
		t.Errorf("seen = %v, want [submit:Broken build]", seen)
	}
	if e.Target != node {
		t.Error("Dispatch should set the event target")
	}
	events := node.Events()
	sort.Strings(events)
	if len(events) != 2 || events[0] != "click" || events[1] != "submit" {
		t.Errorf("Events() = %v", events)
	}
}

func TestDispatchSameEventTwoKeys(t *testing.T) {
	var order []string
	node := MustBuild("button", Props{
		"onclick": func() { order = append(order, "lower") },
		"onClick": func() { order = append(order, "upper") },
	})
	n, _ := node.Dispatch(NewEvent("click"))
	if n != 2 {
		t.Fatalf("Dispatch ran %d listeners, want 2", n)
	}
	// Keys are bound in sorted order: "onClick" < "onclick".
	if order[0] != "upper" || order[1] != "lower" {
		t.Errorf("order = %v, want [upper lower]", order)
	}
}

func TestDispatchErrorsAndPanics(t *testing.T) {
	boom := errors.New("boom")
	failing := MustBuild("button", Props{"onClick": func(*Event) error { return boom }})
	if _, err := failing.Dispatch(NewEvent("click")); !errors.Is(err, boom) {
		t.Errorf("Dispatch() error = %v, want boom", err)
	}

	panicking := MustBuild("button", Props{"onClick": func() { panic("bad") }})
	if _, err := panicking.Dispatch(NewEvent("click")); err == nil {
		t.Error("Dispatch() should turn a listener panic into an error")
	}
}

func TestPreventDefault(t *testing.T) {
	node := MustBuild("form", Props{"onSubmit": func(e *Event) { e.PreventDefault() }})
	e := NewEvent("submit")
	node.Dispatch(e)
	if !e.DefaultPrevented() {
		t.Error("DefaultPrevented() = false after PreventDefault")
	}
}

func TestPolicyByName(t *testing.T) {
	if p, ok := PolicyByName("generic"); !ok || p != (GenericPolicy{}) {
		t.Errorf("PolicyByName(generic) = %v, %v", p, ok)
	}
	if _, ok := PolicyByName("allowlist"); !ok {
		t.Error("PolicyByName(allowlist) not found")
	}
	if _, ok := PolicyByName("bogus"); ok {
		t.Error("PolicyByName(bogus) should fail")
	}
}
