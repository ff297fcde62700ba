package vdom

import (
	"fmt"
	"net/url"
)

// Listener is the normalized form of every bound event handler.
type Listener func(e *Event) error

// Event is a UI event delivered to a built node.
type Event struct {
	// Type is the lower-case event name ("click", "submit").
	Type string

	// Target is the node the event was dispatched on.
	Target *VNode

	// Form holds the submitted form fields for submit events.
	Form url.Values

	defaultPrevented bool
}

// NewEvent creates an event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, Form: url.Values{}}
}

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() {
	e.defaultPrevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.defaultPrevented
}

// FormValue returns the first value for the named form field.
func (e *Event) FormValue(name string) string {
	if e.Form == nil {
		return ""
	}
	return e.Form.Get(name)
}

// toListener normalizes a callable prop value. The second result is false
// when the value is not a callable this package knows how to invoke.
func toListener(value any) (Listener, bool) {
	switch fn := value.(type) {
	case nil:
		return nil, false
	case Listener:
		return fn, fn != nil
	case func(*Event) error:
		return fn, fn != nil
	case func(*Event):
		if fn == nil {
			return nil, false
		}
		return func(e *Event) error {
			fn(e)
			return nil
		}, true
	case func():
		if fn == nil {
			return nil, false
		}
		return func(*Event) error {
			fn()
			return nil
		}, true
	default:
		return nil, false
	}
}

// IsCallable reports whether value can be bound as a listener.
func IsCallable(value any) bool {
	_, ok := toListener(value)
	return ok
}

// addListener binds l for the named event.
func (v *VNode) addListener(event string, l Listener) {
	if v.Listeners == nil {
		v.Listeners = make(map[string][]Listener)
	}
	v.Listeners[event] = append(v.Listeners[event], l)
}

// Dispatch invokes every listener bound for e.Type exactly once, in binding
// order. It returns how many listeners ran. Dispatch stops at the first
// listener error; a listener panic is returned as an error.
func (v *VNode) Dispatch(e *Event) (n int, err error) {
	if v == nil || e == nil {
		return 0, nil
	}
	if e.Target == nil {
		e.Target = v
	}
	for _, l := range v.Listeners[e.Type] {
		if err := invoke(l, e); err != nil {
			return n + 1, err
		}
		n++
	}
	return n, nil
}

func invoke(l Listener, e *Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("vdom: %s listener panicked: %v", e.Type, r)
		}
	}()
	return l(e)
}
