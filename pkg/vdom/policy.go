package vdom

import "strings"

// BindingPolicy decides which props become event listeners.
type BindingPolicy interface {
	// EventName returns the event a prop binds to, or false when the prop
	// is a plain attribute.
	EventName(key string, value any) (string, bool)
}

// GenericPolicy binds every "on"-prefixed prop holding a callable; the event
// name is the lower-cased suffix (onClick -> click, onMouseEnter -> mouseenter).
type GenericPolicy struct{}

// EventName implements BindingPolicy.
func (GenericPolicy) EventName(key string, value any) (string, bool) {
	if len(key) <= 2 || !strings.HasPrefix(key, "on") {
		return "", false
	}
	if !IsCallable(value) {
		return "", false
	}
	return strings.ToLower(key[2:]), true
}

// AllowListPolicy binds only on<Capitalized> props of the listed events.
type AllowListPolicy struct {
	Events []string
}

// DefaultAllowList is the fixed two-event list of the allow-list policy.
var DefaultAllowList = AllowListPolicy{Events: []string{"click", "submit"}}

// EventName implements BindingPolicy.
func (p AllowListPolicy) EventName(key string, value any) (string, bool) {
	for _, event := range p.Events {
		if key == "on"+capitalize(event) && IsCallable(value) {
			return event, true
		}
	}
	return "", false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// PolicyByName returns the policy registered under name ("generic" or
// "allowlist").
func PolicyByName(name string) (BindingPolicy, bool) {
	switch strings.ToLower(name) {
	case "", "generic":
		return GenericPolicy{}, true
	case "allowlist", "allow-list":
		return DefaultAllowList, true
	default:
		return nil, false
	}
}
