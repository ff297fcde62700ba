package server

import "context"

// EventContext describes one event while it is being handled. Middleware may
// replace Ctx, for example to carry a tracing span.
type EventContext struct {
	Ctx       context.Context
	SessionID string
	Seq       uint64
	HID       string
	Event     string
	Fields    int

	// RenderBytes is the size of the HTML sent after the event, set once
	// the re-render succeeded.
	RenderBytes int
}

// Middleware wraps event handling. next runs the listeners and re-renders;
// its error is a *HandlerError or a *RenderError.
type Middleware interface {
	Handle(ec *EventContext, next func() error) error
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(ec *EventContext, next func() error) error

// Handle calls f.
func (f MiddlewareFunc) Handle(ec *EventContext, next func() error) error {
	return f(ec, next)
}

// SessionObserver is notified about session lifecycle.
type SessionObserver interface {
	SessionOpened(s *Session)
	SessionClosed(s *Session)
}

// chain composes middleware so the first added runs outermost.
func chain(mws []Middleware, ec *EventContext, final func() error) error {
	next := final
	for i := len(mws) - 1; i >= 0; i-- {
		mw, inner := mws[i], next
		next = func() error { return mw.Handle(ec, inner) }
	}
	return next()
}
