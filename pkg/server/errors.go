package server

import (
	"errors"
	"fmt"
)

// Sentinel errors for common session and server error conditions.
var (
	// ErrSessionClosed is returned when an operation is attempted on a closed session.
	ErrSessionClosed = errors.New("server: session closed")

	// ErrHandlerNotFound is returned when no listener is bound for an HID and event.
	ErrHandlerNotFound = errors.New("server: handler not found")

	// ErrMaxSessionsReached is returned when the maximum number of sessions is reached.
	ErrMaxSessionsReached = errors.New("server: max sessions reached")

	// ErrNoConnection is returned when attempting to send on a nil connection.
	ErrNoConnection = errors.New("server: no connection")
)

// SessionError wraps an error with session context for debugging.
type SessionError struct {
	SessionID string
	Op        string // Operation that failed
	Err       error  // Underlying error
}

// Error returns the error message with session context.
func (e *SessionError) Error() string {
	if e.SessionID == "" {
		return fmt.Sprintf("server: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("server: session %s: %s: %v", e.SessionID, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *SessionError) Unwrap() error {
	return e.Err
}

// HandlerError is returned when an event listener fails.
type HandlerError struct {
	HID   string
	Event string
	Err   error
}

// Error returns the error message with the listener location.
func (e *HandlerError) Error() string {
	return fmt.Sprintf("server: %s listener on %s: %v", e.Event, e.HID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *HandlerError) Unwrap() error {
	return e.Err
}

// RenderError is returned when a re-render after an event fails.
type RenderError struct {
	Err error
}

// Error returns the error message.
func (e *RenderError) Error() string {
	return fmt.Sprintf("server: render: %v", e.Err)
}

// Unwrap returns the underlying error for errors.Is/As.
func (e *RenderError) Unwrap() error {
	return e.Err
}
