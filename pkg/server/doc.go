// Package server hosts views over HTTP and WebSocket.
//
// # Architecture
//
// The server owns three routes: the page shell at "/", the embedded thin
// client, and the WebSocket at "/ws". Each WebSocket connection becomes a
// Session with its own view, created by the AppFactory:
//
//	Browser                         Server
//	  │  GET /                        │  render fresh view into #root
//	  │  GET /ws ───────────────────► │  Session: Render frame (seq 0)
//	  │  Event{hid, name, fields} ──► │  FindByHID → Dispatch → re-render
//	  │ ◄─────────── Render{seq,html} │
//	  │ ◄──────────── Control{Ping}   │  heartbeat
//
// # Session
//
// A Session is driven by a single goroutine (ReadLoop), so events are
// handled one at a time in arrival order. Every event rebuilds the whole
// view and renumbers hydration IDs; an event that refers to an ID or event
// name absent from the current tree gets a HandlerNotFound error frame.
//
// Listener errors and panics are reported as HandlerFailed, view build
// failures as RenderFailed. In both cases the session keeps running and
// the previous HTML stays on screen.
//
// # SessionManager
//
// The manager enforces ServerConfig.MaxSessions. Connections over the limit
// get a ServerBusy error frame and close code 1013 (try again later).
//
// # Middleware
//
// Middleware wraps each resolved event, see pkg/middleware for metrics and
// tracing. Middleware implementing SessionObserver is told when sessions
// open and close.
package server
