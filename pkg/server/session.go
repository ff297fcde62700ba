package server

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/ticketdesk/pkg/protocol"
	"github.com/vango-dev/ticketdesk/pkg/render"
	"github.com/vango-dev/ticketdesk/pkg/vdom"
)

// RootID is the id of the container every session renders into.
const RootID = "root"

// Session represents a single WebSocket connection and its view state.
//
// Events are handled one at a time by the goroutine running ReadLoop, so
// the tree is only touched from that goroutine. Writes are serialized by mu
// because the heartbeat writes concurrently.
type Session struct {
	// Identity
	ID string

	// Connection
	conn   *websocket.Conn
	mu     sync.Mutex // Protects writes
	closed atomic.Bool

	// View state
	view     vdom.View
	root     *vdom.VNode
	hidGen   *vdom.HIDGenerator
	renderer *render.Renderer

	// Configuration
	config     *SessionConfig
	middleware []Middleware

	// Metrics
	CreatedAt   time.Time
	lastActive  atomic.Int64
	eventCount  atomic.Uint64
	renderCount atomic.Uint64

	logger *slog.Logger
}

// newSession creates a session bound to conn that renders view.
func newSession(conn *websocket.Conn, view vdom.View, config *SessionConfig, mws []Middleware, logger *slog.Logger) *Session {
	if config == nil {
		config = DefaultSessionConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}
	id := generateSessionID()
	s := &Session{
		ID:         id,
		conn:       conn,
		view:       view,
		root:       vdom.Container("div", RootID),
		hidGen:     vdom.NewHIDGenerator(),
		renderer:   render.NewRenderer(render.RendererConfig{}),
		config:     config,
		middleware: mws,
		CreatedAt:  time.Now(),
		logger:     logger.With("session_id", id),
	}
	s.lastActive.Store(s.CreatedAt.UnixNano())
	return s
}

// generateSessionID creates a random 128-bit session ID.
func generateSessionID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return fmt.Sprintf("s%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b)
}

// Start performs the initial render and sends it with sequence 0.
func (s *Session) Start() error {
	_, err := s.render(0)
	return err
}

// Root returns the session's container. It must only be read from the
// goroutine handling events.
func (s *Session) Root() *vdom.VNode {
	return s.root
}

// handleEvent dispatches one client event and re-renders.
func (s *Session) handleEvent(ctx context.Context, ev *protocol.Event) {
	s.lastActive.Store(time.Now().UnixNano())
	s.eventCount.Add(1)

	node := vdom.FindByHID(s.root, ev.HID)
	if node == nil || !slices.Contains(node.Events(), ev.Name) {
		s.logger.Debug("handler not found", "handler", ev.Key())
		s.sendError(protocol.ErrHandlerNotFound, fmt.Sprintf("no %s listener on %s", ev.Name, ev.HID))
		return
	}

	ec := &EventContext{
		Ctx:       ctx,
		SessionID: s.ID,
		Seq:       ev.Seq,
		HID:       ev.HID,
		Event:     ev.Name,
		Fields:    len(ev.Fields),
	}
	err := chain(s.middleware, ec, func() error {
		e := vdom.NewEvent(ev.Name)
		if ev.Fields != nil {
			e.Form = ev.Fields
		}
		var handlerErr error
		if _, err := node.Dispatch(e); err != nil {
			handlerErr = &HandlerError{HID: ev.HID, Event: ev.Name, Err: err}
		}
		// Listeners that ran before a failing one may have changed state.
		n, err := s.render(ev.Seq)
		if err != nil {
			return errors.Join(handlerErr, err)
		}
		ec.RenderBytes = n
		return handlerErr
	})
	if err == nil {
		return
	}

	var (
		herr *HandlerError
		rerr *RenderError
	)
	switch {
	case errors.As(err, &rerr):
		s.logger.Error("render failed", "hid", ev.HID, "event", ev.Name, "error", rerr.Err)
		s.sendError(protocol.ErrRenderFailed, rerr.Err.Error())
	case errors.As(err, &herr):
		s.logger.Warn("listener failed", "hid", ev.HID, "event", ev.Name, "error", herr.Err)
		s.sendError(protocol.ErrHandlerFailed, herr.Err.Error())
	default:
		s.logger.Debug("event not completed", "hid", ev.HID, "event", ev.Name, "error", err)
	}
}

// render rebuilds the view, reassigns HIDs and sends the HTML. On a build
// failure the previous tree stays in place.
func (s *Session) render(seq uint64) (int, error) {
	if err := s.safeRender(); err != nil {
		return 0, &RenderError{Err: err}
	}
	s.hidGen.Reset()
	vdom.AssignHIDs(s.root, s.hidGen)

	html, err := s.renderer.RenderChildren(s.root)
	if err != nil {
		return 0, &RenderError{Err: err}
	}
	payload := protocol.EncodeRender(&protocol.Render{Seq: seq, HTML: html})
	if err := s.send(protocol.FrameRender, payload); err != nil {
		return 0, err
	}
	s.renderCount.Add(1)
	s.logger.Debug("rendered", "seq", seq, "bytes", len(html), "interactive", s.hidGen.Current())
	return len(html), nil
}

// safeRender runs the view, converting a panic into an error.
func (s *Session) safeRender() (err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("view panic", "panic", r, "stack", string(debug.Stack()))
			err = fmt.Errorf("view panic: %v", r)
		}
	}()
	return vdom.Render(s.root, s.view)
}

// send writes a frame as one binary WebSocket message.
func (s *Session) send(ft protocol.FrameType, payload []byte) error {
	if s.closed.Load() {
		return ErrSessionClosed
	}
	if s.conn == nil {
		return ErrNoConnection
	}
	frame := protocol.NewFrame(ft, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, frame.Encode()); err != nil {
		return &SessionError{SessionID: s.ID, Op: "write", Err: err}
	}
	return nil
}

// sendError sends an error frame to the client.
func (s *Session) sendError(code protocol.ErrorCode, message string) {
	payload := protocol.EncodeErrorMessage(protocol.NewError(code, message))
	if err := s.send(protocol.FrameError, payload); err != nil && !errors.Is(err, ErrSessionClosed) {
		s.logger.Debug("send error frame failed", "error", err)
	}
}

// sendControl sends a ping or pong control frame.
func (s *Session) sendControl(ct protocol.ControlType) error {
	return s.send(protocol.FrameControl, protocol.EncodeControl(ct))
}

// Close closes the session with a normal closure.
func (s *Session) Close() {
	s.closeWith(websocket.CloseNormalClosure, "")
}

// closeWith sends a close message with the given code and closes the
// connection. Safe to call more than once.
func (s *Session) closeWith(code int, reason string) {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	if s.conn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := websocket.FormatCloseMessage(code, reason)
	s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	s.conn.Close()
}

// IsClosed reports whether the session has been closed.
func (s *Session) IsClosed() bool {
	return s.closed.Load()
}

// LastActive returns the time of the last client event.
func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}

// Stats returns a snapshot of the session counters.
func (s *Session) Stats() SessionStats {
	return SessionStats{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		LastActive: s.LastActive(),
		Events:     s.eventCount.Load(),
		Renders:    s.renderCount.Load(),
	}
}

// SessionStats contains session statistics.
type SessionStats struct {
	ID         string
	CreatedAt  time.Time
	LastActive time.Time
	Events     uint64
	Renders    uint64
}
