package server

import (
	"context"
	"errors"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/ticketdesk/pkg/protocol"
)

// Serve runs the session until the client disconnects, the connection
// fails or ctx is cancelled. It performs the initial render first.
func (s *Session) Serve(ctx context.Context) error {
	if err := s.Start(); err != nil {
		var rerr *RenderError
		if errors.As(err, &rerr) {
			s.logger.Error("initial render failed", "error", rerr.Err)
			s.sendError(protocol.ErrRenderFailed, rerr.Err.Error())
		} else {
			s.Close()
			return err
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return s.ReadLoop(ctx)
	})
	g.Go(func() error {
		s.heartbeat(ctx)
		return nil
	})
	err := g.Wait()
	s.Close()
	return err
}

// ReadLoop reads frames from the WebSocket and handles them in order.
// It returns nil on a normal client close.
func (s *Session) ReadLoop(ctx context.Context) error {
	if s.config.MaxMessageSize > 0 {
		s.conn.SetReadLimit(s.config.MaxMessageSize)
	}
	for {
		s.conn.SetReadDeadline(time.Now().Add(s.config.ReadTimeout))
		msgType, data, err := s.conn.ReadMessage()
		if err != nil {
			if s.closed.Load() {
				return nil
			}
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				s.logger.Warn("websocket read error", "error", err)
				return &SessionError{SessionID: s.ID, Op: "read", Err: err}
			}
			return nil
		}
		if msgType != websocket.BinaryMessage {
			s.sendError(protocol.ErrInvalidFrame, "expected a binary message")
			continue
		}

		frame, err := protocol.DecodeFrame(data)
		if err != nil {
			s.logger.Debug("invalid frame", "error", err)
			s.sendError(protocol.ErrInvalidFrame, err.Error())
			continue
		}

		switch frame.Type {
		case protocol.FrameEvent:
			ev, err := protocol.DecodeEvent(frame.Payload)
			if err != nil {
				s.logger.Debug("invalid event", "error", err)
				s.sendError(protocol.ErrInvalidFrame, err.Error())
				continue
			}
			s.handleEvent(ctx, ev)
		case protocol.FrameControl:
			s.handleControlFrame(frame.Payload)
		default:
			s.sendError(protocol.ErrInvalidFrame, "unexpected frame type "+frame.Type.String())
		}
	}
}

// handleControlFrame answers pings. Pongs only refresh the read deadline,
// which already happened when the frame was read.
func (s *Session) handleControlFrame(payload []byte) {
	ct, err := protocol.DecodeControl(payload)
	if err != nil {
		s.sendError(protocol.ErrInvalidFrame, err.Error())
		return
	}
	switch ct {
	case protocol.ControlPing:
		if err := s.sendControl(protocol.ControlPong); err != nil {
			s.logger.Debug("send pong failed", "error", err)
		}
	case protocol.ControlPong:
	default:
		s.sendError(protocol.ErrInvalidFrame, "unknown control "+ct.String())
	}
}

// heartbeat pings the client until ctx is done, then closes the session so
// a blocked ReadLoop returns.
func (s *Session) heartbeat(ctx context.Context) {
	ticker := time.NewTicker(s.config.HeartbeatInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Close()
			return
		case <-ticker.C:
			if err := s.sendControl(protocol.ControlPing); err != nil {
				s.logger.Debug("heartbeat failed", "error", err)
				s.Close()
				return
			}
		}
	}
}
