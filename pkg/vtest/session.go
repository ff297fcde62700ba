package vtest

import (
	"errors"
	"fmt"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/ticketdesk/pkg/protocol"
	"github.com/vango-dev/ticketdesk/pkg/server"
)

// Common errors for live session operations.
var (
	ErrElementNotFound = errors.New("vtest: element not found")
	ErrNotInteractive  = errors.New("vtest: element has no data-hid")
	ErrDisconnected    = errors.New("vtest: session is disconnected")
	ErrTimeout         = errors.New("vtest: timed out waiting for the server")
)

// SessionConfig configures a live Session.
type SessionConfig struct {
	// Timeout bounds each wait for a server frame. Default: 5 seconds.
	Timeout time.Duration
}

// SessionOption configures a Session.
type SessionOption func(*SessionConfig)

// WithTimeout sets how long to wait for each server frame.
func WithTimeout(d time.Duration) SessionOption {
	return func(c *SessionConfig) {
		c.Timeout = d
	}
}

// Session is a scripted browser tab connected to a server.
type Session struct {
	tb     testing.TB
	srv    *server.Server
	ts     *httptest.Server
	conn   *websocket.Conn
	frames chan frameResult
	config SessionConfig

	seq     uint64
	html    string
	doc     *html.Node
	renders int
	lastErr *protocol.ErrorMessage
}

// Connect starts srv on a test listener, opens a WebSocket and waits for
// the initial render. The listener and connection are closed on cleanup.
func Connect(tb testing.TB, srv *server.Server, opts ...SessionOption) *Session {
	tb.Helper()
	config := SessionConfig{Timeout: 5 * time.Second}
	for _, opt := range opts {
		opt(&config)
	}

	s := &Session{
		tb:     tb,
		srv:    srv,
		ts:     httptest.NewServer(srv),
		config: config,
	}
	tb.Cleanup(func() {
		s.SimulateDisconnect()
		srv.Sessions().Shutdown()
		s.ts.Close()
	})
	if err := s.dial(); err != nil {
		tb.Fatalf("vtest: connect: %v", err)
	}
	return s
}

func (s *Session) dial() error {
	u := "ws" + strings.TrimPrefix(s.ts.URL, "http") + server.WebSocketPath
	conn, _, err := websocket.DefaultDialer.Dial(u, nil)
	if err != nil {
		return err
	}
	s.conn = conn
	s.frames = make(chan frameResult, 16)
	s.seq = 0
	go readFrames(conn, s.frames)
	return s.awaitRender()
}

type frameResult struct {
	frame *protocol.Frame
	err   error
}

// readFrames forwards decoded frames until the connection fails.
func readFrames(conn *websocket.Conn, out chan<- frameResult) {
	defer close(out)
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			out <- frameResult{err: err}
			return
		}
		f, err := protocol.DecodeFrame(data)
		out <- frameResult{frame: f, err: err}
	}
}

// URL returns the base URL of the test server.
func (s *Session) URL() string { return s.ts.URL }

// HTML returns the children of the root from the last Render frame.
func (s *Session) HTML() string { return s.html }

// Renders returns how many Render frames this connection received.
func (s *Session) Renders() int { return s.renders }

// LastError returns the last error frame, or nil. Successful events reset it.
func (s *Session) LastError() *protocol.ErrorMessage { return s.lastErr }

// HID returns the data-hid of the element with the given id.
func (s *Session) HID(id string) (string, error) {
	n := findByID(s.doc, id)
	if n == nil {
		return "", fmt.Errorf("%w: #%s", ErrElementNotFound, id)
	}
	hid := attr(n, "data-hid")
	if hid == "" {
		return "", fmt.Errorf("%w: #%s", ErrNotInteractive, id)
	}
	return hid, nil
}

// HIDByClass returns the data-hid of the i-th element (in document order)
// whose class list contains class.
func (s *Session) HIDByClass(class string, i int) (string, error) {
	var matches []*html.Node
	walkElements(s.doc, func(n *html.Node) {
		if hasClass(n, class) {
			matches = append(matches, n)
		}
	})
	if i < 0 || i >= len(matches) {
		return "", fmt.Errorf("%w: .%s[%d] (%d matches)", ErrElementNotFound, class, i, len(matches))
	}
	hid := attr(matches[i], "data-hid")
	if hid == "" {
		return "", fmt.Errorf("%w: .%s[%d]", ErrNotInteractive, class, i)
	}
	return hid, nil
}

// ClickClass clicks the i-th element with the given class.
func (s *Session) ClickClass(class string, i int) error {
	hid, err := s.HIDByClass(class, i)
	if err != nil {
		return err
	}
	return s.Send(hid, "click", nil)
}

// Texts returns the text of every element with the given class.
func (s *Session) Texts(class string) []string {
	var out []string
	walkElements(s.doc, func(n *html.Node) {
		if hasClass(n, class) {
			out = append(out, textOf(n))
		}
	})
	return out
}

// Text returns the text content of the element with the given id.
func (s *Session) Text(id string) string {
	n := findByID(s.doc, id)
	if n == nil {
		return ""
	}
	return textOf(n)
}

// Click sends a click on the element with the given id and waits for the
// server's answer.
func (s *Session) Click(id string) error {
	return s.fire(id, "click", nil)
}

// Submit sends a submit with values on the form with the given id.
func (s *Session) Submit(id string, values url.Values) error {
	return s.fire(id, "submit", values)
}

// Send sends a raw event, for exercising stale or unknown HIDs.
func (s *Session) Send(hid, event string, values url.Values) error {
	if s.conn == nil {
		return ErrDisconnected
	}
	s.seq++
	ev := &protocol.Event{Seq: s.seq, HID: hid, Name: event, Fields: values}
	frame := protocol.NewFrame(protocol.FrameEvent, protocol.EncodeEvent(ev))
	if err := s.conn.WriteMessage(websocket.BinaryMessage, frame.Encode()); err != nil {
		return err
	}
	return s.awaitRender()
}

// Fire sends event on the element with the given id. Like the browser
// client, it only forwards events the element carries a data-on-<event>
// marker for.
func (s *Session) Fire(id, event string, values url.Values) error {
	return s.fire(id, event, values)
}

func (s *Session) fire(id, event string, values url.Values) error {
	hid, err := s.HID(id)
	if err != nil {
		return err
	}
	if n := findByID(s.doc, id); attr(n, "data-on-"+event) == "" {
		return fmt.Errorf("%w: #%s has no %s listener", ErrNotInteractive, id, event)
	}
	return s.Send(hid, event, values)
}

// awaitRender reads frames until a Render arrives. An Error frame ends the
// wait with that error; pings are answered. A listener error arrives after
// its Render, so a short follow-up read collects it.
func (s *Session) awaitRender() error {
	s.lastErr = nil
	for {
		f, err := s.readFrame(s.config.Timeout)
		if err != nil {
			return err
		}
		switch f.Type {
		case protocol.FrameRender:
			r, err := protocol.DecodeRender(f.Payload)
			if err != nil {
				return err
			}
			if err := s.setHTML(r.HTML); err != nil {
				return err
			}
			s.renders++
			if r.Seq != 0 {
				s.collectTrailingError()
			}
			if s.lastErr != nil {
				return s.lastErr
			}
			return nil
		case protocol.FrameError:
			em, err := protocol.DecodeErrorMessage(f.Payload)
			if err != nil {
				return err
			}
			s.lastErr = em
			return em
		case protocol.FrameControl:
			s.answerControl(f.Payload)
		}
	}
}

func (s *Session) collectTrailingError() {
	f, err := s.readFrame(50 * time.Millisecond)
	if err != nil {
		return
	}
	switch f.Type {
	case protocol.FrameError:
		if em, err := protocol.DecodeErrorMessage(f.Payload); err == nil {
			s.lastErr = em
		}
	case protocol.FrameControl:
		s.answerControl(f.Payload)
	}
}

func (s *Session) readFrame(timeout time.Duration) (*protocol.Frame, error) {
	if s.conn == nil {
		return nil, ErrDisconnected
	}
	select {
	case r, ok := <-s.frames:
		if !ok {
			return nil, ErrDisconnected
		}
		return r.frame, r.err
	case <-time.After(timeout):
		return nil, ErrTimeout
	}
}

func (s *Session) answerControl(payload []byte) {
	if ct, err := protocol.DecodeControl(payload); err == nil && ct == protocol.ControlPing {
		pong := protocol.NewFrame(protocol.FrameControl, protocol.EncodeControl(protocol.ControlPong))
		s.conn.WriteMessage(websocket.BinaryMessage, pong.Encode())
	}
}

func (s *Session) setHTML(fragment string) error {
	container := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), container)
	if err != nil {
		return err
	}
	for _, n := range nodes {
		container.AppendChild(n)
	}
	s.html = fragment
	s.doc = container
	return nil
}

// SimulateDisconnect closes the WebSocket like a closed tab.
func (s *Session) SimulateDisconnect() error {
	if s.conn == nil {
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
	s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	err := s.conn.Close()
	s.conn = nil
	return err
}

// SimulateReconnect disconnects and opens a new WebSocket. State is
// per-connection, so the new session starts from the factory's state.
func (s *Session) SimulateReconnect() error {
	if err := s.SimulateDisconnect(); err != nil {
		return err
	}
	s.renders = 0
	return s.dial()
}

// SimulateRefresh fetches the page shell over HTTP, then reconnects. It
// returns the server-rendered page.
func (s *Session) SimulateRefresh() (string, error) {
	resp, err := s.ts.Client().Get(s.ts.URL + "/")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := html.Render(&b, doc); err != nil {
		return "", err
	}
	return b.String(), s.SimulateReconnect()
}

// WaitForSessions polls until the server has n live sessions.
func (s *Session) WaitForSessions(n int) error {
	deadline := time.Now().Add(s.config.Timeout)
	for time.Now().Before(deadline) {
		if s.srv.Sessions().Count() == n {
			return nil
		}
		time.Sleep(5 * time.Millisecond)
	}
	return fmt.Errorf("vtest: %d sessions, want %d", s.srv.Sessions().Count(), n)
}

func findByID(n *html.Node, id string) *html.Node {
	if n == nil {
		return nil
	}
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func walkElements(n *html.Node, fn func(*html.Node)) {
	if n == nil {
		return
	}
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walkElements(c, fn)
	}
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}
