package server

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/vango-dev/ticketdesk/pkg/protocol"
	"github.com/vango-dev/ticketdesk/pkg/render"
	"github.com/vango-dev/ticketdesk/pkg/vdom"
)

// Route paths.
const (
	WebSocketPath = "/ws"
	HealthPath    = "/healthz"
	ClientPath    = render.DefaultClientScript
)

// AppFactory creates the view for a new session. Each call must return a
// view over fresh, unshared state.
type AppFactory func() vdom.View

// Server serves the page shell, the thin client and the WebSocket.
type Server struct {
	config     *ServerConfig
	factory    AppFactory
	middleware []Middleware
	sessions   *SessionManager
	renderer   *render.Renderer
	upgrader   websocket.Upgrader
	router     chi.Router
	logger     *slog.Logger
}

// New creates a server. Unset config fields take their defaults.
func New(factory AppFactory, config *ServerConfig) *Server {
	config = config.withDefaults()
	logger := slog.Default().With("component", "server")

	s := &Server{
		config:   config,
		factory:  factory,
		sessions: NewSessionManager(config.MaxSessions, slog.Default()),
		renderer: render.NewRenderer(render.RendererConfig{}),
		logger:   logger,
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 4096,
		CheckOrigin:     config.checkOrigin(),
	}
	s.router = s.routes()
	return s
}

// Use appends event middleware. Middleware that also implements
// SessionObserver is registered with the session manager.
func (s *Server) Use(mws ...Middleware) {
	for _, mw := range mws {
		s.middleware = append(s.middleware, mw)
		if o, ok := mw.(SessionObserver); ok {
			s.sessions.Observe(o)
		}
	}
}

// Sessions returns the session manager.
func (s *Server) Sessions() *SessionManager {
	return s.sessions
}

// Config returns the effective configuration.
func (s *Server) Config() *ServerConfig {
	return s.config
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)

	r.Get("/", s.handlePage)
	r.Get(ClientPath, s.handleClientScript)
	r.Get(WebSocketPath, s.HandleWebSocket)
	r.Get(HealthPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte("ok"))
	})
	if s.config.MetricsPath != "" && s.config.MetricsHandler != nil {
		r.Method(http.MethodGet, s.config.MetricsPath, s.config.MetricsHandler)
	}
	return r
}

// requestLogger logs each request with slog once it completes.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}

// handlePage server-renders the initial state into the page shell.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	root := vdom.Container("div", RootID)
	if err := vdom.Render(root, s.factory()); err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	vdom.AssignHIDs(root, vdom.NewHIDGenerator())

	var buf bytes.Buffer
	err := s.renderer.RenderPage(&buf, render.PageData{
		Body:   root,
		Title:  s.config.Title,
		Styles: s.config.Styles,
		Meta:   []render.MetaTag{{Name: "ticketdesk-ws", Content: WebSocketPath}},
	})
	if err != nil {
		s.logger.Error("page write failed", "error", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.Write(buf.Bytes())
}

// HandleWebSocket upgrades the connection and runs a session on it.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	sess := newSession(conn, s.factory(), s.config.SessionConfig, s.middleware, slog.Default())
	if err := s.sessions.Add(sess); err != nil {
		sess.sendError(protocol.ErrServerBusy, err.Error())
		sess.closeWith(websocket.CloseTryAgainLater, "server busy")
		return
	}
	defer s.sessions.Remove(sess.ID)

	sess.logger.Info("session started", "remote", r.RemoteAddr)
	if err := sess.Serve(r.Context()); err != nil {
		sess.logger.Warn("session ended with error", "error", err)
		return
	}
	sess.logger.Info("session ended")
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled, then closes every session and
// shuts the HTTP server down within ShutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		s.logger.Info("shutting down", "sessions", s.sessions.Count())
		s.sessions.Shutdown()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
