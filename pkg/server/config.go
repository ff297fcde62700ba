package server

import (
	"net/http"
	"net/url"
	"strings"
	"time"
)

// SessionConfig holds configuration for individual sessions.
type SessionConfig struct {
	// ReadTimeout is the maximum time to wait for a message from the client.
	// Heartbeat pings keep a quiet but healthy connection alive.
	// Default: 60 seconds.
	ReadTimeout time.Duration

	// WriteTimeout is the maximum time to wait when sending a message.
	// Default: 10 seconds.
	WriteTimeout time.Duration

	// HeartbeatInterval is the time between heartbeat pings. It is capped
	// at half of ReadTimeout.
	// Default: 25 seconds.
	HeartbeatInterval time.Duration

	// MaxMessageSize is the maximum size of an incoming WebSocket message.
	// Default: 64KB.
	MaxMessageSize int64
}

// DefaultSessionConfig returns a SessionConfig with sensible defaults.
func DefaultSessionConfig() *SessionConfig {
	return &SessionConfig{
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      10 * time.Second,
		HeartbeatInterval: 25 * time.Second,
		MaxMessageSize:    64 * 1024,
	}
}

// ServerConfig holds configuration for the HTTP/WebSocket server.
type ServerConfig struct {
	// Address is the host:port to listen on.
	Address string

	// Title is the document title of the served page.
	Title string

	// Styles are inlined into the page head.
	Styles []string

	// ReadHeaderTimeout bounds reading request headers.
	ReadHeaderTimeout time.Duration

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration

	// AllowedOrigins lists origins allowed to open the WebSocket in addition
	// to the page's own origin. "*" allows any origin.
	AllowedOrigins []string

	// MaxSessions caps concurrent sessions. Zero means unlimited.
	MaxSessions int

	// MetricsPath and MetricsHandler mount a metrics endpoint when both are set.
	MetricsPath    string
	MetricsHandler http.Handler

	// SessionConfig configures each session.
	SessionConfig *SessionConfig
}

// DefaultServerConfig returns a ServerConfig with sensible defaults.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Address:           "localhost:3000",
		Title:             "Tickets",
		ReadHeaderTimeout: 10 * time.Second,
		ShutdownTimeout:   15 * time.Second,
		MaxSessions:       1000,
		SessionConfig:     DefaultSessionConfig(),
	}
}

// withDefaults fills unset fields from DefaultServerConfig.
func (c *ServerConfig) withDefaults() *ServerConfig {
	defaults := DefaultServerConfig()
	if c == nil {
		return defaults
	}
	out := *c
	if out.Address == "" {
		out.Address = defaults.Address
	}
	if out.ReadHeaderTimeout == 0 {
		out.ReadHeaderTimeout = defaults.ReadHeaderTimeout
	}
	if out.ShutdownTimeout == 0 {
		out.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if out.SessionConfig == nil {
		out.SessionConfig = defaults.SessionConfig
	} else {
		sc := *out.SessionConfig
		d := defaults.SessionConfig
		if sc.ReadTimeout == 0 {
			sc.ReadTimeout = d.ReadTimeout
		}
		if sc.WriteTimeout == 0 {
			sc.WriteTimeout = d.WriteTimeout
		}
		if sc.HeartbeatInterval == 0 {
			sc.HeartbeatInterval = d.HeartbeatInterval
		}
		if sc.MaxMessageSize == 0 {
			sc.MaxMessageSize = d.MaxMessageSize
		}
		// A ping must reach the client, and its pong come back, before the
		// read deadline expires or idle tabs are dropped.
		if sc.HeartbeatInterval >= sc.ReadTimeout {
			sc.HeartbeatInterval = sc.ReadTimeout / 2
		}
		out.SessionConfig = &sc
	}
	return &out
}

// checkOrigin returns a websocket origin check for the configured origins.
// Requests without an Origin header (non-browser clients) are allowed.
func (c *ServerConfig) checkOrigin() func(r *http.Request) bool {
	allowed := make(map[string]bool, len(c.AllowedOrigins))
	anyOrigin := false
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			anyOrigin = true
		}
		allowed[strings.ToLower(strings.TrimRight(o, "/"))] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || anyOrigin {
			return true
		}
		if allowed[strings.ToLower(origin)] {
			return true
		}
		u, err := url.Parse(origin)
		if err != nil {
			return false
		}
		return strings.EqualFold(u.Host, r.Host)
	}
}
