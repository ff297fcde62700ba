package middleware

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/ticketdesk/pkg/server"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "ticketdesk").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for event duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "ticketdesk",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Event outcome labels.
const (
	StatusSuccess     = "success"
	StatusHandlerErr  = "handler_error"
	StatusRenderErr   = "render_error"
	StatusWriteFailed = "write_error"
)

// Metrics collects Prometheus metrics for events and sessions. It is both
// a server.Middleware and a server.SessionObserver.
type Metrics struct {
	eventsTotal    *prometheus.CounterVec
	eventDuration  *prometheus.HistogramVec
	renderBytes    prometheus.Histogram
	activeSessions prometheus.Gauge
	sessionsTotal  prometheus.Counter
}

var (
	_ server.Middleware      = (*Metrics)(nil)
	_ server.SessionObserver = (*Metrics)(nil)
)

// Prometheus creates the metrics middleware and registers its collectors.
//
// Metrics collected:
//   - ticketdesk_events_total: Counter of events by event name and status
//   - ticketdesk_event_duration_seconds: Histogram of dispatch plus re-render time
//   - ticketdesk_render_bytes: Histogram of HTML sent per re-render
//   - ticketdesk_active_sessions: Gauge of connected sessions
//   - ticketdesk_sessions_total: Counter of sessions opened
//
// Registering twice on the same registry panics, as with promauto.
func Prometheus(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	return &Metrics{
		eventsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "events_total",
			Help:        "Total number of UI events processed",
			ConstLabels: config.ConstLabels,
		}, []string{"event", "status"}),

		eventDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "event_duration_seconds",
			Help:        "Event dispatch and re-render duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"event"}),

		renderBytes: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "render_bytes",
			Help:        "Size of the HTML sent per re-render",
			ConstLabels: config.ConstLabels,
			Buckets:     prometheus.ExponentialBuckets(256, 4, 8), // 256B to 4MB
		}),

		activeSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "active_sessions",
			Help:        "Number of active WebSocket sessions",
			ConstLabels: config.ConstLabels,
		}),

		sessionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "sessions_total",
			Help:        "Total number of sessions opened",
			ConstLabels: config.ConstLabels,
		}),
	}
}

// Handle times the event and counts its outcome. Only events that resolved
// to a bound listener reach middleware, so the event label stays bounded.
func (m *Metrics) Handle(ec *server.EventContext, next func() error) error {
	start := time.Now()
	err := next()
	m.eventDuration.WithLabelValues(ec.Event).Observe(time.Since(start).Seconds())
	m.eventsTotal.WithLabelValues(ec.Event, eventStatus(err)).Inc()
	if ec.RenderBytes > 0 {
		m.renderBytes.Observe(float64(ec.RenderBytes))
	}
	return err
}

// SessionOpened implements server.SessionObserver.
func (m *Metrics) SessionOpened(*server.Session) {
	m.activeSessions.Inc()
	m.sessionsTotal.Inc()
}

// SessionClosed implements server.SessionObserver.
func (m *Metrics) SessionClosed(*server.Session) {
	m.activeSessions.Dec()
}

// eventStatus maps an event error to a low-cardinality label.
func eventStatus(err error) string {
	var (
		rerr *server.RenderError
		herr *server.HandlerError
	)
	switch {
	case err == nil:
		return StatusSuccess
	case errors.As(err, &rerr):
		return StatusRenderErr
	case errors.As(err, &herr):
		return StatusHandlerErr
	default:
		return StatusWriteFailed
	}
}
