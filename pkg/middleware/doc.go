// Package middleware provides event middleware for the ticketdesk server.
//
// # OpenTelemetry
//
// OpenTelemetry traces every resolved event. Spans are named after the
// event ("ticketdesk.click") and carry the HID, session ID and sequence
// number. The span context replaces EventContext.Ctx for the rest of the
// chain.
//
//	srv.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("ticketdesk"),
//	    middleware.WithEventFilter(func(ec *server.EventContext) bool {
//	        return ec.Event != "click"
//	    }),
//	))
//
// # Prometheus
//
// Prometheus returns a *Metrics that is both event middleware and a session
// observer:
//   - ticketdesk_events_total{event,status}
//   - ticketdesk_event_duration_seconds{event}
//   - ticketdesk_render_bytes
//   - ticketdesk_active_sessions
//   - ticketdesk_sessions_total
//
//	reg := prometheus.NewRegistry()
//	srv.Use(middleware.Prometheus(middleware.WithRegistry(reg)))
//	// serve promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
package middleware
