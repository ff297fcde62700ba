package middleware

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/ticketdesk/pkg/server"
)

// Default tracer name.
const defaultTracerName = "ticketdesk"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer (default: "ticketdesk").
	TracerName string

	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider

	// Filter determines which events to trace.
	// Return true to trace the event, false to skip.
	// If nil, all events are traced.
	Filter func(ec *server.EventContext) bool

	// AttributeExtractor adds custom attributes for each traced event.
	AttributeExtractor func(ec *server.EventContext) []attribute.KeyValue
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithEventFilter sets a filter function for events.
func WithEventFilter(filter func(ec *server.EventContext) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(ec *server.EventContext) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

// OpenTelemetry creates middleware that traces every event.
//
// Each span carries the event name, target HID, session ID and sequence
// number, and the rendered byte count once the event completes. The span
// context replaces ec.Ctx for the rest of the chain.
//
// Without WithTracerProvider the global provider is used; configure it in
// main() with otel.SetTracerProvider.
func OpenTelemetry(opts ...OTelOption) server.Middleware {
	config := OTelConfig{TracerName: defaultTracerName}
	for _, opt := range opts {
		opt(&config)
	}

	var tracer trace.Tracer
	if config.TracerProvider != nil {
		tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}

	return server.MiddlewareFunc(func(ec *server.EventContext, next func() error) error {
		if config.Filter != nil && !config.Filter(ec) {
			return next()
		}

		attrs := []attribute.KeyValue{
			attribute.String("ticketdesk.event", ec.Event),
			attribute.String("ticketdesk.hid", ec.HID),
			attribute.String("ticketdesk.session_id", ec.SessionID),
			attribute.Int64("ticketdesk.seq", int64(ec.Seq)),
			attribute.Int("ticketdesk.fields", ec.Fields),
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(ec)...)
		}

		parent := ec.Ctx
		if parent == nil {
			parent = context.Background()
		}
		spanCtx, span := tracer.Start(parent, spanName(ec),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()
		ec.Ctx = spanCtx

		err := next()
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.SetAttributes(attribute.Int("ticketdesk.render_bytes", ec.RenderBytes))
		return err
	})
}

// spanName names a span after its event.
func spanName(ec *server.EventContext) string {
	return fmt.Sprintf("ticketdesk.%s", ec.Event)
}

// SpanFromContext returns the span of the event being handled, or nil
// when the event is not traced.
func SpanFromContext(ec *server.EventContext) trace.Span {
	if ec == nil || ec.Ctx == nil {
		return nil
	}
	span := trace.SpanFromContext(ec.Ctx)
	if !span.SpanContext().IsValid() && !span.IsRecording() {
		return nil
	}
	return span
}
