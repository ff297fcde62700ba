package middleware

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/ticketdesk/pkg/server"
)

// recordingProvider records spans in memory. Embedding the interfaces
// leaves unused methods nil.
type recordingProvider struct {
	trace.TracerProvider
	spans []*recordedSpan
}

func (p *recordingProvider) Tracer(name string, _ ...trace.TracerOption) trace.Tracer {
	return &recordingTracer{provider: p, name: name}
}

type recordingTracer struct {
	trace.Tracer
	provider *recordingProvider
	name     string
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordedSpan{
		name:   name,
		tracer: t.name,
		kind:   cfg.SpanKind(),
		attrs:  cfg.Attributes(),
		sc: trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: trace.TraceID{1},
			SpanID:  trace.SpanID{byte(len(t.provider.spans) + 1)},
		}),
	}
	t.provider.spans = append(t.provider.spans, s)
	return trace.ContextWithSpan(ctx, s), s
}

type recordedSpan struct {
	trace.Span
	name   string
	tracer string
	kind   trace.SpanKind
	attrs  []attribute.KeyValue
	status codes.Code
	err    error
	ended  bool
	sc     trace.SpanContext
}

func (s *recordedSpan) End(...trace.SpanEndOption) { s.ended = true }
func (s *recordedSpan) IsRecording() bool { return !s.ended }
func (s *recordedSpan) SpanContext() trace.SpanContext { return s.sc }
func (s *recordedSpan) SetStatus(c codes.Code, _ string) { s.status = c }
func (s *recordedSpan) RecordError(err error, _ ...trace.EventOption) { s.err = err }
func (s *recordedSpan) SetAttributes(kv ...attribute.KeyValue) { s.attrs = append(s.attrs, kv...) }

func (s *recordedSpan) attr(key string) (attribute.Value, bool) {
	for _, kv := range s.attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestOpenTelemetrySpan(t *testing.T) {
	tp := &recordingProvider{}
	mw := OpenTelemetry(
		WithTracerProvider(tp),
		WithTracerName("desk-test"),
		WithAttributeExtractor(func(*server.EventContext) []attribute.KeyValue {
			return []attribute.KeyValue{attribute.String("test.attr", "ok")}
		}),
	)

	parent := context.Background()
	ec := &server.EventContext{Ctx: parent, SessionID: "sess-1", Seq: 4, HID: "h2", Event: "submit", Fields: 2}
	var inner trace.Span
	err := mw.Handle(ec, func() error {
		inner = SpanFromContext(ec)
		ec.RenderBytes = 512
		return nil
	})
	if err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if len(tp.spans) != 1 {
		t.Fatalf("recorded %d spans, want 1", len(tp.spans))
	}
	s := tp.spans[0]
	if s.name != "ticketdesk.submit" || s.tracer != "desk-test" || s.kind != trace.SpanKindServer {
		t.Errorf("span = %q/%q kind %v", s.name, s.tracer, s.kind)
	}
	if !s.ended || s.status != codes.Ok {
		t.Errorf("span ended=%v status=%v, want ended Ok", s.ended, s.status)
	}
	if inner != trace.Span(s) {
		t.Error("SpanFromContext inside the chain should return the event span")
	}
	if ec.Ctx == parent {
		t.Error("ec.Ctx should carry the span context")
	}

	wants := map[string]attribute.Value{
		"ticketdesk.event":        attribute.StringValue("submit"),
		"ticketdesk.hid":          attribute.StringValue("h2"),
		"ticketdesk.session_id":   attribute.StringValue("sess-1"),
		"ticketdesk.seq":          attribute.Int64Value(4),
		"ticketdesk.fields":       attribute.IntValue(2),
		"ticketdesk.render_bytes": attribute.IntValue(512),
		"test.attr":               attribute.StringValue("ok"),
	}
	for key, want := range wants {
		got, ok := s.attr(key)
		if !ok || got != want {
			t.Errorf("attr %s = %v (present %v), want %v", key, got.Emit(), ok, want.Emit())
		}
	}
}

func TestOpenTelemetryError(t *testing.T) {
	tp := &recordingProvider{}
	mw := OpenTelemetry(WithTracerProvider(tp))
	boom := &server.HandlerError{HID: "h1", Event: "click", Err: errors.New("boom")}

	err := mw.Handle(&server.EventContext{Event: "click"}, func() error { return boom })
	if err != boom {
		t.Fatalf("Handle() error = %v, want the handler error", err)
	}
	s := tp.spans[0]
	if s.status != codes.Error || s.err != boom {
		t.Errorf("span status=%v err=%v, want Error boom", s.status, s.err)
	}
}

func TestOpenTelemetryFilter(t *testing.T) {
	tp := &recordingProvider{}
	mw := OpenTelemetry(
		WithTracerProvider(tp),
		WithEventFilter(func(ec *server.EventContext) bool { return ec.Event != "click" }),
	)

	called := false
	mw.Handle(&server.EventContext{Event: "click"}, func() error {
		called = true
		return nil
	})
	if !called {
		t.Error("filtered events must still run the chain")
	}
	if len(tp.spans) != 0 {
		t.Errorf("recorded %d spans for a filtered event, want 0", len(tp.spans))
	}
}

func TestSpanFromContextNoSpan(t *testing.T) {
	if SpanFromContext(nil) != nil {
		t.Error("SpanFromContext(nil) should be nil")
	}
	if SpanFromContext(&server.EventContext{Ctx: context.Background()}) != nil {
		t.Error("SpanFromContext without a span should be nil")
	}
}
