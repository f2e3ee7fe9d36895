package emit

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter
}

func TestOTelEmitter_Emit(t *testing.T) {
	exporter := newTestTracer(t)
	emitter := NewOTelEmitter(otel.Tracer("test"))

	emitter.Emit(Event{
		ActivationID: "act-001",
		Seq:          1,
		Path:         "/new_entry",
		Msg:          MsgSubmitEnd,
		Meta: map[string]interface{}{
			"status_code": 201,
			"duration_ms": 15 * time.Millisecond,
		},
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]

	if span.Name != MsgSubmitEnd {
		t.Errorf("span name = %q, want %q", span.Name, MsgSubmitEnd)
	}

	attrs := attributeMap(span.Attributes)
	if got := attrs["journal.activation_id"]; got != "act-001" {
		t.Errorf("activation_id = %v, want %q", got, "act-001")
	}
	if got := attrs["journal.seq"]; got != int64(1) {
		t.Errorf("seq = %v, want 1", got)
	}
	if got := attrs["journal.path"]; got != "/new_entry" {
		t.Errorf("path = %v, want %q", got, "/new_entry")
	}
	if got := attrs["http.response.status_code"]; got != int64(201) {
		t.Errorf("status_code = %v, want 201", got)
	}
	if got := attrs["journal.submit.duration_ms"]; got != int64(15) {
		t.Errorf("duration_ms = %v, want 15", got)
	}
	if span.Status.Code == codes.Error {
		t.Error("successful submit should not carry error status")
	}
}

func TestOTelEmitter_EmitWithError(t *testing.T) {
	exporter := newTestTracer(t)
	emitter := NewOTelEmitter(otel.Tracer("test"))

	emitter.Emit(Event{
		ActivationID: "act-002",
		Msg:          MsgSubmitError,
		Meta:         map[string]interface{}{"error": "connection refused"},
	})

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	span := spans[0]

	if span.Status.Code != codes.Error {
		t.Errorf("status code = %v, want %v", span.Status.Code, codes.Error)
	}
	if span.Status.Description != "connection refused" {
		t.Errorf("status description = %q, want %q", span.Status.Description, "connection refused")
	}
	if len(span.Events) == 0 {
		t.Error("expected recorded error event, got none")
	}
}

func TestOTelEmitter_ActivationSharesTrace(t *testing.T) {
	tests := []struct {
		name       string
		endMsg     string
		meta       map[string]interface{}
		wantStatus codes.Code
	}{
		{"success", MsgSubmitEnd, map[string]interface{}{"status_code": 201}, codes.Unset},
		{"failure", MsgSubmitError, map[string]interface{}{"error": "unexpected status 500"}, codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := newTestTracer(t)
			emitter := NewOTelEmitter(otel.Tracer("test"))

			emitter.Emit(Event{ActivationID: "act-1", Seq: 1, Path: "/new_entry", Msg: MsgSubmitStart})
			emitter.Emit(Event{ActivationID: "act-1", Seq: 1, Path: "/new_entry", Msg: tt.endMsg, Meta: tt.meta})

			spans := exporter.GetSpans()
			if len(spans) != 3 {
				t.Fatalf("expected 3 spans, got %d", len(spans))
			}
			byName := make(map[string]tracetest.SpanStub, len(spans))
			for _, s := range spans {
				byName[s.Name] = s
			}

			parent, ok := byName[SpanSubmitEntry]
			if !ok {
				t.Fatalf("no %s span recorded", SpanSubmitEntry)
			}
			for _, name := range []string{MsgSubmitStart, tt.endMsg} {
				child, ok := byName[name]
				if !ok {
					t.Fatalf("no %s span recorded", name)
				}
				if child.SpanContext.TraceID() != parent.SpanContext.TraceID() {
					t.Errorf("%s is in a different trace than %s", name, SpanSubmitEntry)
				}
				if child.Parent.SpanID() != parent.SpanContext.SpanID() {
					t.Errorf("%s parent = %v, want %s span", name, child.Parent.SpanID(), SpanSubmitEntry)
				}
			}
			if parent.Status.Code != tt.wantStatus {
				t.Errorf("%s status = %v, want %v", SpanSubmitEntry, parent.Status.Code, tt.wantStatus)
			}
		})
	}
}

func TestOTelEmitter_SeparateActivationsSeparateTraces(t *testing.T) {
	exporter := newTestTracer(t)
	emitter := NewOTelEmitter(otel.Tracer("test"))

	for _, id := range []string{"a", "b"} {
		emitter.Emit(Event{ActivationID: id, Msg: MsgSubmitStart})
	}
	for _, id := range []string{"b", "a"} {
		emitter.Emit(Event{ActivationID: id, Msg: MsgSubmitEnd})
	}

	traces := make(map[string]map[string]bool)
	for _, s := range exporter.GetSpans() {
		id := s.SpanContext.TraceID().String()
		if traces[id] == nil {
			traces[id] = make(map[string]bool)
		}
		for _, kv := range s.Attributes {
			if kv.Key == "journal.activation_id" {
				traces[id][kv.Value.AsString()] = true
			}
		}
	}
	if len(traces) != 2 {
		t.Fatalf("got %d traces, want 2", len(traces))
	}
	for id, acts := range traces {
		if len(acts) != 1 {
			t.Errorf("trace %s mixes activations %v", id, acts)
		}
	}
}

func TestOTelEmitter_Flush(t *testing.T) {
	newTestTracer(t)
	emitter := NewOTelEmitter(otel.Tracer("test"))

	if err := emitter.Flush(context.Background()); err != nil {
		t.Errorf("Flush() error = %v", err)
	}
}

func attributeMap(attrs []attribute.KeyValue) map[string]interface{} {
	m := make(map[string]interface{}, len(attrs))
	for _, kv := range attrs {
		m[string(kv.Key)] = kv.Value.AsInterface()
	}
	return m
}
