package emit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// OTelEmitter implements Emitter by creating OpenTelemetry spans.
//
// A submit_start event opens a "submit_entry" span for its activation. Every
// event becomes a short span named after event.Msg; events of an open
// activation are children of its submit_entry span, so one activation is one
// trace. submit_end or submit_error ends the submit_entry span. Events for an
// activation that was never started become standalone root spans.
//
// Each event span carries:
//   - Attributes: activation ID, sequence, path and all event.Meta fields
//   - Status: Error if event.Meta["error"] exists
//
// Usage:
//
//	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
//	otel.SetTracerProvider(tp)
//
//	h, err := journal.New(serverURL,
//	    journal.WithEmitter(emit.NewOTelEmitter(otel.Tracer("journal-go"))),
//	)
type OTelEmitter struct {
	tracer trace.Tracer

	mu     sync.Mutex
	active map[string]activationSpan // activationID -> open submit_entry span
}

type activationSpan struct {
	ctx  context.Context
	span trace.Span
}

// SpanSubmitEntry names the span covering one activation from start to end.
const SpanSubmitEntry = "submit_entry"

// NewOTelEmitter creates a new OTelEmitter using tracer.
func NewOTelEmitter(tracer trace.Tracer) *OTelEmitter {
	return &OTelEmitter{
		tracer: tracer,
		active: make(map[string]activationSpan),
	}
}

// Emit records the event as a span. Events are points in time; durations
// travel as the "duration_ms" attribute.
func (o *OTelEmitter) Emit(event Event) {
	ctx := o.parentContext(event)

	_, span := o.tracer.Start(ctx, event.Msg)
	o.setAttributes(span, event)
	errMsg, failed := event.Meta["error"].(string)
	if failed {
		span.SetStatus(codes.Error, errMsg)
		span.RecordError(fmt.Errorf("%s", errMsg))
	}
	span.End()

	if event.Msg == MsgSubmitEnd || event.Msg == MsgSubmitError {
		o.finish(event.ActivationID, errMsg, failed)
	}
}

// parentContext opens the activation span on submit_start and returns the
// context event spans should be created under.
func (o *OTelEmitter) parentContext(event Event) context.Context {
	o.mu.Lock()
	defer o.mu.Unlock()

	if event.Msg == MsgSubmitStart && event.ActivationID != "" {
		ctx, span := o.tracer.Start(context.Background(), SpanSubmitEntry)
		o.setAttributes(span, Event{ActivationID: event.ActivationID, Seq: event.Seq, Path: event.Path})
		o.active[event.ActivationID] = activationSpan{ctx: ctx, span: span}
		return ctx
	}

	if a, ok := o.active[event.ActivationID]; ok {
		return a.ctx
	}
	return context.Background()
}

func (o *OTelEmitter) finish(activationID, errMsg string, failed bool) {
	o.mu.Lock()
	a, ok := o.active[activationID]
	delete(o.active, activationID)
	o.mu.Unlock()

	if !ok {
		return
	}
	if failed {
		a.span.SetStatus(codes.Error, errMsg)
	}
	a.span.End()
}

func (o *OTelEmitter) setAttributes(span trace.Span, event Event) {
	span.SetAttributes(
		attribute.String("journal.activation_id", event.ActivationID),
		attribute.Int("journal.seq", event.Seq),
		attribute.String("journal.path", event.Path),
	)
	o.addMetadataAttributes(span, event.Meta)
}

// Flush forces export of pending spans when the global provider supports it.
// Call it before process exit so background submissions are not lost.
func (o *OTelEmitter) Flush(ctx context.Context) error {
	type flusher interface {
		ForceFlush(context.Context) error
	}

	if f, ok := otel.GetTracerProvider().(flusher); ok {
		return f.ForceFlush(ctx)
	}
	return nil
}

func (o *OTelEmitter) addMetadataAttributes(span trace.Span, meta map[string]interface{}) {
	for key, value := range meta {
		attrKey := key
		switch key {
		case "status_code":
			attrKey = "http.response.status_code"
		case "duration_ms":
			attrKey = "journal.submit.duration_ms"
		}

		switch v := value.(type) {
		case string:
			span.SetAttributes(attribute.String(attrKey, v))
		case int:
			span.SetAttributes(attribute.Int(attrKey, v))
		case int64:
			span.SetAttributes(attribute.Int64(attrKey, v))
		case float64:
			span.SetAttributes(attribute.Float64(attrKey, v))
		case bool:
			span.SetAttributes(attribute.Bool(attrKey, v))
		case time.Duration:
			span.SetAttributes(attribute.Int64(attrKey, int64(v/time.Millisecond)))
		default:
			span.SetAttributes(attribute.String(attrKey, fmt.Sprintf("%v", v)))
		}
	}
}
