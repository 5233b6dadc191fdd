// Package telemetry records resolution phases as OpenTelemetry spans.
package telemetry

import (
	"context"
	"io"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/rig/internal/core/ports"
)

// InstrumentationName is the name under which rig's spans are recorded.
const InstrumentationName = "go.trai.ch/rig"

var _ ports.Telemetry = (*Tracer)(nil)

// Tracer implements ports.Telemetry using an OpenTelemetry tracer provider.
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewTracer creates a Tracer whose spans are delivered to the given processors.
func NewTracer(processors ...sdktrace.SpanProcessor) *Tracer {
	opts := make([]sdktrace.TracerProviderOption, 0, len(processors))
	for _, p := range processors {
		opts = append(opts, sdktrace.WithSpanProcessor(p))
	}
	tp := sdktrace.NewTracerProvider(opts...)
	return &Tracer{provider: tp, tracer: tp.Tracer(InstrumentationName)}
}

// Record starts a span for the named phase. Phases started from the returned context nest under it.
func (t *Tracer) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	ctx, span := t.tracer.Start(ctx, name)
	return ctx, &Span{span: span}
}

// Close flushes pending spans and shuts the provider down.
func (t *Tracer) Close() error {
	return t.provider.Shutdown(context.Background())
}

var _ ports.Vertex = (*Span)(nil)

// Span implements ports.Vertex on top of an OpenTelemetry span.
type Span struct {
	span trace.Span
}

// Stdout returns a writer that records each write as a span event.
func (s *Span) Stdout() io.Writer {
	return s
}

// Write satisfies io.Writer by adding a log event to the span.
func (s *Span) Write(p []byte) (int, error) {
	s.span.AddEvent("log", trace.WithAttributes(attribute.String("message", string(p))))
	return len(p), nil
}

// Complete ends the span, recording err when non-nil.
func (s *Span) Complete(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
}

// Cached marks the span as satisfied by a previous run.
func (s *Span) Cached() {
	s.span.SetAttributes(attribute.Bool("rig.cached", true))
}
