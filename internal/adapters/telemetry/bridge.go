package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/rig/internal/core/ports"
)

// Bridge implements sdktrace.SpanProcessor to report finished phases to a Logger.
type Bridge struct {
	logger ports.Logger
}

// NewBridge returns a new Bridge.
func NewBridge(logger ports.Logger) *Bridge {
	return &Bridge{logger: logger}
}

// OnStart does nothing.
func (b *Bridge) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs the outcome and duration of a phase.
func (b *Bridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if b.logger == nil || !s.SpanContext().IsValid() {
		return
	}

	elapsed := s.EndTime().Sub(s.StartTime())

	switch {
	case s.Status().Code == codes.Error:
		b.logger.Warn(fmt.Sprintf("%s failed after %s", s.Name(), elapsed))
	case cached(s.Attributes()):
		b.logger.Info(fmt.Sprintf("%s up to date (%s)", s.Name(), elapsed))
	default:
		b.logger.Info(fmt.Sprintf("%s finished in %s", s.Name(), elapsed))
	}
}

// ForceFlush does nothing.
func (b *Bridge) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *Bridge) Shutdown(_ context.Context) error {
	return nil
}

func cached(attrs []attribute.KeyValue) bool {
	for _, kv := range attrs {
		if kv.Key == "rig.cached" {
			return kv.Value.AsBool()
		}
	}
	return false
}
