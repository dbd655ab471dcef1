package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/vantage/internal/core/ports"
)

// LogBridge implements sdktrace.SpanProcessor to report finished spans in the debug log.
type LogBridge struct {
	logger ports.Logger
}

// NewLogBridge returns a new LogBridge.
func NewLogBridge(logger ports.Logger) *LogBridge {
	return &LogBridge{logger: logger}
}

// OnStart does nothing.
func (b *LogBridge) OnStart(context.Context, sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, its duration and, for failed spans, the status description.
func (b *LogBridge) OnEnd(s sdktrace.ReadOnlySpan) {
	if !s.SpanContext().IsValid() {
		return
	}

	duration := s.EndTime().Sub(s.StartTime()).Round(durationPrecision)
	if s.Status().Code == codes.Error {
		b.logger.Debug(fmt.Sprintf("%s failed after %s: %s", s.Name(), duration, s.Status().Description))
		return
	}
	b.logger.Debug(fmt.Sprintf("%s finished in %s", s.Name(), duration))
}

// ForceFlush does nothing.
func (b *LogBridge) ForceFlush(context.Context) error {
	return nil
}

// Shutdown does nothing.
func (b *LogBridge) Shutdown(context.Context) error {
	return nil
}
