package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/cotfaith/internal/core/ports"
)

// LogProcessor is a span processor that reports every ended span at debug level.
type LogProcessor struct {
	logger ports.Logger
}

// NewLogProcessor creates a LogProcessor writing to logger.
func NewLogProcessor(logger ports.Logger) *LogProcessor {
	return &LogProcessor{logger: logger}
}

// NewProvider creates an SDK tracer provider whose spans end up in logger.
func NewProvider(logger ports.Logger) *sdktrace.TracerProvider {
	return sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(NewLogProcessor(logger)))
}

// OnStart does nothing.
func (p *LogProcessor) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd logs the span name, duration and attributes.
func (p *LogProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	args := []any{"span", s.Name(), "duration", s.EndTime().Sub(s.StartTime())}
	for _, kv := range s.Attributes() {
		args = append(args, string(kv.Key), kv.Value.Emit())
	}
	if status := s.Status(); status.Code == codes.Error {
		args = append(args, "error", status.Description)
	}
	p.logger.Debug("span ended", args...)
}

// Shutdown does nothing; the processor holds no resources.
func (p *LogProcessor) Shutdown(_ context.Context) error {
	return nil
}

// ForceFlush does nothing; spans are logged synchronously.
func (p *LogProcessor) ForceFlush(_ context.Context) error {
	return nil
}
