package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/cotfaith/internal/adapters/telemetry"
	"go.trai.ch/cotfaith/internal/core/ports"
	"go.trai.ch/cotfaith/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func setupMonitor(t *testing.T) (*tracetest.SpanRecorder, *telemetry.OTelTracer) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr, telemetry.NewProviderTracer(tp, "test-tracer")
}

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = (*telemetry.NoOpSpan)(nil)
}

func TestOTelTracer_Start(t *testing.T) {
	// The global provider is a no-op until an SDK is installed, so this only
	// checks that every span method is safe to call.
	tracer := telemetry.NewOTelTracer("test-tracer")
	require.NotNil(t, tracer)

	ctx, span := tracer.Start(context.Background(), "solve",
		ports.WithAttribute("problem", 3),
		ports.WithAttribute("variant", "base"),
	)
	require.NotNil(t, span)

	tracer.EmitPlan(ctx, []string{"base problem 0", "base problem 1"})
	span.SetAttribute("attempt", int64(2))
	span.SetAttribute("ratio", 0.5)
	span.SetAttribute("labels", []string{"a"})
	span.SetAttribute("other", struct{}{})
	span.RecordError(errors.New("boom"))
	span.RecordError(nil)

	n, err := span.Write([]byte("test log"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	span.End()
}

func TestOTelTracer_RecordsSpans(t *testing.T) {
	sr, tracer := setupMonitor(t)

	ctx, span := tracer.Start(context.Background(), "experiment",
		ports.WithAttribute("experiment", "aime"),
		ports.WithAttribute("problems", 2),
	)
	tracer.EmitPlan(ctx, []string{"base problem 0", "base problem 1"})
	span.SetAttribute("cached", true)
	span.RecordError(errors.New("boom"))
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	got := spans[0]
	assert.Equal(t, "experiment", got.Name())
	assert.Equal(t, codes.Error, got.Status().Code)
	assert.Equal(t, "boom", got.Status().Description)
	assert.Contains(t, got.Attributes(), attribute.String("experiment", "aime"))
	assert.Contains(t, got.Attributes(), attribute.Int("problems", 2))
	assert.Contains(t, got.Attributes(), attribute.Bool("cached", true))

	var names []string
	for _, e := range got.Events() {
		names = append(names, e.Name)
	}
	assert.Contains(t, names, "plan_emitted")
	assert.Contains(t, names, "exception")
}

func TestOTelTracer_EmitPlanWithoutSpan(t *testing.T) {
	sr, tracer := setupMonitor(t)

	tracer.EmitPlan(context.Background(), []string{"task1"})
	assert.Empty(t, sr.Ended())
}

func TestLogProcessor(t *testing.T) {
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)

	var args []any
	log.EXPECT().Debug("span ended", gomock.Any()).Do(func(_ string, a ...any) {
		args = a
	})

	tracer := telemetry.NewProviderTracer(telemetry.NewProvider(log), "test-tracer")
	_, span := tracer.Start(context.Background(), "reasoning.solve", ports.WithAttribute("variant", "base"))
	span.RecordError(errors.New("budget"))
	span.End()

	require.GreaterOrEqual(t, len(args), 2)
	assert.Equal(t, []any{"span", "reasoning.solve"}, args[:2])
	assert.Contains(t, args, "variant")
	assert.Contains(t, args, "base")
	assert.Contains(t, args, "budget")
}

func TestNoOpTracer_Start(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()
	require.NotNil(t, tracer)

	ctx := context.Background()
	got, span := tracer.Start(ctx, "test-span")
	assert.Equal(t, ctx, got)
	require.NotNil(t, span)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	n, err := span.Write([]byte("test log"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	span.End()
}
