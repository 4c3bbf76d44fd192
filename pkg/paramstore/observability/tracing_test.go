package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest installs a tracer provider backed by an in-memory exporter.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
	)

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = otel.Tracer("paramstore")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		tracer = otel.Tracer("paramstore")
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}

	return exporter, cleanup
}

func TestStartLoadSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	_, span := StartLoadSpan(context.Background(), "load-42", 3)
	require.NotNil(t, span)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "paramstore.load", spans[0].Name)

	var loadID string
	var layers int64
	for _, attr := range spans[0].Attributes {
		switch attr.Key {
		case "load.id":
			loadID = attr.Value.AsString()
		case "load.layers":
			layers = attr.Value.AsInt64()
		}
	}
	assert.Equal(t, "load-42", loadID)
	assert.Equal(t, int64(3), layers)
}

func TestStartLayerSpan_IsChildOfLoad(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	sm := NewSpanManager()
	ctx, loadSpan := sm.StartLoadSpan(context.Background(), "load-1", 1)
	_, layerSpan := sm.StartLayerSpan(ctx, "file", "app.yaml")
	sm.EndSpanWithError(layerSpan, nil)
	sm.EndSpanWithError(loadSpan, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 2)

	layer := spans[0]
	load := spans[1]
	assert.Equal(t, "paramstore.layer.file", layer.Name)
	assert.Equal(t, load.SpanContext.SpanID(), layer.Parent.SpanID())
	assert.Equal(t, codes.Ok, layer.Status.Code)
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	_, span := StartLayerSpan(context.Background(), "env", "APP_")
	EndSpanWithError(span, errors.New("bad env"))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "bad env", spans[0].Status.Description)

	assert.NotPanics(t, func() { EndSpanWithError(nil, nil) })
}

func TestAddSpanEvent(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	ctx, span := StartLoadSpan(context.Background(), "load-2", 1)
	AddSpanEvent(ctx, "layer merged", attribute.Int("entries", 5))
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Len(t, spans[0].Events, 1)
	assert.Equal(t, "layer merged", spans[0].Events[0].Name)

	assert.NotPanics(t, func() {
		AddSpanEvent(context.Background(), "no span")
	})
}

func TestNoopImplementations(t *testing.T) {
	var m MetricsRecorder = NoopMetrics{}
	assert.NotPanics(t, func() {
		m.RecordLookup(context.Background(), OutcomeMiss, "", "int")
		m.RecordLoad(context.Background(), "file", 0, 0, errors.New("x"))
	})

	var sm SpanManager = NoopSpanManager{}
	ctx := context.Background()
	gotCtx, span := sm.StartLoadSpan(ctx, "id", 1)
	assert.Equal(t, ctx, gotCtx)
	assert.False(t, span.IsRecording())

	gotCtx, span = sm.StartLayerSpan(ctx, "env", "")
	assert.Equal(t, ctx, gotCtx)
	assert.NotPanics(t, func() {
		sm.EndSpanWithError(span, errors.New("x"))
		sm.AddSpanEvent(ctx, "event")
	})
}
