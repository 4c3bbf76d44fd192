package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer is the paramstore tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("paramstore")

// SpanManager handles trace span lifecycle for loads.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartLoadSpan starts a span covering a whole layered load.
	StartLoadSpan(ctx context.Context, loadID string, layers int) (context.Context, trace.Span)

	// StartLayerSpan starts a span for reading one layer.
	// The layer span should be a child of the load span.
	StartLayerSpan(ctx context.Context, layer, source string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

func (m *otelSpanManager) StartLoadSpan(ctx context.Context, loadID string, layers int) (context.Context, trace.Span) {
	return StartLoadSpan(ctx, loadID, layers)
}

func (m *otelSpanManager) StartLayerSpan(ctx context.Context, layer, source string) (context.Context, trace.Span) {
	return StartLayerSpan(ctx, layer, source)
}

func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	EndSpanWithError(span, err)
}

func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// StartLoadSpan starts a span for a layered load.
// Uses the global OTel tracer.
func StartLoadSpan(ctx context.Context, loadID string, layers int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "paramstore.load",
		trace.WithAttributes(
			attribute.String("load.id", loadID),
			attribute.Int("load.layers", layers),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartLayerSpan starts a span for one layer of a load.
// Uses the global OTel tracer.
func StartLayerSpan(ctx context.Context, layer, source string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "paramstore.layer."+layer,
		trace.WithAttributes(
			attribute.String("layer.kind", layer),
			attribute.String("layer.source", source),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
