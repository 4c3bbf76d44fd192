package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records parameter store metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordLookup records one typed lookup and how it ended.
	// outcome is one of the Outcome constants.
	RecordLookup(ctx context.Context, outcome, kind, target string)

	// RecordLoad records one loaded layer with its entry count and error status.
	RecordLoad(ctx context.Context, source string, entries int, duration time.Duration, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	lookups     metric.Int64Counter
	loads       metric.Int64Counter
	loadErrors  metric.Int64Counter
	loadLatency metric.Float64Histogram
	loadEntries metric.Int64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("paramstore")

	lookups, err := meter.Int64Counter("paramstore.lookups",
		metric.WithDescription("Number of typed parameter lookups by outcome"),
	)
	if err != nil {
		return nil, err
	}

	loads, err := meter.Int64Counter("paramstore.loads",
		metric.WithDescription("Number of parameter layers loaded"),
	)
	if err != nil {
		return nil, err
	}

	loadErrors, err := meter.Int64Counter("paramstore.load.errors",
		metric.WithDescription("Number of parameter layers that failed to load"),
	)
	if err != nil {
		return nil, err
	}

	loadLatency, err := meter.Float64Histogram("paramstore.load.latency_ms",
		metric.WithDescription("Parameter layer load latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	loadEntries, err := meter.Int64Histogram("paramstore.load.entries",
		metric.WithDescription("Entries produced per loaded layer"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		lookups:     lookups,
		loads:       loads,
		loadErrors:  loadErrors,
		loadLatency: loadLatency,
		loadEntries: loadEntries,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordLookup records a typed lookup.
func (m *otelMetrics) RecordLookup(ctx context.Context, outcome, kind, target string) {
	m.lookups.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
		attribute.String("kind", kind),
		attribute.String("target", target),
	))
}

// RecordLoad records a loaded layer.
func (m *otelMetrics) RecordLoad(ctx context.Context, source string, entries int, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("source", source),
	}

	m.loads.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.loadLatency.Record(ctx, float64(duration.Microseconds())/1000, metric.WithAttributes(attrs...))

	if err != nil {
		m.loadErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
		return
	}
	m.loadEntries.Record(ctx, int64(entries), metric.WithAttributes(attrs...))
}
