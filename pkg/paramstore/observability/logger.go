// Package observability provides logging, metrics and tracing hooks for
// parameter stores and loaders.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// Lookup outcomes reported to loggers and metrics.
const (
	OutcomeHit          = "hit"
	OutcomeMiss         = "miss"
	OutcomeParseFailure = "parse_failure"
	OutcomeFatal        = "fatal"
)

// EnrichLogger adds load context to a logger.
// Returns a new logger with load_id and source fields.
//
// Example:
//
//	enriched := EnrichLogger(logger, loadID, "file:app.yaml")
//	enriched.Info("reading layer") // includes load_id, source
func EnrichLogger(logger *slog.Logger, loadID, source string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("load_id", loadID),
		slog.String("source", source),
	)
}

// LogLookupMiss logs a lookup for a key that is not stored.
func LogLookupMiss(logger *slog.Logger, key, target string) {
	if logger == nil {
		return
	}
	logger.Debug("parameter not set",
		slog.String("key", key),
		slog.String("target", target),
	)
}

// LogParseFailure logs stored text that did not parse as the requested type.
// The caller receives no value; this is not an error.
func LogParseFailure(logger *slog.Logger, key, target, text string) {
	if logger == nil {
		return
	}
	logger.Debug("parameter text did not parse",
		slog.String("key", key),
		slog.String("target", target),
		slog.String("text", text),
	)
}

// LogConversionError logs a conversion with no defined extraction path.
func LogConversionError(logger *slog.Logger, key, kind, target string, err error) {
	if logger == nil {
		return
	}
	logger.Error("parameter conversion failed",
		slog.String("key", key),
		slog.String("kind", kind),
		slog.String("target", target),
		slog.String("error", err.Error()),
	)
}

// LogLoadStart logs the start of a layered load.
func LogLoadStart(logger *slog.Logger, loadID string, layers int) {
	if logger == nil {
		return
	}
	logger.Info("parameter load starting",
		slog.String("load_id", loadID),
		slog.Int("layers", layers),
	)
}

// LogLoadComplete logs a successful load.
func LogLoadComplete(logger *slog.Logger, loadID string, durationMs float64, entries int) {
	if logger == nil {
		return
	}
	logger.Info("parameter load completed",
		slog.String("load_id", loadID),
		slog.Float64("duration_ms", durationMs),
		slog.Int("entries", entries),
	)
}

// LogLoadError logs a failed load.
func LogLoadError(logger *slog.Logger, loadID string, err error, durationMs float64, source string) {
	if logger == nil {
		return
	}
	logger.Error("parameter load failed",
		slog.String("load_id", loadID),
		slog.String("error", err.Error()),
		slog.Float64("duration_ms", durationMs),
		slog.String("source", source),
	)
}

// LogLayer logs one layer merged into a load. Pass a logger from
// EnrichLogger so the record carries the load id and source.
func LogLayer(logger *slog.Logger, layer string, entries int) {
	if logger == nil {
		return
	}
	logger.Debug("parameter layer merged",
		slog.String("layer", layer),
		slog.Int("entries", entries),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Microseconds()) / 1000
	}
}
