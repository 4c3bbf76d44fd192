package paramstore

import (
	"log/slog"

	"github.com/randalmurphal/paramstore/pkg/paramstore/observability"
)

// options holds the collaborators a store reports to.
type options struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	parsers *Parsers
}

// defaultOptions returns a configuration that logs nothing, records no
// metrics and uses the built-in parsers.
func defaultOptions() options {
	return options{
		metrics: observability.NoopMetrics{},
		parsers: builtinParsers,
	}
}

// Option configures a Parameters store.
type Option func(*options)

// WithLogger sets the logger used for lookup diagnostics.
// Misses and parse failures log at debug level, conversion errors at error level.
// Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMetrics sets the recorder that counts lookups by outcome.
// Default: observability.NoopMetrics{}.
//
// Example:
//
//	p := paramstore.New(paramstore.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithParsers sets the text parsers used by typed lookups.
// Default: the built-in parsers (see DefaultParsers).
func WithParsers(ps *Parsers) Option {
	return func(o *options) {
		if ps != nil {
			o.parsers = ps
		}
	}
}
