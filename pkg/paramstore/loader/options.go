package loader

import (
	"log/slog"

	"github.com/randalmurphal/paramstore/pkg/paramstore"
	"github.com/randalmurphal/paramstore/pkg/paramstore/expand"
	"github.com/randalmurphal/paramstore/pkg/paramstore/observability"
)

// config holds loader settings.
type config struct {
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
	spans     observability.SpanManager
	expander  *expand.Expander
	infer     bool
	storeOpts []paramstore.Option
}

func defaultConfig() config {
	return config{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

func newConfig(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Option configures a load.
type Option func(*config)

// WithLogger sets the logger for load progress and failures.
// Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithMetrics sets the recorder for per-layer load counts and latency.
// Default: observability.NoopMetrics{}.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *config) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithSpanManager sets the tracer for load and layer spans.
// Default: observability.NoopSpanManager{}.
//
// Example:
//
//	p, err := loader.Load(ctx, src, loader.WithSpanManager(observability.NewSpanManager()))
func WithSpanManager(sm observability.SpanManager) Option {
	return func(c *config) {
		if sm != nil {
			c.spans = sm
		}
	}
}

// WithExpansion enables ${NAME} and $NAME expansion in text values read from
// files. References resolve against the environment first, then against the
// parameters loaded by earlier layers. action selects what happens to
// undefined references.
//
// Default: disabled.
func WithExpansion(action expand.MissingAction) Option {
	return func(c *config) {
		c.expander = expand.NewExpander(expand.WithMissingAction(action))
	}
}

// WithInference makes environment and argument values typed by their
// spelling (see paramstore.InferValue) instead of always text.
//
// Default: false.
func WithInference(enabled bool) Option {
	return func(c *config) {
		c.infer = enabled
	}
}

// WithStoreOptions sets the options of every store the loader creates.
//
// Example:
//
//	loader.WithStoreOptions(paramstore.WithLogger(logger), paramstore.WithParsers(ps))
func WithStoreOptions(opts ...paramstore.Option) Option {
	return func(c *config) {
		c.storeOpts = append(c.storeOpts, opts...)
	}
}
