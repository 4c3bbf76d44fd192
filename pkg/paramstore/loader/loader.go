package loader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/randalmurphal/paramstore/pkg/paramstore"
	"github.com/randalmurphal/paramstore/pkg/paramstore/expand"
	"github.com/randalmurphal/paramstore/pkg/paramstore/observability"
	"go.opentelemetry.io/otel/attribute"
)

// Layer kinds, used for span names and metric attributes.
const (
	layerDefaults = "defaults"
	layerFile     = "file"
	layerEnv      = "env"
	layerArgs     = "args"
)

// Sources lists the layers of a Load, lowest precedence first.
type Sources struct {
	// Defaults are native Go values, flattened like FromMap.
	Defaults map[string]any

	// Files are read in order; later files override earlier ones.
	Files []string

	// EnvPrefix selects environment variables (see FromEnv).
	// Empty disables the environment layer.
	EnvPrefix string

	// Environ is the environment as KEY=VALUE pairs.
	// Nil means os.Environ().
	Environ []string

	// Args are key=value overrides with the highest precedence.
	Args []string
}

// FromFile reads a parameter file, choosing the format by extension:
// .yaml, .yml, .json or .toml. Entries are labelled FileSource(path).
func FromFile(ctx context.Context, path string, opts ...Option) (*paramstore.Parameters, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := newConfig(opts)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read parameter file: %w", err)
	}

	p := paramstore.New(cfg.storeOpts...)
	source := FileSource(path)

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		err = decodeYAML(data, p, source)
	case ".json":
		err = decodeJSON(data, p, source)
	case ".toml":
		err = decodeTOML(data, p, source)
	default:
		return nil, fmt.Errorf("unsupported parameter file extension: %q", ext)
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Load builds one store from layered sources. Precedence, highest first:
// Args, environment, Files (last file wins), Defaults. Every entry records
// the label of the layer that set it: "defaults", "file:<path>", "env" or
// "args".
//
// Each call gets a load id that appears in log records and on the load span.
// The first failing layer aborts the load.
//
// Example:
//
//	p, err := loader.Load(ctx, loader.Sources{
//	    Defaults:  map[string]any{"port": 8080},
//	    Files:     []string{"app.yaml"},
//	    EnvPrefix: "APP_",
//	    Args:      os.Args[1:],
//	}, loader.WithExpansion(expand.MissingKeep))
func Load(ctx context.Context, src Sources, opts ...Option) (*paramstore.Parameters, error) {
	cfg := newConfig(opts)
	environ := src.Environ
	if environ == nil {
		environ = os.Environ()
	}

	loadID := uuid.NewString()
	logger := cfg.logger

	ctx, span := cfg.spans.StartLoadSpan(ctx, loadID, src.layerCount())
	observability.LogLoadStart(logger, loadID, src.layerCount())
	done := observability.TimedOperation()

	out := paramstore.New(cfg.storeOpts...)
	l := &load{cfg: cfg, id: loadID, out: out, environ: environ}

	err := l.run(ctx, src)
	if err != nil {
		observability.LogLoadError(logger, loadID, err, done(), l.current)
		cfg.spans.EndSpanWithError(span, err)
		return nil, err
	}

	observability.LogLoadComplete(logger, loadID, done(), out.Len())
	cfg.spans.EndSpanWithError(span, nil)
	return out, nil
}

func (s Sources) layerCount() int {
	n := len(s.Files)
	if s.Defaults != nil {
		n++
	}
	if s.EnvPrefix != "" {
		n++
	}
	if len(s.Args) > 0 {
		n++
	}
	return n
}

// load carries the state of one Load call.
type load struct {
	cfg     config
	id      string
	out     *paramstore.Parameters
	environ []string
	current string
}

func (l *load) run(ctx context.Context, src Sources) error {
	if src.Defaults != nil {
		err := l.layer(ctx, layerDefaults, SourceDefaults, func(context.Context) (*paramstore.Parameters, error) {
			return FromMap(src.Defaults, WithStoreOptions(l.cfg.storeOpts...))
		})
		if err != nil {
			return err
		}
	}

	for _, path := range src.Files {
		err := l.layer(ctx, layerFile, FileSource(path), func(ctx context.Context) (*paramstore.Parameters, error) {
			p, err := FromFile(ctx, path, WithStoreOptions(l.cfg.storeOpts...))
			if err != nil {
				return nil, err
			}
			if l.cfg.expander != nil {
				lookup := expand.Chain(expand.Env(l.environ), expand.Store(l.out))
				if err := l.cfg.expander.ExpandStore(p, lookup); err != nil {
					return nil, err
				}
			}
			return p, nil
		})
		if err != nil {
			return err
		}
	}

	if src.EnvPrefix != "" {
		err := l.layer(ctx, layerEnv, SourceEnv, func(context.Context) (*paramstore.Parameters, error) {
			return FromEnv(src.EnvPrefix, l.environ, l.layerOpts()...), nil
		})
		if err != nil {
			return err
		}
	}

	if len(src.Args) > 0 {
		err := l.layer(ctx, layerArgs, SourceArgs, func(context.Context) (*paramstore.Parameters, error) {
			return FromArgs(src.Args, l.layerOpts()...)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (l *load) layerOpts() []Option {
	return []Option{WithInference(l.cfg.infer), WithStoreOptions(l.cfg.storeOpts...)}
}

// layer reads one layer inside its own span and merges it into the result
// under the given source label.
func (l *load) layer(ctx context.Context, kind, source string, read func(context.Context) (*paramstore.Parameters, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.current = source

	ctx, span := l.cfg.spans.StartLayerSpan(ctx, kind, source)
	start := time.Now()

	p, err := read(ctx)
	if err != nil {
		err = fmt.Errorf("load %s: %w", source, err)
		l.cfg.metrics.RecordLoad(ctx, kind, 0, time.Since(start), err)
		l.cfg.spans.EndSpanWithError(span, err)
		return err
	}

	for _, e := range p.Entries() {
		l.out.SetFrom(e.Key, e.Value, source)
	}

	l.cfg.metrics.RecordLoad(ctx, kind, p.Len(), time.Since(start), nil)
	l.cfg.spans.AddSpanEvent(ctx, "layer merged", attribute.Int("layer.entries", p.Len()))
	observability.LogLayer(observability.EnrichLogger(l.cfg.logger, l.id, source), kind, p.Len())
	l.cfg.spans.EndSpanWithError(span, nil)
	return nil
}
