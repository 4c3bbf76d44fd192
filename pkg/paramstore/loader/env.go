package loader

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/paramstore/pkg/paramstore"
)

// Source labels recorded on entries by the loader.
const (
	SourceDefaults = "defaults"
	SourceEnv      = "env"
	SourceArgs     = "args"
	sourceFile     = "file:"
)

// FileSource returns the source label recorded for entries read from path.
func FileSource(path string) string {
	return sourceFile + path
}

// FromEnv reads variables carrying prefix from environ (KEY=VALUE pairs, as
// returned by os.Environ). The prefix is stripped, the rest lower-cased, and
// "__" becomes "." so APP_DB__HOST maps to "db.host". Variables are inserted
// in environ order.
//
// Values are text unless WithInference is set.
func FromEnv(prefix string, environ []string, opts ...Option) *paramstore.Parameters {
	cfg := newConfig(opts)
	p := paramstore.New(cfg.storeOpts...)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, prefix) {
			continue
		}
		key := EnvKey(strings.TrimPrefix(name, prefix))
		if key == "" {
			continue
		}
		p.SetFrom(key, cfg.textValue(value), SourceEnv)
	}
	return p
}

// EnvKey maps an unprefixed environment variable name to a parameter key.
func EnvKey(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "__", "."))
}

// FromArgs reads key=value arguments in order. Only the first '=' splits, so
// values may contain '='.
//
// Values are text unless WithInference is set.
func FromArgs(args []string, opts ...Option) (*paramstore.Parameters, error) {
	cfg := newConfig(opts)
	p := paramstore.New(cfg.storeOpts...)
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", arg)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid argument %q: empty key", arg)
		}
		p.SetFrom(key, cfg.textValue(value), SourceArgs)
	}
	return p, nil
}

func (c config) textValue(s string) paramstore.Value {
	if c.infer {
		return paramstore.InferValue(s)
	}
	return paramstore.TextValue(s)
}
