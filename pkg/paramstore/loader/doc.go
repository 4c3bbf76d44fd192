/*
Package loader populates parameter stores from files, the environment,
command-line arguments and Go maps, and layers them into one store.

# Formats

FromFile picks the decoder by extension:

  - .yaml, .yml: gopkg.in/yaml.v3, document order preserved
  - .json: encoding/json token stream, document order preserved
  - .toml: github.com/pelletier/go-toml/v2, keys sorted

Nested mappings flatten to dotted keys:

	database:
	  host: db.internal   # "database.host" = text "db.internal"
	  port: 5432          # "database.port" = integer 5432

Sequences have no parameter representation and are rejected with a
*paramstore.UnsupportedValueError naming the key.

# Layering

Load merges layers in precedence order, lowest first:

	defaults < files (in order) < environment < args

A key set by a higher layer replaces the value but keeps the position it was
first given. Parameters.Source reports which layer won:

	p, err := loader.Load(ctx, loader.Sources{
	    Defaults:  map[string]any{"port": 8080},
	    Files:     []string{"/etc/app.yaml"},
	    EnvPrefix: "APP_",
	    Args:      []string{"port=9090"},
	})
	src, _ := p.Source("port") // "args"

Environment and argument values are text, parsed on lookup. WithInference
types them by spelling instead.

# Observability

Each Load gets a uuid load id. WithLogger, WithMetrics and WithSpanManager
report the load and every layer (see package observability).
*/
package loader
