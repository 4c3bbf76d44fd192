// Command paramget loads layered parameters and prints them.
//
//	paramget --file app.yaml --env-prefix APP_ get server.port --type int
//	paramget --file app.yaml --set debug=true list
//
// Exit codes: 0 success, 1 parameter not set, 2 conversion error or bad
// usage, 3 load failure.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"github.com/kelseyhightower/envconfig"
	"go.uber.org/zap"

	"github.com/randalmurphal/paramstore/internal/logging"
	"github.com/randalmurphal/paramstore/pkg/paramstore"
	"github.com/randalmurphal/paramstore/pkg/paramstore/expand"
	"github.com/randalmurphal/paramstore/pkg/paramstore/loader"
)

const (
	exitOK       = 0
	exitNotSet   = 1
	exitUsage    = 2
	exitLoadFail = 3
)

// settings are read from PARAMGET_* environment variables.
type settings struct {
	LogLevel    string `envconfig:"LOG_LEVEL" default:"warn"`
	Verbose     bool   `envconfig:"VERBOSE" default:"false"`
	Development bool   `envconfig:"DEVELOPMENT" default:"false"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var s settings
	if err := envconfig.Process("paramget", &s); err != nil {
		fmt.Fprintf(stderr, "paramget: %v\n", err)
		return exitUsage
	}

	logger, err := logging.New(logging.Config{Level: s.LogLevel, Development: s.Development}, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "paramget: %v\n", err)
		return exitUsage
	}
	defer func() {
		_ = logger.Sync()
	}()

	app := kingpin.New("paramget", "Load layered parameters and print them.")
	app.UsageWriter(stderr)
	app.ErrorWriter(stderr)
	app.Terminate(nil)

	files := app.Flag("file", "Parameter file (.yaml, .yml, .json, .toml); repeatable, later files win").Short('f').Strings()
	envPrefix := app.Flag("env-prefix", "Read environment variables with this prefix").String()
	overrides := app.Flag("set", "Override a parameter as key=value; repeatable").Strings()
	expansion := app.Flag("expand", "Expand ${NAME} references in file values; undefined references are kept, emptied or rejected").Enum("keep", "empty", "error")
	infer := app.Flag("infer", "Type environment and --set values by their spelling").Bool()

	getCmd := app.Command("get", "Print one parameter.")
	getKey := getCmd.Arg("key", "Parameter key").Required().String()
	getType := getCmd.Flag("type", "Type to read the parameter as").Short('t').Default("string").Enum(typeNames()...)
	var hasDefault bool
	getDefault := getCmd.Flag("default", "Value to print when the parameter is not set").IsSetByUser(&hasDefault).String()

	listCmd := app.Command("list", "Print every parameter with its kind and source.")

	command, err := app.Parse(args)
	if err != nil {
		fmt.Fprintf(stderr, "paramget: %v\n", err)
		return exitUsage
	}

	opts := []loader.Option{loader.WithInference(*infer)}
	if *expansion != "" {
		opt, ok := expansionOption(*expansion)
		if !ok {
			fmt.Fprintf(stderr, "paramget: unknown --expand mode %q\n", *expansion)
			return exitUsage
		}
		opts = append(opts, opt)
	}
	if s.Verbose {
		slogger := logging.Slog(logger)
		opts = append(opts,
			loader.WithLogger(slogger),
			loader.WithStoreOptions(paramstore.WithLogger(slogger)),
		)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	p, err := loader.Load(ctx, loader.Sources{
		Files:     *files,
		EnvPrefix: *envPrefix,
		Args:      *overrides,
	}, opts...)
	if err != nil {
		logger.Error("parameter load failed", zap.Error(err))
		fmt.Fprintf(stderr, "paramget: %v\n", err)
		return exitLoadFail
	}
	logger.Debug("parameters loaded", zap.Int("entries", p.Len()))

	switch command {
	case getCmd.FullCommand():
		var def *string
		if hasDefault {
			def = getDefault
		}
		return get(p, *getKey, *getType, def, stdout, stderr)
	case listCmd.FullCommand():
		return list(p, stdout)
	}
	return exitUsage
}

// expansionOption maps an --expand mode to its loader option.
func expansionOption(mode string) (loader.Option, bool) {
	action, ok := expand.ParseMissingAction(mode)
	if !ok {
		return nil, false
	}
	return loader.WithExpansion(action), true
}

func get(p *paramstore.Parameters, key, typeName string, def *string, stdout, stderr io.Writer) int {
	read := readers[typeName]
	out, ok, err := read(p, key)
	if err != nil {
		fmt.Fprintf(stderr, "paramget: %v\n", err)
		return exitUsage
	}
	if ok {
		fmt.Fprintln(stdout, out)
		return exitOK
	}
	if def == nil {
		fmt.Fprintf(stderr, "paramget: parameter %q not set\n", key)
		return exitNotSet
	}

	// The default must itself be readable as the requested type.
	defaults := paramstore.New()
	defaults.Set(key, paramstore.TextValue(*def))
	out, ok, err = read(defaults, key)
	if err != nil || !ok {
		fmt.Fprintf(stderr, "paramget: default %q is not a valid %s\n", *def, typeName)
		return exitUsage
	}
	fmt.Fprintln(stdout, out)
	return exitOK
}

func list(p *paramstore.Parameters, stdout io.Writer) int {
	w := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tKIND\tVALUE\tSOURCE")
	for _, e := range p.Entries() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Key, e.Value.Kind(), e.Value, e.Source)
	}
	if err := w.Flush(); err != nil {
		return exitUsage
	}
	return exitOK
}

// reader reads key as one type and formats the result for printing.
type reader func(p *paramstore.Parameters, key string) (string, bool, error)

func readAs[T any](format func(T) string) reader {
	return func(p *paramstore.Parameters, key string) (string, bool, error) {
		v, ok, err := paramstore.Get[T](p, key)
		if err != nil || !ok {
			return "", ok, err
		}
		return format(v), true, nil
	}
}

func sprint[T any](v T) string {
	return fmt.Sprint(v)
}

var readers = map[string]reader{
	"string":   readAs(func(s string) string { return s }),
	"bool":     readAs(sprint[bool]),
	"int":      readAs(sprint[int64]),
	"uint":     readAs(sprint[uint64]),
	"double":   readAs(sprint[float64]),
	"float":    readAs(sprint[float32]),
	"duration": readAs(sprint[time.Duration]),
	"null":     readAs(func(paramstore.Null) string { return "null" }),
}

func typeNames() []string {
	return []string{"string", "bool", "int", "uint", "double", "float", "duration", "null"}
}
