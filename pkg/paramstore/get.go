package paramstore

import (
	"context"
	"reflect"

	"github.com/randalmurphal/paramstore/pkg/paramstore/observability"
)

// Get returns the parameter stored under key as a T.
//
// Results:
//   - (value, true, nil): the key is set and converts to T.
//   - (zero, false, nil): the key is not set, or it holds text that does not
//     parse as T. Neither is an error.
//   - (zero, false, *ConversionError): the stored kind has no extraction path
//     to T. This is a caller error; it is never turned into "no value".
//
// Get performs one lookup and at most one conversion. Nothing is cached.
//
// Example:
//
//	port, ok, err := paramstore.Get[int](p, "port")
func Get[T any](p *Parameters, key string) (T, bool, error) {
	var zero T
	target := reflect.TypeFor[T]()

	v, found := p.Lookup(key)
	if !found {
		p.report(key, observability.OutcomeMiss, v, target, nil)
		return zero, false, nil
	}

	out, ok, convErr := extract[T](v, p.parsers())
	if convErr != nil {
		convErr.Key = key
		p.report(key, observability.OutcomeFatal, v, target, convErr)
		return zero, false, convErr
	}
	if !ok {
		p.report(key, observability.OutcomeParseFailure, v, target, nil)
		return zero, false, nil
	}

	p.report(key, observability.OutcomeHit, v, target, nil)
	return out, true, nil
}

// GetOr returns the parameter stored under key as a T, or def when the key
// is not set or holds text that does not parse as T. A *ConversionError is
// still returned as an error; def never masks it.
//
// Example:
//
//	timeout, err := paramstore.GetOr(p, "timeout", 30*time.Second)
func GetOr[T any](p *Parameters, key string, def T) (T, error) {
	v, ok, err := Get[T](p, key)
	if err != nil {
		return def, err
	}
	if !ok {
		return def, nil
	}
	return v, nil
}

// MustGet is like Get but panics with the *ConversionError instead of
// returning it.
func MustGet[T any](p *Parameters, key string) (T, bool) {
	v, ok, err := Get[T](p, key)
	if err != nil {
		panic(err)
	}
	return v, ok
}

// MustGetOr is like GetOr but panics with the *ConversionError instead of
// returning it.
func MustGetOr[T any](p *Parameters, key string, def T) T {
	v, err := GetOr(p, key, def)
	if err != nil {
		panic(err)
	}
	return v
}

func (p *Parameters) parsers() *Parsers {
	if p == nil {
		return builtinParsers
	}
	return p.opts.parsers
}

// report forwards a lookup outcome to the store's logger and metrics.
// Lookups take no context; metrics are recorded against the background context.
func (p *Parameters) report(key, outcome string, v Value, target reflect.Type, err error) {
	if p == nil {
		return
	}
	kind := v.kind.String()
	targetName := typeName(target)
	switch outcome {
	case observability.OutcomeMiss:
		kind = ""
		observability.LogLookupMiss(p.opts.logger, key, targetName)
	case observability.OutcomeParseFailure:
		observability.LogParseFailure(p.opts.logger, key, targetName, v.s)
	case observability.OutcomeFatal:
		observability.LogConversionError(p.opts.logger, key, kind, targetName, err)
	}
	p.opts.metrics.RecordLookup(context.Background(), outcome, kind, targetName)
}
