package paramstore

import (
	"reflect"
	"sort"
	"strconv"
	"sync"

	"github.com/randalmurphal/paramstore/pkg/paramstore/textparse"
)

// textParser converts stored text into a value of one target type.
// ok is false when the text is malformed for that type.
type textParser func(s string) (v any, ok bool)

// Parsers maps target types to the text parsers used when a text parameter is
// requested as that type. It is safe for concurrent use.
//
// Requests for string and Null never consult a Parsers: text is returned
// unchanged as a string and never parses as Null.
type Parsers struct {
	mu      sync.RWMutex
	entries map[reflect.Type]textParser
}

// builtinParsers backs every store created without WithParsers.
// It is never registered into after initialization.
var builtinParsers = DefaultParsers()

// NewParsers creates an empty parser set.
func NewParsers() *Parsers {
	return &Parsers{
		entries: make(map[reflect.Type]textParser),
	}
}

// DefaultParsers creates a parser set holding the built-in parsers: bool,
// every int and uint width, float32, float64 and time.Duration.
// The returned set is independent; registering into it affects no other set.
func DefaultParsers() *Parsers {
	ps := NewParsers()

	RegisterParser(ps, textparse.Bool)

	RegisterParser(ps, signedParser[int](strconv.IntSize))
	RegisterParser(ps, signedParser[int8](8))
	RegisterParser(ps, signedParser[int16](16))
	RegisterParser(ps, signedParser[int32](32))
	RegisterParser(ps, signedParser[int64](64))

	RegisterParser(ps, unsignedParser[uint](strconv.IntSize))
	RegisterParser(ps, unsignedParser[uint8](8))
	RegisterParser(ps, unsignedParser[uint16](16))
	RegisterParser(ps, unsignedParser[uint32](32))
	RegisterParser(ps, unsignedParser[uint64](64))

	RegisterParser(ps, func(s string) (float32, bool) {
		f, ok := textparse.Float(s, 32)
		return float32(f), ok
	})
	RegisterParser(ps, func(s string) (float64, bool) {
		return textparse.Float(s, 64)
	})

	RegisterParser(ps, textparse.Duration)

	return ps
}

// RegisterParser adds or replaces the text parser for T.
//
// Example:
//
//	ps := paramstore.DefaultParsers()
//	paramstore.RegisterParser(ps, func(s string) (net.IP, bool) {
//	    ip := net.ParseIP(s)
//	    return ip, ip != nil
//	})
//	p := paramstore.New(paramstore.WithParsers(ps))
func RegisterParser[T any](ps *Parsers, fn func(string) (T, bool)) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.entries[reflect.TypeFor[T]()] = func(s string) (any, bool) {
		return fn(s)
	}
}

// Has reports whether a parser is registered for t.
func (ps *Parsers) Has(t reflect.Type) bool {
	_, ok := ps.lookup(t)
	return ok
}

// Types returns the registered target types sorted by name.
func (ps *Parsers) Types() []reflect.Type {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	types := make([]reflect.Type, 0, len(ps.entries))
	for t := range ps.entries {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i].String() < types[j].String()
	})
	return types
}

func (ps *Parsers) lookup(t reflect.Type) (textParser, bool) {
	ps.mu.RLock()
	defer ps.mu.RUnlock()
	fn, ok := ps.entries[t]
	return fn, ok
}

func signedParser[T ~int | ~int8 | ~int16 | ~int32 | ~int64](bits int) func(string) (T, bool) {
	return func(s string) (T, bool) {
		v, ok := textparse.Int(s, bits)
		return T(v), ok
	}
}

func unsignedParser[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](bits int) func(string) (T, bool) {
	return func(s string) (T, bool) {
		v, ok := textparse.Uint(s, bits)
		return T(v), ok
	}
}
