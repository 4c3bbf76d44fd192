package paramstore

import (
	"errors"
	"fmt"
	"sort"
)

// Pair is a key and its value, used to build a store.
type Pair struct {
	Key   string
	Value Value
}

// Entry is a stored parameter with the label of the layer that set it.
type Entry struct {
	Key    string
	Value  Value
	Source string
}

// Parameters is an insertion-ordered set of named values.
//
// Keys are unique. Setting an existing key replaces its value and source but
// keeps its original position.
//
// A store is built with New/FromPairs/FromMap and Set, then shared. Read
// methods and the typed lookups (Get, GetOr, MustGet, MustGetOr) are safe for
// concurrent use as long as nothing calls Set or Merge at the same time.
// A nil *Parameters behaves as an empty store for reads.
type Parameters struct {
	entries []Entry
	index   map[string]int
	opts    options
}

// New creates an empty store.
func New(opts ...Option) *Parameters {
	p := &Parameters{
		index: make(map[string]int),
		opts:  defaultOptions(),
	}
	for _, opt := range opts {
		opt(&p.opts)
	}
	return p
}

// FromPairs creates a store from pairs in order. Later duplicates win.
func FromPairs(pairs []Pair, opts ...Option) *Parameters {
	p := New(opts...)
	for _, pair := range pairs {
		p.Set(pair.Key, pair.Value)
	}
	return p
}

// FromMap creates a store from native Go values (see ValueOf).
// Keys are inserted in sorted order since map iteration order is random.
func FromMap(m map[string]any, opts ...Option) (*Parameters, error) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := New(opts...)
	for _, k := range keys {
		v, err := ValueOf(m[k])
		if err != nil {
			var unsupported *UnsupportedValueError
			if errors.As(err, &unsupported) {
				unsupported.Key = k
				return nil, unsupported
			}
			return nil, fmt.Errorf("parameter %q: %w", k, err)
		}
		p.Set(k, v)
	}
	return p, nil
}

// Set stores v under key with no source label.
func (p *Parameters) Set(key string, v Value) {
	p.SetFrom(key, v, "")
}

// SetFrom stores v under key and records where it came from.
func (p *Parameters) SetFrom(key string, v Value, source string) {
	if i, ok := p.index[key]; ok {
		p.entries[i].Value = v
		p.entries[i].Source = source
		return
	}
	p.index[key] = len(p.entries)
	p.entries = append(p.entries, Entry{Key: key, Value: v, Source: source})
}

// Merge copies every entry of other into p, in other's order.
// Values from other replace values already in p.
func (p *Parameters) Merge(other *Parameters) {
	if other == nil {
		return
	}
	for _, e := range other.entries {
		p.SetFrom(e.Key, e.Value, e.Source)
	}
}

// Lookup returns the value stored under key.
func (p *Parameters) Lookup(key string) (Value, bool) {
	if p == nil {
		return Value{}, false
	}
	i, ok := p.index[key]
	if !ok {
		return Value{}, false
	}
	return p.entries[i].Value, true
}

// Has reports whether key is stored.
func (p *Parameters) Has(key string) bool {
	_, ok := p.Lookup(key)
	return ok
}

// Source returns the source label recorded for key.
func (p *Parameters) Source(key string) (string, bool) {
	if p == nil {
		return "", false
	}
	i, ok := p.index[key]
	if !ok {
		return "", false
	}
	return p.entries[i].Source, true
}

// Len returns the number of stored keys.
func (p *Parameters) Len() int {
	if p == nil {
		return 0
	}
	return len(p.entries)
}

// Keys returns the stored keys in insertion order.
func (p *Parameters) Keys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, len(p.entries))
	for i, e := range p.entries {
		keys[i] = e.Key
	}
	return keys
}

// Entries returns a copy of the stored entries in insertion order.
func (p *Parameters) Entries() []Entry {
	if p == nil {
		return nil
	}
	out := make([]Entry, len(p.entries))
	copy(out, p.entries)
	return out
}

// Range calls fn for each entry in insertion order until fn returns false.
func (p *Parameters) Range(fn func(key string, v Value) bool) {
	if p == nil {
		return
	}
	for _, e := range p.entries {
		if !fn(e.Key, e.Value) {
			return
		}
	}
}

// Clone returns an independent copy of p with the same options.
func (p *Parameters) Clone() *Parameters {
	if p == nil {
		return New()
	}
	c := &Parameters{
		entries: make([]Entry, len(p.entries)),
		index:   make(map[string]int, len(p.index)),
		opts:    p.opts,
	}
	copy(c.entries, p.entries)
	for k, i := range p.index {
		c.index[k] = i
	}
	return c
}

// ToMap returns the stored values as native Go values (see Value.Native).
func (p *Parameters) ToMap() map[string]any {
	m := make(map[string]any, p.Len())
	p.Range(func(key string, v Value) bool {
		m[key] = v.Native()
		return true
	})
	return m
}
