package paramstore

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/randalmurphal/paramstore/pkg/paramstore/textparse"
)

// Kind identifies which variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInteger
	KindDouble
	KindText

	numKinds
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInteger:
		return "integer"
	case KindDouble:
		return "double"
	case KindText:
		return "text"
	default:
		return "unknown"
	}
}

// Null is the target type for extracting a null parameter.
type Null struct{}

// Value holds exactly one of null, bool, integer, double or text.
// The kind is fixed when the Value is built. The zero Value is null.
type Value struct {
	kind Kind

	// Only the field matching kind is meaningful.
	b bool
	i int64
	f float64
	s string
}

// NullValue returns a null Value.
func NullValue() Value { return Value{kind: KindNull} }

// BoolValue returns a bool Value.
func BoolValue(b bool) Value { return Value{kind: KindBool, b: b} }

// IntValue returns an integer Value.
func IntValue(i int64) Value { return Value{kind: KindInteger, i: i} }

// DoubleValue returns a double Value.
func DoubleValue(f float64) Value { return Value{kind: KindDouble, f: f} }

// TextValue returns a text Value.
func TextValue(s string) Value { return Value{kind: KindText, s: s} }

// Kind returns the variant held by v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the payload if v is a bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsInt returns the payload if v is an integer.
func (v Value) AsInt() (int64, bool) { return v.i, v.kind == KindInteger }

// AsDouble returns the payload if v is a double.
func (v Value) AsDouble() (float64, bool) { return v.f, v.kind == KindDouble }

// AsText returns the payload if v is text.
func (v Value) AsText() (string, bool) { return v.s, v.kind == KindText }

// Native returns the payload as a Go value: nil, bool, int64, float64 or string.
func (v Value) Native() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInteger:
		return v.i
	case KindDouble:
		return v.f
	case KindText:
		return v.s
	default:
		return nil
	}
}

// String renders v for display. Null renders as "null"; use Get[string]
// for the conversion used by typed lookups.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInteger:
		return strconv.FormatInt(v.i, 10)
	case KindDouble:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindText:
		return v.s
	default:
		return "null"
	}
}

// GoString implements fmt.GoStringer.
func (v Value) GoString() string {
	switch v.kind {
	case KindText:
		return fmt.Sprintf("paramstore.TextValue(%q)", v.s)
	case KindNull:
		return "paramstore.NullValue()"
	default:
		return fmt.Sprintf("paramstore.%sValue(%s)", goKindName(v.kind), v.String())
	}
}

// Equal reports whether v and o hold the same kind and payload.
// Doubles compare by value, so NaN is not equal to itself.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindInteger:
		return v.i == o.i
	case KindDouble:
		return v.f == o.f
	case KindText:
		return v.s == o.s
	default:
		return true
	}
}

func goKindName(k Kind) string {
	switch k {
	case KindBool:
		return "Bool"
	case KindInteger:
		return "Int"
	case KindDouble:
		return "Double"
	default:
		return "Null"
	}
}

// ValueOf builds a Value from a native Go value as produced by decoders:
// nil, bool, any integer width, float32/64, string, json.Number or Value.
func ValueOf(x any) (Value, error) {
	switch val := x.(type) {
	case nil:
		return NullValue(), nil
	case Value:
		return val, nil
	case Null:
		return NullValue(), nil
	case bool:
		return BoolValue(val), nil
	case string:
		return TextValue(val), nil
	case int:
		return IntValue(int64(val)), nil
	case int8:
		return IntValue(int64(val)), nil
	case int16:
		return IntValue(int64(val)), nil
	case int32:
		return IntValue(int64(val)), nil
	case int64:
		return IntValue(val), nil
	case uint:
		return uintValue(uint64(val))
	case uint8:
		return IntValue(int64(val)), nil
	case uint16:
		return IntValue(int64(val)), nil
	case uint32:
		return IntValue(int64(val)), nil
	case uint64:
		return uintValue(val)
	case float32:
		return DoubleValue(float64(val)), nil
	case float64:
		return DoubleValue(val), nil
	case json.Number:
		if i, err := val.Int64(); err == nil {
			return IntValue(i), nil
		}
		f, err := val.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("json number %q: %w", val, err)
		}
		return DoubleValue(f), nil
	default:
		return Value{}, &UnsupportedValueError{Type: reflect.TypeOf(x)}
	}
}

func uintValue(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, fmt.Errorf("unsigned value %d: %w", u, ErrNotRepresentable)
	}
	return IntValue(int64(u)), nil
}

// InferValue classifies a literal: null/nil, true/false, an integer, a
// floating-point number, or otherwise text. Quoted literals ('x' or "x") are
// always text with the quotes removed.
//
// Numbers follow the textparse grammar, so surrounding whitespace keeps a
// literal as text. An integer literal that does not fit in int64 also stays
// text rather than being rounded to a double.
func InferValue(s string) Value {
	if len(s) >= 2 && (s[0] == '\'' || s[0] == '"') && s[len(s)-1] == s[0] {
		return TextValue(s[1 : len(s)-1])
	}

	switch strings.ToLower(s) {
	case "null", "nil":
		return NullValue()
	case "true":
		return BoolValue(true)
	case "false":
		return BoolValue(false)
	}

	if i, ok := textparse.Int(s, 64); ok {
		return IntValue(i)
	}
	if floatLiteral(s) {
		if f, ok := textparse.Float(s, 64); ok {
			return DoubleValue(f)
		}
	}
	return TextValue(s)
}

// floatLiteral reports whether s is spelled as a decimal float with a
// fraction or exponent. Integer spellings, hex floats, inf and nan are not.
func floatLiteral(s string) bool {
	digits, marker := false, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c >= '0' && c <= '9':
			digits = true
		case c == '.' || c == 'e' || c == 'E':
			marker = true
		case c == '+' || c == '-':
		default:
			return false
		}
	}
	return digits && marker
}
