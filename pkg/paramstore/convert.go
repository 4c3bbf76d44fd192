package paramstore

import (
	"math"
	"reflect"
	"strconv"
)

// convertFunc converts a non-text Value to one target type.
// ok is false when the value does not fit the target.
type convertFunc func(v Value) (out any, ok bool)

var (
	stringType = reflect.TypeFor[string]()
	nullType   = reflect.TypeFor[Null]()
)

// conversions holds the rules applied to non-text values, indexed by target
// type and then by stored kind. A nil entry means no rule exists. Text values
// go through Parsers instead and have no entries here.
var conversions = map[reflect.Type][numKinds]convertFunc{
	stringType: {
		KindNull: func(Value) (any, bool) { return "", true },
		KindBool: func(v Value) (any, bool) { return strconv.FormatBool(v.b), true },
		KindInteger: func(v Value) (any, bool) {
			return strconv.FormatInt(v.i, 10), true
		},
		KindDouble: func(v Value) (any, bool) {
			return strconv.FormatFloat(v.f, 'g', -1, 64), true
		},
	},
	nullType: {
		KindNull: func(Value) (any, bool) { return Null{}, true },
	},
	reflect.TypeFor[bool](): {
		KindBool:    func(v Value) (any, bool) { return v.b, true },
		KindInteger: func(v Value) (any, bool) { return bitToBool(float64(v.i)) },
		KindDouble:  func(v Value) (any, bool) { return bitToBool(v.f) },
	},

	reflect.TypeFor[int]():   signedRules[int](strconv.IntSize),
	reflect.TypeFor[int8]():  signedRules[int8](8),
	reflect.TypeFor[int16](): signedRules[int16](16),
	reflect.TypeFor[int32](): signedRules[int32](32),
	reflect.TypeFor[int64](): signedRules[int64](64),

	reflect.TypeFor[uint]():   unsignedRules[uint](strconv.IntSize),
	reflect.TypeFor[uint8]():  unsignedRules[uint8](8),
	reflect.TypeFor[uint16](): unsignedRules[uint16](16),
	reflect.TypeFor[uint32](): unsignedRules[uint32](32),
	reflect.TypeFor[uint64](): unsignedRules[uint64](64),

	reflect.TypeFor[float64](): {
		KindBool:    func(v Value) (any, bool) { return float64(boolToInt(v.b)), true },
		KindInteger: func(v Value) (any, bool) {
			f := float64(v.i)
			if !exactInt(f, v.i) {
				return nil, false
			}
			return f, true
		},
		KindDouble: func(v Value) (any, bool) { return v.f, true },
	},
	reflect.TypeFor[float32](): {
		KindBool:    func(v Value) (any, bool) { return float32(boolToInt(v.b)), true },
		KindInteger: func(v Value) (any, bool) {
			f := float32(v.i)
			if !exactInt(float64(f), v.i) {
				return nil, false
			}
			return f, true
		},
		KindDouble: func(v Value) (any, bool) {
			if math.Abs(v.f) > math.MaxFloat32 && !math.IsInf(v.f, 0) {
				return nil, false
			}
			return float32(v.f), true
		},
	},
}

// extract converts v to T.
//
// Text goes through the parser registered for T; a parse failure yields
// ok == false with no error. Other kinds go through the conversion table; a
// missing rule or a value that does not fit yields a *ConversionError.
func extract[T any](v Value, parsers *Parsers) (T, bool, *ConversionError) {
	var zero T
	to := reflect.TypeFor[T]()

	if v.kind == KindText {
		switch to {
		case stringType:
			return any(v.s).(T), true, nil
		case nullType:
			return zero, false, nil
		}
		parse, found := parsers.lookup(to)
		if !found {
			return zero, false, &ConversionError{From: KindText, To: to, Err: ErrNoParser}
		}
		out, ok := parse(v.s)
		if !ok {
			return zero, false, nil
		}
		return out.(T), true, nil
	}

	rules, found := conversions[to]
	if !found || rules[v.kind] == nil {
		return zero, false, &ConversionError{From: v.kind, To: to, Err: ErrNoConversion}
	}
	out, ok := rules[v.kind](v)
	if !ok {
		return zero, false, &ConversionError{From: v.kind, To: to, Err: ErrNotRepresentable}
	}
	return out.(T), true, nil
}

func signedRules[T ~int | ~int8 | ~int16 | ~int32 | ~int64](bits int) [numKinds]convertFunc {
	limit := math.Ldexp(1, bits-1)
	return [numKinds]convertFunc{
		KindBool: func(v Value) (any, bool) { return T(boolToInt(v.b)), true },
		KindInteger: func(v Value) (any, bool) {
			if bits < 64 && (v.i < -(int64(1)<<(bits-1)) || v.i >= int64(1)<<(bits-1)) {
				return nil, false
			}
			return T(v.i), true
		},
		KindDouble: func(v Value) (any, bool) {
			if !integral(v.f) || v.f < -limit || v.f >= limit {
				return nil, false
			}
			return T(int64(v.f)), true
		},
	}
}

func unsignedRules[T ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64](bits int) [numKinds]convertFunc {
	limit := math.Ldexp(1, bits)
	return [numKinds]convertFunc{
		KindBool: func(v Value) (any, bool) { return T(boolToInt(v.b)), true },
		KindInteger: func(v Value) (any, bool) {
			if v.i < 0 || (bits < 64 && uint64(v.i) >= uint64(1)<<bits) {
				return nil, false
			}
			return T(v.i), true
		},
		KindDouble: func(v Value) (any, bool) {
			if !integral(v.f) || v.f < 0 || v.f >= limit {
				return nil, false
			}
			return T(uint64(v.f)), true
		},
	}
}

// bitToBool accepts exactly 0 and 1.
func bitToBool(f float64) (any, bool) {
	switch f {
	case 0:
		return false, true
	case 1:
		return true, true
	}
	return nil, false
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

// exactInt reports whether f is exactly i, so the widening lost no digits.
func exactInt(f float64, i int64) bool {
	if f >= math.Ldexp(1, 63) {
		return false
	}
	return int64(f) == i
}

func integral(f float64) bool {
	return !math.IsInf(f, 0) && !math.IsNaN(f) && f == math.Trunc(f)
}
