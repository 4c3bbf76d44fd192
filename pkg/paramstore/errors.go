package paramstore

import (
	"errors"
	"fmt"
	"reflect"
)

// Sentinel errors for conversions with no defined extraction path.
// They are always wrapped in a *ConversionError.
var (
	// ErrNoParser indicates text was requested as a type with no registered parser.
	ErrNoParser = errors.New("no text parser for target type")

	// ErrNoConversion indicates no rule converts the stored kind to the target type.
	ErrNoConversion = errors.New("no conversion rule")

	// ErrNotRepresentable indicates a conversion rule exists but the stored
	// value does not fit the target type.
	ErrNotRepresentable = errors.New("value not representable in target type")
)

// ConversionError reports a lookup whose stored kind cannot be extracted as
// the requested type. It signals a caller contract violation, not bad input:
// malformed text never produces one.
type ConversionError struct {
	// Key is the parameter name.
	Key string
	// From is the stored kind.
	From Kind
	// To is the requested type.
	To reflect.Type
	// Err is one of ErrNoParser, ErrNoConversion or ErrNotRepresentable.
	Err error
}

// Error implements the error interface.
func (e *ConversionError) Error() string {
	return fmt.Sprintf("parameter %q: cannot convert %s to %s: %v", e.Key, e.From, typeName(e.To), e.Err)
}

// Unwrap returns the underlying sentinel for errors.Is support.
func (e *ConversionError) Unwrap() error {
	return e.Err
}

// IsFatal reports whether err is (or wraps) a *ConversionError.
func IsFatal(err error) bool {
	var convErr *ConversionError
	return errors.As(err, &convErr)
}

// UnsupportedValueError reports a native value that has no Value kind,
// such as a slice or struct handed to ValueOf or found in a decoded document.
type UnsupportedValueError struct {
	// Key is the parameter name, when known.
	Key string
	// Type is the Go type of the rejected value.
	Type reflect.Type
}

// Error implements the error interface.
func (e *UnsupportedValueError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("parameter %q: unsupported value type %s", e.Key, typeName(e.Type))
	}
	return fmt.Sprintf("unsupported value type %s", typeName(e.Type))
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
