package expand

// MissingAction specifies how a reference to an undefined variable is handled.
type MissingAction int

const (
	// MissingKeep leaves the reference in place. This is the default.
	MissingKeep MissingAction = iota

	// MissingEmpty replaces the reference with an empty string.
	MissingEmpty

	// MissingError leaves the reference in place and makes Expand return an
	// *UndefinedVariableError naming every undefined variable.
	MissingError
)

// String returns the flag spelling of the action.
func (a MissingAction) String() string {
	switch a {
	case MissingKeep:
		return "keep"
	case MissingEmpty:
		return "empty"
	case MissingError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseMissingAction accepts the spellings produced by MissingAction.String.
func ParseMissingAction(s string) (MissingAction, bool) {
	switch s {
	case "keep":
		return MissingKeep, true
	case "empty":
		return MissingEmpty, true
	case "error":
		return MissingError, true
	}
	return MissingKeep, false
}

// Option configures an Expander.
type Option func(*Expander)

// WithMissingAction sets how undefined variables are handled.
//
// Default: MissingKeep
//
// Example:
//
//	exp := expand.NewExpander(expand.WithMissingAction(expand.MissingError))
//	_, err := exp.Expand("${missing}", expand.Env(nil))
//	// err: "undefined variable: missing"
func WithMissingAction(action MissingAction) Option {
	return func(e *Expander) {
		e.missingAction = action
	}
}

// WithBraceStyle enables or disables ${name} references.
//
// Default: true
func WithBraceStyle(enabled bool) Option {
	return func(e *Expander) {
		e.braceStyle = enabled
	}
}

// WithDollarStyle enables or disables $name references.
//
// Default: true
func WithDollarStyle(enabled bool) Option {
	return func(e *Expander) {
		e.dollarStyle = enabled
	}
}
