package expand

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/randalmurphal/paramstore/pkg/paramstore"
)

// referencePattern matches, in order of preference, an escaped dollar ($$),
// a brace reference (${name}, name may be dotted) and a dollar reference
// ($name). Leftmost-first alternation keeps $$name from matching as $name.
var referencePattern = regexp.MustCompile(`\$(?:(\$)|\{([a-zA-Z_][a-zA-Z0-9_.]*)\}|([a-zA-Z_][a-zA-Z0-9_]*))`)

// Lookup resolves a variable name to its value.
type Lookup func(name string) (string, bool)

// Env returns a Lookup over KEY=VALUE pairs such as os.Environ().
// When a key repeats, the last pair wins. Entries without '=' are ignored.
func Env(environ []string) Lookup {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		vars[k] = v
	}
	return func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	}
}

// Store returns a Lookup that reads parameters from p as strings.
// Null parameters resolve to the empty string.
func Store(p *paramstore.Parameters) Lookup {
	return func(name string) (string, bool) {
		v, ok, err := paramstore.Get[string](p, name)
		if err != nil {
			return "", false
		}
		return v, ok
	}
}

// Chain returns a Lookup that tries each lookup in order and returns the
// first hit. Nil lookups are skipped.
func Chain(lookups ...Lookup) Lookup {
	return func(name string) (string, bool) {
		for _, l := range lookups {
			if l == nil {
				continue
			}
			if v, ok := l(name); ok {
				return v, true
			}
		}
		return "", false
	}
}

// Expander substitutes variable references in strings.
//
// Create with NewExpander() and configure with Option functions.
// Expander is safe for concurrent use after construction.
type Expander struct {
	missingAction MissingAction
	braceStyle    bool
	dollarStyle   bool
}

// NewExpander creates an Expander.
//
// Default configuration:
//   - MissingAction: MissingKeep
//   - BraceStyle: enabled (${name})
//   - DollarStyle: enabled ($name)
func NewExpander(opts ...Option) *Expander {
	e := &Expander{
		missingAction: MissingKeep,
		braceStyle:    true,
		dollarStyle:   true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MissingAction returns the configured handling of undefined variables.
func (e *Expander) MissingAction() MissingAction {
	return e.missingAction
}

// Expand replaces the references in s with values from lookup.
//
// An error is returned only with MissingError, and only after the whole
// string has been processed, so the result still has every defined
// reference substituted.
//
// Example:
//
//	exp := expand.NewExpander()
//	out, _ := exp.Expand("https://${HOST}/api", expand.Env(os.Environ()))
func (e *Expander) Expand(s string, lookup Lookup) (string, error) {
	if !strings.Contains(s, "$") {
		return s, nil
	}
	if lookup == nil {
		lookup = func(string) (string, bool) { return "", false }
	}

	var missing []string
	out := referencePattern.ReplaceAllStringFunc(s, func(match string) string {
		m := referencePattern.FindStringSubmatch(match)
		var name string
		switch {
		case m[1] != "":
			return "$"
		case m[2] != "":
			if !e.braceStyle {
				return match
			}
			name = m[2]
		default:
			if !e.dollarStyle {
				return match
			}
			name = m[3]
		}

		if v, ok := lookup(name); ok {
			return v
		}
		switch e.missingAction {
		case MissingEmpty:
			return ""
		case MissingError:
			missing = append(missing, name)
			return match
		default:
			return match
		}
	})

	if len(missing) > 0 {
		return out, &UndefinedVariableError{Names: missing}
	}
	return out, nil
}

// MustExpand is like Expand but panics on error.
func (e *Expander) MustExpand(s string, lookup Lookup) string {
	out, err := e.Expand(s, lookup)
	if err != nil {
		panic(fmt.Sprintf("expand: %v", err))
	}
	return out
}

// ExpandValue expands v when it holds text and returns other kinds unchanged.
func (e *Expander) ExpandValue(v paramstore.Value, lookup Lookup) (paramstore.Value, error) {
	s, ok := v.AsText()
	if !ok {
		return v, nil
	}
	out, err := e.Expand(s, lookup)
	if err != nil {
		return v, err
	}
	return paramstore.TextValue(out), nil
}

// ExpandStore expands every text parameter of p in place, keeping each
// entry's position and source. It stops at the first error and names the
// offending key.
func (e *Expander) ExpandStore(p *paramstore.Parameters, lookup Lookup) error {
	for _, entry := range p.Entries() {
		out, err := e.ExpandValue(entry.Value, lookup)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", entry.Key, err)
		}
		p.SetFrom(entry.Key, out, entry.Source)
	}
	return nil
}

// UndefinedVariableError is returned with MissingError when one or more
// referenced variables are undefined.
type UndefinedVariableError struct {
	// Names lists the undefined variables in order of appearance.
	Names []string
}

// Error implements the error interface.
func (e *UndefinedVariableError) Error() string {
	if len(e.Names) == 1 {
		return fmt.Sprintf("undefined variable: %s", e.Names[0])
	}
	return fmt.Sprintf("undefined variables: %s", strings.Join(e.Names, ", "))
}
