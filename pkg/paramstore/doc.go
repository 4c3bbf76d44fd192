/*
Package paramstore provides a typed parameter store: an ordered set of named
values, each holding one of null, bool, integer, double or text, with generic
lookups that convert the stored value to the type the caller asks for.

# Overview

Components that pass configuration-like data to each other rarely agree on
how values are represented. A value may arrive as a native bool or number
decoded from a document, or as text from an environment variable or a
command-line flag. paramstore keeps whichever representation it was given and
converts at lookup time.

# Basic Usage

Build a store, then read typed values:

	p := paramstore.New()
	p.Set("port", paramstore.TextValue("8080"))
	p.Set("verbose", paramstore.BoolValue(true))
	p.Set("ratio", paramstore.DoubleValue(0.75))

	port, ok, err := paramstore.Get[int](p, "port")        // 8080, true, nil
	verbose, err := paramstore.GetOr(p, "verbose", false)   // true, nil
	retries, err := paramstore.GetOr(p, "retries", 3)       // 3, nil (not set)

# Conversion Rules

Text is weakly typed. A text parameter requested as bool, an integer width,
a float width or time.Duration goes through the parser for that type (see
package textparse). Text that does not parse is reported as "no value", the
same as a missing key, so GetOr substitutes its default:

	p.Set("port", paramstore.TextValue("eighty"))
	port, err := paramstore.GetOr(p, "port", 80) // 80, nil

Requesting text as string always succeeds. Requesting anything as Null from
text never yields a value.

Non-text values convert only along defined rules:

  - bool to integers and floats as 0 or 1, to string as "true"/"false"
  - integer to any integer width it fits, to floats when exact, to bool
    when 0 or 1,
    to string in decimal
  - double to integer widths when integral and in range, to float32 when in
    range, to bool when 0 or 1, to string in shortest form
  - null to string as "", to Null

Anything else, and text requested as a type with no registered parser, is a
*ConversionError. That error names the key, the stored kind and the requested
type. It marks a caller bug, so GetOr returns it rather than the default:

	p.Set("verbose", paramstore.BoolValue(true))
	_, err := paramstore.GetOr(p, "verbose", time.Second)
	// err: parameter "verbose": cannot convert bool to time.Duration: no conversion rule

MustGet and MustGetOr panic with the *ConversionError instead.

# Custom Types

Register a parser to read text as additional types:

	ps := paramstore.DefaultParsers()
	paramstore.RegisterParser(ps, func(s string) (url.URL, bool) {
	    u, err := url.Parse(s)
	    if err != nil {
	        return url.URL{}, false
	    }
	    return *u, true
	})
	p := paramstore.New(paramstore.WithParsers(ps))

# Observability

WithLogger and WithMetrics report every lookup outcome (hit, miss,
parse_failure, fatal). See package observability.

# Thread Safety

Build the store completely, then share it. Lookups only read, so any number
of goroutines may call them concurrently as long as no goroutine calls Set or
Merge. Values are immutable and returned by copy.
*/
package paramstore
