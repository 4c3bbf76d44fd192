// Package textparse converts parameter text into primitive Go values.
//
// Every function reports success with a boolean instead of an error: text that
// does not parse is an expected outcome for weakly typed input, and callers
// treat it as "no value" rather than a failure.
package textparse

import (
	"strconv"
	"strings"
	"time"
)

// Bool parses a boolean token. The vocabulary is case-insensitive:
//
//	true:  true, yes, on, 1
//	false: false, no, off, 0
//
// Anything else, including surrounding whitespace, fails.
func Bool(s string) (bool, bool) {
	switch strings.ToLower(s) {
	case "true", "yes", "on", "1":
		return true, true
	case "false", "no", "off", "0":
		return false, true
	}
	return false, false
}

// Int parses an optionally signed decimal integer that fits in bits.
func Int(s string, bits int) (int64, bool) {
	if !decimal(s) {
		return 0, false
	}
	v, err := strconv.ParseInt(s, 10, bits)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Uint parses an unsigned decimal integer that fits in bits.
// A leading '+' is accepted; a leading '-' is not.
func Uint(s string, bits int) (uint64, bool) {
	if !decimal(s) {
		return 0, false
	}
	v, err := strconv.ParseUint(strings.TrimPrefix(s, "+"), 10, bits)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Float parses a floating-point literal at the given precision (32 or 64).
// Values outside the range of the precision fail.
func Float(s string, bits int) (float64, bool) {
	if s == "" || strings.ContainsRune(s, '_') {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, bits)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Duration parses a Go duration literal such as "1h30m" or "250ms".
func Duration(s string) (time.Duration, bool) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, false
	}
	return d, true
}

// decimal reports whether s is a sign followed by one or more ASCII digits.
func decimal(s string) bool {
	if s != "" && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
