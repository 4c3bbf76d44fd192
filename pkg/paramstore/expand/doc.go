/*
Package expand substitutes variable references in parameter text.

# Overview

Configuration files often refer to values supplied elsewhere, most often the
process environment:

	database:
	  url: postgres://${DB_HOST}:$DB_PORT/app

An Expander rewrites such references using a Lookup. The loader package
applies one to every text value read from a file when expansion is enabled.

# Reference Syntax

  - ${name} - brace style; name may contain letters, digits, '_' and '.',
    so it can name a dotted parameter key
  - $name - dollar style; name may contain letters, digits and '_'
  - $$ - a literal '$'

References are replaced in a single pass. Substituted text is never expanded
again.

# Lookups

Env builds a Lookup from KEY=VALUE pairs such as os.Environ(). Store builds
one from a *paramstore.Parameters, reading each value as a string. Chain tries
several lookups in order:

	lookup := expand.Chain(expand.Store(defaults), expand.Env(os.Environ()))
	out, err := expand.NewExpander().Expand("${app.name}-$USER", lookup)

# Missing Variables

By default an undefined reference is kept as-is. WithMissingAction selects
MissingEmpty or MissingError instead.
*/
package expand
