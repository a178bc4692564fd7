package openapi

import "fmt"

// UnknownBehavior configures keys an object schema does not declare.
type UnknownBehavior int

const (
	// UnknownFromSchema follows additionalProperties: false becomes Strict,
	// anything else passes unknown keys through.
	UnknownFromSchema UnknownBehavior = iota
	// UnknownStrip removes undeclared keys.
	UnknownStrip
	// UnknownStrict rejects undeclared keys everywhere.
	UnknownStrict
)

// DefaultMode controls how schema defaults are used.
type DefaultMode int

const (
	// DefaultApply substitutes the default for a missing value.
	DefaultApply DefaultMode = iota
	// DefaultIgnore drops defaults.
	DefaultIgnore
)

// AmbiguityStrategy configures oneOf/anyOf when several branches may match.
type AmbiguityStrategy int

const (
	// AmbiguityFirstMatch keeps the first matching branch.
	AmbiguityFirstMatch AmbiguityStrategy = iota
	// AmbiguityError requires exactly one branch of a oneOf to match. anyOf
	// keeps first-match semantics.
	AmbiguityError
)

// Options controls import behavior.
type Options struct {
	Unknown   UnknownBehavior
	Defaults  DefaultMode
	Ambiguity AmbiguityStrategy
}

// Diag carries non-fatal warnings produced during import.
type Diag interface {
	HasWarnings() bool
	Warnings() []string
}

type simpleDiag struct{ ws []string }

func (d *simpleDiag) HasWarnings() bool        { return len(d.ws) > 0 }
func (d *simpleDiag) Warnings() []string       { return append([]string(nil), d.ws...) }
func (d *simpleDiag) warnf(f string, a ...any) { d.ws = append(d.ws, fmt.Sprintf(f, a...)) }
