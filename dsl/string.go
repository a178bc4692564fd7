package dsl

import (
	"github.com/dlclark/regexp2"

	skema "github.com/reoring/skema"
	eng "github.com/reoring/skema/internal/engine"
)

// StringSchema checks for a string.
type StringSchema struct {
	modifiers[StringSchema]
}

func (StringSchema) wrap(c *eng.Chain) StringSchema {
	return StringSchema{modifiers[StringSchema]{c}}
}

// MinLength requires at least n characters, counted after NFC normalization.
func (s StringSchema) MinLength(n int, opts ...Option) StringSchema {
	checkCount("minLength", n)
	if hi, ok := eng.FindLast[eng.MaxLengthOp](s.c); ok && n > hi.N {
		skema.PanicConfig("minLength", "minLength %d exceeds maxLength %d", n, hi.N)
	}
	return s.next(constraint(eng.MinLengthOp{N: n}, opts))
}

// MaxLength allows at most n characters.
func (s StringSchema) MaxLength(n int, opts ...Option) StringSchema {
	checkCount("maxLength", n)
	if lo, ok := eng.FindLast[eng.MinLengthOp](s.c); ok && n < lo.N {
		skema.PanicConfig("maxLength", "maxLength %d is less than minLength %d", n, lo.N)
	}
	return s.next(constraint(eng.MaxLengthOp{N: n}, opts))
}

// MinWord requires at least n whitespace-separated words.
func (s StringSchema) MinWord(n int, opts ...Option) StringSchema {
	checkCount("minWord", n)
	if hi, ok := eng.FindLast[eng.MaxWordOp](s.c); ok && n > hi.N {
		skema.PanicConfig("minWord", "minWord %d exceeds maxWord %d", n, hi.N)
	}
	return s.next(constraint(eng.MinWordOp{N: n}, opts))
}

// MaxWord allows at most n words.
func (s StringSchema) MaxWord(n int, opts ...Option) StringSchema {
	checkCount("maxWord", n)
	if lo, ok := eng.FindLast[eng.MinWordOp](s.c); ok && n < lo.N {
		skema.PanicConfig("maxWord", "maxWord %d is less than minWord %d", n, lo.N)
	}
	return s.next(constraint(eng.MaxWordOp{N: n}, opts))
}

func (s StringSchema) Email(opts ...Option) StringSchema {
	return s.next(constraint(eng.EmailOp{}, opts))
}

// UUID accepts a canonical UUID of any version.
func (s StringSchema) UUID(opts ...Option) StringSchema {
	return s.next(constraint(eng.UUIDOp{}, opts))
}

// UUIDVersion accepts a canonical UUID of version v (1 through 8).
func (s StringSchema) UUIDVersion(v int, opts ...Option) StringSchema {
	if v < 1 || v > 8 {
		skema.PanicConfig("UUIDVersion", "unsupported version %d", v)
	}
	return s.next(constraint(eng.UUIDOp{Version: v}, opts))
}

// Regex requires a match of pattern, compiled with ECMAScript semantics.
func (s StringSchema) Regex(pattern string, opts ...Option) StringSchema {
	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		skema.PanicConfig("regex", "invalid pattern %q: %v", pattern, err)
	}
	return s.next(constraint(eng.RegexOp{Pattern: re}, opts))
}

// Time accepts a 24-hour HH:MM or HH:MM:SS string.
func (s StringSchema) Time(opts ...Option) StringSchema {
	return s.next(constraint(eng.TimeOp{}, opts))
}

// OneOf restricts the string to values.
func (s StringSchema) OneOf(values []string, opts ...Option) StringSchema {
	return s.next(constraint(enum("oneOf", values), opts))
}

func checkCount(method string, n int) {
	if n < 0 {
		skema.PanicConfig(method, "must not be negative, got %d", n)
	}
}

func enum[T any](method string, values []T) eng.EnumOp {
	if len(values) == 0 {
		skema.PanicConfig(method, "value list must not be empty")
	}
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return eng.EnumOp{Values: out}
}
