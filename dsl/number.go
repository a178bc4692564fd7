package dsl

import (
	"math"
	"math/big"

	skema "github.com/reoring/skema"
	eng "github.com/reoring/skema/internal/engine"
)

// NumberSchema checks for a finite number of any Go numeric kind.
type NumberSchema struct {
	modifiers[NumberSchema]
}

func (NumberSchema) wrap(c *eng.Chain) NumberSchema {
	return NumberSchema{modifiers[NumberSchema]{c}}
}

// Min requires the number to be >= n.
func (s NumberSchema) Min(n float64, opts ...Option) NumberSchema {
	checkFinite("min", n)
	if hi, ok := eng.FindLast[eng.MaxOp](s.c); ok && n > hi.Bound.(float64) {
		skema.PanicConfig("min", "min %v exceeds max %v", n, hi.Bound)
	}
	return s.next(constraint(eng.MinOp{Bound: n}, opts))
}

// Max requires the number to be <= n.
func (s NumberSchema) Max(n float64, opts ...Option) NumberSchema {
	checkFinite("max", n)
	if lo, ok := eng.FindLast[eng.MinOp](s.c); ok && n < lo.Bound.(float64) {
		skema.PanicConfig("max", "max %v is less than min %v", n, lo.Bound)
	}
	return s.next(constraint(eng.MaxOp{Bound: n}, opts))
}

func (s NumberSchema) Integer(opts ...Option) NumberSchema {
	return s.next(constraint(eng.IntegerOp{}, opts))
}

// Float requires a number with a fractional part.
func (s NumberSchema) Float(opts ...Option) NumberSchema {
	return s.next(constraint(eng.FloatOp{}, opts))
}

func (s NumberSchema) Positive(opts ...Option) NumberSchema {
	return s.next(constraint(eng.PositiveOp{}, opts))
}

func (s NumberSchema) Negative(opts ...Option) NumberSchema {
	return s.next(constraint(eng.NegativeOp{}, opts))
}

// OneOf restricts the number to values, compared by value across numeric kinds.
func (s NumberSchema) OneOf(values []float64, opts ...Option) NumberSchema {
	return s.next(constraint(enum("oneOf", values), opts))
}

func checkFinite(method string, n float64) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		skema.PanicConfig(method, "bound must be finite, got %v", n)
	}
}

// BigIntSchema checks for a *big.Int.
type BigIntSchema struct {
	modifiers[BigIntSchema]
}

func (BigIntSchema) wrap(c *eng.Chain) BigIntSchema {
	return BigIntSchema{modifiers[BigIntSchema]{c}}
}

func (s BigIntSchema) Min(n *big.Int, opts ...Option) BigIntSchema {
	checkBig("min", n)
	if hi, ok := eng.FindLast[eng.MaxOp](s.c); ok && n.Cmp(hi.Bound.(*big.Int)) > 0 {
		skema.PanicConfig("min", "min %s exceeds max %s", n, hi.Bound)
	}
	return s.next(constraint(eng.MinOp{Bound: new(big.Int).Set(n)}, opts))
}

func (s BigIntSchema) Max(n *big.Int, opts ...Option) BigIntSchema {
	checkBig("max", n)
	if lo, ok := eng.FindLast[eng.MinOp](s.c); ok && n.Cmp(lo.Bound.(*big.Int)) < 0 {
		skema.PanicConfig("max", "max %s is less than min %s", n, lo.Bound)
	}
	return s.next(constraint(eng.MaxOp{Bound: new(big.Int).Set(n)}, opts))
}

func (s BigIntSchema) Positive(opts ...Option) BigIntSchema {
	return s.next(constraint(eng.PositiveOp{}, opts))
}

func (s BigIntSchema) Negative(opts ...Option) BigIntSchema {
	return s.next(constraint(eng.NegativeOp{}, opts))
}

func (s BigIntSchema) OneOf(values []*big.Int, opts ...Option) BigIntSchema {
	for _, v := range values {
		checkBig("oneOf", v)
	}
	return s.next(constraint(enum("oneOf", values), opts))
}

func checkBig(method string, n *big.Int) {
	if n == nil {
		skema.PanicConfig(method, "bound must not be nil")
	}
}
