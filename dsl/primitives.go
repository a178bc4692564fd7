package dsl

import (
	"time"

	skema "github.com/reoring/skema"
	eng "github.com/reoring/skema/internal/engine"
)

// BooleanSchema checks for a bool. Use Equal for a literal true or false.
type BooleanSchema struct {
	modifiers[BooleanSchema]
}

func (BooleanSchema) wrap(c *eng.Chain) BooleanSchema {
	return BooleanSchema{modifiers[BooleanSchema]{c}}
}

// DateSchema checks for a time.Time.
type DateSchema struct {
	modifiers[DateSchema]
}

func (DateSchema) wrap(c *eng.Chain) DateSchema {
	return DateSchema{modifiers[DateSchema]{c}}
}

// Min requires the date to be at or after t.
func (s DateSchema) Min(t time.Time, opts ...Option) DateSchema {
	if hi, ok := eng.FindLast[eng.MaxOp](s.c); ok && t.After(hi.Bound.(time.Time)) {
		skema.PanicConfig("min", "min %s is after max %s", t.Format(time.RFC3339), hi.Bound.(time.Time).Format(time.RFC3339))
	}
	return s.next(constraint(eng.MinOp{Bound: t}, opts))
}

// Max requires the date to be at or before t.
func (s DateSchema) Max(t time.Time, opts ...Option) DateSchema {
	if lo, ok := eng.FindLast[eng.MinOp](s.c); ok && t.Before(lo.Bound.(time.Time)) {
		skema.PanicConfig("max", "max %s is before min %s", t.Format(time.RFC3339), lo.Bound.(time.Time).Format(time.RFC3339))
	}
	return s.next(constraint(eng.MaxOp{Bound: t}, opts))
}

// BufferSchema checks for a []byte.
type BufferSchema struct {
	modifiers[BufferSchema]
}

func (BufferSchema) wrap(c *eng.Chain) BufferSchema {
	return BufferSchema{modifiers[BufferSchema]{c}}
}

// Min requires at least n bytes.
func (s BufferSchema) Min(n int, opts ...Option) BufferSchema {
	return s.next(countBound(s.c, true, n, opts))
}

// Max allows at most n bytes.
func (s BufferSchema) Max(n int, opts ...Option) BufferSchema {
	return s.next(countBound(s.c, false, n, opts))
}

// FunctionSchema checks for a non-nil func value.
type FunctionSchema struct {
	modifiers[FunctionSchema]
}

func (FunctionSchema) wrap(c *eng.Chain) FunctionSchema {
	return FunctionSchema{modifiers[FunctionSchema]{c}}
}

// AnySchema performs no type check and accepts null.
type AnySchema struct {
	modifiers[AnySchema]
}

func (AnySchema) wrap(c *eng.Chain) AnySchema {
	return AnySchema{modifiers[AnySchema]{c}}
}

// countBound builds a min/max spec over an element or byte count.
func countBound(c *eng.Chain, isMin bool, n int, opts []Option) eng.Spec {
	method := "max"
	if isMin {
		method = "min"
	}
	checkCount(method, n)
	if isMin {
		if hi, ok := eng.FindLast[eng.MaxOp](c); ok && n > hi.Bound.(int) {
			skema.PanicConfig(method, "min %d exceeds max %d", n, hi.Bound)
		}
		return constraint(eng.MinOp{Bound: n}, opts)
	}
	if lo, ok := eng.FindLast[eng.MinOp](c); ok && n < lo.Bound.(int) {
		skema.PanicConfig(method, "max %d is less than min %d", n, lo.Bound)
	}
	return constraint(eng.MaxOp{Bound: n}, opts)
}
