package dsl

import (
	"context"

	skema "github.com/reoring/skema"
	eng "github.com/reoring/skema/internal/engine"
)

// Chain is a built schema. Every builder type implements it.
type Chain interface {
	skema.Runner
	chain() *eng.Chain
}

// CustomContext is passed to Custom and CustomAsync functions. Call exactly
// one of Success or Failed.
type CustomContext = eng.CustomContext

// wrapper rebuilds a builder of type S around a chain.
type wrapper[S any] interface {
	wrap(c *eng.Chain) S
}

// modifiers holds the chain and supplies the cross-cutting modifiers and the
// execution modes to every builder that embeds it.
type modifiers[S any] struct {
	c *eng.Chain
}

func (m modifiers[S]) chain() *eng.Chain { return m.c }

func (m modifiers[S]) next(sp eng.Spec) S {
	var zero S
	return any(zero).(wrapper[S]).wrap(m.c.Append(sp))
}

// Alias replaces the value name used in records and messages.
func (m modifiers[S]) Alias(name string) S {
	if name == "" {
		skema.PanicConfig("alias", "name must not be empty")
	}
	return m.next(eng.Spec{Op: eng.AliasOp{Name: name}})
}

// Default substitutes v when the value is undefined. Lists, objects and
// buffers are copied on every use.
func (m modifiers[S]) Default(v any) S {
	return m.next(eng.Spec{Op: eng.DefaultOp{Value: v}})
}

// Nullable accepts null and skips the checks that do not accept it.
func (m modifiers[S]) Nullable() S {
	return m.next(eng.Spec{Op: eng.NullableOp{}})
}

// NotRequired accepts undefined and skips the checks that do not accept it.
func (m modifiers[S]) NotRequired() S {
	return m.next(eng.Spec{Op: eng.NotRequiredOp{}})
}

// Equal requires the value to be deeply equal to v.
func (m modifiers[S]) Equal(v any, opts ...Option) S {
	return m.next(constraint(eng.EqualOp{Value: v}, opts))
}

// NotEqual requires the value to differ from v.
func (m modifiers[S]) NotEqual(v any, opts ...Option) S {
	return m.next(constraint(eng.NotEqualOp{Value: v}, opts))
}

// Custom runs fn against the current value. fn may replace the value with
// Success or reject it with Failed.
func (m modifiers[S]) Custom(fn func(c *CustomContext), opts ...Option) S {
	if fn == nil {
		skema.PanicConfig("custom", "function must not be nil")
	}
	return m.next(gated(eng.CustomOp{Fn: fn}, opts))
}

// CustomAsync is Custom for functions that block. It only runs under the
// Async execution modes; a returned error fails the check with its text.
func (m modifiers[S]) CustomAsync(fn func(ctx context.Context, c *CustomContext) error, opts ...Option) S {
	if fn == nil {
		skema.PanicConfig("custom", "function must not be nil")
	}
	return m.next(gated(eng.CustomOp{AsyncFn: fn}, opts))
}

// ParseTo selects the target schema the value is converted to once every
// earlier check passed.
func (m modifiers[S]) ParseTo(opts ...Option) ParseTarget {
	return ParseTarget{c: m.c, opts: opts}
}

func (m modifiers[S]) Validate(v any) bool {
	return eng.Validate(context.Background(), m.c, v, false)
}

func (m modifiers[S]) ValidateAsync(ctx context.Context, v any) bool {
	return eng.Validate(ctx, m.c, v, true)
}

func (m modifiers[S]) Test(v any, valueName ...string) skema.Report {
	return eng.Test(context.Background(), m.c, v, false, valueName...)
}

func (m modifiers[S]) TestAsync(ctx context.Context, v any, valueName ...string) skema.Report {
	return eng.Test(ctx, m.c, v, true, valueName...)
}

func (m modifiers[S]) Parse(v any, valueName ...string) (any, error) {
	return eng.Parse(context.Background(), m.c, v, false, valueName...)
}

func (m modifiers[S]) ParseAsync(ctx context.Context, v any, valueName ...string) (any, error) {
	return eng.Parse(ctx, m.c, v, true, valueName...)
}

func (m modifiers[S]) Throw(v any, valueName string, newErr skema.ErrorFunc) error {
	return eng.Throw(context.Background(), m.c, v, false, valueName, newErr)
}

func (m modifiers[S]) ThrowAsync(ctx context.Context, v any, valueName string, newErr skema.ErrorFunc) error {
	return eng.Throw(ctx, m.c, v, true, valueName, newErr)
}
