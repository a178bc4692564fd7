package dsl

import (
	"context"
	"fmt"
	"math"
	"reflect"

	skema "github.com/reoring/skema"
)

// Typed threads explicit input and output types through a built chain.
// The chain itself stays untyped; Typed converts at the call boundary.
type Typed[In, Out any] struct {
	c Chain
}

// As declares the Go type a chain parses to.
//
//	age := dsl.As[float64](dsl.String().ParseTo().Number())
//	n, err := age.Parse("42")
func As[Out any](c Chain) Typed[any, Out] { return Typed[any, Out]{c: c} }

// AsFunc declares both the input and output types of a chain.
func AsFunc[In, Out any](c Chain) Typed[In, Out] { return Typed[In, Out]{c: c} }

// Chain returns the untyped chain.
func (t Typed[In, Out]) Chain() Chain { return t.c }

func (t Typed[In, Out]) Validate(v In) bool { return t.c.Validate(v) }

func (t Typed[In, Out]) ValidateAsync(ctx context.Context, v In) bool {
	return t.c.ValidateAsync(ctx, v)
}

func (t Typed[In, Out]) Test(v In, valueName ...string) skema.Report {
	return t.c.Test(v, valueName...)
}

func (t Typed[In, Out]) TestAsync(ctx context.Context, v In, valueName ...string) skema.Report {
	return t.c.TestAsync(ctx, v, valueName...)
}

func (t Typed[In, Out]) Throw(v In, valueName string, newErr skema.ErrorFunc) error {
	return t.c.Throw(v, valueName, newErr)
}

func (t Typed[In, Out]) ThrowAsync(ctx context.Context, v In, valueName string, newErr skema.ErrorFunc) error {
	return t.c.ThrowAsync(ctx, v, valueName, newErr)
}

func (t Typed[In, Out]) Parse(v In, valueName ...string) (Out, error) {
	out, err := t.c.Parse(v, valueName...)
	if err != nil {
		var zero Out
		return zero, err
	}
	return convertOut[Out](out)
}

func (t Typed[In, Out]) ParseAsync(ctx context.Context, v In, valueName ...string) (Out, error) {
	out, err := t.c.ParseAsync(ctx, v, valueName...)
	if err != nil {
		var zero Out
		return zero, err
	}
	return convertOut[Out](out)
}

// convertOut asserts v to Out. Numbers convert across Go numeric kinds;
// null and undefined yield the zero value.
func convertOut[Out any](v any) (Out, error) {
	var zero Out
	if v == nil || skema.IsUndefined(v) {
		return zero, nil
	}
	if out, ok := v.(Out); ok {
		return out, nil
	}
	target := reflect.TypeOf((*Out)(nil)).Elem()
	rv := reflect.ValueOf(v)
	if isNumeric(rv.Kind()) && isNumeric(target.Kind()) {
		out, ok := convertNumber(rv, target)
		if !ok {
			return zero, fmt.Errorf("dsl: parsed value %v does not fit %s", v, target)
		}
		return out.Interface().(Out), nil
	}
	return zero, fmt.Errorf("dsl: parsed value of type %T is not %s", v, target)
}

// convertNumber converts rv to target. Integer targets need an exact,
// in-range value; float targets accept rounding.
func convertNumber(rv reflect.Value, target reflect.Type) (reflect.Value, bool) {
	if isFloat(target.Kind()) {
		return rv.Convert(target), true
	}
	if isFloat(rv.Kind()) {
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return reflect.Value{}, false
		}
	}
	if isUnsigned(target.Kind()) && isNegative(rv) {
		return reflect.Value{}, false
	}
	out := rv.Convert(target)
	if isUnsigned(rv.Kind()) && !isUnsigned(target.Kind()) && out.Int() < 0 {
		return reflect.Value{}, false
	}
	if !out.Convert(rv.Type()).Equal(rv) {
		return reflect.Value{}, false
	}
	return out, true
}

func isFloat(k reflect.Kind) bool { return k == reflect.Float32 || k == reflect.Float64 }

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNegative(rv reflect.Value) bool {
	switch {
	case isFloat(rv.Kind()):
		return rv.Float() < 0
	case isUnsigned(rv.Kind()):
		return false
	}
	return rv.Int() < 0
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// SafeParse parses v with c, returning (nil, false) when validation fails.
func SafeParse(c Chain, v any) (any, bool) { return skema.SafeParse(c, v) }

// Is reports whether v conforms to c.
func Is(c Chain, v any) bool { return skema.Is(c, v) }
