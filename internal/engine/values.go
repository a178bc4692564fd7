package engine

import (
	"bytes"
	"math"
	"math/big"
	"reflect"
	"time"

	json "github.com/goccy/go-json"

	skema "github.com/reoring/skema"
)

// Number returns v as a float64 when v is a finite number of any Go numeric
// kind or a json.Number.
func Number(v any) (float64, bool) {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int8:
		f = float64(t)
	case int16:
		f = float64(t)
	case int32:
		f = float64(t)
	case int64:
		f = float64(t)
	case uint:
		f = float64(t)
	case uint8:
		f = float64(t)
	case uint16:
		f = float64(t)
	case uint32:
		f = float64(t)
	case uint64:
		f = float64(t)
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// BigInt returns v as a *big.Int when it is one.
func BigInt(v any) (*big.Int, bool) {
	switch t := v.(type) {
	case *big.Int:
		return t, t != nil
	case big.Int:
		return &t, true
	}
	return nil, false
}

// Date returns v as a time.Time when it is one.
func Date(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t == nil {
			return time.Time{}, false
		}
		return *t, true
	}
	return time.Time{}, false
}

// List returns the elements of any slice or array except []byte.
func List(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []byte, nil, string:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}

// Object returns the entries of any map keyed by strings.
func Object(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case nil:
		return nil, false
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, true
}

// CheckKind reports whether v is of the primitive kind k.
func CheckKind(k Kind, v any) bool {
	switch k {
	case KindString:
		_, ok := v.(string)
		return ok
	case KindNumber:
		_, ok := Number(v)
		return ok
	case KindBigInt:
		_, ok := BigInt(v)
		return ok
	case KindBoolean:
		_, ok := v.(bool)
		return ok
	case KindDate:
		_, ok := Date(v)
		return ok
	case KindBuffer:
		_, ok := v.([]byte)
		return ok
	case KindFunction:
		if v == nil {
			return false
		}
		rv := reflect.ValueOf(v)
		return rv.Kind() == reflect.Func && !rv.IsNil()
	case KindAny:
		return true
	case KindArray:
		_, ok := List(v)
		return ok
	case KindObject:
		_, ok := Object(v)
		return ok
	}
	return false
}

// Equal is a deep equality that compares numbers by value across Go numeric
// kinds, dates by instant, and lists and objects element-wise.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if skema.IsUndefined(a) || skema.IsUndefined(b) {
		return skema.IsUndefined(a) && skema.IsUndefined(b)
	}
	if fa, ok := Number(a); ok {
		fb, ok := Number(b)
		return ok && fa == fb
	}
	if x, ok := BigInt(a); ok {
		y, ok := BigInt(b)
		return ok && x.Cmp(y) == 0
	}
	if x, ok := Date(a); ok {
		y, ok := Date(b)
		return ok && x.Equal(y)
	}
	if x, ok := a.([]byte); ok {
		y, ok := b.([]byte)
		return ok && bytes.Equal(x, y)
	}
	if x, ok := List(a); ok {
		y, ok := List(b)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	}
	if x, ok := Object(a); ok {
		y, ok := Object(b)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !Equal(xv, yv) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// Clone copies lists, objects, buffers, and big integers so a default value
// handed out by one replay is never aliased by another.
func Clone(v any) any {
	switch t := v.(type) {
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = Clone(t[i])
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Clone(e)
		}
		return out
	case []byte:
		return append([]byte(nil), t...)
	case *big.Int:
		if t == nil {
			return t
		}
		return new(big.Int).Set(t)
	case *time.Time:
		if t == nil {
			return t
		}
		cp := *t
		return &cp
	}
	return v
}
