// Package coerce converts already validated values between the kinds a schema
// can describe. It backs the parseTo step of a chain.
package coerce

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"

	skema "github.com/reoring/skema"
)

// ErrUnsupported is wrapped by every conversion failure.
var ErrUnsupported = errors.New("coerce: unsupported conversion")

func unsupported(v any, to string) error {
	return fmt.Errorf("%w: %s to %s", ErrUnsupported, kindOf(v), to)
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	}
	if skema.IsUndefined(v) {
		return "undefined"
	}
	return fmt.Sprintf("%T", v)
}

func absent(v any) bool { return v == nil || skema.IsUndefined(v) }

// ToString renders v as a string. Numbers use the shortest representation
// that round-trips (42 -> "42", 0.5 -> "0.5").
func ToString(v any) (string, error) {
	if absent(v) {
		return "", unsupported(v, "string")
	}
	switch t := v.(type) {
	case string:
		return t, nil
	case *big.Int:
		return t.String(), nil
	case big.Int:
		return t.String(), nil
	case time.Time:
		return FormatDate(t), nil
	case *time.Time:
		if t == nil {
			return "", unsupported(v, "string")
		}
		return FormatDate(*t), nil
	case json.Number:
		return t.String(), nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return "", unsupported(v, "string")
		}
	case map[string]any, []any:
		b, err := json.Marshal(t)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		return string(b), nil
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return s, nil
}

// ToNumber converts v to a finite float64. Strings must hold a complete
// numeric literal; big integers must be exactly representable; dates become
// Unix milliseconds.
func ToNumber(v any) (float64, error) {
	if absent(v) {
		return 0, unsupported(v, "number")
	}
	var f float64
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, unsupported(v, "number")
		}
		n, err := cast.ToFloat64E(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrUnsupported, t)
		}
		f = n
	case *big.Int:
		bf, acc := new(big.Float).SetInt(t).Float64()
		if acc != big.Exact {
			return 0, fmt.Errorf("%w: %s is not exactly representable", ErrUnsupported, t.String())
		}
		f = bf
	case big.Int:
		return ToNumber(&t)
	case time.Time:
		f = float64(t.UnixMilli())
	case *time.Time:
		if t == nil {
			return 0, unsupported(v, "number")
		}
		f = float64(t.UnixMilli())
	case []byte:
		return 0, unsupported(v, "number")
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		f = n
	default:
		n, err := cast.ToFloat64E(v)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrUnsupported, err)
		}
		f = n
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, unsupported(v, "number")
	}
	return f, nil
}

// ToBigInt converts v to a new *big.Int. Floats must be integral.
func ToBigInt(v any) (*big.Int, error) {
	if absent(v) {
		return nil, unsupported(v, "bigint")
	}
	switch t := v.(type) {
	case *big.Int:
		return new(big.Int).Set(t), nil
	case big.Int:
		return new(big.Int).Set(&t), nil
	case string:
		n, ok := new(big.Int).SetString(strings.TrimSpace(t), 10)
		if !ok {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrUnsupported, t)
		}
		return n, nil
	case bool:
		if t {
			return big.NewInt(1), nil
		}
		return big.NewInt(0), nil
	case uint, uint8, uint16, uint32, uint64:
		return new(big.Int).SetUint64(reflect.ValueOf(t).Uint()), nil
	case int, int8, int16, int32, int64:
		return big.NewInt(reflect.ValueOf(t).Int()), nil
	}
	f, err := ToNumber(v)
	if err != nil {
		return nil, err
	}
	if f != math.Trunc(f) {
		return nil, fmt.Errorf("%w: %v is not an integer", ErrUnsupported, f)
	}
	n, _ := big.NewFloat(f).Int(nil)
	return n, nil
}

// ToBoolean converts v to a bool. Strings accept the strconv.ParseBool forms;
// numbers are true when non-zero.
func ToBoolean(v any) (bool, error) {
	if absent(v) {
		return false, unsupported(v, "boolean")
	}
	switch t := v.(type) {
	case *big.Int:
		return t.Sign() != 0, nil
	case bool:
		return t, nil
	case string:
		b, err := cast.ToBoolE(strings.TrimSpace(t))
		if err != nil {
			return false, fmt.Errorf("%w: %q is not a boolean", ErrUnsupported, t)
		}
		return b, nil
	case time.Time, *time.Time, []byte:
		return false, unsupported(v, "boolean")
	}
	f, err := ToNumber(v)
	if err != nil {
		return false, err
	}
	return f != 0, nil
}

// ToBuffer converts strings to their UTF-8 bytes.
func ToBuffer(v any) ([]byte, error) {
	switch t := v.(type) {
	case []byte:
		return append([]byte(nil), t...), nil
	case string:
		return []byte(t), nil
	}
	return nil, unsupported(v, "buffer")
}

// ToArray converts any slice to []any. A string is decoded as JSON text and
// must hold an array.
func ToArray(v any) ([]any, error) {
	if s, ok := v.(string); ok {
		var out []any
		if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
			return nil, fmt.Errorf("%w: string is not a JSON array", ErrUnsupported)
		}
		return out, nil
	}
	if _, ok := v.([]byte); ok || absent(v) {
		return nil, unsupported(v, "array")
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, unsupported(v, "array")
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, nil
}

// ToObject converts a map with string keys to map[string]any. A string is
// decoded as JSON text and must hold an object.
func ToObject(v any) (map[string]any, error) {
	if s, ok := v.(string); ok {
		var out map[string]any
		if err := json.Unmarshal([]byte(s), &out); err != nil || out == nil {
			return nil, fmt.Errorf("%w: string is not a JSON object", ErrUnsupported)
		}
		return out, nil
	}
	if absent(v) {
		return nil, unsupported(v, "object")
	}
	if m, ok := v.(map[string]any); ok {
		return m, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map || rv.Type().Key().Kind() != reflect.String {
		return nil, unsupported(v, "object")
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[iter.Key().String()] = iter.Value().Interface()
	}
	return out, nil
}
