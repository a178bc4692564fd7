package skema

import (
	"fmt"
	"math/big"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
)

type undefined struct{}

// MarshalJSON renders undefined as null.
func (undefined) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

func (undefined) String() string { return "undefined" }

// Undefined is the absent value. nil stands for null, so a missing object key
// or an omitted argument is represented by Undefined instead.
var Undefined any = undefined{}

// IsUndefined reports whether v is Undefined.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// Success is a single passed check recorded during a replay.
type Success struct {
	Method   string `json:"method"`
	Name     string `json:"name"`
	Expect   string `json:"expect"`
	Received any    `json:"received"`
}

// Report is the structured result of the Test execution mode. Value is the
// possibly coerced final value, set whether or not the checks passed.
type Report struct {
	PassedAll  bool             `json:"passedAll"`
	Passed     int              `json:"passed"`
	Failed     int              `json:"failed"`
	TotalTests int              `json:"totalTests"`
	Skipped    int              `json:"skipped"`
	Successes  []Success        `json:"successes"`
	Errors     ValidationErrors `json:"errors"`
	Value      any              `json:"value"`
	Time       string           `json:"time"`
}

// Err returns nil when the report passed, otherwise the collected errors.
func (r Report) Err() error {
	if r.PassedAll {
		return nil
	}
	return r.Errors
}

// JSON encodes the report. Function values are rendered by Display.
func (r Report) JSON() ([]byte, error) {
	out := r
	out.Value = jsonSafe(r.Value)
	out.Successes = make([]Success, len(r.Successes))
	for i, s := range r.Successes {
		s.Received = jsonSafe(s.Received)
		out.Successes[i] = s
	}
	out.Errors = make(ValidationErrors, len(r.Errors))
	for i, e := range r.Errors {
		e.Received = jsonSafe(e.Received)
		out.Errors[i] = e
	}
	return json.MarshalIndent(out, "", "  ")
}

func jsonSafe(v any) any {
	switch t := v.(type) {
	case []any:
		cp := make([]any, len(t))
		for i := range t {
			cp[i] = jsonSafe(t[i])
		}
		return cp
	case map[string]any:
		cp := make(map[string]any, len(t))
		for k, e := range t {
			cp[k] = jsonSafe(e)
		}
		return cp
	case *big.Int:
		if t == nil {
			return nil
		}
		return t.String()
	case nil, string, bool, float64, float32, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, json.Number, time.Time, []byte, undefined:
		return v
	default:
		if _, err := json.Marshal(v); err != nil {
			return Display(v)
		}
		return v
	}
}

// Display renders a value for messages and expectations.
func Display(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case undefined:
		return "undefined"
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32)
	case *big.Int:
		if t == nil {
			return "null"
		}
		return t.String()
	case time.Time:
		return t.Format(time.RFC3339Nano)
	case *time.Time:
		if t == nil {
			return "null"
		}
		return t.Format(time.RFC3339Nano)
	case []byte:
		return fmt.Sprintf("<buffer %d bytes>", len(t))
	case fmt.Stringer:
		return t.String()
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(t)
	}
	if b, err := json.Marshal(v); err == nil {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}
