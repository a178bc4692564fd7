package skema

import (
	"bytes"
	"errors"
	"log/slog"
	"math/big"
	"strings"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplay(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, "null"},
		{Undefined, "undefined"},
		{"text", "text"},
		{true, "true"},
		{42.0, "42"},
		{0.25, "0.25"},
		{int64(-3), "-3"},
		{big.NewInt(12345678901), "12345678901"},
		{time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), "2024-05-01T12:00:00Z"},
		{[]byte("abc"), "<buffer 3 bytes>"},
		{[]any{1, "a"}, `[1,"a"]`},
		{map[string]any{"k": 1}, `{"k":1}`},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Display(tt.in))
	}
}

func TestReport_JSON(t *testing.T) {
	rep := Report{
		PassedAll:  false,
		Passed:     1,
		Failed:     1,
		TotalTests: 2,
		Successes:  []Success{{Method: "function", Name: "cb", Expect: "function", Received: func() {}}},
		Errors: ValidationErrors{{
			Method: "max", Type: TypeInvalidValue, Name: "n", Expect: "<= 1",
			Received: big.NewInt(2), Message: "n must be less than or equal to 1, received 2",
		}},
		Value: map[string]any{"n": big.NewInt(2), "missing": Undefined},
	}
	b, err := rep.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, false, decoded["passedAll"])
	assert.Equal(t, 2.0, decoded["totalTests"])
	assert.Equal(t, map[string]any{"n": "2", "missing": nil}, decoded["value"])

	errs := decoded["errors"].([]any)
	assert.Equal(t, "2", errs[0].(map[string]any)["received"])
	// The original report is left untouched.
	assert.IsType(t, &big.Int{}, rep.Errors[0].Received)
}

func TestReport_Err(t *testing.T) {
	assert.NoError(t, Report{PassedAll: true}.Err())

	rep := Report{Errors: ValidationErrors{{Message: "a"}, {Message: "b"}}}
	err := rep.Err()
	require.Error(t, err)
	assert.Equal(t, "a; b", err.Error())
}

func TestValidationErrors_Error(t *testing.T) {
	var ve ValidationErrors
	assert.Equal(t, "", ve.Error())

	for _, m := range []string{"one", "two", "three", "four", "five"} {
		ve = append(ve, ValidationError{Message: m})
	}
	assert.Equal(t, "one; two; three; ... (total 5)", ve.Error())
}

func TestError_MatchesSentinel(t *testing.T) {
	errs := ValidationErrors{{Message: "first"}}
	err := DefaultErrorFunc("first", errs)
	assert.ErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrConfig)
	assert.Equal(t, "first", err.Error())

	got, ok := AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, errs, got)

	got, ok = AsValidationErrors(errs)
	require.True(t, ok)
	assert.Len(t, got, 1)

	_, ok = AsValidationErrors(errors.New("other"))
	assert.False(t, ok)
	_, ok = AsValidationErrors(nil)
	assert.False(t, ok)
}

func TestPanicConfig(t *testing.T) {
	defer func() {
		r := recover()
		err, ok := r.(*ConfigError)
		require.True(t, ok)
		assert.Equal(t, "skema: max: 1 is less than 2", err.Error())
		assert.ErrorIs(t, err, ErrConfig)
	}()
	PanicConfig("max", "%d is less than %d", 1, 2)
}

func TestSetLogger(t *testing.T) {
	t.Cleanup(func() { SetLogger(nil) })

	var buf bytes.Buffer
	SetLogger(NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	L().With("component", "test").Debug("replay", "name", "value")
	assert.True(t, strings.Contains(buf.String(), "component=test"))
	assert.True(t, strings.Contains(buf.String(), "name=value"))

	SetLogger(nil)
	assert.IsType(t, NopLogger{}, L())
}

func TestUndefined(t *testing.T) {
	assert.True(t, IsUndefined(Undefined))
	assert.False(t, IsUndefined(nil))
	b, err := json.Marshal(map[string]any{"v": Undefined})
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":null}`, string(b))
}
