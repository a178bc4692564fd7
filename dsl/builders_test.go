package dsl_test

import (
	"errors"
	"math"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/dsl"
)

// assertConfigPanic asserts that f panics with a *skema.ConfigError for method.
func assertConfigPanic(t *testing.T, method string, f func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		require.NotNil(t, r, "expected %s to panic", method)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v is not an error", r)
		var cfg *skema.ConfigError
		require.True(t, errors.As(err, &cfg), "panic %v is not a ConfigError", err)
		assert.Equal(t, method, cfg.Method)
		assert.ErrorIs(t, err, skema.ErrConfig)
	}()
	f()
}

func TestBuilders_AreImmutable(t *testing.T) {
	base := dsl.String()
	short := base.MaxLength(2)
	long := base.MinLength(3)

	assert.True(t, base.Validate("a"))
	assert.True(t, base.Validate("abcd"))
	assert.True(t, short.Validate("a"))
	assert.False(t, short.Validate("abcd"))
	assert.False(t, long.Validate("a"))
	assert.True(t, long.Validate("abcd"))
}

func TestBuilders_ConcurrentUse(t *testing.T) {
	s := dsl.Object(dsl.Fields{
		"id":   dsl.String().UUID(),
		"tags": dsl.Array(dsl.String().MinLength(1)).Max(3),
	})
	in := map[string]any{"id": "f47ac10b-58cc-4372-a567-0e02b2c3d479", "tags": []any{"a"}}

	var wg sync.WaitGroup
	results := make([]bool, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = s.Validate(in)
		}(i)
	}
	wg.Wait()
	for _, ok := range results {
		assert.True(t, ok)
	}
}

func TestBuilders_ReplayIsIdempotent(t *testing.T) {
	s := dsl.Array(dsl.Number().Integer()).Min(1)
	first := s.Test([]any{1.0, 2.5})
	second := s.Test([]any{1.0, 2.5})
	assert.Equal(t, first.Passed, second.Passed)
	assert.Equal(t, first.Failed, second.Failed)
	assert.Equal(t, first.Errors, second.Errors)
}

func TestSchemaFactory_MatchesPackageBuilders(t *testing.T) {
	s := dsl.Schema()
	assert.True(t, s.String().Validate("x"))
	assert.True(t, s.Number().Validate(1))
	assert.True(t, s.BigInt().Validate(big.NewInt(1)))
	assert.True(t, s.Boolean().Validate(false))
	assert.True(t, s.Date().Validate(time.Now()))
	assert.True(t, s.Buffer().Validate([]byte("x")))
	assert.True(t, s.Function().Validate(func() {}))
	assert.True(t, s.Any().Validate(nil))
	assert.True(t, s.Array(nil).Validate([]string{"a"}))
	assert.True(t, s.Object(nil).Validate(map[string]any{}))
	assert.True(t, s.OneOf(s.String(), s.Number()).Validate(2))
}

func TestString_Constraints(t *testing.T) {
	tests := []struct {
		name   string
		schema dsl.StringSchema
		ok     []any
		bad    []any
	}{
		{"length", dsl.String().MinLength(2).MaxLength(3), []any{"ab", "日本語"}, []any{"a", "abcd", 12}},
		{"words", dsl.String().MinWord(2).MaxWord(3), []any{"two words", "a b c"}, []any{"one", "a b c d"}},
		{"email", dsl.String().Email(), []any{"a.b+c@example.co.jp"}, []any{"a@b", "not an email"}},
		{"uuid", dsl.String().UUID(), []any{"6ba7b810-9dad-11d1-80b4-00c04fd430c8"}, []any{"6ba7b810"}},
		{"uuid v4", dsl.String().UUIDVersion(4), []any{"f47ac10b-58cc-4372-a567-0e02b2c3d479"}, []any{"6ba7b810-9dad-11d1-80b4-00c04fd430c8"}},
		{"regex", dsl.String().Regex(`^[A-Z]{2}-\d+$`), []any{"AB-12"}, []any{"ab-12", "AB-"}},
		{"time", dsl.String().Time(), []any{"09:30", "23:59:59"}, []any{"9:30", "12:60"}},
		{"oneOf", dsl.String().OneOf([]string{"red", "green"}), []any{"red"}, []any{"blue"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range tt.ok {
				assert.True(t, tt.schema.Validate(v), "expected %v to pass", v)
			}
			for _, v := range tt.bad {
				assert.False(t, tt.schema.Validate(v), "expected %v to fail", v)
			}
		})
	}
}

func TestNumber_Constraints(t *testing.T) {
	s := dsl.Number().Min(-10).Max(10).Integer()
	assert.True(t, s.Validate(int64(10)))
	assert.True(t, s.Validate(uint8(3)))
	assert.False(t, s.Validate(11))
	assert.False(t, s.Validate(2.5))
	assert.False(t, s.Validate("5"))
	assert.False(t, s.Validate(math.NaN()))

	assert.True(t, dsl.Number().Float().Validate(0.5))
	assert.False(t, dsl.Number().Float().Validate(2.0))
	assert.True(t, dsl.Number().Positive().Validate(0.1))
	assert.False(t, dsl.Number().Positive().Validate(0))
	assert.True(t, dsl.Number().Negative().Validate(-1))
	assert.True(t, dsl.Number().OneOf([]float64{1, 2}).Validate(int32(2)))
}

func TestBigInt_Constraints(t *testing.T) {
	bound := big.NewInt(100)
	s := dsl.BigInt().Min(big.NewInt(0)).Max(bound)
	bound.SetInt64(1)

	assert.True(t, s.Validate(big.NewInt(50)))
	assert.False(t, s.Validate(big.NewInt(101)))
	assert.False(t, s.Validate(50))
	assert.True(t, dsl.BigInt().Positive().Validate(big.NewInt(1)))
	assert.True(t, dsl.BigInt().OneOf([]*big.Int{big.NewInt(7)}).Validate(big.NewInt(7)))
}

func TestPrimitives(t *testing.T) {
	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	dec := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	dates := dsl.Date().Min(jan).Max(dec)
	assert.True(t, dates.Validate(jan))
	assert.False(t, dates.Validate(dec.Add(time.Second)))
	assert.False(t, dates.Validate("2024-06-01"))

	buf := dsl.Buffer().Min(1).Max(4)
	assert.True(t, buf.Validate([]byte("abcd")))
	assert.False(t, buf.Validate([]byte{}))
	assert.False(t, buf.Validate("abcd"))

	assert.True(t, dsl.Boolean().Equal(true).Validate(true))
	assert.False(t, dsl.Boolean().Equal(true).Validate(false))
	assert.False(t, dsl.Function().Validate("func"))
	assert.False(t, dsl.Function().Validate(nil))
}

func TestConfigErrors_Panic(t *testing.T) {
	assertConfigPanic(t, "maxLength", func() { dsl.String().MinLength(5).MaxLength(3) })
	assertConfigPanic(t, "minLength", func() { dsl.String().MinLength(-1) })
	assertConfigPanic(t, "minWord", func() { dsl.String().MaxWord(1).MinWord(2) })
	assertConfigPanic(t, "regex", func() { dsl.String().Regex("(") })
	assertConfigPanic(t, "UUIDVersion", func() { dsl.String().UUIDVersion(9) })
	assertConfigPanic(t, "oneOf", func() { dsl.String().OneOf(nil) })
	assertConfigPanic(t, "min", func() { dsl.Number().Min(math.NaN()) })
	assertConfigPanic(t, "max", func() { dsl.Number().Min(3).Max(2) })
	assertConfigPanic(t, "min", func() { dsl.BigInt().Min(nil) })
	assertConfigPanic(t, "max", func() { dsl.Array(nil).Min(3).Max(1) })
	assertConfigPanic(t, "alias", func() { dsl.String().Alias("") })
	assertConfigPanic(t, "custom", func() { dsl.String().Custom(nil) })
	assertConfigPanic(t, "oneOf", func() { dsl.OneOf() })
	assertConfigPanic(t, "object", func() { dsl.Object(dsl.Fields{"a": nil}) })
}
