package coerce

import (
	"math/big"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	skema "github.com/reoring/skema"
)

func TestToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{"x", "x"},
		{42.0, "42"},
		{0.5, "0.5"},
		{int64(-7), "-7"},
		{true, "true"},
		{big.NewInt(9), "9"},
		{json.Number("1.50"), "1.50"},
		{time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC), "2024-01-02T03:04:05Z"},
		{[]any{1.0, "a"}, `[1,"a"]`},
	}
	for _, tt := range tests {
		got, err := ToString(tt.in)
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got)
	}

	for _, bad := range []any{nil, skema.Undefined} {
		_, err := ToString(bad)
		assert.ErrorIs(t, err, ErrUnsupported)
	}
}

func TestToNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
	}{
		{"42", 42},
		{" -1.5 ", -1.5},
		{true, 1},
		{uint16(3), 3},
		{big.NewInt(1 << 40), 1 << 40},
		{time.UnixMilli(1500).UTC(), 1500},
		{json.Number("2e3"), 2000},
	}
	for _, tt := range tests {
		got, err := ToNumber(tt.in)
		require.NoError(t, err, "%v", tt.in)
		assert.Equal(t, tt.want, got)
	}

	huge, _ := new(big.Int).SetString("123456789012345678901234567890", 10)
	for _, bad := range []any{"", "4x", "NaN", nil, []byte("1"), huge} {
		_, err := ToNumber(bad)
		assert.ErrorIs(t, err, ErrUnsupported, "%v", bad)
	}
}

func TestToBigInt(t *testing.T) {
	n, err := ToBigInt("123456789012345678901234567890")
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", n.String())

	n, err = ToBigInt(12.0)
	require.NoError(t, err)
	assert.Equal(t, int64(12), n.Int64())

	n, err = ToBigInt(uint64(1) << 63)
	require.NoError(t, err)
	assert.Equal(t, "9223372036854775808", n.String())

	src := big.NewInt(5)
	n, err = ToBigInt(src)
	require.NoError(t, err)
	n.SetInt64(6)
	assert.Equal(t, int64(5), src.Int64())

	_, err = ToBigInt(1.5)
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = ToBigInt("1.5")
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestToBoolean(t *testing.T) {
	for in, want := range map[any]bool{"true": true, "0": false, 2.0: true, 0: false} {
		got, err := ToBoolean(in)
		require.NoError(t, err, "%v", in)
		assert.Equal(t, want, got, "%v", in)
	}
	got, err := ToBoolean(big.NewInt(0))
	require.NoError(t, err)
	assert.False(t, got)

	_, err = ToBoolean("maybe")
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = ToBoolean(time.Now())
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestToBuffer(t *testing.T) {
	b, err := ToBuffer("hé")
	require.NoError(t, err)
	assert.Equal(t, []byte("hé"), b)

	src := []byte("x")
	b, err = ToBuffer(src)
	require.NoError(t, err)
	b[0] = 'y'
	assert.Equal(t, byte('x'), src[0])

	_, err = ToBuffer(1)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestToArrayAndObject(t *testing.T) {
	a, err := ToArray(`[1,"a"]`)
	require.NoError(t, err)
	assert.Equal(t, []any{1.0, "a"}, a)

	a, err = ToArray([]string{"x", "y"})
	require.NoError(t, err)
	assert.Equal(t, []any{"x", "y"}, a)

	for _, bad := range []any{`{"a":1}`, "null", []byte("[]"), 3} {
		_, err := ToArray(bad)
		assert.ErrorIs(t, err, ErrUnsupported, "%v", bad)
	}

	o, err := ToObject(`{"a":1}`)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.0}, o)

	o, err = ToObject(map[string]int{"b": 2})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"b": 2}, o)

	for _, bad := range []any{`[1]`, "null", nil, map[int]string{1: "a"}} {
		_, err := ToObject(bad)
		assert.ErrorIs(t, err, ErrUnsupported, "%v", bad)
	}
}

func TestDates(t *testing.T) {
	want := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)
	for _, in := range []any{"2024-03-01T10:30:00Z", "2024-03-01T10:30:00", "2024-03-01 10:30:00", want.UnixMilli()} {
		got, err := ToDate(in)
		require.NoError(t, err, "%v", in)
		assert.True(t, want.Equal(got), "%v parsed as %v", in, got)
	}

	d, err := ParseDate("2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, 1, d.Day())

	_, err = ToDate("yesterday")
	assert.ErrorIs(t, err, ErrUnsupported)
	_, err = ToDate(true)
	assert.ErrorIs(t, err, ErrUnsupported)

	loc := time.FixedZone("JST", 9*3600)
	assert.Equal(t, "2024-03-01T01:30:00Z", FormatDate(time.Date(2024, 3, 1, 10, 30, 0, 0, loc)))
}
