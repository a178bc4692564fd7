package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/skema/dsl"
)

func order(status string, items ...any) map[string]any {
	return map[string]any{"status": status, "items": items}
}

func TestCustom_WithObjectSchema(t *testing.T) {
	s := dsl.Object(dsl.Fields{
		"status": dsl.String(),
		"items":  dsl.Array(dsl.Object(dsl.Fields{"sku": dsl.String()})),
	}).Custom(Custom(
		If("/status", Eq, "shipped").Then(AtLeastOne("/items")),
		UniqueBy("/items", "sku"),
	))

	assert.True(t, s.Validate(order("draft")))
	assert.True(t, s.Validate(order("shipped", map[string]any{"sku": "a"})))

	_, err := s.Parse(order("shipped"), "order")
	require.Error(t, err)
	assert.Equal(t, "order /items requires at least 1 item", err.Error())

	_, err = s.Parse(order("draft", map[string]any{"sku": "a"}, map[string]any{"sku": "a"}), "order")
	require.Error(t, err)
	assert.Equal(t, "order /items/1/sku duplicates /items/0 (a)", err.Error())
}

func TestRequired(t *testing.T) {
	r := Required("spec/replicas")
	assert.Empty(t, r(map[string]any{"spec": map[string]any{"replicas": 3}}))
	assert.Equal(t, "[valueName] /spec/replicas is required", r(map[string]any{"spec": map[string]any{}}))
	assert.NotEmpty(t, r(map[string]any{"spec": map[string]any{"replicas": nil}}))
}

func TestConditionals(t *testing.T) {
	v := map[string]any{"age": 20.0, "country": "JP", "tags": []any{"x"}}

	assert.True(t, If("/age", Ge, 20).Holds(v))
	assert.False(t, If("/age", Lt, 20).Holds(v))
	assert.True(t, If("/country", Ne, "US").Holds(v))
	assert.False(t, If("/missing", Eq, nil).Holds(v))
	assert.False(t, If("/country", Gt, 1).Holds(v))

	assert.True(t, If("/age", Gt, 18).And(If("/country", Eq, "JP")).Holds(v))
	assert.False(t, IfAll(If("/age", Gt, 18), If("/country", Eq, "US")).Holds(v))
	assert.True(t, If("/country", Eq, "US").Or(If("/tags/0", Eq, "x")).Holds(v))
	assert.False(t, IfAny(If("/country", Eq, "US"), If("/age", Le, 1)).Holds(v))
}

func TestAndOr(t *testing.T) {
	pass := func(any) string { return "" }
	fail := func(msg string) Rule { return func(any) string { return msg } }

	assert.Equal(t, "first", And(pass, fail("first"), fail("second"))(nil))
	assert.Empty(t, And(pass, nil)(nil))
	assert.Empty(t, Or(fail("a"), pass)(nil))
	assert.Equal(t, "a", Or(fail("a"), fail("b"))(nil))
}

type line struct {
	SKU   string `json:"sku"`
	Count int
}

type cart struct {
	Lines []line `json:"lines"`
}

func TestPaths_Structs(t *testing.T) {
	c := &cart{Lines: []line{{SKU: "a", Count: 1}, {SKU: "a", Count: 2}}}
	assert.NotEmpty(t, UniqueBy("/lines", "sku")(c))
	assert.Empty(t, UniqueBy("/lines", "Count")(c))
	assert.True(t, If("/lines/1/Count", Eq, 2).Holds(c))
	assert.Empty(t, AtLeastOne("/missing")(c))
}

func TestPaths_Escaping(t *testing.T) {
	v := map[string]any{"a/b": map[string]any{"c~d": 1}}
	assert.True(t, If("/a~1b/c~0d", Eq, 1).Holds(v))
}
