package dsl_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/skema/dsl"
	js "github.com/reoring/skema/jsonschema"
)

func TestJSONSchema_Object(t *testing.T) {
	s := dsl.Object(dsl.Fields{
		"name":  dsl.String().MinLength(1).MaxLength(40).Alias("Name"),
		"email": dsl.String().Email(),
		"age":   dsl.Number().Integer().Min(0).NotRequired(),
		"role":  dsl.String().OneOf([]string{"admin", "user"}).Default("user"),
		"tags":  dsl.Array(dsl.String()).Max(5),
		"note":  dsl.String().Nullable(),
	}).Strict()

	out, err := dsl.JSONSchema(s)
	require.NoError(t, err)

	assert.Equal(t, "object", out.Type)
	assert.True(t, out.Closed())
	assert.Equal(t, []string{"email", "name", "note", "tags"}, out.Required)

	name := out.Properties["name"]
	require.NotNil(t, name)
	assert.Equal(t, "string", name.Type)
	assert.Equal(t, "Name", name.Title)
	assert.Equal(t, 1, *name.MinLength)
	assert.Equal(t, 40, *name.MaxLength)

	assert.Equal(t, "email", out.Properties["email"].Format)

	age := out.Properties["age"]
	assert.Equal(t, "integer", age.Type)
	assert.Equal(t, 0.0, *age.Minimum)

	role := out.Properties["role"]
	assert.Equal(t, []any{"admin", "user"}, role.Enum)
	assert.Equal(t, "user", role.Default)

	tags := out.Properties["tags"]
	assert.Equal(t, "array", tags.Type)
	assert.Equal(t, "string", tags.Items.Type)
	assert.Equal(t, 5, *tags.MaxItems)

	assert.True(t, out.Properties["note"].Nullable)

	b, err := js.Encode(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"minLength": 1`)
}

func TestJSONSchema_StopsAtParseTo(t *testing.T) {
	out, err := dsl.JSONSchema(dsl.String().Regex(`^\d+$`).ParseTo().Number().Min(10))
	require.NoError(t, err)
	assert.Equal(t, "string", out.Type)
	assert.Equal(t, `^\d+$`, out.Pattern)
	assert.Nil(t, out.Minimum)
}

func TestJSONSchema_Unions(t *testing.T) {
	out, err := dsl.JSONSchema(dsl.OneOf(dsl.String().UUID(), dsl.Number().Positive()))
	require.NoError(t, err)
	require.Len(t, out.OneOf, 2)
	assert.Equal(t, "uuid", out.OneOf[0].Format)
	assert.Equal(t, 0.0, *out.OneOf[1].ExclusiveMinimum)
}

func TestJSONSchema_NotRepresentable(t *testing.T) {
	_, err := dsl.JSONSchema(dsl.Object(dsl.Fields{"fn": dsl.Function()}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, dsl.ErrNotRepresentable))
	assert.Contains(t, err.Error(), "properties.fn")
}
