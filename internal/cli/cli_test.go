package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/skema/i18n"
)

const schemaYAML = `type: object
required: [name]
properties:
  name:
    type: string
    minLength: 2
  port:
    type: integer
    minimum: 1
`

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd(&out, &errOut)
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestValidateCmd(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", schemaYAML)
	good := writeFile(t, dir, "good.json", `{"name":"web","port":8080}`)
	bad := writeFile(t, dir, "bad.yaml", "name: w\nport: 0\n")

	out, _, err := run(t, "validate", "--schema", schema, good)
	require.NoError(t, err)
	assert.Contains(t, out, "good.json: 6 checks passed")

	out, _, err = run(t, "validate", "-s", schema, good, bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errFailed))
	assert.Contains(t, out, "bad.yaml: 2 of 6 checks failed")
	assert.Contains(t, out, "name must have at least 2 characters, received 1")
	assert.Contains(t, out, "port must be greater than or equal to 1, received 0")
}

func TestValidateCmd_JSONOutput(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", schemaYAML)
	good := writeFile(t, dir, "good.json", `{"name":"web"}`)

	out, _, err := run(t, "validate", "--json", "--schema", schema, good)
	require.NoError(t, err)

	var reports map[string]map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	assert.Equal(t, true, reports[good]["passedAll"])
}

func TestValidateCmd_StrictAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", schemaYAML)
	extra := writeFile(t, dir, "extra.json", `{"name":"web","debug":true}`)
	dup := writeFile(t, dir, "dup.json", `{"name":"web","name":"api"}`)

	_, _, err := run(t, "validate", "--schema", schema, extra)
	require.NoError(t, err)
	out, _, err := run(t, "validate", "--strict", "--schema", schema, extra)
	require.Error(t, err)
	assert.Contains(t, out, "debug is not an allowed key")

	_, _, err = run(t, "validate", "--schema", schema, dup)
	require.NoError(t, err)
	_, _, err = run(t, "validate", "--duplicate-keys", "--schema", schema, dup)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate key")
}

func TestValidateCmd_Japanese(t *testing.T) {
	t.Cleanup(func() { i18n.SetLanguage("en") })
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", schemaYAML)
	bad := writeFile(t, dir, "bad.json", `{}`)

	out, _, err := run(t, "validate", "--lang", "ja", "--schema", schema, bad)
	require.Error(t, err)
	assert.Contains(t, out, "name は必須です")
}

func TestValidateCmd_RequiresSchema(t *testing.T) {
	_, _, err := run(t, "validate", "x.json")
	assert.Error(t, err)
}

func TestJSONSchemaCmd(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", schemaYAML)

	out, _, err := run(t, "jsonschema", "--strict", "--schema", schema)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, []any{"name"}, doc["required"])
	assert.Equal(t, false, doc["additionalProperties"])
}

func TestEnvCmd(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "env.yaml", `type: object
required: [APP_NAME]
properties:
  APP_NAME: {type: string, minLength: 2}
`)
	good := writeFile(t, dir, "good.env", "APP_NAME=demo\n")
	bad := writeFile(t, dir, "bad.env", "APP_NAME=x\n")

	out, _, err := run(t, "env", "--schema", schema, "--file", good)
	require.NoError(t, err)
	assert.Contains(t, out, "environment is valid (1 variables)")

	out, _, err = run(t, "--json", "env", "--schema", schema, "--file", good)
	require.NoError(t, err)
	assert.JSONEq(t, `{"APP_NAME":"demo"}`, out)

	out, _, err = run(t, "env", "--schema", schema, "--file", bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errFailed))
	assert.Contains(t, out, "envVars.APP_NAME must have at least 2 characters, received 1")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	schema := writeFile(t, dir, "schema.yaml", schemaYAML)
	good := writeFile(t, dir, "good.json", `{"name":"web"}`)
	cfg := writeFile(t, dir, "skema.yaml", "json: true\n")

	out, _, err := run(t, "--config", cfg, "validate", "--schema", schema, good)
	require.NoError(t, err)
	assert.Contains(t, out, `"passedAll": true`)

	_, _, err = run(t, "--config", filepath.Join(dir, "missing.yaml"), "validate", "--schema", schema, good)
	assert.Error(t, err)
}
