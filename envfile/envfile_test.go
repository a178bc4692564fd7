package envfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/dsl"
)

func writeEnv(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func envSchema() dsl.ObjectSchema {
	return dsl.Object(dsl.Fields{
		"PORT":     dsl.String().ParseTo().Number().Integer().Min(1).Max(65535),
		"LOG_MODE": dsl.String().OneOf([]string{"text", "json"}).Default("text"),
		"DEBUG":    dsl.String().ParseTo().Boolean().NotRequired(),
	})
}

func TestRead_LaterFilesOverride(t *testing.T) {
	dir := t.TempDir()
	base := writeEnv(t, dir, ".env", "PORT=8080\n# comment\nNAME=\"quoted value\"\n")
	local := writeEnv(t, dir, ".env.local", "PORT=9090\n")

	vars, err := Read(base, local, filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"PORT": "9090", "NAME": "quoted value"}, vars)
}

func TestParse_Strict(t *testing.T) {
	vars, err := Parse(strings.NewReader("export A=1\nB='two'\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"A": "1", "B": "two"}, vars)

	_, err = Parse(strings.NewReader("not a pair\n"))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	p := writeEnv(t, dir, ".env", "PORT=8080\nDEBUG=true\nEXTRA=kept\n")

	env, err := Load(envSchema(), Options{Paths: []string{p}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"PORT": 8080.0, "DEBUG": true, "LOG_MODE": "text", "EXTRA": "kept"}, env)
}

func TestLoad_ValidationFailure(t *testing.T) {
	dir := t.TempDir()
	p := writeEnv(t, dir, ".env", "PORT=http\n")

	_, err := Load(envSchema(), Options{Paths: []string{p}})
	require.Error(t, err)
	assert.ErrorIs(t, err, skema.ErrValidation)
	assert.Equal(t, "envVars.PORT cannot be converted to number, received http", err.Error())
}

func TestLoad_ProcessEnvAndExport(t *testing.T) {
	dir := t.TempDir()
	p := writeEnv(t, dir, ".env", "PORT=8080\nSKEMA_ENVFILE_TEST=from-file\n")
	t.Setenv("PORT", "7070")
	t.Setenv("DEBUG", "false")

	env, err := Load(envSchema(), Options{Paths: []string{p}, ProcessEnv: true, Export: true})
	require.NoError(t, err)
	assert.Equal(t, 7070.0, env["PORT"])
	assert.Equal(t, "from-file", os.Getenv("SKEMA_ENVFILE_TEST"))
	assert.Equal(t, false, env["DEBUG"])
	t.Cleanup(func() { os.Unsetenv("SKEMA_ENVFILE_TEST") })
}

func TestExport_Override(t *testing.T) {
	t.Setenv("SKEMA_ENVFILE_KEEP", "process")
	require.NoError(t, export(map[string]any{"SKEMA_ENVFILE_KEEP": "file"}, false))
	assert.Equal(t, "process", os.Getenv("SKEMA_ENVFILE_KEEP"))

	require.NoError(t, export(map[string]any{"SKEMA_ENVFILE_KEEP": 3.0}, true))
	assert.Equal(t, "3", os.Getenv("SKEMA_ENVFILE_KEEP"))
}

func TestValidate_NonObjectSchema(t *testing.T) {
	_, err := Validate(dsl.Any().Custom(func(c *dsl.CustomContext) { c.Success("flat") }), map[string]string{})
	assert.True(t, errors.Is(err, ErrInvalid))
}
