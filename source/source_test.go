package source

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSON(t *testing.T) {
	v, err := JSON([]byte(`{"a":[1,"x",null],"b":{"c":true}}`), Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"a": []any{1.0, "x", nil},
		"b": map[string]any{"c": true},
	}, v)

	v, err = JSON([]byte(`{"n":12345678901234567890}`), Options{UseNumber: true})
	require.NoError(t, err)
	assert.Equal(t, json.Number("12345678901234567890"), v.(map[string]any)["n"])

	_, err = JSON([]byte(`{"a":1} {"b":2}`), Options{})
	assert.Error(t, err)
	_, err = JSON([]byte("{\"a\":1}\n\t "), Options{})
	assert.NoError(t, err)
	_, err = JSON([]byte(`{"a":`), Options{})
	assert.Error(t, err)
}

func TestJSON_RejectsStrayClosers(t *testing.T) {
	for _, doc := range []string{`{"a":1}}`, `{"a":1}]`, `[1]]`, `1 }`} {
		_, err := JSON([]byte(doc), Options{})
		assert.ErrorContains(t, err, "trailing data", doc)

		_, err = JSON([]byte(doc), Options{Duplicates: DuplicateError})
		assert.Error(t, err, doc)

		_, err = JSONReader(strings.NewReader(doc), Options{})
		assert.ErrorContains(t, err, "trailing data", doc)
	}
}

func TestJSON_DuplicateKeys(t *testing.T) {
	doc := []byte(`{"a":1,"a":2}`)

	v, err := JSON(doc, Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 2.0}, v)

	_, err = JSON(doc, Options{Duplicates: DuplicateError})
	var dup *DuplicateKeyError
	require.True(t, errors.As(err, &dup))
	assert.Equal(t, "/", dup.Path)
	assert.Equal(t, "a", dup.Key)

	_, err = JSONReader(strings.NewReader(`{"a":1,"a":2}`), Options{Duplicates: DuplicateError})
	assert.True(t, errors.As(err, &dup))
}

func TestCheckDuplicateKeys_Paths(t *testing.T) {
	tests := []struct {
		doc  string
		path string
		key  string
	}{
		{`{"a":{"b":1,"b":2}}`, "/a", "b"},
		{`{"list":[{"k":1},{"k":1,"k":2}]}`, "/list/1", "k"},
		{`[1,[2,{"x":0,"x":1}]]`, "/1/1", "x"},
		{`{"a/b":{"c~":{"d":1,"d":1}}}`, "/a~1b/c~0", "d"},
	}
	for _, tt := range tests {
		err := CheckDuplicateKeys([]byte(tt.doc))
		var dup *DuplicateKeyError
		require.True(t, errors.As(err, &dup), tt.doc)
		assert.Equal(t, tt.path, dup.Path, tt.doc)
		assert.Equal(t, tt.key, dup.Key, tt.doc)
	}

	assert.NoError(t, CheckDuplicateKeys([]byte(`{"a":{"a":{"a":1}},"b":[{"a":1},{"a":2}]}`)))
}

func TestYAML(t *testing.T) {
	v, err := YAML([]byte("name: demo\nreplicas: 3\ntags: [a, b]\nnested:\n  1: one\n"), Options{})
	require.NoError(t, err)
	m := v.(map[string]any)
	assert.Equal(t, "demo", m["name"])
	assert.Equal(t, 3, m["replicas"])
	assert.Equal(t, []any{"a", "b"}, m["tags"])
	assert.Equal(t, map[string]any{"1": "one"}, m["nested"])

	docs, err := YAMLDocuments([]byte("a: 1\n---\nb: 2\n"), Options{})
	require.NoError(t, err)
	assert.Len(t, docs, 2)

	_, err = YAML([]byte(""), Options{})
	assert.Error(t, err)
	_, err = YAML([]byte("a: [1, 2"), Options{})
	assert.Error(t, err)
}

func TestYAML_DuplicateKeys(t *testing.T) {
	doc := "spec:\n  items:\n    - name: a\n      name: b\n"
	_, err := YAML([]byte(doc), Options{Duplicates: DuplicateError})
	var dup *DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "/spec/items/0", dup.Path)
	assert.Equal(t, "name", dup.Key)
	assert.Equal(t, 4, dup.Line)
	assert.Equal(t, 3, dup.FirstLine)
	assert.Contains(t, err.Error(), "line 4:7, first at 3:7")

	_, err = YAMLDocuments([]byte("a: 1\n---\nb: 1\nb: 2\n"), Options{Duplicates: DuplicateError})
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "/", dup.Path)
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	v, err := File(write("a.json", `{"x":1}`), Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 1.0}, v)

	v, err = File(write("b.YML", "x: 1\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"x": 1}, v)

	_, err = File(write("c.toml", "x = 1"), Options{})
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = File(filepath.Join(dir, "missing.json"), Options{})
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestNormalize(t *testing.T) {
	in := map[any]any{"a": []any{map[any]any{1: true}}, 2: "two"}
	assert.Equal(t, map[string]any{
		"a": []any{map[string]any{"1": true}},
		"2": "two",
	}, Normalize(in))
}
