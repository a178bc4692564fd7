// Package source decodes JSON and YAML documents into the value model the
// engine checks: nil for null, map[string]any for objects, []any for arrays,
// float64 or json.Number for numbers.
package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// DuplicatePolicy controls repeated object keys. YAML input never accepts
// them; DuplicateError only changes the error to a positioned
// *DuplicateKeyError.
type DuplicatePolicy int

const (
	// DuplicateLastWins keeps the last value, as encoding/json does.
	DuplicateLastWins DuplicatePolicy = iota
	// DuplicateError rejects the document with a *DuplicateKeyError.
	DuplicateError
)

// Options controls decoding.
type Options struct {
	// UseNumber keeps JSON numbers as json.Number instead of float64.
	UseNumber bool
	// Duplicates selects the policy for repeated object keys.
	Duplicates DuplicatePolicy
}

// ErrUnsupportedFormat is returned by File for unknown extensions.
var ErrUnsupportedFormat = errors.New("source: unsupported format")

// JSON decodes a single JSON document.
func JSON(data []byte, opt Options) (any, error) {
	if opt.Duplicates == DuplicateError {
		if err := CheckDuplicateKeys(data); err != nil {
			return nil, err
		}
	}
	return decodeJSON(bytes.NewReader(data), opt)
}

// JSONReader decodes a single JSON document from r.
func JSONReader(r io.Reader, opt Options) (any, error) {
	if opt.Duplicates == DuplicateError {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("source: read: %w", err)
		}
		return JSON(data, opt)
	}
	return decodeJSON(r, opt)
}

func decodeJSON(r io.Reader, opt Options) (any, error) {
	dec := json.NewDecoder(r)
	if opt.UseNumber {
		dec.UseNumber()
	}
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("source: invalid JSON: %w", err)
	}
	rest, err := io.ReadAll(io.MultiReader(dec.Buffered(), r))
	if err != nil {
		return nil, fmt.Errorf("source: read: %w", err)
	}
	if len(bytes.TrimSpace(rest)) > 0 {
		return nil, errors.New("source: invalid JSON: trailing data after document")
	}
	return v, nil
}

// YAML decodes the first document of a YAML stream.
func YAML(data []byte, opt Options) (any, error) {
	docs, err := YAMLDocuments(data, opt)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, errors.New("source: empty YAML stream")
	}
	return docs[0], nil
}

// YAMLDocuments decodes every document of a YAML stream. UseNumber does not
// apply; YAML integers decode as int.
func YAMLDocuments(data []byte, opt Options) ([]any, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	var docs []any
	for {
		var root yaml.Node
		if err := dec.Decode(&root); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("source: invalid YAML: %w", err)
		}
		if opt.Duplicates == DuplicateError {
			if err := checkYAMLNode(&root, ""); err != nil {
				return nil, err
			}
		}
		var node any
		if err := root.Decode(&node); err != nil {
			return nil, fmt.Errorf("source: invalid YAML: %w", err)
		}
		docs = append(docs, Normalize(node))
	}
	return docs, nil
}

// File decodes path as JSON or YAML according to its extension.
func File(path string, opt Options) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return JSON(data, opt)
	case ".yaml", ".yml":
		return YAML(data, opt)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}

// Normalize converts YAML-decoded values (which may contain map[any]any) into
// JSON-like values recursively. Non-string keys are formatted with %v.
func Normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Normalize(e)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[fmt.Sprint(k)] = Normalize(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i := range t {
			out[i] = Normalize(t[i])
		}
		return out
	default:
		return v
	}
}
