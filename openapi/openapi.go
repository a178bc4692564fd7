// Package openapi imports an OpenAPI v3 / JSON Schema subset into a dsl chain.
//
// Supported keywords: type (string, number, integer, boolean, array, object,
// null), properties, required, additionalProperties, items, minItems,
// maxItems, minLength, maxLength, pattern, format (email, uuid, time,
// date-time), minimum, maximum, exclusiveMinimum, exclusiveMaximum, enum,
// const, default, nullable, oneOf, anyOf, patternProperties, local $ref into
// $defs or definitions, and the Kubernetes x-kubernetes-int-or-string and
// x-kubernetes-preserve-unknown-fields extensions. Anything else is reported
// through Diag and ignored.
package openapi

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/reoring/skema/dsl"
	js "github.com/reoring/skema/jsonschema"
	"github.com/reoring/skema/source"
)

// ErrNoSchema is returned when the input holds no schema document.
var ErrNoSchema = errors.New("openapi: no schema")

// Import compiles a schema into a chain. The input can be a decoded
// map[string]any, raw JSON bytes, or a *jsonschema.Schema. A Kubernetes CRD
// or a document wrapping openAPIV3Schema is unwrapped first.
func Import(schema any, opts Options) (dsl.Chain, Diag, error) {
	d := &simpleDiag{}
	var root map[string]any
	switch t := schema.(type) {
	case nil:
		return nil, d, ErrNoSchema
	case *js.Schema:
		return importSchema(t, opts, d)
	case []byte:
		if err := json.Unmarshal(t, &root); err != nil {
			return nil, d, fmt.Errorf("openapi: invalid JSON: %w", err)
		}
	case map[string]any:
		root = t
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return nil, d, fmt.Errorf("openapi: cannot marshal input: %w", err)
		}
		if err := json.Unmarshal(b, &root); err != nil {
			return nil, d, fmt.Errorf("openapi: invalid marshaled JSON: %w", err)
		}
	}
	if root == nil {
		return nil, d, ErrNoSchema
	}
	if spec, ok := root["openAPIV3Schema"].(map[string]any); ok {
		root = spec
	} else if unwrapped := unwrapCRDSchema(root); unwrapped != nil {
		root = unwrapped
	}
	s, err := js.FromMap(root)
	if err != nil {
		return nil, d, fmt.Errorf("openapi: decode schema: %w", err)
	}
	return importSchema(s, opts, d)
}

// ImportJSON is Import over a JSON document.
func ImportJSON(data []byte, opts Options) (dsl.Chain, Diag, error) {
	return Import(data, opts)
}

// ImportYAML imports the first document of a YAML stream.
func ImportYAML(data []byte, opts Options) (dsl.Chain, Diag, error) {
	doc, err := source.YAML(data, source.Options{})
	if err != nil {
		return nil, &simpleDiag{}, err
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, &simpleDiag{}, ErrNoSchema
	}
	return Import(m, opts)
}

// ImportYAMLForCRDKind scans a multi-document YAML (e.g. a CRD bundle) and
// imports the first CustomResourceDefinition whose spec.names.kind is kind.
func ImportYAMLForCRDKind(data []byte, kind string, opts Options) (dsl.Chain, Diag, error) {
	docs, err := source.YAMLDocuments(data, source.Options{})
	if err != nil {
		return nil, &simpleDiag{}, err
	}
	for _, doc := range docs {
		m, _ := doc.(map[string]any)
		if m == nil {
			continue
		}
		if k, _ := m["kind"].(string); k != "CustomResourceDefinition" {
			continue
		}
		spec, _ := m["spec"].(map[string]any)
		names, _ := spec["names"].(map[string]any)
		if k, _ := names["kind"].(string); k == kind {
			return Import(m, opts)
		}
	}
	return nil, &simpleDiag{}, fmt.Errorf("openapi: CRD kind %q not found in YAML bundle", kind)
}

// unwrapCRDSchema extracts openAPIV3Schema from a Kubernetes CRD document. It
// prefers a served version under spec.versions[].schema and falls back to the
// legacy spec.validation.
func unwrapCRDSchema(root map[string]any) map[string]any {
	spec, ok := root["spec"].(map[string]any)
	if !ok {
		return nil
	}
	if vers, ok := spec["versions"].([]any); ok {
		var firstFound map[string]any
		for _, v := range vers {
			vm, _ := v.(map[string]any)
			if vm == nil {
				continue
			}
			served := true
			if sv, ok := vm["served"].(bool); ok {
				served = sv
			}
			sch, _ := vm["schema"].(map[string]any)
			oas, ok := sch["openAPIV3Schema"].(map[string]any)
			if !ok {
				continue
			}
			if served {
				return oas
			}
			if firstFound == nil {
				firstFound = oas
			}
		}
		if firstFound != nil {
			return firstFound
		}
	}
	if val, ok := spec["validation"].(map[string]any); ok {
		if oas, ok := val["openAPIV3Schema"].(map[string]any); ok {
			return oas
		}
	}
	return nil
}

func importSchema(s *js.Schema, opts Options, d *simpleDiag) (dsl.Chain, Diag, error) {
	b := &builder{opts: opts, diag: d, root: s, visiting: map[string]bool{}}
	c, err := b.build(s, "", true)
	if err != nil {
		return nil, d, err
	}
	return c, d, nil
}
