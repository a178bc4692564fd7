package jsonschema

import (
	json "github.com/goccy/go-json"
)

// Schema is the JSON Schema subset shared by export (dsl.JSONSchema) and
// import (package openapi). Nullable follows OpenAPI 3.0.
type Schema struct {
	// Core
	Ref         string  `json:"$ref,omitempty"`
	Type        string  `json:"type,omitempty"`
	Format      string  `json:"format,omitempty"`
	Title       string  `json:"title,omitempty"`
	Description string  `json:"description,omitempty"`
	Default     any     `json:"default,omitempty"`
	Nullable    bool    `json:"nullable,omitempty"`
	Enum        []any   `json:"enum,omitempty"`
	Const       any     `json:"const,omitempty"`
	Not         *Schema `json:"not,omitempty"`

	// String
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength *int   `json:"maxLength,omitempty"`
	Pattern   string `json:"pattern,omitempty"`

	// Number
	Minimum          *float64 `json:"minimum,omitempty"`
	Maximum          *float64 `json:"maximum,omitempty"`
	ExclusiveMinimum *float64 `json:"exclusiveMinimum,omitempty"`
	ExclusiveMaximum *float64 `json:"exclusiveMaximum,omitempty"`

	// Object
	Properties           map[string]*Schema `json:"properties,omitempty"`
	Required             []string           `json:"required,omitempty"`
	AdditionalProperties any                `json:"additionalProperties,omitempty"`
	PatternProperties    map[string]*Schema `json:"patternProperties,omitempty"`
	Defs                 map[string]*Schema `json:"$defs,omitempty"`
	Definitions          map[string]*Schema `json:"definitions,omitempty"`

	// Array
	Items    *Schema `json:"items,omitempty"`
	MinItems *int    `json:"minItems,omitempty"`
	MaxItems *int    `json:"maxItems,omitempty"`

	// Union
	OneOf []*Schema `json:"oneOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty"`

	// Kubernetes structural schema extensions
	PreserveUnknownFields bool `json:"x-kubernetes-preserve-unknown-fields,omitempty"`
	IntOrString           bool `json:"x-kubernetes-int-or-string,omitempty"`
}

// Closed reports whether additionalProperties is false.
func (s *Schema) Closed() bool {
	b, ok := s.AdditionalProperties.(bool)
	return ok && !b
}

// IsRequired reports whether name is listed in required.
func (s *Schema) IsRequired(name string) bool {
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// Decode reads a schema document from JSON.
func Decode(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// FromMap converts a decoded JSON or YAML document into a Schema.
func FromMap(m map[string]any) (*Schema, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return Decode(b)
}

// Encode renders s as indented JSON.
func Encode(s *Schema) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// Int returns a pointer to n.
func Int(n int) *int { return &n }

// Float returns a pointer to f.
func Float(f float64) *float64 { return &f }
