package dsl

import (
	"sort"

	skema "github.com/reoring/skema"
	eng "github.com/reoring/skema/internal/engine"
)

// Fields declares the keys of an object schema.
type Fields map[string]Chain

// ArraySchema checks for a list and replays the item schema on every element.
type ArraySchema struct {
	modifiers[ArraySchema]
}

func (ArraySchema) wrap(c *eng.Chain) ArraySchema {
	return ArraySchema{modifiers[ArraySchema]{c}}
}

// Min requires at least n elements.
func (s ArraySchema) Min(n int, opts ...Option) ArraySchema {
	return s.next(countBound(s.c, true, n, opts))
}

// Max allows at most n elements.
func (s ArraySchema) Max(n int, opts ...Option) ArraySchema {
	return s.next(countBound(s.c, false, n, opts))
}

// ObjectSchema checks for a string-keyed map and replays each declared field.
// Undeclared keys pass through unless Strict or Strip is set.
type ObjectSchema struct {
	modifiers[ObjectSchema]
}

func (ObjectSchema) wrap(c *eng.Chain) ObjectSchema {
	return ObjectSchema{modifiers[ObjectSchema]{c}}
}

// Strict reports every undeclared key as an invalid value.
func (s ObjectSchema) Strict(opts ...Option) ObjectSchema {
	return s.next(constraint(s.unknownKeys(eng.UnknownStrict), opts))
}

// Strip removes undeclared keys from the output.
func (s ObjectSchema) Strip() ObjectSchema {
	return s.next(eng.Spec{Op: s.unknownKeys(eng.UnknownStrip)})
}

func (s ObjectSchema) unknownKeys(p eng.UnknownPolicy) eng.UnknownKeysOp {
	obj, _ := eng.FindLast[eng.ObjectOp](s.c)
	declared := make(map[string]struct{}, len(obj.Fields))
	for _, f := range obj.Fields {
		declared[f.Name] = struct{}{}
	}
	return eng.UnknownKeysOp{Policy: p, Declared: declared}
}

// OneOfSchema keeps the value produced by the first candidate that passes.
type OneOfSchema struct {
	modifiers[OneOfSchema]
}

func (OneOfSchema) wrap(c *eng.Chain) OneOfSchema {
	return OneOfSchema{modifiers[OneOfSchema]{c}}
}

func arrayOp(item Chain) eng.ArrayOp {
	if item == nil {
		return eng.ArrayOp{}
	}
	return eng.ArrayOp{Item: item.chain()}
}

func objectOp(fields Fields) eng.ObjectOp {
	names := make([]string, 0, len(fields))
	for name, sch := range fields {
		if sch == nil {
			skema.PanicConfig("object", "field %q has no schema", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]eng.Field, len(names))
	for i, name := range names {
		out[i] = eng.Field{Name: name, Schema: fields[name].chain()}
	}
	return eng.ObjectOp{Fields: out}
}

func unionOp(schemas []Chain) eng.UnionOp {
	if len(schemas) == 0 {
		skema.PanicConfig("oneOf", "at least one candidate schema is required")
	}
	out := make([]*eng.Chain, len(schemas))
	for i, sch := range schemas {
		if sch == nil {
			skema.PanicConfig("oneOf", "candidate %d is nil", i)
		}
		out[i] = sch.chain()
	}
	return eng.UnionOp{Candidates: out}
}
