package dsl

import (
	"errors"
	"fmt"
	"math/big"
	"sort"

	eng "github.com/reoring/skema/internal/engine"
	js "github.com/reoring/skema/jsonschema"
)

// ErrNotRepresentable is returned by JSONSchema for kinds JSON Schema cannot
// describe, such as functions.
var ErrNotRepresentable = errors.New("dsl: not representable in JSON Schema")

// JSONSchema projects the input side of c onto JSON Schema. Specs after the
// first ParseTo describe the converted value and are not exported; Custom
// functions are opaque and ignored.
func JSONSchema(c Chain) (*js.Schema, error) {
	return exportChain(c.chain())
}

func exportChain(c *eng.Chain) (*js.Schema, error) {
	out := &js.Schema{}
	g := c.Gates()
	out.Title = g.Alias
	out.Nullable = g.Nullable
	if g.HasDefault {
		out.Default = g.Default
	}
	for _, sp := range c.Specs() {
		if _, ok := sp.Op.(eng.ParseToOp); ok {
			break
		}
		if err := exportSpec(out, sp.Op); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func exportSpec(out *js.Schema, op eng.Op) error {
	switch o := op.(type) {
	case eng.TypeOp:
		switch o.Kind {
		case eng.KindString, eng.KindNumber, eng.KindBoolean:
			out.Type = o.Kind.String()
		case eng.KindBigInt:
			out.Type = "integer"
		case eng.KindDate:
			out.Type, out.Format = "string", "date-time"
		case eng.KindBuffer:
			out.Type, out.Format = "string", "byte"
		case eng.KindFunction:
			return fmt.Errorf("%w: function", ErrNotRepresentable)
		}
	case eng.ArrayOp:
		out.Type = "array"
		if o.Item != nil {
			item, err := exportChain(o.Item)
			if err != nil {
				return fmt.Errorf("items: %w", err)
			}
			out.Items = item
		}
	case eng.ObjectOp:
		out.Type = "object"
		out.Properties = make(map[string]*js.Schema, len(o.Fields))
		for _, f := range o.Fields {
			fs, err := exportChain(f.Schema)
			if err != nil {
				return fmt.Errorf("properties.%s: %w", f.Name, err)
			}
			out.Properties[f.Name] = fs
			if g := f.Schema.Gates(); !g.NotRequired && !g.HasDefault {
				out.Required = append(out.Required, f.Name)
			}
		}
		sort.Strings(out.Required)
	case eng.UnionOp:
		for i, cand := range o.Candidates {
			cs, err := exportChain(cand)
			if err != nil {
				return fmt.Errorf("oneOf[%d]: %w", i, err)
			}
			out.OneOf = append(out.OneOf, cs)
		}
	case eng.MinOp:
		exportBound(out, o.Bound, true)
	case eng.MaxOp:
		exportBound(out, o.Bound, false)
	case eng.MinLengthOp:
		out.MinLength = js.Int(o.N)
	case eng.MaxLengthOp:
		out.MaxLength = js.Int(o.N)
	case eng.EmailOp:
		out.Format = "email"
	case eng.UUIDOp:
		out.Format = "uuid"
	case eng.RegexOp:
		out.Pattern = o.Pattern.String()
	case eng.TimeOp:
		out.Pattern = eng.TimePattern
	case eng.IntegerOp:
		out.Type = "integer"
	case eng.PositiveOp:
		out.ExclusiveMinimum = js.Float(0)
	case eng.NegativeOp:
		out.ExclusiveMaximum = js.Float(0)
	case eng.EnumOp:
		out.Enum = append([]any(nil), o.Values...)
	case eng.EqualOp:
		out.Const = o.Value
	case eng.NotEqualOp:
		out.Not = &js.Schema{Const: o.Value}
	case eng.UnknownKeysOp:
		if o.Policy == eng.UnknownStrict {
			out.AdditionalProperties = false
		}
	}
	return nil
}

// exportBound maps min/max onto the keyword matching the bound's kind. Date
// bounds have no JSON Schema keyword and are dropped.
func exportBound(out *js.Schema, bound any, isMin bool) {
	switch b := bound.(type) {
	case float64:
		if isMin {
			out.Minimum = js.Float(b)
		} else {
			out.Maximum = js.Float(b)
		}
	case *big.Int:
		f, _ := new(big.Float).SetInt(b).Float64()
		if isMin {
			out.Minimum = js.Float(f)
		} else {
			out.Maximum = js.Float(f)
		}
	case int:
		// Buffer byte counts do not map to base64 character counts.
		if out.Type != "array" {
			return
		}
		if isMin {
			out.MinItems = js.Int(b)
		} else {
			out.MaxItems = js.Int(b)
		}
	}
}
