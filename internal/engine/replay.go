package engine

import (
	"fmt"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/coerce"
)

type gate int

const (
	gateNone gate = iota
	gateNull
	gateUndefined
)

// accepts reports whether sp runs while the value is held by gate g.
func accepts(sp Spec, g gate) bool {
	switch g {
	case gateNull:
		return sp.Config.Nullable
	case gateUndefined:
		return sp.Config.NotRequired
	}
	return true
}

func countable(specs []Spec) int {
	n := 0
	for _, s := range specs {
		if !IsModifier(s.Op) {
			n++
		}
	}
	return n
}

// exec replays c against in. path is the dotted/bracketed location of the
// value, empty at an unnamed root.
func (r *run) exec(c *Chain, in any, path string) any {
	p := c.compiled()
	if p.alias != "" {
		path = p.alias
	}
	name := recordName(path)
	start := len(r.errors)

	v := in
	if skema.IsUndefined(v) && p.hasDefault {
		v = Clone(p.def)
	}

	g := gateNone
	switch {
	case skema.IsUndefined(v):
		if !p.notRequired {
			r.fail(name, v, failure{method: "required", typ: skema.TypeRequired, expect: "defined value", key: "required"})
			r.skipped += countable(p.specs)
			return v
		}
		r.pass("notRequired", name, "optional value", v)
		g = gateUndefined
	case v == nil && !p.anyType:
		if !p.nullable {
			r.fail(name, v, failure{method: p.typeMethod, typ: skema.TypeInvalidType, expect: p.typeMethod, key: typeKey(p.typeMethod)})
			r.skipped += countable(p.specs)
			return v
		}
		r.pass("nullable", name, "null", v)
		g = gateNull
	}

	for i, sp := range p.specs {
		if r.halted() {
			r.skipped += countable(p.specs[i:])
			break
		}
		if IsModifier(sp.Op) {
			continue
		}
		if !accepts(sp, g) {
			r.skipped++
			continue
		}
		if pt, ok := sp.Op.(ParseToOp); ok {
			if len(r.errors) > start {
				r.skipped += countable(p.specs[i:])
				return v
			}
			if g != gateNone {
				r.pass("parseTo", name, "parseTo "+KindOf(pt.Target).String(), v)
				continue
			}
			nv, ok := r.parseTo(sp, pt, v, path)
			v = nv
			if !ok {
				r.skipped += countable(p.specs[i+1:])
				return v
			}
			continue
		}
		nv, ok := r.apply(sp, v, path)
		v = nv
		if !ok && IsTypeOp(sp.Op) {
			r.skipped += countable(p.specs[i+1:])
			return v
		}
	}
	return v
}

func typeKey(method string) string {
	if method == "oneOf" {
		return "union"
	}
	return method
}

// apply evaluates one non-modifier spec. The bool is false when the check
// failed; for type-discriminating specs that ends the replay of the chain.
func (r *run) apply(sp Spec, v any, path string) (any, bool) {
	name := recordName(path)
	switch op := sp.Op.(type) {
	case TypeOp:
		if !CheckKind(op.Kind, v) {
			r.fail(name, v, failure{method: op.Method(), typ: skema.TypeInvalidType, expect: op.Method(), key: op.Method(), template: sp.Message})
			return v, false
		}
		r.pass(op.Method(), name, op.Method(), v)
		return v, true
	case ArrayOp:
		return r.applyArray(sp, op, v, path)
	case ObjectOp:
		return r.applyObject(sp, op, v, path)
	case UnionOp:
		return r.applyUnion(sp, op, v, path)
	case CustomOp:
		return r.applyCustom(sp, op, v, name)
	case UnknownKeysOp:
		return r.applyUnknownKeys(sp, op, v, path)
	case MinOp, MaxOp, MinLengthOp, MaxLengthOp, MinWordOp, MaxWordOp,
		EmailOp, UUIDOp, RegexOp, TimeOp,
		IntegerOp, FloatOp, PositiveOp, NegativeOp,
		EnumOp, EqualOp, NotEqualOp:
		return v, r.applyConstraint(sp, v, name)
	case AliasOp, DefaultOp, NullableOp, NotRequiredOp, ParseToOp:
		// Handled by exec.
		return v, true
	default:
		panic(fmt.Sprintf("engine: unhandled op %T", op))
	}
}

func (r *run) applyArray(sp Spec, op ArrayOp, v any, path string) (any, bool) {
	name := recordName(path)
	items, ok := List(v)
	if !ok {
		r.fail(name, v, failure{method: "array", typ: skema.TypeInvalidType, expect: "array", key: "array", template: sp.Message})
		return v, false
	}
	r.pass("array", name, "array", v)
	out := make([]any, len(items))
	copy(out, items)
	if op.Item == nil {
		return out, true
	}
	for i := range items {
		if r.halted() {
			break
		}
		out[i] = r.exec(op.Item, items[i], indexPath(path, i))
	}
	return out, true
}

func (r *run) applyObject(sp Spec, op ObjectOp, v any, path string) (any, bool) {
	name := recordName(path)
	in, ok := Object(v)
	if !ok {
		r.fail(name, v, failure{method: "object", typ: skema.TypeInvalidType, expect: "object", key: "object", template: sp.Message})
		return v, false
	}
	r.pass("object", name, "object", v)
	out := make(map[string]any, len(in))
	for k, e := range in {
		out[k] = e
	}
	for _, f := range op.Fields {
		if r.halted() {
			break
		}
		fv, present := in[f.Name]
		if !present {
			fv = skema.Undefined
		}
		res := r.exec(f.Schema, fv, fieldPath(path, f.Name))
		if skema.IsUndefined(res) {
			delete(out, f.Name)
			continue
		}
		out[f.Name] = res
	}
	return out, true
}

func (r *run) applyUnion(sp Spec, op UnionOp, v any, path string) (any, bool) {
	name := recordName(path)
	var failed []skema.ValidationErrors
	for i, cand := range op.Candidates {
		sub := r.child()
		res := sub.exec(cand, v, path)
		if len(sub.errors) == 0 {
			r.successes = append(r.successes, sub.successes...)
			r.skipped += sub.skipped
			r.pass("oneOf", name, fmt.Sprintf("one of %d schemas", len(op.Candidates)), v)
			skema.L().Debug("oneOf candidate selected", "name", name, "index", i)
			return res, true
		}
		failed = append(failed, sub.errors)
	}
	if sp.Message != "" {
		r.fail(name, v, failure{method: "oneOf", typ: skema.TypeInvalidType, expect: fmt.Sprintf("one of %d schemas", len(op.Candidates)), key: "union", template: sp.Message})
		return v, false
	}
	for i, errs := range failed {
		for _, e := range errs {
			e.Message = fmt.Sprintf("oneOf[%d]: %s", i, e.Message)
			r.errors = append(r.errors, e)
		}
	}
	if len(failed) == 0 {
		r.fail(name, v, failure{method: "oneOf", typ: skema.TypeInvalidType, expect: "one of 0 schemas", key: "union"})
	}
	return v, false
}

func (r *run) applyCustom(sp Spec, op CustomOp, v any, name string) (any, bool) {
	cc := &CustomContext{Value: v, Name: name}
	if op.AsyncFn != nil {
		if !r.async {
			skema.PanicConfig("custom", "asynchronous custom function used in a synchronous execution mode; use the Async variant")
		}
		if err := op.AsyncFn(r.ctx, cc); err != nil {
			cc.state, cc.message = customFailed, err.Error()
		}
	} else {
		op.Fn(cc)
	}
	switch cc.state {
	case customSucceeded:
		r.pass("custom", name, "custom", cc.result)
		return cc.result, true
	case customFailed:
		tmpl := cc.message
		if tmpl == "" {
			tmpl = sp.Message
		}
		r.fail(name, v, failure{method: "custom", typ: skema.TypeInvalidValue, expect: "custom", key: "custom", template: tmpl})
		return v, false
	default:
		skema.PanicConfig("custom", "custom function returned without calling Success or Failed")
		return v, false
	}
}

func (r *run) applyUnknownKeys(sp Spec, op UnknownKeysOp, v any, path string) (any, bool) {
	name := recordName(path)
	in, ok := Object(v)
	if !ok {
		r.fail(name, v, failure{method: op.Method(), typ: skema.TypeInvalidType, expect: "object", key: "object"})
		return v, false
	}
	switch op.Policy {
	case UnknownStrip:
		out := make(map[string]any, len(op.Declared))
		for k, e := range in {
			if _, ok := op.Declared[k]; ok {
				out[k] = e
			}
		}
		r.pass(op.Method(), name, "declared keys only", out)
		return out, true
	case UnknownStrict:
		passed := true
		for _, k := range sortedKeys(in) {
			if _, ok := op.Declared[k]; ok {
				continue
			}
			passed = false
			r.fail(fieldPath(path, k), in[k], failure{method: op.Method(), typ: skema.TypeInvalidValue, expect: "declared key", key: "unknownKey", template: sp.Message})
		}
		if passed {
			r.pass(op.Method(), name, "declared keys only", v)
		}
		return v, passed
	}
	return v, true
}

func (r *run) parseTo(sp Spec, op ParseToOp, v any, path string) (any, bool) {
	name := recordName(path)
	kind := KindOf(op.Target)
	out, err := convert(kind, v)
	if err != nil {
		skema.L().Debug("parseTo conversion failed", "name", name, "target", kind.String(), "error", err)
		r.fail(name, v, failure{
			method: "parseTo", typ: skema.TypeInvalidType, expect: kind.String(), key: "parseTo",
			data: map[string]string{"type": kind.String()}, template: sp.Message,
		})
		return v, false
	}
	r.pass("parseTo", name, "parseTo "+kind.String(), out)
	return r.apply(Spec{Op: op.Target}, out, path)
}

func convert(k Kind, v any) (any, error) {
	switch k {
	case KindString:
		return coerce.ToString(v)
	case KindNumber:
		return coerce.ToNumber(v)
	case KindBigInt:
		return coerce.ToBigInt(v)
	case KindBoolean:
		return coerce.ToBoolean(v)
	case KindDate:
		return coerce.ToDate(v)
	case KindBuffer:
		return coerce.ToBuffer(v)
	case KindArray:
		return coerce.ToArray(v)
	case KindObject:
		return coerce.ToObject(v)
	case KindAny, KindUnion:
		return v, nil
	case KindFunction:
		if CheckKind(KindFunction, v) {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: cannot convert to %s", coerce.ErrUnsupported, k)
}
