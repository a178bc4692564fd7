package dsl

import eng "github.com/reoring/skema/internal/engine"

// Factory exposes the type builders. Every builder starts a new chain.
type Factory struct{}

// Schema returns the root factory: dsl.Schema().String().MinLength(3).
func Schema() Factory { return Factory{} }

func start[S wrapper[S]](op eng.Op, opts []Option) S {
	var zero S
	return zero.wrap(eng.New(constraint(op, opts)))
}

func (Factory) String(opts ...Option) StringSchema { return String(opts...) }

func (Factory) Number(opts ...Option) NumberSchema { return Number(opts...) }

func (Factory) BigInt(opts ...Option) BigIntSchema { return BigInt(opts...) }

func (Factory) Boolean(opts ...Option) BooleanSchema { return Boolean(opts...) }

func (Factory) Date(opts ...Option) DateSchema { return Date(opts...) }

func (Factory) Buffer(opts ...Option) BufferSchema { return Buffer(opts...) }

func (Factory) Function(opts ...Option) FunctionSchema { return Function(opts...) }

func (Factory) Any(opts ...Option) AnySchema { return Any(opts...) }

func (Factory) Array(item Chain, opts ...Option) ArraySchema { return Array(item, opts...) }

func (Factory) Object(fields Fields, opts ...Option) ObjectSchema { return Object(fields, opts...) }

func (Factory) OneOf(schemas ...Chain) OneOfSchema { return OneOf(schemas...) }

// String starts a string schema. A Message option replaces the invalid type
// message.
func String(opts ...Option) StringSchema {
	return start[StringSchema](eng.TypeOp{Kind: eng.KindString}, opts)
}

func Number(opts ...Option) NumberSchema {
	return start[NumberSchema](eng.TypeOp{Kind: eng.KindNumber}, opts)
}

func BigInt(opts ...Option) BigIntSchema {
	return start[BigIntSchema](eng.TypeOp{Kind: eng.KindBigInt}, opts)
}

func Boolean(opts ...Option) BooleanSchema {
	return start[BooleanSchema](eng.TypeOp{Kind: eng.KindBoolean}, opts)
}

func Date(opts ...Option) DateSchema {
	return start[DateSchema](eng.TypeOp{Kind: eng.KindDate}, opts)
}

func Buffer(opts ...Option) BufferSchema {
	return start[BufferSchema](eng.TypeOp{Kind: eng.KindBuffer}, opts)
}

func Function(opts ...Option) FunctionSchema {
	return start[FunctionSchema](eng.TypeOp{Kind: eng.KindFunction}, opts)
}

// Any starts a schema without a type check.
func Any(opts ...Option) AnySchema {
	return start[AnySchema](eng.TypeOp{Kind: eng.KindAny}, opts)
}

// Array starts an array schema. A nil item accepts any element.
func Array(item Chain, opts ...Option) ArraySchema {
	return start[ArraySchema](arrayOp(item), opts)
}

// Object starts an object schema over the declared fields.
func Object(fields Fields, opts ...Option) ObjectSchema {
	return start[ObjectSchema](objectOp(fields), opts)
}

// OneOf starts a union of candidate schemas, tried in order.
func OneOf(schemas ...Chain) OneOfSchema {
	return start[OneOfSchema](unionOp(schemas), nil)
}

// ParseTarget chooses the schema a ParseTo conversion targets. Specs recorded
// after the choice check the converted value.
type ParseTarget struct {
	c    *eng.Chain
	opts []Option
}

func parseTo[S wrapper[S]](t ParseTarget, target eng.Op) S {
	var zero S
	return zero.wrap(t.c.Append(gated(eng.ParseToOp{Target: target}, t.opts)))
}

func (t ParseTarget) String() StringSchema {
	return parseTo[StringSchema](t, eng.TypeOp{Kind: eng.KindString})
}

func (t ParseTarget) Number() NumberSchema {
	return parseTo[NumberSchema](t, eng.TypeOp{Kind: eng.KindNumber})
}

func (t ParseTarget) BigInt() BigIntSchema {
	return parseTo[BigIntSchema](t, eng.TypeOp{Kind: eng.KindBigInt})
}

func (t ParseTarget) Boolean() BooleanSchema {
	return parseTo[BooleanSchema](t, eng.TypeOp{Kind: eng.KindBoolean})
}

func (t ParseTarget) Date() DateSchema {
	return parseTo[DateSchema](t, eng.TypeOp{Kind: eng.KindDate})
}

func (t ParseTarget) Buffer() BufferSchema {
	return parseTo[BufferSchema](t, eng.TypeOp{Kind: eng.KindBuffer})
}

func (t ParseTarget) Function() FunctionSchema {
	return parseTo[FunctionSchema](t, eng.TypeOp{Kind: eng.KindFunction})
}

func (t ParseTarget) Any() AnySchema {
	return parseTo[AnySchema](t, eng.TypeOp{Kind: eng.KindAny})
}

func (t ParseTarget) Array(item Chain) ArraySchema {
	return parseTo[ArraySchema](t, arrayOp(item))
}

func (t ParseTarget) Object(fields Fields) ObjectSchema {
	return parseTo[ObjectSchema](t, objectOp(fields))
}

func (t ParseTarget) OneOf(schemas ...Chain) OneOfSchema {
	return parseTo[OneOfSchema](t, unionOp(schemas))
}
