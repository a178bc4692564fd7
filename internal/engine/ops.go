package engine

import (
	"context"

	"github.com/dlclark/regexp2"
)

// Kind identifies the value kind a type-discriminating op checks for.
type Kind int

const (
	KindString Kind = iota + 1
	KindNumber
	KindBigInt
	KindBoolean
	KindDate
	KindBuffer
	KindFunction
	KindAny
	KindArray
	KindObject
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBigInt:
		return "bigInt"
	case KindBoolean:
		return "boolean"
	case KindDate:
		return "date"
	case KindBuffer:
		return "buffer"
	case KindFunction:
		return "function"
	case KindAny:
		return "any"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindUnion:
		return "oneOf"
	default:
		return "unknown"
	}
}

// Op is the closed set of recorded methods. The unexported marker keeps the
// set closed to this package; the replay switch handles every member.
type Op interface {
	Method() string
	op()
}

// TypeOp discriminates a primitive kind (string through any).
type TypeOp struct{ Kind Kind }

// ArrayOp checks for a list and replays Item against every element.
// A nil Item accepts any element.
type ArrayOp struct{ Item *Chain }

// Field is one declared object key.
type Field struct {
	Name   string
	Schema *Chain
}

// ObjectOp checks for an object and replays each declared field. Fields are
// kept sorted by name.
type ObjectOp struct{ Fields []Field }

// UnionOp keeps the result of the first candidate that passes completely.
type UnionOp struct{ Candidates []*Chain }

type (
	AliasOp       struct{ Name string }
	DefaultOp     struct{ Value any }
	NullableOp    struct{}
	NotRequiredOp struct{}
)

// MinOp and MaxOp bound numbers (float64), big integers (*big.Int), dates
// (time.Time), or element/byte counts (int).
type (
	MinOp struct{ Bound any }
	MaxOp struct{ Bound any }
)

type (
	MinLengthOp struct{ N int }
	MaxLengthOp struct{ N int }
	MinWordOp   struct{ N int }
	MaxWordOp   struct{ N int }
	EmailOp     struct{}
	// UUIDOp accepts any version when Version is 0.
	UUIDOp  struct{ Version int }
	RegexOp struct{ Pattern *regexp2.Regexp }
	TimeOp  struct{}
)

type (
	IntegerOp  struct{}
	FloatOp    struct{}
	PositiveOp struct{}
	NegativeOp struct{}
)

type (
	// EnumOp restricts a value to a literal set.
	EnumOp     struct{ Values []any }
	EqualOp    struct{ Value any }
	NotEqualOp struct{ Value any }
)

// CustomFunc receives the current value and must call exactly one of
// Success or Failed.
type CustomFunc func(c *CustomContext)

// AsyncCustomFunc is a CustomFunc that may block. A non-nil error counts as
// a Failed call carrying the error text.
type AsyncCustomFunc func(ctx context.Context, c *CustomContext) error

// CustomOp runs a user function. Exactly one of Fn and AsyncFn is set.
type CustomOp struct {
	Fn      CustomFunc
	AsyncFn AsyncCustomFunc
}

// ParseToOp converts the current value to the kind of Target and then checks
// it with Target. Specs after it describe the target schema.
type ParseToOp struct{ Target Op }

// UnknownPolicy controls keys an object schema does not declare.
type UnknownPolicy int

const (
	UnknownPassthrough UnknownPolicy = iota
	UnknownStrict
	UnknownStrip
)

// UnknownKeysOp applies Policy to keys outside Declared.
type UnknownKeysOp struct {
	Policy   UnknownPolicy
	Declared map[string]struct{}
}

func (o TypeOp) Method() string   { return o.Kind.String() }
func (ArrayOp) Method() string    { return "array" }
func (ObjectOp) Method() string   { return "object" }
func (UnionOp) Method() string    { return "oneOf" }
func (AliasOp) Method() string    { return "alias" }
func (DefaultOp) Method() string  { return "default" }
func (NullableOp) Method() string { return "nullable" }
func (NotRequiredOp) Method() string {
	return "notRequired"
}
func (MinOp) Method() string       { return "min" }
func (MaxOp) Method() string       { return "max" }
func (MinLengthOp) Method() string { return "minLength" }
func (MaxLengthOp) Method() string { return "maxLength" }
func (MinWordOp) Method() string   { return "minWord" }
func (MaxWordOp) Method() string   { return "maxWord" }
func (EmailOp) Method() string     { return "email" }
func (UUIDOp) Method() string      { return "UUID" }
func (RegexOp) Method() string     { return "regex" }
func (TimeOp) Method() string      { return "time" }
func (IntegerOp) Method() string   { return "integer" }
func (FloatOp) Method() string     { return "float" }
func (PositiveOp) Method() string  { return "positive" }
func (NegativeOp) Method() string  { return "negative" }
func (EnumOp) Method() string      { return "oneOf" }
func (EqualOp) Method() string     { return "equal" }
func (NotEqualOp) Method() string  { return "notEqual" }
func (CustomOp) Method() string    { return "custom" }
func (ParseToOp) Method() string   { return "parseTo" }
func (o UnknownKeysOp) Method() string {
	if o.Policy == UnknownStrip {
		return "strip"
	}
	return "strict"
}

func (TypeOp) op()        {}
func (ArrayOp) op()       {}
func (ObjectOp) op()      {}
func (UnionOp) op()       {}
func (AliasOp) op()       {}
func (DefaultOp) op()     {}
func (NullableOp) op()    {}
func (NotRequiredOp) op() {}
func (MinOp) op()         {}
func (MaxOp) op()         {}
func (MinLengthOp) op()   {}
func (MaxLengthOp) op()   {}
func (MinWordOp) op()     {}
func (MaxWordOp) op()     {}
func (EmailOp) op()       {}
func (UUIDOp) op()        {}
func (RegexOp) op()       {}
func (TimeOp) op()        {}
func (IntegerOp) op()     {}
func (FloatOp) op()       {}
func (PositiveOp) op()    {}
func (NegativeOp) op()    {}
func (EnumOp) op()        {}
func (EqualOp) op()       {}
func (NotEqualOp) op()    {}
func (CustomOp) op()      {}
func (ParseToOp) op()     {}
func (UnknownKeysOp) op() {}

// IsTypeOp reports whether op discriminates the value kind.
func IsTypeOp(op Op) bool {
	switch op.(type) {
	case TypeOp, ArrayOp, ObjectOp, UnionOp:
		return true
	}
	return false
}

// IsModifier reports whether op only configures the replay gates.
func IsModifier(op Op) bool {
	switch op.(type) {
	case AliasOp, DefaultOp, NullableOp, NotRequiredOp:
		return true
	}
	return false
}

// KindOf returns the kind a type-discriminating op checks for.
func KindOf(op Op) Kind {
	switch o := op.(type) {
	case TypeOp:
		return o.Kind
	case ArrayOp:
		return KindArray
	case ObjectOp:
		return KindObject
	case UnionOp:
		return KindUnion
	}
	return 0
}
