package engine

import "sync"

// Config is the per-spec gate configuration. Nullable and NotRequired mark a
// spec that still runs when the value is null or undefined.
type Config struct {
	Nullable    bool
	NotRequired bool
}

// Spec is one recorded method. Message overrides the default template.
type Spec struct {
	Op      Op
	Message string
	Config  Config
}

// Method returns the recorded method name.
func (s Spec) Method() string { return s.Op.Method() }

// Chain is an immutable, append-only list of specs. Append shares the whole
// existing list with the new node, so a built chain never observes a spec
// appended after it.
type Chain struct {
	parent *Chain
	spec   Spec
	length int

	once sync.Once
	plan *plan
}

// New starts a chain with its type-discriminating spec.
func New(s Spec) *Chain { return &Chain{spec: s, length: 1} }

// Append returns a new chain ending with s.
func (c *Chain) Append(s Spec) *Chain {
	return &Chain{parent: c, spec: s, length: c.length + 1}
}

// Len returns the number of specs.
func (c *Chain) Len() int { return c.length }

// Specs returns the specs in declaration order. The slice is shared and must
// not be modified.
func (c *Chain) Specs() []Spec { return c.compiled().specs }

// FindLast returns the last op of type T recorded in the segment the chain
// currently describes (the part after the most recent parseTo).
func FindLast[T Op](c *Chain) (T, bool) {
	for n := c; n != nil; n = n.parent {
		if t, ok := n.spec.Op.(T); ok {
			return t, true
		}
		if pt, ok := n.spec.Op.(ParseToOp); ok {
			if t, ok := pt.Target.(T); ok {
				return t, true
			}
			break
		}
	}
	var zero T
	return zero, false
}

// SegmentKind returns the kind the chain's current segment checks for.
func SegmentKind(c *Chain) Kind {
	for n := c; n != nil; n = n.parent {
		if pt, ok := n.spec.Op.(ParseToOp); ok {
			return KindOf(pt.Target)
		}
		if IsTypeOp(n.spec.Op) {
			return KindOf(n.spec.Op)
		}
	}
	return 0
}

// Gates summarizes the modifiers that govern a chain's first segment.
type Gates struct {
	Alias       string
	Default     any
	HasDefault  bool
	Nullable    bool
	NotRequired bool
}

// Gates returns the chain's modifier summary.
func (c *Chain) Gates() Gates {
	p := c.compiled()
	return Gates{
		Alias:       p.alias,
		Default:     p.def,
		HasDefault:  p.hasDefault,
		Nullable:    p.nullable,
		NotRequired: p.notRequired,
	}
}

// plan is the read-only replay view of a chain, computed once.
type plan struct {
	specs       []Spec
	alias       string
	def         any
	hasDefault  bool
	nullable    bool
	notRequired bool
	typeMethod  string
	anyType     bool
}

func (c *Chain) compiled() *plan {
	c.once.Do(func() {
		specs := make([]Spec, c.length)
		i := c.length - 1
		for n := c; n != nil; n = n.parent {
			specs[i] = n.spec
			i--
		}
		p := &plan{specs: specs}
		firstSegment := true
		for _, s := range specs {
			switch op := s.Op.(type) {
			case AliasOp:
				p.alias = op.Name
			case ParseToOp:
				firstSegment = false
			}
			if !firstSegment {
				continue
			}
			switch op := s.Op.(type) {
			case DefaultOp:
				p.def, p.hasDefault = op.Value, true
			case NullableOp:
				p.nullable = true
			case NotRequiredOp:
				p.notRequired = true
			case TypeOp, ArrayOp, ObjectOp, UnionOp:
				if p.typeMethod == "" {
					p.typeMethod = op.Method()
					p.anyType = KindOf(op) == KindAny
				}
			}
		}
		c.plan = p
	})
	return c.plan
}
