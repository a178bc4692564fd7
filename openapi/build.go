package openapi

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"

	"github.com/reoring/skema/coerce"
	"github.com/reoring/skema/dsl"
	js "github.com/reoring/skema/jsonschema"
)

type builder struct {
	opts     Options
	diag     *simpleDiag
	root     *js.Schema
	visiting map[string]bool
}

// decorable is satisfied by every dsl builder.
type decorable[S any] interface {
	dsl.Chain
	Nullable() S
	NotRequired() S
	Default(v any) S
	Equal(v any, opts ...dsl.Option) S
	Custom(fn func(c *dsl.CustomContext), opts ...dsl.Option) S
}

func (b *builder) build(s *js.Schema, path string, required bool) (dsl.Chain, error) {
	if s.Ref != "" {
		return b.buildRef(s, path, required)
	}
	if s.IntOrString {
		return decorate(b, dsl.OneOf(dsl.Number().Integer(), dsl.String()), s, required), nil
	}
	if len(s.OneOf) > 0 || len(s.AnyOf) > 0 {
		return b.buildUnion(s, path, required)
	}
	switch s.Type {
	case "string":
		return decorate(b, b.buildString(s, path), s, required), nil
	case "number", "integer":
		return decorate(b, b.buildNumber(s), s, required), nil
	case "boolean":
		return decorate(b, dsl.Boolean(), s, required), nil
	case "array":
		c, err := b.buildArray(s, path)
		if err != nil {
			return nil, err
		}
		return decorate(b, c, s, required), nil
	case "object":
		c, err := b.buildObject(s, path)
		if err != nil {
			return nil, err
		}
		return decorate(b, c, s, required), nil
	case "null":
		return decorate(b, dsl.Any().Equal(nil), s, required), nil
	case "":
		if len(s.Properties) > 0 {
			c, err := b.buildObject(s, path)
			if err != nil {
				return nil, err
			}
			return decorate(b, c, s, required), nil
		}
		return decorate(b, dsl.Any(), s, required), nil
	}
	b.diag.warnf("%s: unsupported type %q treated as any", pointer(path), s.Type)
	return decorate(b, dsl.Any(), s, required), nil
}

// decorate applies the keywords every kind shares.
func decorate[S decorable[S]](b *builder, c S, s *js.Schema, required bool) dsl.Chain {
	if s.Const != nil {
		c = c.Equal(s.Const)
	}
	if s.Nullable {
		c = c.Nullable()
	}
	if s.Default != nil && b.opts.Defaults == DefaultApply {
		c = c.Default(s.Default)
	}
	if !required {
		c = c.NotRequired()
	}
	return c
}

// buildRef expands a local $ref into $defs or definitions.
func (b *builder) buildRef(s *js.Schema, path string, required bool) (dsl.Chain, error) {
	var (
		defs map[string]*js.Schema
		key  string
	)
	switch {
	case strings.HasPrefix(s.Ref, "#/$defs/"):
		defs, key = b.root.Defs, strings.TrimPrefix(s.Ref, "#/$defs/")
	case strings.HasPrefix(s.Ref, "#/definitions/"):
		defs, key = b.root.Definitions, strings.TrimPrefix(s.Ref, "#/definitions/")
	default:
		b.diag.warnf("%s: $ref %q not supported (local $defs or definitions only)", pointer(path), s.Ref)
		return decorate(b, dsl.Any(), s, required), nil
	}
	target, ok := defs[key]
	if !ok || target == nil {
		return nil, fmt.Errorf("openapi: %s: $ref to unknown %s", pointer(path), s.Ref)
	}
	if b.visiting[s.Ref] {
		b.diag.warnf("%s: cyclic $ref %s treated as any", pointer(path), s.Ref)
		return decorate(b, dsl.Any(), s, required), nil
	}
	b.visiting[s.Ref] = true
	defer delete(b.visiting, s.Ref)

	// Keywords beside $ref override the target, as in the shallow merge of
	// older drafts.
	merged := *target
	if s.Nullable {
		merged.Nullable = true
	}
	if s.Default != nil {
		merged.Default = s.Default
	}
	return b.build(&merged, path, required)
}

func (b *builder) buildString(s *js.Schema, path string) dsl.StringSchema {
	c := dsl.String()
	if s.MinLength != nil {
		c = c.MinLength(*s.MinLength)
	}
	if s.MaxLength != nil {
		c = c.MaxLength(*s.MaxLength)
	}
	if s.Pattern != "" {
		c = c.Regex(s.Pattern)
	}
	switch s.Format {
	case "":
	case "email":
		c = c.Email()
	case "uuid":
		c = c.UUID()
	case "time":
		c = c.Time()
	case "date-time", "date":
		c = c.Custom(func(cc *dsl.CustomContext) {
			if _, err := coerce.ParseDate(cc.Value.(string)); err != nil {
				cc.Failed("[valueName] must be a date, received [value]")
				return
			}
			cc.Success(cc.Value)
		})
	default:
		b.diag.warnf("%s: format %q is not checked", pointer(path), s.Format)
	}
	if len(s.Enum) > 0 {
		values := make([]string, 0, len(s.Enum))
		for _, e := range s.Enum {
			str, ok := e.(string)
			if !ok {
				b.diag.warnf("%s: non-string enum value %v ignored", pointer(path), e)
				continue
			}
			values = append(values, str)
		}
		if len(values) > 0 {
			c = c.OneOf(values)
		}
	}
	return c
}

func (b *builder) buildNumber(s *js.Schema) dsl.NumberSchema {
	c := dsl.Number()
	if s.Type == "integer" {
		c = c.Integer()
	}
	if s.Minimum != nil {
		c = c.Min(*s.Minimum)
	}
	if s.Maximum != nil {
		c = c.Max(*s.Maximum)
	}
	if s.ExclusiveMinimum != nil {
		lo := *s.ExclusiveMinimum
		if lo == 0 {
			c = c.Positive()
		} else {
			c = c.Custom(exclusive(lo, true))
		}
	}
	if s.ExclusiveMaximum != nil {
		hi := *s.ExclusiveMaximum
		if hi == 0 {
			c = c.Negative()
		} else {
			c = c.Custom(exclusive(hi, false))
		}
	}
	if len(s.Enum) > 0 {
		values := make([]float64, 0, len(s.Enum))
		for _, e := range s.Enum {
			if f, err := coerce.ToNumber(e); err == nil {
				values = append(values, f)
			}
		}
		if len(values) > 0 {
			c = c.OneOf(values)
		}
	}
	return c
}

func exclusive(bound float64, lower bool) func(c *dsl.CustomContext) {
	return func(c *dsl.CustomContext) {
		f, err := coerce.ToNumber(c.Value)
		switch {
		case err != nil:
			c.Failed("")
		case lower && f <= bound:
			c.Failed(fmt.Sprintf("[valueName] must be greater than %v, received [value]", bound))
		case !lower && f >= bound:
			c.Failed(fmt.Sprintf("[valueName] must be less than %v, received [value]", bound))
		default:
			c.Success(c.Value)
		}
	}
}

func (b *builder) buildArray(s *js.Schema, path string) (dsl.ArraySchema, error) {
	var item dsl.Chain
	if s.Items != nil {
		var err error
		item, err = b.build(s.Items, path+"/items", true)
		if err != nil {
			return dsl.ArraySchema{}, err
		}
	}
	c := dsl.Array(item)
	if s.MinItems != nil {
		c = c.Min(*s.MinItems)
	}
	if s.MaxItems != nil {
		c = c.Max(*s.MaxItems)
	}
	return c, nil
}

func (b *builder) buildObject(s *js.Schema, path string) (dsl.ObjectSchema, error) {
	fields := make(dsl.Fields, len(s.Properties))
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fc, err := b.build(s.Properties[name], path+"/properties/"+name, s.IsRequired(name))
		if err != nil {
			return dsl.ObjectSchema{}, err
		}
		fields[name] = fc
	}
	for _, r := range s.Required {
		if _, ok := s.Properties[r]; !ok {
			fields[r] = dsl.Any().Custom(func(c *dsl.CustomContext) { c.Success(c.Value) })
		}
	}
	c := dsl.Object(fields)

	switch {
	case b.opts.Unknown == UnknownStrict:
		return c.Strict(), nil
	case b.opts.Unknown == UnknownStrip && !s.PreserveUnknownFields:
		return c.Strip(), nil
	case s.PreserveUnknownFields:
		return c, nil
	}

	x := extra{declared: s.Properties}
	for _, p := range sortedKeys(s.PatternProperties) {
		re, err := regexp2.Compile(p, regexp2.ECMAScript)
		if err != nil {
			return dsl.ObjectSchema{}, fmt.Errorf("openapi: %s: patternProperties: invalid pattern %q: %w", pointer(path), p, err)
		}
		vc, err := b.build(s.PatternProperties[p], path+"/patternProperties/"+p, true)
		if err != nil {
			return dsl.ObjectSchema{}, err
		}
		x.patterns = append(x.patterns, keyPattern{re: re, schema: vc})
	}
	switch ap := s.AdditionalProperties.(type) {
	case bool:
		if !ap {
			if len(x.patterns) == 0 {
				return c.Strict(), nil
			}
			x.closed = true
		}
	case map[string]any:
		sub, err := js.FromMap(ap)
		if err != nil {
			return dsl.ObjectSchema{}, fmt.Errorf("openapi: %s: additionalProperties: %w", pointer(path), err)
		}
		vc, err := b.build(sub, path+"/additionalProperties", true)
		if err != nil {
			return dsl.ObjectSchema{}, err
		}
		x.rest = vc
	}
	if len(x.patterns) == 0 && x.rest == nil {
		return c, nil
	}
	return c.Custom(x.check), nil
}

type keyPattern struct {
	re     *regexp2.Regexp
	schema dsl.Chain
}

// extra checks keys that properties does not declare. A key is checked
// against every patternProperties entry it matches; keys matching none fall
// to the additionalProperties schema, or fail when closed.
type extra struct {
	declared map[string]*js.Schema
	patterns []keyPattern
	rest     dsl.Chain
	closed   bool
}

func (x extra) check(c *dsl.CustomContext) {
	m, _ := c.Value.(map[string]any)
	keys := make([]string, 0, len(m))
	for k := range m {
		if _, declared := x.declared[k]; !declared {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	for _, k := range keys {
		var checks []dsl.Chain
		for _, p := range x.patterns {
			if ok, err := p.re.MatchString(k); err == nil && ok {
				checks = append(checks, p.schema)
			}
		}
		if len(checks) == 0 {
			if x.closed {
				c.Failed(joinName(c.Name, k) + " does not match any allowed key pattern")
				return
			}
			if x.rest != nil {
				checks = append(checks, x.rest)
			}
		}
		for _, vc := range checks {
			rep := vc.Test(out[k], joinName(c.Name, k))
			if !rep.PassedAll {
				c.Failed(rep.Errors[0].Message)
				return
			}
			out[k] = rep.Value
		}
	}
	c.Success(out)
}

func sortedKeys(m map[string]*js.Schema) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (b *builder) buildUnion(s *js.Schema, path string, required bool) (dsl.Chain, error) {
	branches, keyword := s.OneOf, "oneOf"
	if len(branches) == 0 {
		branches, keyword = s.AnyOf, "anyOf"
	}
	cands := make([]dsl.Chain, 0, len(branches))
	for i, br := range branches {
		c, err := b.build(br, fmt.Sprintf("%s/%s/%d", path, keyword, i), true)
		if err != nil {
			return nil, err
		}
		cands = append(cands, c)
	}
	u := dsl.OneOf(cands...)
	if keyword == "oneOf" && b.opts.Ambiguity == AmbiguityError && len(cands) > 1 {
		u = u.Custom(exactlyOne(cands))
	}
	return decorate(b, u, s, required), nil
}

// exactlyOne fails when the value matched more than one branch.
func exactlyOne(cands []dsl.Chain) func(c *dsl.CustomContext) {
	return func(c *dsl.CustomContext) {
		matched := 0
		for _, cand := range cands {
			if cand.Validate(c.Value) {
				matched++
			}
		}
		if matched > 1 {
			c.Failed(fmt.Sprintf("[valueName] matches %d oneOf branches, expected exactly one", matched))
			return
		}
		c.Success(c.Value)
	}
}

func joinName(parent, key string) string {
	if parent == "" || parent == "value" {
		return key
	}
	return parent + "." + key
}

func pointer(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
