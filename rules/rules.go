// Package rules provides reusable cross-field checks for object schemas.
//
// A Rule inspects the whole value and returns a message template on failure.
// Custom turns rules into a function for the Custom modifier:
//
//	order := dsl.Object(dsl.Fields{...}).Custom(rules.Custom(
//	    rules.If("/status", rules.Eq, "shipped").Then(rules.AtLeastOne("/items")),
//	    rules.UniqueBy("/items", "sku"),
//	))
package rules

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/reoring/skema/dsl"
	eng "github.com/reoring/skema/internal/engine"
)

// Rule checks v and returns "" when it holds, otherwise a message template
// that may use [valueName] and [value].
type Rule func(v any) string

// Custom runs rules in order and fails with the first message. The value is
// passed through unchanged.
func Custom(rules ...Rule) func(c *dsl.CustomContext) {
	return func(c *dsl.CustomContext) {
		for _, r := range rules {
			if r == nil {
				continue
			}
			if msg := r(c.Value); msg != "" {
				c.Failed(msg)
				return
			}
		}
		c.Success(c.Value)
	}
}

// Op defines simple comparison operators for If(...).Then(...).
type Op int

const (
	Eq Op = iota
	Ne
	Lt
	Le
	Gt
	Ge
)

// Conditional composes conditional execution of rules.
type Conditional struct {
	path string
	op   Op
	want any
	all  []Conditional // composite AND
	any  []Conditional // composite OR
}

// If builds a conditional that evaluates a path against a value using an
// operator. The path is a JSON Pointer like "/status".
func If(path string, op Op, want any) Conditional {
	return Conditional{path: normalizePath(path), op: op, want: want}
}

// IfAll builds a conditional that requires all conditions to hold.
func IfAll(conds ...Conditional) Conditional { return Conditional{all: conds} }

// IfAny builds a conditional that requires any condition to hold.
func IfAny(conds ...Conditional) Conditional { return Conditional{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Conditional) And(others ...Conditional) Conditional {
	return IfAll(append([]Conditional{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Conditional) Or(others ...Conditional) Conditional {
	return IfAny(append([]Conditional{c}, others...)...)
}

// Holds reports whether the condition is satisfied by v.
func (c Conditional) Holds(v any) bool { return evalConditional(v, c) }

// Then returns a rule that runs rules only when the condition holds.
func (c Conditional) Then(rules ...Rule) Rule {
	return func(v any) string {
		if !evalConditional(v, c) {
			return ""
		}
		return And(rules...)(v)
	}
}

// Required fails when path is missing or null.
func Required(path string) Rule {
	p := normalizePath(path)
	return func(v any) string {
		if cur, ok := valueAtPath(v, p); !ok || cur == nil {
			return fmt.Sprintf("[valueName] %s is required", p)
		}
		return ""
	}
}

// AtLeastOne ensures the collection at collectionPath has at least 1 element.
// A missing path or a non-collection value is left to the field's own schema.
func AtLeastOne(collectionPath string) Rule {
	p := normalizePath(collectionPath)
	return func(v any) string {
		val, ok := valueAtPath(v, p)
		if !ok {
			return ""
		}
		if items, ok := eng.List(val); ok && len(items) == 0 {
			return fmt.Sprintf("[valueName] %s requires at least 1 item", p)
		}
		return ""
	}
}

// UniqueBy ensures elements in a collection have unique key values.
// collectionPath is a JSON Pointer to a list (e.g. "/items"); keyPath is a
// relative path inside each element (e.g. "sku"). Keys are compared by their
// %v rendering, so align the schema so the key has a single type.
func UniqueBy(collectionPath, keyPath string) Rule {
	cp := normalizePath(collectionPath)
	kp := strings.TrimPrefix(keyPath, "/")
	return func(v any) string {
		val, ok := valueAtPath(v, cp)
		if !ok {
			return ""
		}
		items, ok := eng.List(val)
		if !ok {
			return ""
		}
		seen := map[string]int{}
		for i, elem := range items {
			kv, ok := valueAtPathWithin(elem, kp)
			if !ok {
				continue
			}
			key := fmt.Sprint(kv)
			if j, dup := seen[key]; dup {
				return fmt.Sprintf("[valueName] %s/%d/%s duplicates %s/%d (%s)", cp, i, kp, cp, j, key)
			}
			seen[key] = i
		}
		return ""
	}
}

// And runs every rule and returns the first failure.
func And(rules ...Rule) Rule {
	return func(v any) string {
		for _, r := range rules {
			if r == nil {
				continue
			}
			if msg := r(v); msg != "" {
				return msg
			}
		}
		return ""
	}
}

// Or succeeds if any rule succeeds. When all fail, the first failure is
// returned.
func Or(rules ...Rule) Rule {
	return func(v any) string {
		first := ""
		for _, r := range rules {
			if r == nil {
				continue
			}
			msg := r(v)
			if msg == "" {
				return ""
			}
			if first == "" {
				first = msg
			}
		}
		return first
	}
}

// ------- helpers -------

func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}
	if p[0] != '/' {
		return "/" + p
	}
	return p
}

func evalConditional(v any, c Conditional) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !evalConditional(v, it) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if evalConditional(v, it) {
				return true
			}
		}
		return false
	}
	cur, ok := valueAtPath(v, c.path)
	if !ok {
		return false
	}
	return compare(cur, c.op, c.want)
}

func valueAtPath(v any, pointer string) (any, bool) {
	return valueAtPathWithin(v, strings.TrimPrefix(pointer, "/"))
}

// valueAtPathWithin navigates maps, lists and structs (by json tag or field
// name) along a slash-separated path.
func valueAtPathWithin(v any, rel string) (any, bool) {
	if rel == "" {
		return v, true
	}
	cur := reflect.ValueOf(v)
	for _, seg := range strings.Split(rel, "/") {
		seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
		for cur.IsValid() && (cur.Kind() == reflect.Pointer || cur.Kind() == reflect.Interface) {
			if cur.IsNil() {
				return nil, false
			}
			cur = cur.Elem()
		}
		if !cur.IsValid() {
			return nil, false
		}
		switch cur.Kind() {
		case reflect.Struct:
			f, ok := structField(cur, seg)
			if !ok {
				return nil, false
			}
			cur = f
		case reflect.Map:
			if cur.Type().Key().Kind() != reflect.String {
				return nil, false
			}
			mv := cur.MapIndex(reflect.ValueOf(seg).Convert(cur.Type().Key()))
			if !mv.IsValid() {
				return nil, false
			}
			cur = mv
		case reflect.Slice, reflect.Array:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= cur.Len() {
				return nil, false
			}
			cur = cur.Index(idx)
		default:
			return nil, false
		}
	}
	if !cur.IsValid() {
		return nil, false
	}
	return cur.Interface(), true
}

func structField(v reflect.Value, name string) (reflect.Value, bool) {
	rt := v.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}
		key := sf.Name
		if tag, ok := sf.Tag.Lookup("json"); ok {
			if n, _, _ := strings.Cut(tag, ","); n != "" && n != "-" {
				key = n
			}
		}
		if key == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func compare(cur any, op Op, want any) bool {
	switch op {
	case Eq:
		return eng.Equal(cur, want)
	case Ne:
		return !eng.Equal(cur, want)
	case Lt, Le, Gt, Ge:
		a, ok1 := eng.Number(cur)
		b, ok2 := eng.Number(want)
		if !ok1 || !ok2 {
			return false
		}
		switch op {
		case Lt:
			return a < b
		case Le:
			return a <= b
		case Gt:
			return a > b
		default:
			return a >= b
		}
	}
	return false
}
