package engine

import (
	"fmt"
	"math"
	"math/big"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dlclark/regexp2"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	skema "github.com/reoring/skema"
)

// TimePattern matches a 24-hour HH:MM or HH:MM:SS clock time.
const TimePattern = `^(?:[01]\d|2[0-3]):[0-5]\d(?::[0-5]\d)?$`

var (
	emailPattern = regexp2.MustCompile("^[a-zA-Z0-9.!#$%&'*+/=?^_`{|}~-]+@[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?(?:\\.[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?)+$", regexp2.ECMAScript)
	timePattern  = regexp2.MustCompile(TimePattern, regexp2.ECMAScript)
)

// Matches reports whether re matches s. Engine errors (timeouts) count as a
// mismatch.
func Matches(re *regexp2.Regexp, s string) bool {
	ok, err := re.MatchString(s)
	return err == nil && ok
}

// CharCount counts the runes of s after NFC normalization.
func CharCount(s string) int { return utf8.RuneCountInString(norm.NFC.String(s)) }

// WordCount counts whitespace-separated words.
func WordCount(s string) int { return len(strings.Fields(s)) }

// ValidUUID reports whether s is a canonical UUID of the given version
// (0 accepts any version).
func ValidUUID(s string, version int) bool {
	if len(s) != 36 {
		return false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return version == 0 || int(u.Version()) == version
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func itoa(n int) string { return strconv.Itoa(n) }

func joinDisplay(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = skema.Display(v)
	}
	return strings.Join(parts, ", ")
}

// measure compares v against bound. isLength marks element/byte counting.
type measure struct {
	cmp      int
	isLength bool
	isDate   bool
	length   int
}

func compareBound(v, bound any) (measure, bool) {
	switch b := bound.(type) {
	case float64:
		f, ok := Number(v)
		if !ok {
			return measure{}, false
		}
		switch {
		case f < b:
			return measure{cmp: -1}, true
		case f > b:
			return measure{cmp: 1}, true
		}
		return measure{}, true
	case *big.Int:
		n, ok := BigInt(v)
		if !ok {
			return measure{}, false
		}
		return measure{cmp: n.Cmp(b)}, true
	case time.Time:
		t, ok := Date(v)
		if !ok {
			return measure{}, false
		}
		return measure{cmp: t.Compare(b), isDate: true}, true
	case int:
		var n int
		if buf, ok := v.([]byte); ok {
			n = len(buf)
		} else if items, ok := List(v); ok {
			n = len(items)
		} else {
			return measure{}, false
		}
		m := measure{isLength: true, length: n}
		switch {
		case n < b:
			m.cmp = -1
		case n > b:
			m.cmp = 1
		}
		return m, true
	}
	return measure{}, false
}

// applyConstraint evaluates a value-level constraint and records the outcome.
func (r *run) applyConstraint(sp Spec, v any, name string) bool {
	method := sp.Method()
	var (
		ok     bool
		typeOK = true
		expect string
		key    = method
		data   = map[string]string{}
	)
	switch op := sp.Op.(type) {
	case MinOp, MaxOp:
		var bound any
		isMin := false
		if m, isM := op.(MinOp); isM {
			bound, isMin = m.Bound, true
		} else {
			bound = op.(MaxOp).Bound
		}
		m, valid := compareBound(v, bound)
		typeOK = valid
		data[method] = skema.Display(bound)
		if isMin {
			ok = m.cmp >= 0
			expect = ">= " + skema.Display(bound)
		} else {
			ok = m.cmp <= 0
			expect = "<= " + skema.Display(bound)
		}
		switch {
		case m.isLength:
			key = method + ".length"
			data["length"] = itoa(m.length)
			expect = "length " + expect
		case m.isDate:
			key = method + ".date"
		}
	case MinLengthOp, MaxLengthOp, MinWordOp, MaxWordOp:
		s, isStr := v.(string)
		typeOK = isStr
		var n, bound int
		switch o := op.(type) {
		case MinLengthOp:
			n, bound = CharCount(s), o.N
			ok = n >= bound
			expect = "length >= " + itoa(bound)
			data["length"] = itoa(n)
		case MaxLengthOp:
			n, bound = CharCount(s), o.N
			ok = n <= bound
			expect = "length <= " + itoa(bound)
			data["length"] = itoa(n)
		case MinWordOp:
			n, bound = WordCount(s), o.N
			ok = n >= bound
			expect = "words >= " + itoa(bound)
			data["words"] = itoa(n)
		case MaxWordOp:
			n, bound = WordCount(s), o.N
			ok = n <= bound
			expect = "words <= " + itoa(bound)
			data["words"] = itoa(n)
		}
		data[method] = itoa(bound)
	case EmailOp:
		s, isStr := v.(string)
		typeOK = isStr
		ok = isStr && Matches(emailPattern, s)
		expect = "email address"
	case UUIDOp:
		s, isStr := v.(string)
		typeOK = isStr
		ok = isStr && ValidUUID(s, op.Version)
		expect = "UUID"
		if op.Version != 0 {
			key = "UUIDVersion"
			data["version"] = itoa(op.Version)
			expect = fmt.Sprintf("UUID v%d", op.Version)
		}
	case RegexOp:
		s, isStr := v.(string)
		typeOK = isStr
		ok = isStr && Matches(op.Pattern, s)
		data["regex"] = "/" + op.Pattern.String() + "/"
		expect = "match " + data["regex"]
	case TimeOp:
		s, isStr := v.(string)
		typeOK = isStr
		ok = isStr && Matches(timePattern, s)
		expect = "HH:MM[:SS]"
	case IntegerOp, FloatOp:
		f, isNum := Number(v)
		typeOK = isNum
		integral := isNum && f == math.Trunc(f)
		if _, isInt := op.(IntegerOp); isInt {
			ok, expect = integral, "integer"
		} else {
			ok, expect = isNum && !integral, "float"
		}
	case PositiveOp, NegativeOp:
		sign, isNum := signOf(v)
		typeOK = isNum
		if _, isPos := op.(PositiveOp); isPos {
			ok, expect = sign > 0, "> 0"
		} else {
			ok, expect = sign < 0, "< 0"
		}
	case EnumOp:
		for _, want := range op.Values {
			if Equal(v, want) {
				ok = true
				break
			}
		}
		data["oneOf"] = joinDisplay(op.Values)
		expect = "one of [" + data["oneOf"] + "]"
	case EqualOp:
		ok = Equal(v, op.Value)
		data["equal"] = skema.Display(op.Value)
		expect = "equal to " + data["equal"]
	case NotEqualOp:
		ok = !Equal(v, op.Value)
		data["notEqual"] = skema.Display(op.Value)
		expect = "not equal to " + data["notEqual"]
	}
	if ok && typeOK {
		r.pass(method, name, expect, v)
		return true
	}
	typ := skema.TypeInvalidValue
	if !typeOK {
		typ = skema.TypeInvalidType
	}
	r.fail(name, v, failure{method: method, typ: typ, expect: expect, key: key, data: data, template: sp.Message})
	return false
}

func signOf(v any) (int, bool) {
	if f, ok := Number(v); ok {
		switch {
		case f > 0:
			return 1, true
		case f < 0:
			return -1, true
		}
		return 0, true
	}
	if n, ok := BigInt(v); ok {
		return n.Sign(), true
	}
	return 0, false
}
