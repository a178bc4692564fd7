// Package dsl builds skema chains.
//
// Overview
//   - Schema() returns the root factory; the package-level String(), Number(),
//     BigInt(), Boolean(), Date(), Buffer(), Function(), Any(), Array(item),
//     Object(fields) and OneOf(schemas...) are the same builders.
//   - Every builder returns an immutable value. Each constraint or modifier call
//     records one method and returns a new builder; the receiver is unchanged
//     and may keep being used and extended concurrently.
//   - Modifiers shared by every builder: Alias, Default, Nullable, NotRequired,
//     Equal, NotEqual, Custom, CustomAsync and ParseTo.
//   - Execution modes shared by every builder: Validate, Test, Parse, Throw and
//     their Async variants (see skema.Runner).
//   - As[T] and AsFunc[In, Out] attach static input and output types.
//   - JSONSchema(c) exports the input side of a chain.
//
// Configuration errors (Max below Min, an invalid regex, a nil custom
// function, ...) panic with *skema.ConfigError when the method is called.
//
// Example
//
//	user := dsl.Schema().Object(dsl.Fields{
//	    "name":  dsl.String().MinLength(1).MaxLength(40),
//	    "email": dsl.String().Email(),
//	    "age":   dsl.String().NotRequired().ParseTo().Number().Integer().Min(0),
//	    "tags":  dsl.Array(dsl.String()).Max(5).Default([]any{}),
//	}).Strict()
//
//	out, err := user.Parse(map[string]any{
//	    "name":  "Ada",
//	    "email": "ada@example.com",
//	    "age":   "36",
//	})
//	// out["age"] == float64(36), out["tags"] == []any{}
//
// Message templates
//
// Constraints accept Message(tmpl). The template may use [valueName], [value]
// and the constraint's parameter, e.g. [max] for Max or [minLength] for
// MinLength:
//
//	dsl.Number().Max(10, dsl.Message("[valueName] [value] [max] is too big"))
package dsl
