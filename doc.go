// Package skema provides the result model for chain-built schemas:
//
// - Reports of a replay (Report, Success, ValidationError)
// - The error taxonomy (ConfigError for build-time misuse, Error for failed Parse/Throw)
// - The Undefined sentinel that tells an absent value apart from null (nil)
// - A pluggable structured Logger
//
// Design policy:
// - Keep only public types in the root package; the replay engine lives under internal/.
// - Place builders under dsl/, conversions under coerce/, and the CLI under cmd/skema.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	var user = dsl.Object(dsl.Fields{
//	    "email": dsl.String().Email(),
//	    "age":   dsl.String().ParseTo().Number().Integer().Min(18),
//	})
//
//	v, err := user.Parse(input, "body")
//	report := user.Test(input, "body")
package skema
