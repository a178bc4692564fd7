package skema

import "context"

// Runner is the execution surface shared by every schema. All modes replay the
// same recorded method list and differ only in how they read the result.
type Runner interface {
	// Validate reports whether v passes every check. It stops at the first error.
	Validate(v any) bool
	// ValidateAsync is Validate with asynchronous custom functions enabled.
	ValidateAsync(ctx context.Context, v any) bool

	// Test runs the full pipeline and returns the Report, passing or not.
	Test(v any, valueName ...string) Report
	// TestAsync is Test with asynchronous custom functions enabled.
	TestAsync(ctx context.Context, v any, valueName ...string) Report

	// Parse returns the transformed value, or an *Error built from the first
	// recorded error.
	Parse(v any, valueName ...string) (any, error)
	// ParseAsync is Parse with asynchronous custom functions enabled.
	ParseAsync(ctx context.Context, v any, valueName ...string) (any, error)

	// Throw returns the error built by newErr when v fails, nil otherwise.
	// A nil newErr means DefaultErrorFunc.
	Throw(v any, valueName string, newErr ErrorFunc) error
	// ThrowAsync is Throw with asynchronous custom functions enabled.
	ThrowAsync(ctx context.Context, v any, valueName string, newErr ErrorFunc) error
}

// Is reports whether v conforms to s.
func Is(s Runner, v any) bool { return s.Validate(v) }

// SafeParse parses v with s, returning (nil, false) on validation failure.
func SafeParse(s Runner, v any) (any, bool) {
	out, err := s.Parse(v)
	if err != nil {
		return nil, false
	}
	return out, true
}
