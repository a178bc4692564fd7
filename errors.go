package skema

import (
	"errors"
	"fmt"
	"strings"
)

// Error types carried by ValidationError.Type.
const (
	TypeInvalidType  = "invalid type"
	TypeInvalidValue = "invalid value"
	TypeRequired     = "required"
)

// Sentinel errors for use with errors.Is.
var (
	// ErrValidation matches any *Error returned by the Parse/Throw execution modes.
	ErrValidation = errors.New("skema: validation failed")
	// ErrConfig matches any *ConfigError raised while building a schema.
	ErrConfig = errors.New("skema: invalid schema configuration")
)

// ValidationError is a single failed check recorded during a replay.
type ValidationError struct {
	Method   string `json:"method"`
	Type     string `json:"type"`
	Name     string `json:"name"`
	Expect   string `json:"expect"`
	Received any    `json:"received"`
	Message  string `json:"message"`
}

// ValidationErrors is a collection of validation errors that implements error.
type ValidationErrors []ValidationError

// Error summarizes the first few errors.
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(ve)
	lim := min(n, maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(ve[i].Message)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Error is returned by Parse and Throw when a value fails its schema.
// Message is the message of the first recorded error.
type Error struct {
	Message string
	Errors  ValidationErrors
}

func (e *Error) Error() string { return e.Message }

// Is reports whether target is ErrValidation.
func (e *Error) Is(target error) bool { return target == ErrValidation }

// ErrorFunc builds the error returned by Throw on failure. It plays the role of
// a caller-supplied error class: message is the first error's message.
type ErrorFunc func(message string, errs ValidationErrors) error

// DefaultErrorFunc builds an *Error.
func DefaultErrorFunc(message string, errs ValidationErrors) error {
	return &Error{Message: message, Errors: errs}
}

// AsValidationErrors extracts the validation errors carried by err, if any.
func AsValidationErrors(err error) (ValidationErrors, bool) {
	if err == nil {
		return nil, false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Errors, true
	}
	var ve ValidationErrors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// ConfigError reports an invalid argument to a builder or modifier call. It is
// a programmer error and is raised with panic at build time.
type ConfigError struct {
	Method string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Method == "" {
		return "skema: " + e.Reason
	}
	return fmt.Sprintf("skema: %s: %s", e.Method, e.Reason)
}

// Is reports whether target is ErrConfig.
func (e *ConfigError) Is(target error) bool { return target == ErrConfig }

// PanicConfig raises a *ConfigError for method.
func PanicConfig(method, format string, args ...any) {
	err := &ConfigError{Method: method, Reason: fmt.Sprintf(format, args...)}
	L().Debug("schema configuration error", "method", method, "reason", err.Reason)
	panic(err)
}
