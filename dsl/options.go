package dsl

import eng "github.com/reoring/skema/internal/engine"

// Option configures a single recorded method.
type Option func(*options)

type options struct {
	message string
	config  eng.Config
}

// Message overrides the default message template of a constraint. The
// template may use [valueName], [value] and the constraint's own parameter
// placeholder, e.g. [max] or [minLength].
func Message(tmpl string) Option {
	return func(o *options) { o.message = tmpl }
}

// AcceptNull lets Custom, CustomAsync and ParseTo run when the value is null
// under Nullable.
func AcceptNull() Option {
	return func(o *options) { o.config.Nullable = true }
}

// AcceptUndefined lets Custom, CustomAsync and ParseTo run when the value is
// undefined under NotRequired.
func AcceptUndefined() Option {
	return func(o *options) { o.config.NotRequired = true }
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// constraint builds a spec for a value-level check. Gate options are ignored.
func constraint(op eng.Op, opts []Option) eng.Spec {
	return eng.Spec{Op: op, Message: collect(opts).message}
}

// gated builds a spec that honours AcceptNull and AcceptUndefined.
func gated(op eng.Op, opts []Option) eng.Spec {
	o := collect(opts)
	return eng.Spec{Op: op, Message: o.message, Config: o.config}
}
