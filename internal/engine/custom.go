package engine

import skema "github.com/reoring/skema"

type customState int

const (
	customPending customState = iota
	customSucceeded
	customFailed
)

// CustomContext is handed to custom functions. Exactly one of Success or
// Failed must be called.
type CustomContext struct {
	// Value is the current value of the replay.
	Value any
	// Name is the value name used in records.
	Name string

	state   customState
	result  any
	message string
}

// Success replaces the current value with v.
func (c *CustomContext) Success(v any) {
	c.settle()
	c.state, c.result = customSucceeded, v
}

// Failed records a validation error. msg may use the [valueName] and [value]
// placeholders; an empty msg selects the default custom message.
func (c *CustomContext) Failed(msg string) {
	c.settle()
	c.state, c.message = customFailed, msg
}

func (c *CustomContext) settle() {
	if c.state != customPending {
		skema.PanicConfig("custom", "Success or Failed called more than once")
	}
}
