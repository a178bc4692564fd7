package engine

import (
	"context"

	skema "github.com/reoring/skema"
)

func nameOf(valueName []string) string {
	if len(valueName) > 0 {
		return valueName[0]
	}
	return ""
}

// Validate is the boolean execution mode.
func Validate(ctx context.Context, c *Chain, v any, async bool) bool {
	return Run(ctx, c, v, Options{Async: async, FailFast: true}).PassedAll
}

// Test is the report execution mode. It never stops early.
func Test(ctx context.Context, c *Chain, v any, async bool, valueName ...string) skema.Report {
	return Run(ctx, c, v, Options{Name: nameOf(valueName), Async: async})
}

// Parse is the value execution mode.
func Parse(ctx context.Context, c *Chain, v any, async bool, valueName ...string) (any, error) {
	rep := Run(ctx, c, v, Options{Name: nameOf(valueName), Async: async, FailFast: true})
	if !rep.PassedAll {
		return nil, &skema.Error{Message: rep.Errors[0].Message, Errors: rep.Errors}
	}
	return rep.Value, nil
}

// Throw is the error execution mode. newErr builds the returned error.
func Throw(ctx context.Context, c *Chain, v any, async bool, valueName string, newErr skema.ErrorFunc) error {
	if newErr == nil {
		newErr = skema.DefaultErrorFunc
	}
	rep := Run(ctx, c, v, Options{Name: valueName, Async: async, FailFast: true})
	if rep.PassedAll {
		return nil
	}
	return newErr(rep.Errors[0].Message, rep.Errors)
}
