package engine

import (
	"context"
	"strconv"
	"time"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/i18n"
)

// Options configures one replay.
type Options struct {
	// Name is the value name used in records; empty means "value" and lets
	// object fields use bare keys.
	Name string
	// Async enables asynchronous custom functions.
	Async bool
	// FailFast stops the replay at the first error.
	FailFast bool
}

// run is the per-call execution context. It is never shared between calls.
type run struct {
	ctx       context.Context
	async     bool
	failFast  bool
	successes []skema.Success
	errors    skema.ValidationErrors
	skipped   int
}

// Run replays c against v and returns the full report.
func Run(ctx context.Context, c *Chain, v any, opt Options) skema.Report {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	r := &run{ctx: ctx, async: opt.Async, failFast: opt.FailFast}
	out := r.exec(c, v, opt.Name)
	return skema.Report{
		PassedAll:  len(r.errors) == 0,
		Passed:     len(r.successes),
		Failed:     len(r.errors),
		TotalTests: len(r.successes) + len(r.errors),
		Skipped:    r.skipped,
		Successes:  r.successes,
		Errors:     r.errors,
		Value:      out,
		Time:       time.Since(start).String(),
	}
}

func (r *run) child() *run {
	return &run{ctx: r.ctx, async: r.async, failFast: r.failFast}
}

func (r *run) halted() bool { return r.failFast && len(r.errors) > 0 }

func (r *run) pass(method, name, expect string, received any) {
	r.successes = append(r.successes, skema.Success{
		Method:   method,
		Name:     name,
		Expect:   expect,
		Received: received,
	})
}

// failure describes a failed check before its message is rendered.
type failure struct {
	method   string
	typ      string
	expect   string
	key      string
	data     map[string]string
	template string
}

func (r *run) fail(name string, received any, f failure) {
	data := map[string]string{"valueName": name, "value": skema.Display(received)}
	for k, v := range f.data {
		data[k] = v
	}
	var msg string
	if f.template != "" {
		msg = i18n.Format(f.template, data)
	} else {
		msg = i18n.T(f.key, data)
	}
	r.errors = append(r.errors, skema.ValidationError{
		Method:   f.method,
		Type:     f.typ,
		Name:     name,
		Expect:   f.expect,
		Received: received,
		Message:  msg,
	})
}

func recordName(path string) string {
	if path == "" {
		return "value"
	}
	return path
}

func fieldPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func indexPath(parent string, i int) string {
	return recordName(parent) + "[" + strconv.Itoa(i) + "]"
}
