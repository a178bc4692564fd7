// Package envfile loads dotenv files and validates them with a skema chain.
//
// The loaded variables are checked with Test(env, "envVars"); a failure is
// reported with the first error message.
package envfile

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/subosito/gotenv"

	skema "github.com/reoring/skema"
)

// ErrInvalid is returned when the schema does not produce an object. Schema
// failures are *skema.Error values matching skema.ErrValidation.
var ErrInvalid = errors.New("envfile: invalid environment")

// ValueName is the name the environment object is tested under.
const ValueName = "envVars"

// Options configures Load.
type Options struct {
	// Paths are read in order; later files override earlier ones. Empty means
	// ".env". Missing files are skipped.
	Paths []string
	// ProcessEnv merges os.Environ() over the files.
	ProcessEnv bool
	// Export sets the validated values with os.Setenv. Variables already set
	// in the process are kept unless Override is true.
	Export   bool
	Override bool
}

// Read parses dotenv files into a map. Missing files are skipped.
func Read(paths ...string) (map[string]string, error) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	env := map[string]string{}
	for _, p := range paths {
		f, err := os.Open(p)
		if errors.Is(err, os.ErrNotExist) {
			skema.L().Debug("env file not found", "path", p)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("envfile: %w", err)
		}
		vars, err := Parse(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("envfile: %s: %w", p, err)
		}
		for k, v := range vars {
			env[k] = v
		}
	}
	return env, nil
}

// Parse reads dotenv syntax from r.
func Parse(r io.Reader) (map[string]string, error) {
	vars, err := gotenv.StrictParse(r)
	if err != nil {
		return nil, err
	}
	return map[string]string(vars), nil
}

// Load reads the configured files, validates them with s and returns the
// parsed value (with any defaults and conversions applied).
func Load(s skema.Runner, opts Options) (map[string]any, error) {
	vars, err := Read(opts.Paths...)
	if err != nil {
		return nil, err
	}
	if opts.ProcessEnv {
		for _, kv := range os.Environ() {
			if k, v, ok := strings.Cut(kv, "="); ok {
				vars[k] = v
			}
		}
	}
	out, err := Validate(s, vars)
	if err != nil {
		return nil, err
	}
	if opts.Export {
		if err := export(out, opts.Override); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Validate tests vars with s.
func Validate(s skema.Runner, vars map[string]string) (map[string]any, error) {
	env := make(map[string]any, len(vars))
	for k, v := range vars {
		env[k] = v
	}
	rep := s.Test(env, ValueName)
	if !rep.PassedAll {
		return nil, &skema.Error{Message: rep.Errors[0].Message, Errors: rep.Errors}
	}
	out, ok := rep.Value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: schema produced %T, want an object", ErrInvalid, rep.Value)
	}
	return out, nil
}

func export(env map[string]any, override bool) error {
	for k, v := range env {
		if skema.IsUndefined(v) || v == nil {
			continue
		}
		if _, set := os.LookupEnv(k); set && !override {
			continue
		}
		if err := os.Setenv(k, skema.Display(v)); err != nil {
			return fmt.Errorf("envfile: set %s: %w", k, err)
		}
	}
	return nil
}
