package cli

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/dsl"
	"github.com/reoring/skema/openapi"
	"github.com/reoring/skema/source"
)

// errFailed is returned when at least one input failed its schema.
var errFailed = errors.New("validation failed")

func newValidateCmd(a *app) *cobra.Command {
	var (
		schemaPath string
		strict     bool
		dupKeys    bool
	)
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate JSON or YAML files against a schema",
		Long: `Validate JSON or YAML documents against a JSON Schema or OpenAPI v3
schema (a Kubernetes CRD is unwrapped to its openAPIV3Schema).`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSchema(schemaPath, strict)
			if err != nil {
				return err
			}
			opt := source.Options{}
			if dupKeys {
				opt.Duplicates = source.DuplicateError
			}
			failed := 0
			reports := make(map[string]skema.Report, len(args))
			for _, path := range args {
				doc, err := source.File(path, opt)
				if err != nil {
					return err
				}
				rep := s.Test(doc)
				reports[path] = rep
				if !rep.PassedAll {
					failed++
				}
				if !a.jsonOutput() {
					a.printReport(path, rep)
				}
			}
			if a.jsonOutput() {
				if err := a.writeReports(reports); err != nil {
					return err
				}
			}
			if failed > 0 {
				return fmt.Errorf("%w: %d of %d files", errFailed, failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema file (JSON or YAML)")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject keys the schema does not declare")
	cmd.Flags().BoolVar(&dupKeys, "duplicate-keys", false, "reject objects with repeated keys, reporting their position")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

// loadSchema imports the schema file, printing import warnings.
func (a *app) loadSchema(path string, strict bool) (dsl.Chain, error) {
	doc, err := source.File(path, source.Options{})
	if err != nil {
		return nil, err
	}
	opts := openapi.Options{}
	if strict {
		opts.Unknown = openapi.UnknownStrict
	}
	s, diag, err := openapi.Import(doc, opts)
	if err != nil {
		return nil, err
	}
	for _, w := range diag.Warnings() {
		a.warn("%s", w)
	}
	return s, nil
}

func (a *app) printReport(path string, rep skema.Report) {
	if rep.PassedAll {
		a.success("%s: %d checks passed", path, rep.Passed)
		return
	}
	a.fail("%s: %d of %d checks failed", path, rep.Failed, rep.TotalTests)
	for _, e := range rep.Errors {
		fmt.Fprintf(a.out, "  - %s (%s)\n", e.Message, e.Type)
	}
}

func (a *app) writeReports(reports map[string]skema.Report) error {
	raw := make(map[string]json.RawMessage, len(reports))
	for path, rep := range reports {
		b, err := rep.JSON()
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		raw[path] = b
	}
	b, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("encode reports: %w", err)
	}
	_, err = fmt.Fprintln(a.out, string(b))
	return err
}
