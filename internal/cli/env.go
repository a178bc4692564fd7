package cli

import (
	"errors"
	"fmt"
	"sort"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	skema "github.com/reoring/skema"
	"github.com/reoring/skema/envfile"
)

func newEnvCmd(a *app) *cobra.Command {
	var (
		schemaPath string
		files      []string
		processEnv bool
	)
	cmd := &cobra.Command{
		Use:   "env",
		Short: "Validate dotenv files against a schema",
		Long: `Load dotenv files (later files override earlier ones), optionally merge the
process environment, and validate the result as an object named envVars.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSchema(schemaPath, false)
			if err != nil {
				return err
			}
			env, err := envfile.Load(s, envfile.Options{Paths: files, ProcessEnv: processEnv})
			if err != nil {
				var verr *skema.Error
				if errors.As(err, &verr) {
					a.fail("%s", verr.Message)
					return fmt.Errorf("%w: %s", errFailed, verr.Message)
				}
				return err
			}
			if a.jsonOutput() {
				b, err := json.MarshalIndent(env, "", "  ")
				if err != nil {
					return fmt.Errorf("encode environment: %w", err)
				}
				_, err = fmt.Fprintln(a.out, string(b))
				return err
			}
			keys := make([]string, 0, len(env))
			for k := range env {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			a.success("environment is valid (%d variables)", len(keys))
			if a.v.GetBool("verbose") {
				for _, k := range keys {
					fmt.Fprintf(a.out, "  %s=%s\n", k, skema.Display(env[k]))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema file (JSON or YAML)")
	cmd.Flags().StringSliceVarP(&files, "file", "f", nil, "dotenv file (repeatable, default .env)")
	cmd.Flags().BoolVar(&processEnv, "process-env", false, "merge the process environment over the files")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
