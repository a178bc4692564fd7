package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/skema/dsl"
	"github.com/reoring/skema/jsonschema"
)

func newJSONSchemaCmd(a *app) *cobra.Command {
	var (
		schemaPath string
		strict     bool
	)
	cmd := &cobra.Command{
		Use:   "jsonschema",
		Short: "Print the normalized JSON Schema of a schema file",
		Long: `Import a schema file and print the JSON Schema the engine checks, with
$refs expanded and unsupported keywords dropped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.loadSchema(schemaPath, strict)
			if err != nil {
				return err
			}
			out, err := dsl.JSONSchema(s)
			if err != nil {
				return err
			}
			b, err := jsonschema.Encode(out)
			if err != nil {
				return fmt.Errorf("encode schema: %w", err)
			}
			_, err = fmt.Fprintln(a.out, string(b))
			return err
		},
	}
	cmd.Flags().StringVarP(&schemaPath, "schema", "s", "", "schema file (JSON or YAML)")
	cmd.Flags().BoolVar(&strict, "strict", false, "reject keys the schema does not declare")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}
