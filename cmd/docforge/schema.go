package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docforge/pkg/openapi"
)

func newSchemaCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "schema", Short: "Export published schemas as OpenAPI"}

	var (
		format  string
		outFile string
	)
	export := &cobra.Command{
		Use:   "export [template-key]",
		Short: "Describe the generation call of a template as an OpenAPI document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := a.api.FetchSchema(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			doc, err := openapi.Export(schema.TemplateKey, schema.Fields, openapi.Options{Version: schema.Version})
			if err != nil {
				return err
			}
			if err := openapi.Validate(cmd.Context(), doc); err != nil {
				return fmt.Errorf("exported document is invalid: %w", err)
			}
			raw, err := openapi.Marshal(doc, format)
			if err != nil {
				return err
			}
			if outFile == "" {
				_, err = a.stdout(cmd).Write(raw)
				return err
			}
			return os.WriteFile(outFile, raw, 0o644)
		},
	}
	export.Flags().StringVar(&format, "format", "yaml", "document format: yaml|json")
	export.Flags().StringVar(&outFile, "out", "", "output file (stdout if empty)")

	cmd.AddCommand(export)
	return cmd
}
