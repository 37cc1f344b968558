package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docforge/pkg/form"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		dataFile string
		sets     []string
		dir      string
	)
	cmd := &cobra.Command{
		Use:   "generate [template-key]",
		Short: "Generate a document from a JSON file and --set values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			inputs, err := parseSets(sets)
			if err != nil {
				return err
			}
			schema, err := a.api.FetchSchema(cmd.Context(), key)
			if err != nil {
				return err
			}
			f := form.New(schema.Fields)

			if dataFile != "" {
				raw, err := os.ReadFile(dataFile)
				if err != nil {
					return err
				}
				var values map[string]any
				if err := json.Unmarshal(raw, &values); err != nil {
					return fmt.Errorf("decode %s: %w", dataFile, err)
				}
				for name, value := range values {
					if err := f.Set(name, value); err != nil {
						return err
					}
				}
			}
			for name, raw := range inputs {
				if err := f.SetInput(name, raw); err != nil {
					return err
				}
			}

			payload, err := f.Submit()
			if err != nil {
				return err
			}
			return a.writeDocument(cmd.Context(), cmd, key, payload, dir)
		},
	}
	cmd.Flags().StringVar(&dataFile, "data", "", "JSON object with field values")
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field value as name=value (repeatable, wins over --data)")
	cmd.Flags().StringVar(&dir, "dir", ".", "directory for the generated document")
	return cmd
}
