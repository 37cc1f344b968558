package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "docforge",
		Short:         "Manage document templates and fill them in",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "dotenv file to read (default .env when present)")
	rootCmd.PersistentFlags().StringVar(&a.apiBase, "api-base", "", "REST API base URL (overrides DOCFORGE_API_BASE)")
	rootCmd.PersistentFlags().StringVar(&a.token, "token", "", "bearer token (overrides DOCFORGE_TOKEN)")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", outputTable, "output format: table|json")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		newTemplatesCmd(a),
		newVersionsCmd(a),
		newFieldsCmd(a),
		newPublishCmd(a),
		newCatalogCmd(a),
		newFormCmd(a),
		newGenerateCmd(a),
		newSchemaCmd(a),
		newWizardCmd(a),
		newServeCmd(a),
	)
	return rootCmd
}
