package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docforge/pkg/catalog"
)

func newCatalogCmd(a *app) *cobra.Command {
	var filter catalog.Filter
	var locales bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Browse the published template catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := a.api.Catalog(cmd.Context())
			if err != nil {
				return err
			}
			if locales {
				fmt.Fprintln(a.stdout(cmd), strings.Join(catalog.Locales(items), "\n"))
				return nil
			}
			return a.printOutput(a.stdout(cmd), catalog.Apply(items, filter))
		},
	}
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "match title, key or locale")
	cmd.Flags().StringVar(&filter.Locale, "locale", catalog.All, "locale to show")
	cmd.Flags().StringVar(&filter.Status, "status", catalog.All, "status to show")
	cmd.Flags().BoolVar(&locales, "locales", false, "list the locales present in the catalog")
	return cmd
}
