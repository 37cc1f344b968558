package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docforge/pkg/editor"
	"github.com/goliatone/go-docforge/pkg/fielddef"
	"github.com/goliatone/go-docforge/pkg/openapi"
)

func newFieldsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "fields", Short: "Show and edit the field schema of a template version"}

	show := &cobra.Command{
		Use:   "show [template-id] [version]",
		Short: "Print the fields of a version",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, version, err := parseVersionArgs(args)
			if err != nil {
				return err
			}
			fields, err := a.api.VersionFields(cmd.Context(), id, version)
			if err != nil {
				return err
			}
			return a.printOutput(a.stdout(cmd), fields)
		},
	}

	edit := &cobra.Command{
		Use:   "edit [template-id] [version]",
		Short: "Edit the fields of a version interactively",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, version, err := parseVersionArgs(args)
			if err != nil {
				return err
			}
			s, err := a.openSession(cmd.Context(), id, version, false)
			if err != nil {
				return err
			}
			return newFieldEditor(s, a.driver).run(cmd.Context())
		},
	}

	var (
		file      string
		spec      string
		operation string
		publish   bool
	)
	load := &cobra.Command{
		Use:   "load [template-id] [version]",
		Short: "Replace the fields of a version from a file or an OpenAPI operation",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, version, err := parseVersionArgs(args)
			if err != nil {
				return err
			}
			var fields []fielddef.FieldDef
			switch {
			case file != "" && spec != "":
				return fmt.Errorf("use either --file or --openapi")
			case file != "":
				fields, err = fielddef.LoadFile(file)
			case spec != "":
				fields, err = openapi.ImportFile(cmd.Context(), spec, operation)
			default:
				return fmt.Errorf("one of --file or --openapi is required")
			}
			if err != nil {
				return err
			}

			s, err := a.openSession(cmd.Context(), id, version, true)
			if err != nil {
				return err
			}
			if err := s.Edit(func(e *editor.Editor) error {
				e.Replace(fields)
				return nil
			}); err != nil {
				return err
			}
			if err := s.Save(cmd.Context()); err != nil {
				return err
			}
			if publish {
				if err := s.Publish(cmd.Context()); err != nil {
					return err
				}
			}
			fmt.Fprintf(a.stdout(cmd), "%s (%d fields)\n", s.Note(), len(fields))
			return nil
		},
	}
	load.Flags().StringVar(&file, "file", "", "field definitions as JSON or YAML")
	load.Flags().StringVar(&spec, "openapi", "", "OpenAPI document path or URL")
	load.Flags().StringVar(&operation, "operation", "", "operation id to import (the only operation when empty)")
	load.Flags().BoolVar(&publish, "publish", false, "publish the version after saving")

	var outFile string
	export := &cobra.Command{
		Use:   "export [template-id] [version]",
		Short: "Write the fields of a version to a JSON or YAML file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, version, err := parseVersionArgs(args)
			if err != nil {
				return err
			}
			fields, err := a.api.VersionFields(cmd.Context(), id, version)
			if err != nil {
				return err
			}
			if err := fielddef.SaveFile(outFile, fields); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout(cmd), "Wrote %d fields to %s\n", len(fields), outFile)
			return nil
		},
	}
	export.Flags().StringVar(&outFile, "file", "", "destination file (.json, .yaml or .yml)")
	mustFlag(export, "file")

	cmd.AddCommand(show, edit, load, export)
	return cmd
}

// mustFlag marks a flag as required and panics on error.
func mustFlag(cmd *cobra.Command, name string) {
	cobra.CheckErr(cmd.MarkFlagRequired(name))
}
