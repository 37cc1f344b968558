package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docforge/pkg/editor"
)

func newTemplatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "templates", Short: "List and archive templates"}

	list := &cobra.Command{
		Use:   "list",
		Short: "List all templates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list := editor.NewTemplates(a.api, editor.WithLogger(a.log))
			if err := list.Load(cmd.Context()); err != nil {
				return err
			}
			return a.printOutput(a.stdout(cmd), list.Items())
		},
	}

	var yes bool
	toggle := func(use, short string, archive bool) *cobra.Command {
		c := &cobra.Command{
			Use:   use + " [template-id]",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				list := editor.NewTemplates(a.api, editor.WithConfirmer(a.confirm(yes)), editor.WithLogger(a.log))
				call := list.Unarchive
				if archive {
					call = list.Archive
				}
				sent, err := call(cmd.Context(), id)
				if err != nil {
					return err
				}
				return a.report(cmd, sent, list.Note())
			},
		}
		c.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
		return c
	}

	cmd.AddCommand(list,
		toggle("archive", "Move a template to the archive", true),
		toggle("unarchive", "Restore a template from the archive", false),
	)
	return cmd
}

func newVersionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "versions", Short: "List and archive template versions"}

	list := &cobra.Command{
		Use:   "list [template-id]",
		Short: "List the versions of a template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			versions, err := editor.NewTemplates(a.api, editor.WithLogger(a.log)).Versions(cmd.Context(), id, true)
			if err != nil {
				return err
			}
			return a.printOutput(a.stdout(cmd), versions)
		},
	}

	var yes bool
	toggle := func(use, short string, archive bool) *cobra.Command {
		c := &cobra.Command{
			Use:   use + " [template-id] [version]",
			Short: short,
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, version, err := parseVersionArgs(args)
				if err != nil {
					return err
				}
				s := editor.NewSession(a.api, id, editor.WithConfirmer(a.confirm(yes)), editor.WithLogger(a.log))
				call := s.Unarchive
				if archive {
					call = s.Archive
				}
				sent, err := call(cmd.Context(), version)
				if err != nil {
					return err
				}
				return a.report(cmd, sent, s.Note())
			},
		}
		c.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
		return c
	}

	cmd.AddCommand(list,
		toggle("archive", "Archive a version", true),
		toggle("unarchive", "Restore an archived version", false),
	)
	return cmd
}

func newPublishCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "publish [template-id] [version]",
		Short: "Publish a template version",
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
			if err := s.Publish(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout(cmd), s.Note())
			return nil
		},
	}
}

// confirm returns the prompt driven confirmer, or one that always agrees.
func (a *app) confirm(yes bool) editor.Confirmer {
	if yes {
		return editor.ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })
	}
	return a.confirmer()
}

// openSession loads the version list of templateID and opens version.
func (a *app) openSession(ctx context.Context, templateID int64, version int, yes bool) (*editor.Session, error) {
	s := editor.NewSession(a.api, templateID, editor.WithConfirmer(a.confirm(yes)), editor.WithLogger(a.log))
	if err := s.LoadVersions(ctx); err != nil {
		return nil, err
	}
	if err := s.OpenVersion(ctx, version); err != nil {
		return nil, err
	}
	return s, nil
}

func (a *app) report(cmd *cobra.Command, sent bool, note string) error {
	if !sent {
		fmt.Fprintln(a.stdout(cmd), "Cancelled")
		return nil
	}
	fmt.Fprintln(a.stdout(cmd), note)
	return nil
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid template id %q", raw)
	}
	return id, nil
}

func parseVersionArgs(args []string) (int64, int, error) {
	id, err := parseID(args[0])
	if err != nil {
		return 0, 0, err
	}
	version, err := strconv.Atoi(args[1])
	if err != nil || version <= 0 {
		return 0, 0, fmt.Errorf("invalid version %q", args[1])
	}
	return id, version, nil
}
