package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-docforge/pkg/wizard"
)

func newWizardCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "wizard", Short: "Create a business plan with the guided questionnaire"}

	var info wizard.StartInfo
	start := &cobra.Command{
		Use:   "start",
		Short: "Start a new business plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, release, err := a.openWizard()
			if err != nil {
				return err
			}
			defer release()
			s, err := w.Start(cmd.Context(), info)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout(cmd), "Session %s\n", s.ID)
			return a.runWizard(cmd, w, s)
		},
	}
	start.Flags().StringVar(&info.Industry, "industry", "", "industry of the business")
	start.Flags().StringVar(&info.Country, "country", "", "country the business operates in")

	resume := &cobra.Command{
		Use:   "resume [session-id]",
		Short: "Continue a saved questionnaire",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, release, err := a.openWizard()
			if err != nil {
				return err
			}
			defer release()
			s, err := w.Resume(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.runWizard(cmd, w, s)
		},
	}

	var draftID, sessionID string
	resolve := func(cmd *cobra.Command, w *wizard.Wizard) (string, error) {
		return w.ResolveDraft(cmd.Context(), draftID, sessionID)
	}
	draftFlags := func(c *cobra.Command) {
		c.Flags().StringVar(&draftID, "draft", "", "draft id")
		c.Flags().StringVar(&sessionID, "session", "", "take the last draft of this wizard session")
	}

	preview := &cobra.Command{
		Use:   "preview",
		Short: "Show the generated draft before payment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, release, err := a.openWizard()
			if err != nil {
				return err
			}
			defer release()
			id, err := resolve(cmd, w)
			if err != nil {
				return err
			}
			p, err := w.Preview(cmd.Context(), id)
			if err != nil {
				return err
			}
			return a.printOutput(a.stdout(cmd), p)
		},
	}
	draftFlags(preview)

	checkout := &cobra.Command{
		Use:   "checkout",
		Short: "Start the payment for a draft and print the checkout URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, release, err := a.openWizard()
			if err != nil {
				return err
			}
			defer release()
			id, err := resolve(cmd, w)
			if err != nil {
				return err
			}
			url, err := w.Checkout(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout(cmd), url)
			return nil
		},
	}
	draftFlags(checkout)

	verify := &cobra.Command{
		Use:   "verify [payment-session-id]",
		Short: "Confirm a payment and print the download link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w, _, release, err := a.openWizard()
			if err != nil {
				return err
			}
			defer release()
			v, err := w.Verify(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printOutput(a.stdout(cmd), v)
		},
	}

	purge := &cobra.Command{
		Use:   "purge",
		Short: "Delete expired wizard sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, store, release, err := a.openWizard()
			if err != nil {
				return err
			}
			defer release()
			n, err := store.Purge(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout(cmd), "Removed %d expired sessions\n", n)
			return nil
		},
	}

	cmd.AddCommand(start, resume, preview, checkout, verify, purge)
	return cmd
}

func (a *app) runWizard(cmd *cobra.Command, w *wizard.Wizard, s *wizard.Session) error {
	draftID, err := wizard.NewRunner(w, a.driver).Run(cmd.Context(), s)
	if err != nil {
		if a.cfg.SessionDB != "" {
			fmt.Fprintf(a.stdout(cmd), "Answers saved. Continue with: docforge wizard resume %s\n", s.ID)
		}
		return err
	}
	p, err := w.Preview(cmd.Context(), draftID)
	if err != nil {
		fmt.Fprintf(a.stdout(cmd), "Draft %s created\n", draftID)
		return err
	}
	return a.printOutput(a.stdout(cmd), p)
}
