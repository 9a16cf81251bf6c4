package cmd

import (
	"errors"
	"fmt"

	"github.com/bnema/tracker-accounts-cli/internal/application"
	"github.com/spf13/cobra"
)

func newAgreementCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agreement",
		Short: "Answer the user agreement of the active server",
	}

	cmd.AddCommand(
		newAgreementAnswerCmd(app, "accept", "Accept the user agreement and finish opening the session", true),
		newAgreementAnswerCmd(app, "decline", "Decline the user agreement and sign out", false),
	)

	return cmd
}

func newAgreementAnswerCmd(app *app, use, short string, accept bool) *cobra.Command {
	var issueID string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer app.finish()

			ctx := cmd.Context()
			if err := app.orchestrator.Start(ctx, issueID); err != nil {
				return err
			}

			var err error
			if accept {
				err = app.orchestrator.AcceptUserAgreement(ctx)
			} else {
				err = app.orchestrator.DeclineUserAgreement(ctx)
			}
			if errors.Is(err, application.ErrNoPendingAgreement) {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "No user agreement is pending.")
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&issueID, "issue", "", "Issue to open once the session is ready")

	return cmd
}
