package cmd

import (
	"fmt"
	"strconv"

	"github.com/bnema/tracker-accounts-cli/internal/application"
	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newAccountCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}

	cmd.AddCommand(
		newAccountListCmd(app),
		newAccountAddCmd(app),
		newAccountSwitchCmd(app),
		newAccountRemoveCmd(app),
	)

	return cmd
}

func newAccountListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored accounts, the active one first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.orchestrator.Load(cmd.Context()); err != nil {
				return err
			}

			status := app.orchestrator.Status()
			if status.Active != nil {
				writeAccountLine(cmd, "*", *status.Active)
			}
			for _, other := range status.Others {
				writeAccountLine(cmd, " ", other)
			}
			return nil
		},
	}
}

func writeAccountLine(cmd *cobra.Command, marker string, summary application.AccountSummary) {
	user := summary.UserLogin
	if user == "" {
		user = "-"
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d\t%s\t%s\n", marker, summary.CreationTimestamp, summary.BackendURL, user)
}

func newAccountAddCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add <server-url>",
		Short: "Sign in to a server and make the new account active",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer app.finish()

			ctx := cmd.Context()
			if err := app.orchestrator.Load(ctx); err != nil {
				return err
			}

			if !app.orchestrator.State().Active.HasConfig() {
				if err := app.orchestrator.ConnectToServer(ctx, args[0]); err != nil {
					return err
				}
				return loginIfRequested(cmd, app)
			}

			return app.orchestrator.AddAccount(ctx, args[0], func(serverURL string) {
				if serverURL == "" {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Adding account cancelled.")
					return
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Adding account on %s cancelled.\n", serverURL)
			})
		},
	}
}

func newAccountSwitchCmd(app *app) *cobra.Command {
	var (
		dropCurrent bool
		noRollback  bool
		issueID     string
	)

	cmd := &cobra.Command{
		Use:   "switch <creation-timestamp|server-url>",
		Short: "Make a stored account the active one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer app.finish()

			ctx := cmd.Context()
			if err := bindActiveSession(cmd, app); err != nil {
				return err
			}

			target, err := resolveAccount(app.orchestrator.State().Others, args[0])
			if err != nil {
				return err
			}

			if noRollback {
				return app.orchestrator.ChangeAccount(ctx, target, dropCurrent, issueID)
			}
			return app.orchestrator.SwitchAccount(ctx, target, dropCurrent, issueID)
		},
	}

	cmd.Flags().BoolVar(&dropCurrent, "drop-current", false, "Forget the current account instead of keeping it")
	cmd.Flags().BoolVar(&noRollback, "no-rollback", false, "Do not restore the previous account when the switch fails")
	cmd.Flags().StringVar(&issueID, "issue", "", "Issue to open once the account is active")

	return cmd
}

func newAccountRemoveCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "remove",
		Short: "Forget the active account and move to the next one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer app.finish()

			if err := bindActiveSession(cmd, app); err != nil {
				return err
			}
			return app.orchestrator.RemoveAccountOrLogOut(cmd.Context())
		},
	}
}

// resolveAccount finds a stored, non-active account by creation timestamp or by
// backend URL.
func resolveAccount(others domain.AccountList, ref string) (domain.AccountRecord, error) {
	if ts, err := strconv.ParseInt(ref, 10, 64); err == nil {
		if record, ok := others.Find(ts); ok {
			return record, nil
		}
	}
	if record, ok := others.FindByBackendURL(ref); ok {
		return record, nil
	}
	return domain.AccountRecord{}, fmt.Errorf("%w: %s", domain.ErrAccountNotFound, ref)
}
