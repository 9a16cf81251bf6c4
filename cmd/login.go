package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newStartCmd(app *app) *cobra.Command {
	var issueID string

	cmd := &cobra.Command{
		Use:   "start",
		Short: "Open the active account, signing in again when needed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer app.finish()

			if err := app.orchestrator.Start(cmd.Context(), issueID); err != nil {
				return err
			}
			return loginIfRequested(cmd, app)
		},
	}

	cmd.Flags().StringVar(&issueID, "issue", "", "Issue to open once the session is ready")

	return cmd
}

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out of the active account and keep the others",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer app.finish()

			if err := bindActiveSession(cmd, app); err != nil {
				return err
			}
			app.orchestrator.LogOut(cmd.Context())
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

// loginIfRequested runs the device login when the last navigation asked for it and
// hands the new credentials to the session.
func loginIfRequested(cmd *cobra.Command, app *app) error {
	route, ok := app.navigator.Last()
	if !ok || route.Kind != domain.RouteLogIn {
		return nil
	}

	ctx := cmd.Context()
	config := app.orchestrator.State().Active.Config
	params, err := app.login.LogIn(ctx, config)
	if errors.Is(err, domain.ErrCanceled) {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Sign-in to %s cancelled.\n", config.BackendURL)
		return nil
	}
	if err != nil {
		return fmt.Errorf("log in to %s: %w", config.BackendURL, err)
	}

	return app.orchestrator.ApplyAuthorization(ctx, params)
}

// bindActiveSession loads the stored accounts and restores the authorization of the
// active one so that server side cleanup can run. A failed restore is not fatal.
func bindActiveSession(cmd *cobra.Command, app *app) error {
	ctx := cmd.Context()
	if err := app.orchestrator.Load(ctx); err != nil {
		return err
	}

	active := app.orchestrator.State().Active
	if !active.HasConfig() || active.AuthParams == nil {
		return nil
	}
	if err := app.orchestrator.InitializeAuth(ctx, active.Config); err != nil {
		app.logger.Warn("restore active account authorization failed",
			slog.String("backend_url", active.Config.BackendURL),
			slog.Any("error", err),
		)
	}
	return nil
}
