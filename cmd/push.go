package cmd

import (
	"log/slog"

	"github.com/bnema/tracker-accounts-cli/internal/application"
	"github.com/bnema/tracker-accounts-cli/internal/domain"
	"github.com/spf13/cobra"
)

func newPushCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Handle push notifications",
	}

	cmd.AddCommand(newPushOpenCmd(app))

	return cmd
}

func newPushOpenCmd(app *app) *cobra.Command {
	var payload domain.PushPayload

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a notification, switching to the account it belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer app.finish()

			ctx := cmd.Context()
			registrar := app.orchestrator.PushRegistrar()
			if registrar == nil {
				return app.orchestrator.OpenFromNotification(ctx, payload.BackendURL, payload.IssueID)
			}

			if err := app.orchestrator.Start(ctx, payload.IssueID); err != nil {
				return err
			}
			// Registration runs in the background after start.
			app.orchestrator.Wait()

			if registrar.State() == application.PushRegistered {
				return registrar.Deliver(ctx, payload)
			}

			active := app.orchestrator.State().Active
			if payload.BackendURL == "" || domain.SameBackend(active.Config.BackendURL, payload.BackendURL) {
				return nil
			}
			app.logger.Debug("push delivery not registered, switching directly", slog.String("backend_url", payload.BackendURL))
			return app.orchestrator.OnAccountSwitch(ctx, payload.BackendURL, payload.IssueID)
		},
	}

	cmd.Flags().StringVar(&payload.BackendURL, "backend-url", "", "Server the notification came from")
	cmd.Flags().StringVar(&payload.IssueID, "issue", "", "Issue the notification is about")

	return cmd
}
