package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ta",
		Short:         "Tracker Accounts CLI (ta): keep several issue tracker accounts signed in",
		Long:          "ta (Tracker Accounts CLI) stores the accounts you use on one or more issue tracker servers, keeps their authorization fresh, and switches the active account with rollback when the switch fails.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, _ []string) {
		app.console.bind(cmd.ErrOrStderr())
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newAccountCmd(app),
		newLogoutCmd(app),
		newStatusCmd(app),
		newAgreementCmd(app),
		newPermissionsCmd(app),
		newPushCmd(app),
		newStartCmd(app),
	)

	return rootCmd
}
