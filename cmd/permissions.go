package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errPermissionDenied = errors.New("permission not granted")

func newPermissionsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "permissions",
		Short: "Inspect the cached permissions of the active account",
	}

	cmd.AddCommand(newPermissionsCheckCmd(app), newPermissionsListCmd(app))

	return cmd
}

func newPermissionsCheckCmd(app *app) *cobra.Command {
	var projectID string

	cmd := &cobra.Command{
		Use:   "check <permission>",
		Short: "Exit non-zero unless the active account holds the permission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.orchestrator.Load(cmd.Context()); err != nil {
				return err
			}

			if !app.orchestrator.HasPermission(args[0], projectID) {
				return fmt.Errorf("%w: %s", errPermissionDenied, args[0])
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "granted")
			return nil
		},
	}

	cmd.Flags().StringVar(&projectID, "project", "", "Project id; empty only matches global grants")

	return cmd
}

func newPermissionsListCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the cached permissions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.orchestrator.Load(cmd.Context()); err != nil {
				return err
			}

			for _, item := range app.orchestrator.State().Active.Permissions {
				scope := "global"
				if !item.Global() {
					scope = *item.ProjectID
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", item.Permission, scope)
			}
			return nil
		},
	}
}
