package cmd

import "github.com/spf13/cobra"

func newLogoutCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the persisted session token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			sub := subscribeEventPrinter(cmd, app.facade)
			defer sub.Cancel()

			app.facade.Logout()
			return nil
		},
	}
}
