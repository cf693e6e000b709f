package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newUserInfoCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "userinfo [field...]",
		Short: "Fetch profile fields for the logged-in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := app.facade.UserInfo(cmd.Context(), args...)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
}
