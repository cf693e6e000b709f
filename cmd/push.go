package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPushCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Manage push notification topics",
	}

	cmd.AddCommand(newPushSubscribeCmd(app), newPushUnsubscribeCmd(app))

	return cmd
}

func newPushSubscribeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <topic>",
		Short: "Subscribe to a push topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.startSDK(cmd.Context(), ""); err != nil {
				return err
			}

			app.facade.SubscribeTopic(cmd.Context(), args[0])
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "subscribed to %s\n", args[0])
			return err
		},
	}
}

func newPushUnsubscribeCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "unsubscribe <topic>",
		Short: "Unsubscribe from a push topic",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.startSDK(cmd.Context(), ""); err != nil {
				return err
			}

			app.facade.UnsubscribeTopic(cmd.Context(), args[0])
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "unsubscribed from %s\n", args[0])
			return err
		},
	}
}
