package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gtv",
		Short:         "GTV SDK host: sessions, rewarded ads, billing, and attribution from the terminal",
		Long:          "gtv drives the GTV game-services SDK facade: it manages login sessions, keeps the rewarded-ad supply queue filled, runs in-app purchase and restore flows, and forwards attribution events and push topic subscriptions to the configured vendors.",
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

	rootCmd.AddCommand(
		newVersionCmd(),
		newInitCmd(app),
		newLoginCmd(app),
		newLogoutCmd(app),
		newStatusCmd(app),
		newUserInfoCmd(app),
		newProductsCmd(app),
		newPurchaseCmd(app),
		newRestoreCmd(app),
		newAdsCmd(app),
		newTrackCmd(app),
		newPushCmd(app),
	)

	return rootCmd
}
