package cmd

import (
	"fmt"
	"time"

	"github.com/gplaydev/gtv-sdk-go/internal/application"
	"github.com/spf13/cobra"
)

const defaultAdPlacement = "rewarded_main"

func newAdsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ads",
		Short: "Drive the rewarded-ad supply queue",
	}

	cmd.AddCommand(newAdsShowCmd(app), newAdsFillCmd(app))

	return cmd
}

func newAdsShowCmd(app *app) *cobra.Command {
	var placement string
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Present the next rewarded ad",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.startSDK(cmd.Context(), placement); err != nil {
				return err
			}

			sub := subscribeEventPrinter(cmd, app.facade)
			defer sub.Cancel()

			waitForAd(app, wait)
			app.facade.ShowRewardedAd(cmd.Context())
			return nil
		},
	}

	cmd.Flags().StringVar(&placement, "placement", defaultAdPlacement, "Rewarded ad placement id")
	cmd.Flags().DurationVar(&wait, "wait", 2*time.Second, "How long to wait for an ad to load before presenting")

	return cmd
}

func newAdsFillCmd(app *app) *cobra.Command {
	var placement string
	var wait time.Duration

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Preload the ad queue and report its depth",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.startSDK(cmd.Context(), placement); err != nil {
				return err
			}

			waitForAd(app, wait)
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "ads ready: %d/%d\n", app.facade.AdQueueDepth(), application.MaxQueuedAds)
			return err
		},
	}

	cmd.Flags().StringVar(&placement, "placement", defaultAdPlacement, "Rewarded ad placement id")
	cmd.Flags().DurationVar(&wait, "wait", 2*time.Second, "How long to wait for the queue to fill")

	return cmd
}

// waitForAd polls until at least one ad is queued or the timeout passes.
// Loading happens on background goroutines, so a freshly configured queue
// needs a moment before the first presentation can succeed.
func waitForAd(app *app, timeout time.Duration) {
	deadline := app.now().Add(timeout)
	for app.facade.AdQueueDepth() == 0 && app.now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
}
