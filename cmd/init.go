package cmd

import (
	"fmt"

	"github.com/gplaydev/gtv-sdk-go/internal/application"
	"github.com/spf13/cobra"
)

func newInitCmd(app *app) *cobra.Command {
	var clientID string
	var attributionToken string
	var environment string
	var placement string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Configure the SDK client and bring up vendor integrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := application.Config{
				ClientID:         clientID,
				AttributionToken: firstNonEmpty(attributionToken, app.sdkConfig.AttributionToken),
				Environment:      firstNonEmpty(environment, app.sdkConfig.Environment),
				AdPlacementID:    firstNonEmpty(placement, app.sdkConfig.AdPlacementID),
			}
			if err := app.facade.Init(cmd.Context(), cfg); err != nil {
				return fmt.Errorf("initialize sdk: %w", err)
			}

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Initialized client %s (environment %s)\n", clientID, cfg.Environment)
			return err
		},
	}

	cmd.Flags().StringVar(&clientID, "client-id", "", "SDK client identifier")
	cmd.Flags().StringVar(&attributionToken, "attribution-token", "", "Attribution app token")
	cmd.Flags().StringVar(&environment, "environment", "", "Attribution environment (sandbox|production)")
	cmd.Flags().StringVar(&placement, "placement", "", "Rewarded ad placement id")
	_ = cmd.MarkFlagRequired("client-id")

	return cmd
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}
