package cmd

import (
	"fmt"
	"strings"

	"github.com/gplaydev/gtv-sdk-go/internal/ports"
	"github.com/spf13/cobra"
)

func newTrackCmd(app *app) *cobra.Command {
	var params []string
	var amount float64
	var currency string

	cmd := &cobra.Command{
		Use:   "track <event-token>",
		Short: "Forward an attribution event to the analytics vendor",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.startSDK(cmd.Context(), ""); err != nil {
				return err
			}

			event := ports.AttributionEvent{
				Token:      args[0],
				Parameters: parseParams(params),
			}
			if amount != 0 || currency != "" {
				if currency == "" {
					currency = "USD"
				}
				event.Revenue = &ports.Revenue{Amount: amount, Currency: currency}
			}

			app.facade.TrackEvent(cmd.Context(), event)

			_, err := fmt.Fprintf(cmd.OutOrStdout(), "tracked %s\n", event.Token)
			return err
		},
	}

	cmd.Flags().StringArrayVar(&params, "param", nil, "Event parameter as key=value (repeatable)")
	cmd.Flags().Float64Var(&amount, "amount", 0, "Revenue amount")
	cmd.Flags().StringVar(&currency, "currency", "", "Revenue currency code")

	return cmd
}

func parseParams(pairs []string) map[string]string {
	if len(pairs) == 0 {
		return nil
	}

	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			continue
		}
		params[key] = value
	}

	return params
}
