package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newProductsCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "products <product-id>...",
		Short: "Fetch product details into the catalog cache",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.startSDK(cmd.Context(), ""); err != nil {
				return err
			}

			sub := subscribeEventPrinter(cmd, app.facade)
			defer sub.Cancel()

			if err := app.purchases.EnsureProducts(cmd.Context(), args...); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, product := range app.purchases.Catalog() {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", product.ID, product.DisplayPrice)
			}
			return w.Flush()
		},
	}

	return cmd
}

func newPurchaseCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purchase <product-id>",
		Short: "Buy a product and report the outcome",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.startSDK(cmd.Context(), ""); err != nil {
				return err
			}

			sub := subscribeEventPrinter(cmd, app.facade)
			defer sub.Cancel()

			app.facade.PurchaseProduct(cmd.Context(), args[0])
			return nil
		},
	}

	return cmd
}

func newRestoreCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "restore",
		Short: "Restore previously purchased entitlements",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := app.startSDK(cmd.Context(), ""); err != nil {
				return err
			}

			sub := subscribeEventPrinter(cmd, app.facade)
			defer sub.Cancel()

			app.facade.RestorePurchases(cmd.Context())
			return nil
		},
	}
}
