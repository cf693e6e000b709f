package cmd

import (
	"encoding/json"
	"fmt"

	statusadapter "github.com/gplaydev/gtv-sdk-go/internal/adapters/render/status"
	"github.com/gplaydev/gtv-sdk-go/internal/application"
	"github.com/spf13/cobra"
)

func newStatusCmd(app *app) *cobra.Command {
	var asJSON bool
	var showCatalog bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the current session snapshot",
		RunE: func(cmd *cobra.Command, _ []string) error {
			snapshot := statusadapter.Snapshot{
				ClientID:     app.facade.ClientID(),
				Status:       app.facade.Status(),
				TokenPresent: app.facade.Token() != "",
				AdQueueDepth: app.facade.AdQueueDepth(),
				AdCapacity:   application.MaxQueuedAds,
				Catalog:      app.facade.Catalog(),
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(snapshot)
			}

			rendered, err := app.statusRenderer(snapshot, statusadapter.RenderOptions{ShowCatalog: showCatalog})
			if err != nil {
				return fmt.Errorf("render status: %w", err)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), rendered)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON output")
	cmd.Flags().BoolVar(&showCatalog, "catalog", false, "Include the cached product catalog")

	return cmd
}
