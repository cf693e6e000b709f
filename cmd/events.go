package cmd

import (
	"fmt"
	"strings"

	"github.com/gplaydev/gtv-sdk-go/internal/application"
	"github.com/gplaydev/gtv-sdk-go/internal/domain"
	"github.com/spf13/cobra"
)

// subscribeEventPrinter mirrors every dispatched SDK event onto the
// command's output so flows driven from the terminal stay observable.
// Callers cancel the returned subscription when the flow completes.
func subscribeEventPrinter(cmd *cobra.Command, facade *application.SessionFacade) *application.Subscription {
	out := cmd.OutOrStdout()

	return facade.Subscribe(func(event domain.Event) {
		if event.Payload == nil {
			_, _ = fmt.Fprintf(out, "event %s\n", event.Name)
			return
		}
		_, _ = fmt.Fprintf(out, "event %s: %s\n", event.Name, formatPayload(event.Payload))
	})
}

func formatPayload(payload any) string {
	switch p := payload.(type) {
	case string:
		return p
	case domain.Reward:
		return fmt.Sprintf("%d %s", p.Amount, p.Type)
	case domain.PurchaseRecord:
		return fmt.Sprintf("%s (txn %s)", p.ProductID, p.TransactionID)
	case []domain.Product:
		ids := make([]string, 0, len(p))
		for _, product := range p {
			ids = append(ids, product.ID)
		}
		return strings.Join(ids, ", ")
	default:
		return fmt.Sprintf("%v", p)
	}
}
