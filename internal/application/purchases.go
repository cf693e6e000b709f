package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gplaydev/gtv-sdk-go/internal/domain"
	"github.com/gplaydev/gtv-sdk-go/internal/ports"
)

const (
	userCancelledDescription   = "User canceled"
	purchasePendingDescription = "Purchase pending"
	productNotFoundDescription = "Product not found"
)

// PurchaseCoordinator mediates catalog lookup, purchase initiation,
// verification branching and restoration against the storefront vendor.
// Outcomes reach the host through events; the returned errors mirror them
// for in-process composition. Every transaction reported as successful is
// finalized with the storefront exactly once.
type PurchaseCoordinator struct {
	store ports.StoreClient
	bus   *EventBus
	log   *slog.Logger

	mu      sync.RWMutex
	catalog map[string]domain.Product
}

func NewPurchaseCoordinator(store ports.StoreClient, bus *EventBus, log *slog.Logger) *PurchaseCoordinator {
	if log == nil {
		log = slog.Default()
	}

	return &PurchaseCoordinator{
		store:   store,
		bus:     bus,
		log:     log,
		catalog: make(map[string]domain.Product),
	}
}

// EnsureProducts fetches the ids missing from the cached catalog. Fetched
// entries merge into the catalog and are announced via billing_connected;
// a fetch failure emits billing_error and leaves the catalog unchanged.
// Overlapping calls merge: a later fetch never evicts earlier entries.
func (c *PurchaseCoordinator) EnsureProducts(ctx context.Context, ids ...string) error {
	missing := c.missingIDs(ids)
	if len(missing) == 0 {
		return nil
	}

	fetched, err := c.store.QueryProducts(ctx, missing)
	if err != nil {
		c.bus.Dispatch(domain.EventBillingError, err.Error())
		return fmt.Errorf("query products: %w", err)
	}

	c.mu.Lock()
	for _, product := range fetched {
		c.catalog[product.ID] = product
	}
	c.mu.Unlock()

	c.bus.Dispatch(domain.EventBillingConnected, fetched)

	return nil
}

func (c *PurchaseCoordinator) missingIDs(ids []string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	missing := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := c.catalog[id]; !ok {
			missing = append(missing, id)
		}
	}

	return missing
}

// Product reports the cached catalog entry for id, if any.
func (c *PurchaseCoordinator) Product(id string) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	product, ok := c.catalog[id]
	return product, ok
}

// Catalog returns a snapshot of the cached catalog.
func (c *PurchaseCoordinator) Catalog() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	products := make([]domain.Product, 0, len(c.catalog))
	for _, product := range c.catalog {
		products = append(products, product)
	}

	return products
}

// Purchase initiates a storefront purchase for a cached product. An id
// absent from the catalog emits a single billing_error without contacting
// the vendor. Verified purchases are reported via purchase_updated and
// finalized; unverified, cancelled and pending outcomes emit billing_error
// and are never finalized.
func (c *PurchaseCoordinator) Purchase(ctx context.Context, productID string) error {
	if _, ok := c.Product(productID); !ok {
		c.bus.Dispatch(domain.EventBillingError, productNotFoundDescription)
		return domain.ErrProductNotFound
	}

	result, err := c.store.Purchase(ctx, productID)
	if err != nil {
		c.bus.Dispatch(domain.EventBillingError, err.Error())
		return fmt.Errorf("purchase %q: %w", productID, err)
	}

	switch result.Outcome {
	case ports.PurchaseVerified:
		c.finalizeAndReport(ctx, result.Record, domain.EventPurchaseUpdated)
	case ports.PurchaseUnverified:
		description := "purchase verification failed"
		if result.VerifyErr != nil {
			description = result.VerifyErr.Error()
		}
		c.bus.Dispatch(domain.EventBillingError, description)
	case ports.PurchaseCancelled:
		c.bus.Dispatch(domain.EventBillingError, userCancelledDescription)
	case ports.PurchasePending:
		c.bus.Dispatch(domain.EventBillingError, purchasePendingDescription)
	}

	return nil
}

// Restore replays the storefront's current entitlements. Verified entries
// are reported via purchases_restored and finalized; unverified entries
// emit billing_error per entry. Iteration order is vendor-defined.
func (c *PurchaseCoordinator) Restore(ctx context.Context) error {
	entitlements, err := c.store.CurrentEntitlements(ctx)
	if err != nil {
		c.bus.Dispatch(domain.EventBillingError, err.Error())
		return fmt.Errorf("current entitlements: %w", err)
	}

	for _, entitlement := range entitlements {
		if !entitlement.Verified {
			description := "entitlement verification failed"
			if entitlement.VerifyErr != nil {
				description = entitlement.VerifyErr.Error()
			}
			c.bus.Dispatch(domain.EventBillingError, description)
			continue
		}

		c.finalizeAndReport(ctx, entitlement.Record, domain.EventPurchasesRestored)
	}

	return nil
}

func (c *PurchaseCoordinator) finalizeAndReport(ctx context.Context, record domain.PurchaseRecord, name domain.EventName) {
	c.bus.Dispatch(name, record)

	if err := c.store.Finalize(ctx, record.TransactionID); err != nil {
		c.log.Error("finalize transaction failed",
			"transaction_id", record.TransactionID,
			"product_id", record.ProductID,
			"error", err)
		return
	}

	c.bus.Dispatch(domain.EventPurchaseAcknowledged, record.TransactionID)
}
