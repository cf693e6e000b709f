package sim

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/gplaydev/gtv-sdk-go/internal/domain"
	"github.com/gplaydev/gtv-sdk-go/internal/ports"
)

// StorefrontOptions seed the simulated storefront.
type StorefrontOptions struct {
	// Catalog maps product id to localized display price.
	Catalog map[string]string
	// Outcomes overrides the purchase outcome per product id; products
	// not listed purchase as verified.
	Outcomes map[string]ports.PurchaseOutcome
	Clock    ports.Clock
	Logger   *slog.Logger
}

type Storefront struct {
	catalog  map[string]domain.Product
	outcomes map[string]ports.PurchaseOutcome
	clock    ports.Clock
	log      *slog.Logger

	mu        sync.Mutex
	owned     []domain.PurchaseRecord
	finalized map[string]int
}

var _ ports.StoreClient = (*Storefront)(nil)

func NewStorefront(opts StorefrontOptions) *Storefront {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = ports.SystemClock{}
	}

	catalog := make(map[string]domain.Product, len(opts.Catalog))
	for id, price := range opts.Catalog {
		catalog[id] = domain.Product{ID: id, DisplayPrice: price}
	}

	return &Storefront{
		catalog:   catalog,
		outcomes:  opts.Outcomes,
		clock:     clock,
		log:       log,
		finalized: make(map[string]int),
	}
}

func (s *Storefront) QueryProducts(_ context.Context, ids []string) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		if product, ok := s.catalog[id]; ok {
			products = append(products, product)
		}
	}

	return products, nil
}

func (s *Storefront) Purchase(_ context.Context, productID string) (ports.PurchaseResult, error) {
	if _, ok := s.catalog[productID]; !ok {
		return ports.PurchaseResult{}, fmt.Errorf("unknown product %q", productID)
	}

	outcome := ports.PurchaseVerified
	if s.outcomes != nil {
		if configured, ok := s.outcomes[productID]; ok {
			outcome = configured
		}
	}

	record := domain.PurchaseRecord{
		ProductID:     productID,
		TransactionID: uuid.NewString(),
		PurchaseDate:  s.clock.Now(),
	}

	result := ports.PurchaseResult{Outcome: outcome}
	switch outcome {
	case ports.PurchaseVerified:
		result.Record = record
		s.mu.Lock()
		s.owned = append(s.owned, record)
		s.mu.Unlock()
	case ports.PurchaseUnverified:
		result.Record = record
		result.VerifyErr = errors.New("receipt verification failed")
	}

	s.log.Debug("simulated purchase", "product_id", productID, "outcome", string(outcome))

	return result, nil
}

func (s *Storefront) CurrentEntitlements(_ context.Context) ([]ports.Entitlement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entitlements := make([]ports.Entitlement, 0, len(s.owned))
	for _, record := range s.owned {
		entitlements = append(entitlements, ports.Entitlement{Record: record, Verified: true})
	}

	return entitlements, nil
}

func (s *Storefront) Finalize(_ context.Context, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.finalized[transactionID]++
	if s.finalized[transactionID] > 1 {
		return fmt.Errorf("transaction %q already finalized", transactionID)
	}

	return nil
}

// FinalizeCount reports how often a transaction was acknowledged.
func (s *Storefront) FinalizeCount(transactionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalized[transactionID]
}
