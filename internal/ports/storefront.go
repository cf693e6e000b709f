package ports

import (
	"context"

	"github.com/gplaydev/gtv-sdk-go/internal/domain"
)

// PurchaseOutcome classifies a storefront purchase attempt.
type PurchaseOutcome string

const (
	PurchaseVerified   PurchaseOutcome = "verified"
	PurchaseUnverified PurchaseOutcome = "unverified"
	PurchaseCancelled  PurchaseOutcome = "cancelled"
	PurchasePending    PurchaseOutcome = "pending"
)

// PurchaseResult carries the outcome of one purchase attempt. Record is
// populated for verified and unverified outcomes; VerifyErr describes why
// verification failed for unverified ones.
type PurchaseResult struct {
	Outcome   PurchaseOutcome
	Record    domain.PurchaseRecord
	VerifyErr error
}

// Entitlement is one currently valid purchase as known to the storefront.
type Entitlement struct {
	Record    domain.PurchaseRecord
	Verified  bool
	VerifyErr error
}

// StoreClient is the boundary to the storefront vendor.
type StoreClient interface {
	QueryProducts(ctx context.Context, ids []string) ([]domain.Product, error)
	Purchase(ctx context.Context, productID string) (PurchaseResult, error)
	// CurrentEntitlements enumerates entitlements in vendor-defined order.
	CurrentEntitlements(ctx context.Context) ([]Entitlement, error)
	// Finalize acknowledges a delivered transaction with the storefront.
	Finalize(ctx context.Context, transactionID string) error
}
