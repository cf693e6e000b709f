package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gplaydev/gtv-sdk-go/internal/domain"
	"github.com/gplaydev/gtv-sdk-go/internal/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCoordinator(store *fakeStoreClient) (*PurchaseCoordinator, *eventRecorder) {
	bus := NewEventBus()
	recorder := &eventRecorder{}
	bus.Subscribe(recorder.listen)
	return NewPurchaseCoordinator(store, bus, nil), recorder
}

func TestEnsureProductsFetchesMissingAndEmitsBillingConnected(t *testing.T) {
	t.Parallel()

	store := &fakeStoreClient{products: []domain.Product{{ID: "p1", DisplayPrice: "$0.99"}}}
	coordinator, recorder := newCoordinator(store)

	require.NoError(t, coordinator.EnsureProducts(context.Background(), "p1"))

	connected := recorder.named(domain.EventBillingConnected)
	require.Len(t, connected, 1)
	assert.Equal(t, []domain.Product{{ID: "p1", DisplayPrice: "$0.99"}}, connected[0].Payload)

	product, ok := coordinator.Product("p1")
	require.True(t, ok)
	assert.Equal(t, "$0.99", product.DisplayPrice)
}

func TestEnsureProductsSkipsVendorWhenAllCached(t *testing.T) {
	t.Parallel()

	store := &fakeStoreClient{products: []domain.Product{{ID: "p1", DisplayPrice: "$0.99"}}}
	coordinator, recorder := newCoordinator(store)
	ctx := context.Background()

	require.NoError(t, coordinator.EnsureProducts(ctx, "p1"))
	require.NoError(t, coordinator.EnsureProducts(ctx, "p1"))

	assert.Len(t, store.queries, 1)
	assert.Equal(t, 1, recorder.count(domain.EventBillingConnected))
}

func TestEnsureProductsFetchFailureEmitsBillingErrorAndKeepsCatalog(t *testing.T) {
	t.Parallel()

	store := &fakeStoreClient{queryErr: errors.New("store unreachable")}
	coordinator, recorder := newCoordinator(store)

	err := coordinator.EnsureProducts(context.Background(), "p1")

	require.Error(t, err)
	failures := recorder.named(domain.EventBillingError)
	require.Len(t, failures, 1)
	assert.Equal(t, "store unreachable", failures[0].Payload)
	_, ok := coordinator.Product("p1")
	assert.False(t, ok)
}

func TestPurchaseUnknownProductEmitsSingleBillingErrorWithoutVendorCall(t *testing.T) {
	t.Parallel()

	store := &fakeStoreClient{}
	coordinator, recorder := newCoordinator(store)

	err := coordinator.Purchase(context.Background(), "nope")

	require.ErrorIs(t, err, domain.ErrProductNotFound)
	failures := recorder.named(domain.EventBillingError)
	require.Len(t, failures, 1)
	assert.Equal(t, "Product not found", failures[0].Payload)
	assert.Empty(t, store.purchaseCalls())
}

func TestPurchaseVerifiedReportsThenFinalizesOnce(t *testing.T) {
	t.Parallel()

	date := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	record := domain.PurchaseRecord{ProductID: "p1", TransactionID: "txn-1", PurchaseDate: date}
	store := &fakeStoreClient{
		products:    []domain.Product{{ID: "p1", DisplayPrice: "$0.99"}},
		purchaseRes: ports.PurchaseResult{Outcome: ports.PurchaseVerified, Record: record},
	}
	coordinator, recorder := newCoordinator(store)
	ctx := context.Background()

	require.NoError(t, coordinator.EnsureProducts(ctx, "p1"))
	require.NoError(t, coordinator.Purchase(ctx, "p1"))

	updated := recorder.named(domain.EventPurchaseUpdated)
	require.Len(t, updated, 1)
	assert.Equal(t, record, updated[0].Payload)
	assert.Equal(t, []string{"txn-1"}, store.finalizedIDs())
	acked := recorder.named(domain.EventPurchaseAcknowledged)
	require.Len(t, acked, 1)
	assert.Equal(t, "txn-1", acked[0].Payload)
}

func TestPurchaseUnverifiedEmitsBillingErrorAndNeverFinalizes(t *testing.T) {
	t.Parallel()

	store := &fakeStoreClient{
		products: []domain.Product{{ID: "p1", DisplayPrice: "$0.99"}},
		purchaseRes: ports.PurchaseResult{
			Outcome:   ports.PurchaseUnverified,
			Record:    domain.PurchaseRecord{ProductID: "p1", TransactionID: "txn-1"},
			VerifyErr: errors.New("signature mismatch"),
		},
	}
	coordinator, recorder := newCoordinator(store)
	ctx := context.Background()

	require.NoError(t, coordinator.EnsureProducts(ctx, "p1"))
	require.NoError(t, coordinator.Purchase(ctx, "p1"))

	failures := recorder.named(domain.EventBillingError)
	require.Len(t, failures, 1)
	assert.Equal(t, "signature mismatch", failures[0].Payload)
	assert.Empty(t, store.finalizedIDs())
	assert.Zero(t, recorder.count(domain.EventPurchaseUpdated))
}

func TestPurchaseCancelledAndPendingEmitDescriptiveBillingErrors(t *testing.T) {
	t.Parallel()

	for _, tc := range []struct {
		outcome ports.PurchaseOutcome
		want    string
	}{
		{ports.PurchaseCancelled, "User canceled"},
		{ports.PurchasePending, "Purchase pending"},
	} {
		store := &fakeStoreClient{
			products:    []domain.Product{{ID: "p1", DisplayPrice: "$0.99"}},
			purchaseRes: ports.PurchaseResult{Outcome: tc.outcome},
		}
		coordinator, recorder := newCoordinator(store)
		ctx := context.Background()

		require.NoError(t, coordinator.EnsureProducts(ctx, "p1"))
		require.NoError(t, coordinator.Purchase(ctx, "p1"))

		failures := recorder.named(domain.EventBillingError)
		require.Len(t, failures, 1)
		assert.Equal(t, tc.want, failures[0].Payload)
		assert.Empty(t, store.finalizedIDs())
	}
}

func TestPurchaseVendorErrorEmitsBillingError(t *testing.T) {
	t.Parallel()

	store := &fakeStoreClient{
		products:    []domain.Product{{ID: "p1", DisplayPrice: "$0.99"}},
		purchaseErr: errors.New("network down"),
	}
	coordinator, recorder := newCoordinator(store)
	ctx := context.Background()

	require.NoError(t, coordinator.EnsureProducts(ctx, "p1"))
	err := coordinator.Purchase(ctx, "p1")

	require.Error(t, err)
	failures := recorder.named(domain.EventBillingError)
	require.Len(t, failures, 1)
	assert.Equal(t, "network down", failures[0].Payload)
}

func TestRestoreReportsVerifiedAndErrsUnverifiedPerEntry(t *testing.T) {
	t.Parallel()

	verified := domain.PurchaseRecord{ProductID: "pA", TransactionID: "txn-A"}
	store := &fakeStoreClient{entitlements: []ports.Entitlement{
		{Record: verified, Verified: true},
		{Record: domain.PurchaseRecord{ProductID: "pB", TransactionID: "txn-B"}, VerifyErr: errors.New("revoked")},
	}}
	coordinator, recorder := newCoordinator(store)

	require.NoError(t, coordinator.Restore(context.Background()))

	restored := recorder.named(domain.EventPurchasesRestored)
	require.Len(t, restored, 1)
	assert.Equal(t, verified, restored[0].Payload)

	failures := recorder.named(domain.EventBillingError)
	require.Len(t, failures, 1)
	assert.Equal(t, "revoked", failures[0].Payload)

	assert.Equal(t, []string{"txn-A"}, store.finalizedIDs())
	assert.Zero(t, recorder.count(domain.EventPurchaseUpdated))
}

func TestRestoreEnumerationFailureEmitsBillingError(t *testing.T) {
	t.Parallel()

	store := &fakeStoreClient{entErr: errors.New("store offline")}
	coordinator, recorder := newCoordinator(store)

	err := coordinator.Restore(context.Background())

	require.Error(t, err)
	failures := recorder.named(domain.EventBillingError)
	require.Len(t, failures, 1)
	assert.Equal(t, "store offline", failures[0].Payload)
}

func TestFinalizeFailureSkipsAcknowledgement(t *testing.T) {
	t.Parallel()

	store := &fakeStoreClient{
		products: []domain.Product{{ID: "p1", DisplayPrice: "$0.99"}},
		purchaseRes: ports.PurchaseResult{
			Outcome: ports.PurchaseVerified,
			Record:  domain.PurchaseRecord{ProductID: "p1", TransactionID: "txn-1"},
		},
		finalizeErr: errors.New("ack rejected"),
	}
	coordinator, recorder := newCoordinator(store)
	ctx := context.Background()

	require.NoError(t, coordinator.EnsureProducts(ctx, "p1"))
	require.NoError(t, coordinator.Purchase(ctx, "p1"))

	assert.Equal(t, 1, recorder.count(domain.EventPurchaseUpdated))
	assert.Zero(t, recorder.count(domain.EventPurchaseAcknowledged))
}
