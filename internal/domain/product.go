package domain

import "time"

// Product is one storefront catalog entry, cached per process once
// fetched. DisplayPrice is the vendor-localized price string.
type Product struct {
	ID           string
	DisplayPrice string
}

// PurchaseRecord describes a completed or restored transaction. It is
// reported to the host and finalized with the storefront, never persisted.
type PurchaseRecord struct {
	ProductID     string
	TransactionID string
	PurchaseDate  time.Time
}
