package ports

import "context"

// Revenue attaches a monetary value to a tracked event.
type Revenue struct {
	Amount   float64
	Currency string
}

// AttributionEvent is one event forwarded to the attribution vendor.
type AttributionEvent struct {
	Token      string
	Parameters map[string]string
	Revenue    *Revenue
}

// AttributionClient is the boundary to the attribution/analytics vendor.
type AttributionClient interface {
	Init(ctx context.Context, appToken, environment string) error
	TrackEvent(ctx context.Context, event AttributionEvent) error
}
