package sim

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/gplaydev/gtv-sdk-go/internal/ports"
)

// Attribution is a log-only attribution client. Environment names follow
// the vendor convention: "sandbox" and "production" are recognized,
// anything else falls back to production.
type Attribution struct {
	log *slog.Logger

	mu          sync.Mutex
	environment string
	tracked     []ports.AttributionEvent
}

var _ ports.AttributionClient = (*Attribution)(nil)

func NewAttribution(log *slog.Logger) *Attribution {
	if log == nil {
		log = slog.Default()
	}
	return &Attribution{log: log}
}

func NormalizeEnvironment(environment string) string {
	switch strings.ToLower(environment) {
	case "sandbox":
		return "sandbox"
	default:
		return "production"
	}
}

func (a *Attribution) Init(_ context.Context, appToken, environment string) error {
	normalized := NormalizeEnvironment(environment)

	a.mu.Lock()
	a.environment = normalized
	a.mu.Unlock()

	a.log.Info("attribution initialized", "app_token", appToken, "environment", normalized)

	return nil
}

func (a *Attribution) TrackEvent(_ context.Context, event ports.AttributionEvent) error {
	a.mu.Lock()
	a.tracked = append(a.tracked, event)
	a.mu.Unlock()

	attrs := []any{"event_token", event.Token}
	if event.Revenue != nil {
		attrs = append(attrs, "amount", event.Revenue.Amount, "currency", event.Revenue.Currency)
	}
	a.log.Info("attribution event tracked", attrs...)

	return nil
}

// Tracked returns the events forwarded so far.
func (a *Attribution) Tracked() []ports.AttributionEvent {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]ports.AttributionEvent, len(a.tracked))
	copy(out, a.tracked)
	return out
}
