// Package sim provides in-process stand-ins for the vendor SDK
// boundaries so the CLI host runs end-to-end without real ad, store,
// attribution or push backends.
package sim

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gplaydev/gtv-sdk-go/internal/domain"
	"github.com/gplaydev/gtv-sdk-go/internal/ports"
)

// AdNetworkOptions tune the simulated mediation behavior.
type AdNetworkOptions struct {
	// LoadDelay is applied to every Load call.
	LoadDelay time.Duration
	// FailEveryN makes every Nth Load report a no-fill error. Zero
	// disables failures.
	FailEveryN int
	// Reward granted after each completed presentation.
	Reward domain.Reward
	Logger *slog.Logger
}

type AdNetwork struct {
	opts AdNetworkOptions
	log  *slog.Logger

	mu    sync.Mutex
	loads int
}

var _ ports.AdNetworkClient = (*AdNetwork)(nil)

var errNoFill = errors.New("no fill")

func NewAdNetwork(opts AdNetworkOptions) *AdNetwork {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	if opts.Reward == (domain.Reward{}) {
		opts.Reward = domain.Reward{Type: "coins", Amount: 10}
	}

	return &AdNetwork{opts: opts, log: log}
}

func (n *AdNetwork) Load(ctx context.Context, placementID string) (domain.AdUnit, error) {
	if n.opts.LoadDelay > 0 {
		select {
		case <-time.After(n.opts.LoadDelay):
		case <-ctx.Done():
			return domain.AdUnit{}, ctx.Err()
		}
	}

	n.mu.Lock()
	n.loads++
	loads := n.loads
	n.mu.Unlock()

	if n.opts.FailEveryN > 0 && loads%n.opts.FailEveryN == 0 {
		return domain.AdUnit{}, errNoFill
	}

	unit := domain.AdUnit{ID: uuid.NewString(), PlacementID: placementID}
	n.log.Debug("simulated ad loaded", "unit_id", unit.ID, "placement_id", placementID)

	return unit, nil
}

func (n *AdNetwork) Present(_ context.Context, unit domain.AdUnit) (*domain.Reward, error) {
	n.log.Debug("simulated ad presented", "unit_id", unit.ID)
	reward := n.opts.Reward
	return &reward, nil
}
