package application

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gplaydev/gtv-sdk-go/internal/domain"
	"github.com/gplaydev/gtv-sdk-go/internal/ports"
)

// MaxQueuedAds bounds the number of pre-loaded ad units held per placement.
const MaxQueuedAds = 2

const noAdAvailableDescription = "No Ad available"

// AdSupplyQueue keeps up to MaxQueuedAds loaded ad units ready for instant
// presentation on a single placement. Loads run in background goroutines;
// the in-flight counter keeps the queue plus pending loads at or under
// capacity.
type AdSupplyQueue struct {
	network ports.AdNetworkClient
	bus     *EventBus
	log     *slog.Logger

	mu          sync.Mutex
	placementID string
	units       []domain.AdUnit
	inFlight    int
}

func NewAdSupplyQueue(network ports.AdNetworkClient, bus *EventBus, log *slog.Logger) *AdSupplyQueue {
	if log == nil {
		log = slog.Default()
	}

	return &AdSupplyQueue{network: network, bus: bus, log: log}
}

// Configure sets the placement and kicks off the initial refill.
func (q *AdSupplyQueue) Configure(ctx context.Context, placementID string) {
	q.mu.Lock()
	q.placementID = placementID
	q.mu.Unlock()

	q.Refill(ctx)
}

// Refill requests one more unit from the ad network unless the queue plus
// in-flight loads are already at capacity. The load completes in the
// background; success appends to the tail and emits ad_loaded, failure
// emits ad_failed with the error description.
func (q *AdSupplyQueue) Refill(ctx context.Context) {
	q.mu.Lock()
	if q.placementID == "" || len(q.units)+q.inFlight >= MaxQueuedAds {
		q.mu.Unlock()
		return
	}
	q.inFlight++
	placementID := q.placementID
	q.mu.Unlock()

	go q.load(ctx, placementID)
}

func (q *AdSupplyQueue) load(ctx context.Context, placementID string) {
	unit, err := q.network.Load(ctx, placementID)

	q.mu.Lock()
	q.inFlight--
	if err == nil {
		q.units = append(q.units, unit)
	}
	q.mu.Unlock()

	if err != nil {
		q.log.Warn("ad load failed", "placement_id", placementID, "error", err)
		q.bus.Dispatch(domain.EventAdFailed, err.Error())
		return
	}

	q.bus.Dispatch(domain.EventAdLoaded, nil)
}

// Take pops the oldest loaded unit. On an empty queue it kicks one refill
// and reports no unit.
func (q *AdSupplyQueue) Take(ctx context.Context) (domain.AdUnit, bool) {
	q.mu.Lock()
	if len(q.units) == 0 {
		q.mu.Unlock()
		q.Refill(ctx)
		return domain.AdUnit{}, false
	}

	unit := q.units[0]
	q.units = q.units[1:]
	q.mu.Unlock()

	return unit, true
}

// Present hands the unit to the ad network and blocks until its display
// lifecycle ends. Close emits ad_closed (or ad_failed on a display error),
// a granted reward emits reward_earned, and a refill is kicked regardless
// of outcome.
func (q *AdSupplyQueue) Present(ctx context.Context, unit domain.AdUnit) error {
	reward, err := q.network.Present(ctx, unit)
	if err != nil {
		q.bus.Dispatch(domain.EventAdFailed, err.Error())
		q.Refill(ctx)
		return err
	}

	if reward != nil {
		q.bus.Dispatch(domain.EventRewardEarned, *reward)
	}
	q.bus.Dispatch(domain.EventAdClosed, nil)
	q.Refill(ctx)

	return nil
}

// ShowRewarded takes the next unit and presents it. With nothing loaded it
// emits an immediate ad_failed while Take's refill runs in the background.
func (q *AdSupplyQueue) ShowRewarded(ctx context.Context) error {
	unit, ok := q.Take(ctx)
	if !ok {
		q.bus.Dispatch(domain.EventAdFailed, noAdAvailableDescription)
		return domain.ErrNoAdAvailable
	}

	return q.Present(ctx, unit)
}

// Len reports the number of loaded units currently queued.
func (q *AdSupplyQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.units)
}

// InFlight reports the number of loads not yet completed.
func (q *AdSupplyQueue) InFlight() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.inFlight
}
