package domain

// AdUnit is an opaque handle to one loaded, presentable ad. The supply
// queue owns it until presentation, after which the ad network's display
// lifecycle takes over.
type AdUnit struct {
	ID          string
	PlacementID string
}

// Reward is granted when a rewarded presentation completes.
type Reward struct {
	Type   string
	Amount int64
}
