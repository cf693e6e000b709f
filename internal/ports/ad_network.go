package ports

import (
	"context"

	"github.com/gplaydev/gtv-sdk-go/internal/domain"
)

// AdNetworkClient is the boundary to the ad mediation vendor. Load blocks
// until the vendor delivers one presentable unit or fails; Present blocks
// until the unit's display lifecycle ends (dismissal or display error) and
// reports the granted reward, if any.
type AdNetworkClient interface {
	Load(ctx context.Context, placementID string) (domain.AdUnit, error)
	Present(ctx context.Context, unit domain.AdUnit) (*domain.Reward, error)
}
