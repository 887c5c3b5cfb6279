package pricing

import (
	"context"
	"time"

	"github.com/richxcame/carwash-booking/internal/catalog"
	"github.com/richxcame/carwash-booking/pkg/geo"
	"github.com/shopspring/decimal"
)

// Catalog is the catalog read contract the engine prices against
type Catalog interface {
	GetService(ctx context.Context, id int64) (*catalog.WashService, error)
	ResolveAddons(ctx context.Context, ids []int64) (map[int64]*catalog.Addon, error)
	GetZone(ctx context.Context, id int64) (*catalog.Zone, error)
	ActiveCoupon(ctx context.Context, code string, now time.Time) (*catalog.Coupon, error)
	CarTypeMultiplier(ctx context.Context) (*catalog.CarTypeMultiplierRule, bool, error)
}

// DistanceFeeCalculator returns the surcharge for servicing point inside zone
type DistanceFeeCalculator interface {
	Fee(ctx context.Context, zone *catalog.Zone, point geo.Point) (decimal.Decimal, error)
}

// DistanceFeeSource provides the distance_fee rule
type DistanceFeeSource interface {
	DistanceFee(ctx context.Context) (*catalog.DistanceFeeRule, bool, error)
}
