package pricing

import (
	"github.com/richxcame/carwash-booking/internal/catalog"
	"github.com/richxcame/carwash-booking/pkg/geo"
	"github.com/richxcame/carwash-booking/pkg/money"
	"github.com/shopspring/decimal"
)

// QuoteRequest is the priced selection from the booking wizard
type QuoteRequest struct {
	ServiceID  int64           `json:"service_id" binding:"required,gt=0"`
	AddonIDs   []int64         `json:"addon_ids" binding:"omitempty,dive,gt=0"`
	CarType    catalog.CarType `json:"car_type" binding:"required,car_type"`
	IsSolo     bool            `json:"is_solo"`
	ZoneID     int64           `json:"zone_id" binding:"required,gt=0"`
	GeoPoint   *geo.Point      `json:"geo_point" binding:"required"`
	CouponCode string          `json:"coupon_code" binding:"omitempty,max=50"`
}

// Breakdown is a computed price. BasePrice is already multiplied for the car type.
type Breakdown struct {
	BasePrice         decimal.Decimal
	AddonsPrice       decimal.Decimal
	DistanceFee       decimal.Decimal
	Discount          decimal.Decimal
	TotalPrice        decimal.Decimal
	EstimatedDuration int
}

// QuoteResponse is the API form of a Breakdown
type QuoteResponse struct {
	BasePrice                float64 `json:"base_price"`
	AddonsPrice              float64 `json:"addons_price"`
	DistanceFee              float64 `json:"distance_fee"`
	Discount                 float64 `json:"discount"`
	TotalPrice               float64 `json:"total_price"`
	EstimatedDurationMinutes int     `json:"estimated_duration_minutes"`
}

// ToResponse converts b for the API boundary
func (b *Breakdown) ToResponse() *QuoteResponse {
	return &QuoteResponse{
		BasePrice:                money.ToFloat(b.BasePrice),
		AddonsPrice:              money.ToFloat(b.AddonsPrice),
		DistanceFee:              money.ToFloat(b.DistanceFee),
		Discount:                 money.ToFloat(b.Discount),
		TotalPrice:               money.ToFloat(b.TotalPrice),
		EstimatedDurationMinutes: b.EstimatedDuration,
	}
}

// Inputs are the resolved catalog rows a price is computed from. Addons holds
// one entry per requested occurrence.
type Inputs struct {
	Service     *catalog.WashService
	Addons      []*catalog.Addon
	IsSolo      bool
	CarType     catalog.CarType
	Multiplier  *catalog.CarTypeMultiplierRule
	DistanceFee decimal.Decimal
	Coupon      *catalog.Coupon
}
