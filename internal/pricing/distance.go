package pricing

import (
	"context"

	"github.com/richxcame/carwash-booking/internal/catalog"
	"github.com/richxcame/carwash-booking/pkg/geo"
	"github.com/richxcame/carwash-booking/pkg/money"
	"github.com/shopspring/decimal"
)

// FlatDistanceFee charges the configured base_fee for every zone and point.
// Zero when the rule is missing or disabled.
type FlatDistanceFee struct {
	rules DistanceFeeSource
}

// NewFlatDistanceFee creates a flat fee calculator backed by the distance_fee rule
func NewFlatDistanceFee(rules DistanceFeeSource) *FlatDistanceFee {
	return &FlatDistanceFee{rules: rules}
}

// Fee implements DistanceFeeCalculator
func (f *FlatDistanceFee) Fee(ctx context.Context, zone *catalog.Zone, point geo.Point) (decimal.Decimal, error) {
	rule, ok, err := f.rules.DistanceFee(ctx)
	if err != nil {
		return money.Zero, err
	}
	if !ok {
		return money.Zero, nil
	}
	return money.NonNegative(rule.BaseFee), nil
}
