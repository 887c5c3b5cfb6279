package pricing

import (
	"github.com/richxcame/carwash-booking/internal/catalog"
	"github.com/richxcame/carwash-booking/pkg/money"
	"github.com/shopspring/decimal"
)

// Calculate prices resolved inputs. It performs no I/O.
//
// The car type multiplier scales the base price only. The coupon discount is
// capped at the subtotal so the total never goes negative.
func Calculate(in Inputs) *Breakdown {
	base := in.Service.BasePrice(in.IsSolo)
	if in.Multiplier != nil {
		base = money.Round(base.Mul(in.Multiplier.For(in.CarType)))
	}

	addons := money.Zero
	duration := in.Service.EstMinutes
	for _, a := range in.Addons {
		addons = addons.Add(a.Price)
		duration += a.EstMinutes
	}

	distanceFee := money.NonNegative(in.DistanceFee)
	subtotal := base.Add(addons).Add(distanceFee)
	discount := couponDiscount(in.Coupon, subtotal)

	return &Breakdown{
		BasePrice:         base,
		AddonsPrice:       addons,
		DistanceFee:       distanceFee,
		Discount:          discount,
		TotalPrice:        money.Round(money.NonNegative(subtotal.Sub(discount))),
		EstimatedDuration: duration,
	}
}

// Occurrences expands resolved addons back to one entry per requested id, in
// request order
func Occurrences(ids []int64, byID map[int64]*catalog.Addon) []*catalog.Addon {
	addons := make([]*catalog.Addon, 0, len(ids))
	for _, id := range ids {
		if a, ok := byID[id]; ok {
			addons = append(addons, a)
		}
	}
	return addons
}

func couponDiscount(coupon *catalog.Coupon, subtotal decimal.Decimal) decimal.Decimal {
	if coupon == nil {
		return money.Zero
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case catalog.DiscountFixed:
		discount = coupon.Value
	case catalog.DiscountPercentage:
		discount = money.Percent(subtotal, coupon.Value)
	default:
		return money.Zero
	}
	return money.Round(money.Clamp(discount, subtotal))
}
