package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	quotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_quotes_total",
			Help: "Price computations by outcome",
		},
		[]string{"outcome"},
	)

	couponsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_coupons_applied_total",
			Help: "Quotes that applied an active coupon, by discount type",
		},
		[]string{"discount_type"},
	)
)
