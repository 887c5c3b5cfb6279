package pricing

import (
	"context"
	"time"

	"github.com/richxcame/carwash-booking/internal/catalog"
	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/logger"
	"github.com/richxcame/carwash-booking/pkg/money"
	"github.com/richxcame/carwash-booking/pkg/tracing"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("github.com/richxcame/carwash-booking/internal/pricing")

// Engine computes quotes from the catalog
type Engine struct {
	catalog  Catalog
	distance DistanceFeeCalculator

	// Now is the clock used for coupon windows
	Now func() time.Time
}

// NewEngine creates a pricing engine
func NewEngine(cat Catalog, distance DistanceFeeCalculator) *Engine {
	return &Engine{catalog: cat, distance: distance, Now: time.Now}
}

// Compute prices req. Unknown service, addon or zone ids fail with NotFound;
// an unknown or inactive coupon code yields no discount.
func (e *Engine) Compute(ctx context.Context, req *QuoteRequest) (*Breakdown, error) {
	ctx, span := tracer.Start(ctx, "pricing.Compute")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("service_id", req.ServiceID),
		attribute.Int64("zone_id", req.ZoneID),
		attribute.Int("addon_count", len(req.AddonIDs)),
	)

	b, err := e.compute(ctx, req)
	if err != nil {
		tracing.RecordError(span, err)
		quotesTotal.WithLabelValues(outcome(err)).Inc()
		return nil, err
	}
	quotesTotal.WithLabelValues("ok").Inc()
	return b, nil
}

func (e *Engine) compute(ctx context.Context, req *QuoteRequest) (*Breakdown, error) {
	if req.GeoPoint == nil {
		return nil, common.NewBadRequestError("geo_point is required", nil)
	}

	svc, err := e.catalog.GetService(ctx, req.ServiceID)
	if err != nil {
		return nil, err
	}

	addons, err := e.ResolveAddons(ctx, req.AddonIDs)
	if err != nil {
		return nil, err
	}

	zone, err := e.catalog.GetZone(ctx, req.ZoneID)
	if err != nil {
		return nil, err
	}

	in := Inputs{
		Service: svc,
		Addons:  addons,
		IsSolo:  req.IsSolo,
		CarType: req.CarType,
	}

	if in.DistanceFee, err = e.distance.Fee(ctx, zone, *req.GeoPoint); err != nil {
		return nil, err
	}

	multiplier, ok, err := e.catalog.CarTypeMultiplier(ctx)
	if err != nil {
		return nil, err
	}
	if ok {
		in.Multiplier = multiplier
	}

	if in.Coupon, err = e.catalog.ActiveCoupon(ctx, req.CouponCode, e.Now()); err != nil {
		return nil, err
	}

	b := Calculate(in)
	if in.Coupon != nil {
		couponsApplied.WithLabelValues(string(in.Coupon.DiscountType)).Inc()
	}

	logger.WithContext(ctx).Debug("quote computed",
		zap.Int64("service_id", req.ServiceID),
		zap.String("total", money.String(b.TotalPrice)),
	)
	return b, nil
}

// ResolveAddons returns one addon per requested id, in request order. Any
// unknown id fails with NotFound.
func (e *Engine) ResolveAddons(ctx context.Context, ids []int64) ([]*catalog.Addon, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	byID, err := e.catalog.ResolveAddons(ctx, ids)
	if err != nil {
		return nil, err
	}

	return Occurrences(ids, byID), nil
}

func outcome(err error) string {
	switch {
	case common.IsNotFound(err):
		return "not_found"
	case common.IsTransient(err):
		return "unavailable"
	default:
		return "error"
	}
}
