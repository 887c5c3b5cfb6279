package resilience

import (
	"context"

	"github.com/richxcame/carwash-booking/pkg/logger"
	"go.uber.org/zap"
)

// FallbackFunc runs instead of the operation while the breaker rejects calls.
type FallbackFunc func(ctx context.Context, err error) (interface{}, error)

// Reject surfaces ErrCircuitOpen unchanged.
func Reject(ctx context.Context, err error) (interface{}, error) {
	return nil, ErrCircuitOpen
}

// Static answers with value while the dependency is unavailable.
func Static(value interface{}) FallbackFunc {
	return func(ctx context.Context, err error) (interface{}, error) {
		logger.WithContext(ctx).Warn("dependency unavailable, serving static value", zap.Error(err))
		return value, nil
	}
}

// Degraded logs which dependency is down and still returns ErrCircuitOpen,
// leaving the caller to decide what a skipped call means.
func Degraded(dependency string) FallbackFunc {
	return func(ctx context.Context, err error) (interface{}, error) {
		logger.WithContext(ctx).Warn("dependency degraded, call skipped",
			zap.String("dependency", dependency),
			zap.Error(err),
		)
		return nil, ErrCircuitOpen
	}
}
