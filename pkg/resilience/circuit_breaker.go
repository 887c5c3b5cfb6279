package resilience

import (
	"context"
	"errors"
	"time"

	"github.com/richxcame/carwash-booking/pkg/logger"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

// ErrCircuitOpen is returned when a call is rejected by an open breaker.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Settings configures a CircuitBreaker.
type Settings struct {
	Name             string
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold uint32
	SuccessThreshold uint32
}

// Operation is a unit of work guarded by a breaker or retried.
type Operation func(ctx context.Context) (interface{}, error)

// CircuitBreaker wraps gobreaker with metrics and a fallback.
type CircuitBreaker struct {
	name     string
	cb       *gobreaker.CircuitBreaker
	fallback FallbackFunc
}

// NewCircuitBreaker creates a breaker that trips after FailureThreshold
// consecutive failures and probes again after Timeout.
func NewCircuitBreaker(settings Settings, fallback FallbackFunc) *CircuitBreaker {
	name := nextBreakerName(settings.Name)

	failureThreshold := settings.FailureThreshold
	if failureThreshold == 0 {
		failureThreshold = 5
	}
	successThreshold := settings.SuccessThreshold
	if successThreshold == 0 {
		successThreshold = 1
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: successThreshold,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
			recordBreakerStateChange(name, from, to)
		},
	})
	recordBreakerState(name, gobreaker.StateClosed)

	return &CircuitBreaker{name: name, cb: cb, fallback: fallback}
}

// Name returns the breaker name used in logs and metrics.
func (b *CircuitBreaker) Name() string {
	return b.name
}

// State returns the current breaker state.
func (b *CircuitBreaker) State() gobreaker.State {
	return b.cb.State()
}

// Execute runs op through the breaker. When the breaker rejects the call the
// fallback decides the result.
func (b *CircuitBreaker) Execute(ctx context.Context, op Operation) (interface{}, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	recordBreakerRequest(b.name)
	result, err := b.cb.Execute(func() (interface{}, error) {
		return op(ctx)
	})
	if err == nil {
		return result, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		recordBreakerFallback(b.name)
		if b.fallback == nil {
			return nil, ErrCircuitOpen
		}
		return b.fallback(ctx, err)
	}

	recordBreakerFailure(b.name)
	return nil, err
}
