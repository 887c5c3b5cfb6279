package resilience

import (
	"fmt"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

var (
	breakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "dependency_breaker_state",
		Help: "Breaker state per outbound dependency: 0 closed, 0.5 half-open, 1 open",
	}, []string{"dependency"})

	breakerCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dependency_calls_total",
		Help: "Outbound calls through a breaker, by result",
	}, []string{"dependency", "result"})

	breakerTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "dependency_breaker_transitions_total",
		Help: "Breaker state transitions per outbound dependency",
	}, []string{"dependency", "from", "to"})

	anonymousBreakers uint64
)

func nextBreakerName(base string) string {
	if base != "" {
		return base
	}
	return fmt.Sprintf("dependency-%d", atomic.AddUint64(&anonymousBreakers, 1))
}

func stateGaugeValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 0.5
	case gobreaker.StateOpen:
		return 1
	}
	return -1
}

func recordBreakerState(name string, state gobreaker.State) {
	breakerState.WithLabelValues(name).Set(stateGaugeValue(state))
}

func recordBreakerStateChange(name string, from, to gobreaker.State) {
	breakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
	recordBreakerState(name, to)
}

func recordBreakerRequest(name string) {
	breakerCalls.WithLabelValues(name, "attempt").Inc()
}

func recordBreakerFailure(name string) {
	breakerCalls.WithLabelValues(name, "error").Inc()
}

func recordBreakerFallback(name string) {
	breakerCalls.WithLabelValues(name, "rejected").Inc()
}
