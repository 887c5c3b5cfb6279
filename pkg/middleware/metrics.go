package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const unmatchedRoute = "unmatched"

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by route template and status code",
	}, []string{"service", "method", "route", "code"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency by route template",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"service", "method", "route"})
)

// Metrics records request counts and latency per route template, so
// /bookings/:id is one series regardless of the id.
func Metrics(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		code := strconv.Itoa(c.Writer.Status())

		httpRequestsTotal.WithLabelValues(service, c.Request.Method, route, code).Inc()
		httpRequestDuration.WithLabelValues(service, c.Request.Method, route).Observe(time.Since(started).Seconds())
	}
}
