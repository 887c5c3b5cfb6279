package main

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/timeout"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/richxcame/carwash-booking/internal/analytics"
	"github.com/richxcame/carwash-booking/internal/bookings"
	"github.com/richxcame/carwash-booking/internal/catalog"
	"github.com/richxcame/carwash-booking/internal/fleetleads"
	"github.com/richxcame/carwash-booking/internal/notifications"
	"github.com/richxcame/carwash-booking/internal/pricing"
	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/config"
	"github.com/richxcame/carwash-booking/pkg/middleware"
	"github.com/richxcame/carwash-booking/pkg/ratelimit"
	"github.com/richxcame/carwash-booking/pkg/tracing"
)

// handlers groups the HTTP handlers mounted by the router
type handlers struct {
	catalog       *catalog.Handler
	pricing       *pricing.Handler
	bookings      *bookings.Handler
	fleetLeads    *fleetleads.Handler
	notifications *notifications.Handler
	analytics     *analytics.Handler
}

// newRouter builds the gin engine. limiter may be nil. extra middleware runs
// right after recovery.
func newRouter(cfg *config.Config, h *handlers, checks map[string]common.Checker, limiter *ratelimit.Limiter, extra ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Recovery())
	router.Use(extra...)
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.Metrics(cfg.Server.ServiceName))
	router.Use(tracing.Middleware(cfg.Server.ServiceName))
	router.Use(middleware.SecurityHeaders())
	router.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))
	router.Use(middleware.MaxBodySize(1 << 20))

	router.GET("/healthz", common.HealthCheck(cfg.Server.ServiceName, serviceVersion))
	router.GET("/health/ready", common.HealthCheckWithDeps(cfg.Server.ServiceName, serviceVersion, checks))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	api.Use(requestTimeout(time.Duration(cfg.Server.RequestTimeout) * time.Second))
	{
		h.catalog.RegisterRoutes(api)

		// Anonymous form submissions are throttled per client IP
		intake := api.Group("", publicLimit(limiter))
		h.pricing.RegisterRoutes(intake)
		h.bookings.RegisterRoutes(intake)
		h.fleetLeads.RegisterRoutes(intake)

		// Admin routes carry no auth, the deployment puts them behind the internal gateway
		admin := api.Group("/admin")
		{
			h.catalog.RegisterAdminRoutes(admin)
			h.bookings.RegisterAdminRoutes(admin)
			h.fleetLeads.RegisterAdminRoutes(admin)
			h.notifications.RegisterAdminRoutes(admin)
			h.analytics.RegisterAdminRoutes(admin)
		}
	}

	return router
}

func publicLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	if limiter == nil {
		return ratelimit.Middleware(nil, ratelimit.Rule{})
	}
	return ratelimit.Middleware(limiter, limiter.PublicRule())
}

func corsConfig(origins string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowOrigins = splitOrigins(origins)
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowAllOrigins = true
		cfg.AllowOrigins = nil
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", middleware.CorrelationIDHeader}
	cfg.ExposeHeaders = []string{middleware.CorrelationIDHeader}
	return cfg
}

func splitOrigins(origins string) []string {
	var out []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

func requestTimeout(d time.Duration) gin.HandlerFunc {
	if d <= 0 {
		d = 15 * time.Second
	}
	return timeout.New(
		timeout.WithTimeout(d),
		timeout.WithResponse(func(c *gin.Context) {
			common.ErrorResponse(c, http.StatusServiceUnavailable, "request timed out")
		}),
	)
}
