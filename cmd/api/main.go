package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/richxcame/carwash-booking/internal/analytics"
	"github.com/richxcame/carwash-booking/internal/bookings"
	"github.com/richxcame/carwash-booking/internal/catalog"
	"github.com/richxcame/carwash-booking/internal/customers"
	"github.com/richxcame/carwash-booking/internal/fleetleads"
	"github.com/richxcame/carwash-booking/internal/notifications"
	"github.com/richxcame/carwash-booking/internal/pricing"
	"github.com/richxcame/carwash-booking/internal/scheduler"
	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/config"
	"github.com/richxcame/carwash-booking/pkg/database"
	"github.com/richxcame/carwash-booking/pkg/eventbus"
	"github.com/richxcame/carwash-booking/pkg/logger"
	"github.com/richxcame/carwash-booking/pkg/ratelimit"
	"github.com/richxcame/carwash-booking/pkg/redis"
	"github.com/richxcame/carwash-booking/pkg/resilience"
	"github.com/richxcame/carwash-booking/pkg/tracing"
	"github.com/richxcame/carwash-booking/pkg/validation"
	"go.uber.org/zap"
)

const (
	serviceName    = "carwash-api"
	serviceVersion = "1.0.0"
)

func main() {
	cfg, err := config.Load(serviceName)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Server.Environment, serviceName); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	var extra []gin.HandlerFunc
	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.Sentry.DSN,
			Environment: cfg.Server.Environment,
			Release:     serviceName + "@" + serviceVersion,
		}); err != nil {
			logger.Warn("Failed to initialize sentry", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
			extra = append(extra, sentrygin.New(sentrygin.Options{Repanic: true}))
		}
	}

	shutdownTracing, err := tracing.Init(context.Background(), cfg.Tracing, serviceName, cfg.Server.Environment)
	if err != nil {
		logger.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(&cfg.Database); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	db, err := database.NewPostgresPool(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)
	logger.Info("Connected to PostgreSQL database")

	checks := map[string]common.Checker{
		"database": func(ctx context.Context) error { return db.Ping(ctx) },
	}

	// Redis only caches pricing rules and counts intake requests, so the
	// service runs without it
	var ruleCache goredis.Cmdable
	var limiter *ratelimit.Limiter
	if cfg.Redis.Enabled {
		redisClient, err := redis.NewRedisClient(&cfg.Redis)
		if err != nil {
			logger.Warn("Redis unavailable, pricing rules read from the database", zap.Error(err))
		} else {
			defer redisClient.Close()
			ruleCache = redisClient
			limiter = ratelimit.NewLimiter(redisClient, cfg.RateLimit)
			checks["redis"] = redisClient.HealthCheck
			logger.Info("Connected to Redis")
		}
	}

	var events eventbus.Publisher = eventbus.Noop{}
	if cfg.NATS.Enabled {
		bus, err := eventbus.Connect(cfg.NATS.URL, serviceName)
		if err != nil {
			logger.Warn("NATS unavailable, domain events disabled", zap.Error(err))
		} else {
			defer bus.Close()
			events = bus
			checks["nats"] = bus.HealthCheck
			logger.Info("Connected to NATS", zap.String("url", cfg.NATS.URL))
		}
	}

	if err := validation.RegisterGinValidations(); err != nil {
		logger.Fatal("Failed to register validators", zap.Error(err))
	}

	catalogRepo := catalog.NewRepository(db)
	rules := catalog.NewRules(catalogRepo, ruleCache, cfg.Redis.CacheTTL())
	catalogService := catalog.NewService(catalogRepo, rules)

	customerService := customers.NewService(customers.NewRepository(db))

	engine := pricing.NewEngine(catalogService, pricing.NewFlatDistanceFee(catalogService))

	dispatcher := notifications.NewDispatcher(newNotifier(cfg))
	location := loadLocation(cfg.Booking.Timezone)

	bookingService := bookings.NewService(
		bookings.NewRepository(db),
		customerService,
		catalogService,
		dispatcher,
		events,
		bookings.Options{
			IDFormat:           bookings.IDFormat{Prefix: cfg.Booking.IDPrefix, Width: cfg.Booking.IDWidth},
			EnforceTransitions: cfg.Booking.EnforceTransitions,
			DefaultLang:        cfg.WhatsApp.DefaultLang,
			ReviewURL:          cfg.Booking.ReviewURL,
			Location:           location,
		},
	)

	fleetLeadService := fleetleads.NewService(fleetleads.NewRepository(db), events)

	analyticsService := analytics.NewService(analytics.NewRepository(db), location)

	var reminders *scheduler.Worker
	if cfg.Booking.ReminderEnabled {
		reminders = scheduler.NewWorker(db, logger.Get(), dispatcher, scheduler.Config{
			Interval:    time.Duration(cfg.Booking.ReminderInterval) * time.Second,
			LeadTime:    time.Duration(cfg.Booking.ReminderLeadHours) * time.Hour,
			DefaultLang: cfg.WhatsApp.DefaultLang,
			Location:    location,
		})
		go reminders.Start(context.Background())
	}

	router := newRouter(cfg, &handlers{
		catalog:       catalog.NewHandler(catalogService),
		pricing:       pricing.NewHandler(engine),
		bookings:      bookings.NewHandler(bookingService),
		fleetLeads:    fleetleads.NewHandler(fleetLeadService),
		notifications: notifications.NewHandler(dispatcher),
		analytics:     analytics.NewHandler(analyticsService),
	}, checks, limiter, extra...)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("Car wash booking service starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if reminders != nil {
		reminders.Stop()
	}
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	if err := dispatcher.Wait(ctx); err != nil {
		logger.Warn("Pending notifications abandoned", zap.Error(err))
	}
	if err := shutdownTracing(ctx); err != nil {
		logger.Warn("Failed to flush traces", zap.Error(err))
	}

	logger.Info("Server exited")
}

// newNotifier picks the WhatsApp transport. Without credentials messages
// are only logged.
func newNotifier(cfg *config.Config) notifications.Notifier {
	if !cfg.WhatsApp.Enabled {
		logger.Info("WhatsApp disabled, notifications are logged only")
		return notifications.NewLogNotifier(cfg.WhatsApp.DefaultLang)
	}
	breaker := resilience.NewCircuitBreaker(resilience.SettingsFromConfig("whatsapp", cfg.Breaker), resilience.Degraded("whatsapp"))
	return notifications.NewTwilioWhatsApp(cfg.WhatsApp, breaker)
}

func loadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		logger.Warn("Unknown timezone, using UTC", zap.String("timezone", name), zap.Error(err))
		return time.UTC
	}
	return loc
}
