package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	WhatsApp  WhatsAppConfig
	NATS      NATSConfig
	Tracing   TracingConfig
	Sentry    SentryConfig
	Booking   BookingConfig
	Breaker   BreakerConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port           string
	Environment    string
	ServiceName    string
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int    // per-request handler budget in seconds
	CORSOrigins    string // Comma-separated list of allowed origins
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	MaxConns       int
	MinConns       int
	MigrationsPath string
	AutoMigrate    bool
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	Enabled      bool
	RuleCacheTTL int // seconds
}

// WhatsAppConfig holds the Twilio WhatsApp sender configuration
type WhatsAppConfig struct {
	Enabled     bool
	AccountSID  string
	AuthToken   string
	FromNumber  string
	DefaultLang string
}

// NATSConfig holds event bus configuration
type NATSConfig struct {
	URL     string
	Enabled bool
}

// TracingConfig holds OpenTelemetry exporter configuration
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	SampleRatio float64
}

// SentryConfig holds error reporting configuration
type SentryConfig struct {
	DSN string
}

// BookingConfig holds booking intake settings
type BookingConfig struct {
	IDPrefix           string
	IDWidth            int
	EnforceTransitions bool
	ReviewURL          string // sent with the review request after a finished wash
	Timezone           string // days for the admin overview start at midnight here
	ReminderEnabled    bool
	ReminderLeadHours  int
	ReminderInterval   int // seconds between reminder scans
}

// BreakerConfig tunes the notifier circuit breaker
type BreakerConfig struct {
	IntervalSeconds  int
	TimeoutSeconds   int
	FailureThreshold int
	SuccessThreshold int
}

// RateLimitConfig throttles the public intake endpoints per client IP
type RateLimitConfig struct {
	Enabled       bool
	WindowSeconds int
	PublicLimit   int
	RedisPrefix   string
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Environment:    getEnv("ENVIRONMENT", "development"),
			ServiceName:    serviceName,
			ReadTimeout:    getEnvAsInt("READ_TIMEOUT", 10),
			WriteTimeout:   getEnvAsInt("WRITE_TIMEOUT", 10),
			RequestTimeout: getEnvAsInt("REQUEST_TIMEOUT", 15),
			CORSOrigins:    getEnv("CORS_ORIGINS", "http://localhost:3000"),
		},
		Database: DatabaseConfig{
			Host:           getEnv("DB_HOST", "localhost"),
			Port:           getEnv("DB_PORT", "5432"),
			User:           getEnv("DB_USER", "postgres"),
			Password:       getEnv("DB_PASSWORD", "postgres"),
			DBName:         getEnv("DB_NAME", "carwash"),
			SSLMode:        getEnv("DB_SSLMODE", "disable"),
			MaxConns:       getEnvAsInt("DB_MAX_CONNS", 25),
			MinConns:       getEnvAsInt("DB_MIN_CONNS", 5),
			MigrationsPath: getEnv("DB_MIGRATIONS_PATH", "file://migrations"),
			AutoMigrate:    getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			Enabled:      getEnvAsBool("REDIS_ENABLED", true),
			RuleCacheTTL: getEnvAsInt("PRICING_RULE_CACHE_TTL", 300),
		},
		WhatsApp: WhatsAppConfig{
			Enabled:     getEnvAsBool("WHATSAPP_ENABLED", false),
			AccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
			AuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
			FromNumber:  getEnv("WHATSAPP_FROM_NUMBER", ""),
			DefaultLang: getEnv("WHATSAPP_DEFAULT_LANG", "ar"),
		},
		NATS: NATSConfig{
			URL:     getEnv("NATS_URL", "nats://localhost:4222"),
			Enabled: getEnvAsBool("NATS_ENABLED", false),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("TRACING_ENABLED", false),
			Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			SampleRatio: getEnvAsFloat("TRACING_SAMPLE_RATIO", 1.0),
		},
		Sentry: SentryConfig{
			DSN: getEnv("SENTRY_DSN", ""),
		},
		Booking: BookingConfig{
			IDPrefix:           getEnv("BOOKING_ID_PREFIX", "BK"),
			IDWidth:            getEnvAsInt("BOOKING_ID_WIDTH", 6),
			EnforceTransitions: getEnvAsBool("BOOKING_ENFORCE_TRANSITIONS", false),
			ReviewURL:          getEnv("BOOKING_REVIEW_URL", ""),
			Timezone:           getEnv("BOOKING_TIMEZONE", "Asia/Aden"),
			ReminderEnabled:    getEnvAsBool("BOOKING_REMINDER_ENABLED", true),
			ReminderLeadHours:  getEnvAsInt("BOOKING_REMINDER_LEAD_HOURS", 24),
			ReminderInterval:   getEnvAsInt("BOOKING_REMINDER_INTERVAL", 600),
		},
		Breaker: BreakerConfig{
			IntervalSeconds:  getEnvAsInt("NOTIFIER_BREAKER_INTERVAL", 60),
			TimeoutSeconds:   getEnvAsInt("NOTIFIER_BREAKER_TIMEOUT", 30),
			FailureThreshold: getEnvAsInt("NOTIFIER_BREAKER_FAILURES", 5),
			SuccessThreshold: getEnvAsInt("NOTIFIER_BREAKER_SUCCESSES", 1),
		},
		RateLimit: RateLimitConfig{
			Enabled:       getEnvAsBool("RATE_LIMIT_ENABLED", true),
			WindowSeconds: getEnvAsInt("RATE_LIMIT_WINDOW_SECONDS", 60),
			PublicLimit:   getEnvAsInt("RATE_LIMIT_PUBLIC_LIMIT", 30),
			RedisPrefix:   getEnv("RATE_LIMIT_REDIS_PREFIX", "rl"),
		},
	}

	if cfg.WhatsApp.Enabled && (cfg.WhatsApp.AccountSID == "" || cfg.WhatsApp.AuthToken == "" || cfg.WhatsApp.FromNumber == "") {
		return nil, fmt.Errorf("whatsapp enabled but TWILIO_ACCOUNT_SID, TWILIO_AUTH_TOKEN or WHATSAPP_FROM_NUMBER is missing")
	}

	return cfg, nil
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// URL returns the database connection string in URL form, as golang-migrate expects
func (c *DatabaseConfig) URL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// CacheTTL returns the pricing-rule cache lifetime
func (c *RedisConfig) CacheTTL() time.Duration {
	if c.RuleCacheTTL <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(c.RuleCacheTTL) * time.Second
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}
