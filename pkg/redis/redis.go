package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/richxcame/carwash-booking/pkg/config"
)

// Client wraps the Redis client
type Client struct {
	*redis.Client
}

// NewRedisClient connects and pings Redis
func NewRedisClient(cfg *config.RedisConfig) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("unable to connect to redis: %w", err)
	}

	return &Client{Client: client}, nil
}

// HealthCheck pings Redis for the readiness probe
func (c *Client) HealthCheck(ctx context.Context) error {
	return c.Ping(ctx).Err()
}

// Close closes the Redis client
func (c *Client) Close() error {
	return c.Client.Close()
}

var retryableMessages = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"i/o timeout",
	"pool timeout",
	"loading",
	"busy",
	"masterdown",
	"readonly",
	"tryagain",
	"clusterdown",
}

// IsRetryable reports whether a Redis error is worth another attempt.
// A cache miss (redis.Nil) never is.
func IsRetryable(err error) bool {
	if err == nil || errors.Is(err, redis.Nil) {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	msg := strings.ToLower(err.Error())
	for _, m := range retryableMessages {
		if strings.Contains(msg, m) {
			return true
		}
	}
	return false
}
