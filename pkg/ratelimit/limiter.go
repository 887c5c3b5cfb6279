// Package ratelimit implements a Redis fixed-window request limiter.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/richxcame/carwash-booking/pkg/config"
)

// counts a hit and returns {hits, remaining ttl in ms}
const fixedWindowScript = `
local current = redis.call("INCR", KEYS[1])
if current == 1 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
return {current, ttl}
`

// Rule is a request budget per window
type Rule struct {
	Limit  int
	Window time.Duration
}

// Result describes the outcome of one Allow call
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts requests per endpoint and identity
type Limiter struct {
	client redis.Scripter
	cfg    config.RateLimitConfig
	script *redis.Script
	now    func() time.Time
}

// NewLimiter creates a limiter backed by client
func NewLimiter(client redis.Scripter, cfg config.RateLimitConfig) *Limiter {
	return &Limiter{
		client: client,
		cfg:    cfg,
		script: redis.NewScript(fixedWindowScript),
		now:    time.Now,
	}
}

// PublicRule is the configured budget for anonymous intake endpoints
func (l *Limiter) PublicRule() Rule {
	return Rule{
		Limit:  l.cfg.PublicLimit,
		Window: time.Duration(l.cfg.WindowSeconds) * time.Second,
	}
}

func (l *Limiter) key(endpoint, identity string) string {
	return fmt.Sprintf("%s:%s:%s", l.cfg.RedisPrefix, endpoint, identity)
}

// Allow records a request and reports whether it fits in rule
func (l *Limiter) Allow(ctx context.Context, endpoint, identity string, rule Rule) (*Result, error) {
	if !l.cfg.Enabled || rule.Limit <= 0 {
		return &Result{Allowed: true, Limit: rule.Limit, Remaining: rule.Limit}, nil
	}
	window := rule.Window
	if window <= 0 {
		window = time.Duration(l.cfg.WindowSeconds) * time.Second
	}
	if window <= 0 {
		window = time.Minute
	}

	vals, err := l.script.Run(ctx, l.client, []string{l.key(endpoint, identity)}, window.Milliseconds()).Int64Slice()
	if err != nil {
		return nil, fmt.Errorf("rate limit script failed: %w", err)
	}
	if len(vals) != 2 {
		return nil, fmt.Errorf("rate limit script returned %d values", len(vals))
	}

	hits, ttl := int(vals[0]), time.Duration(vals[1])*time.Millisecond
	res := &Result{
		Allowed:   hits <= rule.Limit,
		Limit:     rule.Limit,
		Remaining: rule.Limit - hits,
	}
	if res.Remaining < 0 {
		res.Remaining = 0
	}
	if !res.Allowed {
		res.RetryAfter = ttl
		if res.RetryAfter <= 0 {
			res.RetryAfter = window
		}
	}
	return res, nil
}
