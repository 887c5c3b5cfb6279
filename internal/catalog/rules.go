package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/database"
	"github.com/richxcame/carwash-booking/pkg/logger"
	"go.uber.org/zap"
)

const ruleCachePrefix = "pricing_rule:"

// cachedRule is what the cache stores per key. Found=false caches the
// absence of a row so lookups for unset rules stay off the database.
type cachedRule struct {
	Found   bool            `json:"found"`
	Enabled bool            `json:"enabled"`
	Value   json.RawMessage `json:"value,omitempty"`
}

// Rules gives typed access to the pricing rules consumed by the engine.
// Rows are cached in Redis when a client is configured.
type Rules struct {
	source RuleSource
	cache  redis.Cmdable
	ttl    time.Duration
}

// NewRules creates a rule accessor. cache may be nil.
func NewRules(source RuleSource, cache redis.Cmdable, ttl time.Duration) *Rules {
	return &Rules{source: source, cache: cache, ttl: ttl}
}

func ruleCacheKey(key RuleKey) string {
	return ruleCachePrefix + string(key)
}

// DistanceFee returns the enabled distance_fee rule, if any
func (r *Rules) DistanceFee(ctx context.Context) (*DistanceFeeRule, bool, error) {
	var rule DistanceFeeRule
	ok, err := r.decode(ctx, RuleDistanceFee, &rule)
	if err != nil || !ok {
		return nil, false, err
	}
	return &rule, true, nil
}

// CarTypeMultiplier returns the enabled car_type_multiplier rule, if any
func (r *Rules) CarTypeMultiplier(ctx context.Context) (*CarTypeMultiplierRule, bool, error) {
	var rule CarTypeMultiplierRule
	ok, err := r.decode(ctx, RuleCarTypeMultiplier, &rule)
	if err != nil || !ok {
		return nil, false, err
	}
	return &rule, true, nil
}

// Invalidate drops the cached row for key
func (r *Rules) Invalidate(ctx context.Context, key RuleKey) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, ruleCacheKey(key)).Err(); err != nil {
		logger.WithContext(ctx).Warn("failed to invalidate pricing rule cache",
			zap.String("key", string(key)),
			zap.Error(err),
		)
	}
}

func (r *Rules) decode(ctx context.Context, key RuleKey, into interface{}) (bool, error) {
	entry, err := r.load(ctx, key)
	if err != nil {
		return false, err
	}
	if !entry.Found || !entry.Enabled {
		return false, nil
	}
	if err := json.Unmarshal(entry.Value, into); err != nil {
		return false, fmt.Errorf("invalid %s rule value: %w", key, err)
	}
	return true, nil
}

func (r *Rules) load(ctx context.Context, key RuleKey) (*cachedRule, error) {
	if entry, ok := r.readCache(ctx, key); ok {
		return entry, nil
	}

	entry := &cachedRule{}
	rule, err := r.source.GetPricingRule(ctx, key)
	switch {
	case err == nil:
		entry.Found = true
		entry.Enabled = rule.Enabled
		entry.Value = rule.Value
	case database.IsNoRows(err):
	case database.IsTransient(err):
		return nil, common.NewServiceUnavailableError("pricing rules temporarily unavailable", err)
	default:
		return nil, fmt.Errorf("failed to load pricing rule %s: %w", key, err)
	}

	r.writeCache(ctx, key, entry)
	return entry, nil
}

func (r *Rules) readCache(ctx context.Context, key RuleKey) (*cachedRule, bool) {
	if r.cache == nil {
		return nil, false
	}

	raw, err := r.cache.Get(ctx, ruleCacheKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.WithContext(ctx).Warn("pricing rule cache read failed, using database",
				zap.String("key", string(key)),
				zap.Error(err),
			)
		}
		return nil, false
	}

	var entry cachedRule
	if err := json.Unmarshal(raw, &entry); err != nil {
		logger.WithContext(ctx).Warn("discarding malformed pricing rule cache entry",
			zap.String("key", string(key)),
			zap.Error(err),
		)
		return nil, false
	}
	return &entry, true
}

func (r *Rules) writeCache(ctx context.Context, key RuleKey, entry *cachedRule) {
	if r.cache == nil {
		return
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, ruleCacheKey(key), payload, r.ttl).Err(); err != nil {
		logger.WithContext(ctx).Warn("pricing rule cache write failed",
			zap.String("key", string(key)),
			zap.Error(err),
		)
	}
}
