package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/database"
	"github.com/richxcame/carwash-booking/pkg/logger"
	"github.com/richxcame/carwash-booking/pkg/money"
	"go.uber.org/zap"
)

// Service exposes the catalog read contract used by pricing and bookings,
// plus the admin writes.
type Service struct {
	repo  RepositoryInterface
	rules *Rules
}

// NewService creates a new catalog service. A nil rules accessor reads
// rules straight from repo.
func NewService(repo RepositoryInterface, rules *Rules) *Service {
	if rules == nil {
		rules = NewRules(repo, nil, 0)
	}
	return &Service{repo: repo, rules: rules}
}

// lookupError maps a repository error for a single-row read
func lookupError(err error, entity string, id interface{}) error {
	switch {
	case database.IsNoRows(err):
		return common.NewNotFoundError(fmt.Sprintf("%s %v not found", entity, id), err)
	case database.IsTransient(err):
		return common.NewServiceUnavailableError("catalog temporarily unavailable", err)
	default:
		return err
	}
}

// GetService returns the wash service or NotFound
func (s *Service) GetService(ctx context.Context, id int64) (*WashService, error) {
	svc, err := s.repo.GetService(ctx, id)
	if err != nil {
		return nil, lookupError(err, "service", id)
	}
	return svc, nil
}

// ResolveAddons returns the addons for ids keyed by id. Any id without a row
// fails the whole call with NotFound naming the missing ids. Duplicate ids
// are resolved once.
func (s *Service) ResolveAddons(ctx context.Context, ids []int64) (map[int64]*Addon, error) {
	resolved := make(map[int64]*Addon, len(ids))
	if len(ids) == 0 {
		return resolved, nil
	}

	distinct := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}

	addons, err := s.repo.GetAddonsByIDs(ctx, distinct)
	if err != nil {
		if database.IsTransient(err) {
			return nil, common.NewServiceUnavailableError("catalog temporarily unavailable", err)
		}
		return nil, err
	}
	for _, a := range addons {
		resolved[a.ID] = a
	}

	if len(resolved) < len(distinct) {
		missing := make([]int64, 0, len(distinct)-len(resolved))
		for _, id := range distinct {
			if _, ok := resolved[id]; !ok {
				missing = append(missing, id)
			}
		}
		sort.Slice(missing, func(i, j int) bool { return missing[i] < missing[j] })
		return nil, common.NewNotFoundError(fmt.Sprintf("addons not found: %v", missing), nil)
	}
	return resolved, nil
}

// GetZone returns the zone or NotFound
func (s *Service) GetZone(ctx context.Context, id int64) (*Zone, error) {
	zone, err := s.repo.GetZone(ctx, id)
	if err != nil {
		return nil, lookupError(err, "zone", id)
	}
	return zone, nil
}

// ActiveCoupon returns the coupon for code when it is active at now. Unknown
// and inactive codes return nil without an error.
func (s *Service) ActiveCoupon(ctx context.Context, code string, now time.Time) (*Coupon, error) {
	if code == "" {
		return nil, nil
	}

	coupon, err := s.repo.GetCouponByCode(ctx, code)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, lookupError(err, "coupon", code)
	}
	if !coupon.IsActive(now) {
		logger.WithContext(ctx).Debug("coupon outside its window", zap.String("code", code))
		return nil, nil
	}
	return coupon, nil
}

// DistanceFee returns the enabled distance_fee rule, if any
func (s *Service) DistanceFee(ctx context.Context) (*DistanceFeeRule, bool, error) {
	return s.rules.DistanceFee(ctx)
}

// CarTypeMultiplier returns the enabled car_type_multiplier rule, if any
func (s *Service) CarTypeMultiplier(ctx context.Context) (*CarTypeMultiplierRule, bool, error) {
	return s.rules.CarTypeMultiplier(ctx)
}

// ListServices lists wash services
func (s *Service) ListServices(ctx context.Context, visibleOnly bool) ([]*WashService, error) {
	return s.repo.ListServices(ctx, visibleOnly)
}

// ListAddons lists addons
func (s *Service) ListAddons(ctx context.Context, visibleOnly bool) ([]*Addon, error) {
	return s.repo.ListAddons(ctx, visibleOnly)
}

// ListZones lists zones
func (s *Service) ListZones(ctx context.Context) ([]*Zone, error) {
	return s.repo.ListZones(ctx)
}

// ListPricingRules lists pricing rules ordered by key
func (s *Service) ListPricingRules(ctx context.Context, enabledOnly bool, keys []string) ([]*PricingRule, error) {
	return s.repo.ListPricingRules(ctx, enabledOnly, keys)
}

// CreateService adds a wash service to the catalog
func (s *Service) CreateService(ctx context.Context, req *CreateServiceRequest) (*WashService, error) {
	svc := &WashService{
		Slug:          req.Slug,
		NameAr:        req.NameAr,
		NameEn:        req.NameEn,
		DescAr:        req.DescAr,
		DescEn:        req.DescEn,
		BasePriceTeam: money.FromFloat(req.BasePriceTeam),
		BasePriceSolo: money.FromFloat(req.BasePriceSolo),
		EstMinutes:    req.EstMinutes,
		Order:         req.Order,
		Visible:       boolOr(req.Visible, true),
	}

	if err := s.repo.CreateService(ctx, svc); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, common.NewConflictError("service slug already exists")
		}
		return nil, err
	}

	logger.WithContext(ctx).Info("service created",
		zap.Int64("service_id", svc.ID),
		zap.String("slug", svc.Slug),
	)
	return svc, nil
}

// CreateAddon adds an addon to the catalog
func (s *Service) CreateAddon(ctx context.Context, req *CreateAddonRequest) (*Addon, error) {
	addon := &Addon{
		Slug:       req.Slug,
		NameAr:     req.NameAr,
		NameEn:     req.NameEn,
		DescAr:     req.DescAr,
		DescEn:     req.DescEn,
		Price:      money.FromFloat(req.Price),
		EstMinutes: req.EstMinutes,
		Order:      req.Order,
		Visible:    boolOr(req.Visible, true),
	}

	if err := s.repo.CreateAddon(ctx, addon); err != nil {
		if database.IsUniqueViolation(err) {
			return nil, common.NewConflictError("addon slug already exists")
		}
		return nil, err
	}

	logger.WithContext(ctx).Info("addon created",
		zap.Int64("addon_id", addon.ID),
		zap.String("slug", addon.Slug),
	)
	return addon, nil
}

// UpsertPricingRule stores a rule value and drops its cached copy. Values for
// the keys the engine consumes must match their typed shape.
func (s *Service) UpsertPricingRule(ctx context.Context, key string, req *UpsertPricingRuleRequest) (*PricingRule, error) {
	if key == "" || len(key) > 100 {
		return nil, common.NewBadRequestError("invalid pricing rule key", nil)
	}
	if err := validateRuleValue(RuleKey(key), req.Value); err != nil {
		return nil, common.NewBadRequestError(err.Error(), err)
	}

	compacted := &bytes.Buffer{}
	if err := json.Compact(compacted, req.Value); err != nil {
		return nil, common.NewBadRequestError("pricing rule value must be valid JSON", err)
	}

	rule := &PricingRule{
		Key:     key,
		Value:   compacted.Bytes(),
		Enabled: boolOr(req.Enabled, true),
	}
	if err := s.repo.UpsertPricingRule(ctx, rule); err != nil {
		return nil, err
	}
	s.rules.Invalidate(ctx, RuleKey(key))

	logger.WithContext(ctx).Info("pricing rule updated",
		zap.String("key", key),
		zap.Bool("enabled", rule.Enabled),
	)
	return rule, nil
}

func validateRuleValue(key RuleKey, value json.RawMessage) error {
	if !json.Valid(value) || bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return errors.New("pricing rule value must be a JSON value")
	}

	switch key {
	case RuleDistanceFee:
		var rule DistanceFeeRule
		if err := decodeStrict(value, &rule); err != nil {
			return fmt.Errorf("invalid distance_fee value: %w", err)
		}
		if rule.BaseFee.IsNegative() {
			return errors.New("distance_fee base_fee must not be negative")
		}
	case RuleCarTypeMultiplier:
		var rule CarTypeMultiplierRule
		if err := decodeStrict(value, &rule); err != nil {
			return fmt.Errorf("invalid car_type_multiplier value: %w", err)
		}
		for _, ct := range []CarType{CarTypeSedan, CarTypeSUV, CarTypePickup} {
			if m := rule.For(ct); !m.IsPositive() {
				return fmt.Errorf("car_type_multiplier %s must be positive", ct)
			}
		}
	}
	return nil
}

func decodeStrict(value json.RawMessage, into interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.DisallowUnknownFields()
	return dec.Decode(into)
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}
