package catalog

import (
	"context"
)

// RepositoryInterface defines the catalog storage operations
type RepositoryInterface interface {
	GetService(ctx context.Context, id int64) (*WashService, error)
	GetAddonsByIDs(ctx context.Context, ids []int64) ([]*Addon, error)
	GetZone(ctx context.Context, id int64) (*Zone, error)
	GetCouponByCode(ctx context.Context, code string) (*Coupon, error)
	GetPricingRule(ctx context.Context, key RuleKey) (*PricingRule, error)

	ListServices(ctx context.Context, visibleOnly bool) ([]*WashService, error)
	ListAddons(ctx context.Context, visibleOnly bool) ([]*Addon, error)
	ListZones(ctx context.Context) ([]*Zone, error)
	ListPricingRules(ctx context.Context, enabledOnly bool, keys []string) ([]*PricingRule, error)

	CreateService(ctx context.Context, s *WashService) error
	CreateAddon(ctx context.Context, a *Addon) error
	UpsertPricingRule(ctx context.Context, rule *PricingRule) error
}

// RuleSource loads a single pricing rule row
type RuleSource interface {
	GetPricingRule(ctx context.Context, key RuleKey) (*PricingRule, error)
}
