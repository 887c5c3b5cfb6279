package catalog

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of RepositoryInterface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetService(ctx context.Context, id int64) (*WashService, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*WashService), args.Error(1)
}

func (m *MockRepository) GetAddonsByIDs(ctx context.Context, ids []int64) ([]*Addon, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Addon), args.Error(1)
}

func (m *MockRepository) GetZone(ctx context.Context, id int64) (*Zone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Zone), args.Error(1)
}

func (m *MockRepository) GetCouponByCode(ctx context.Context, code string) (*Coupon, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Coupon), args.Error(1)
}

func (m *MockRepository) GetPricingRule(ctx context.Context, key RuleKey) (*PricingRule, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*PricingRule), args.Error(1)
}

func (m *MockRepository) ListServices(ctx context.Context, visibleOnly bool) ([]*WashService, error) {
	args := m.Called(ctx, visibleOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*WashService), args.Error(1)
}

func (m *MockRepository) ListAddons(ctx context.Context, visibleOnly bool) ([]*Addon, error) {
	args := m.Called(ctx, visibleOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Addon), args.Error(1)
}

func (m *MockRepository) ListZones(ctx context.Context) ([]*Zone, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*Zone), args.Error(1)
}

func (m *MockRepository) ListPricingRules(ctx context.Context, enabledOnly bool, keys []string) ([]*PricingRule, error) {
	args := m.Called(ctx, enabledOnly, keys)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*PricingRule), args.Error(1)
}

func (m *MockRepository) CreateService(ctx context.Context, s *WashService) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockRepository) CreateAddon(ctx context.Context, a *Addon) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockRepository) UpsertPricingRule(ctx context.Context, rule *PricingRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}
