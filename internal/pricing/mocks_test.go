package pricing

import (
	"context"
	"time"

	"github.com/richxcame/carwash-booking/internal/catalog"
	"github.com/stretchr/testify/mock"
)

// MockCatalog is a mock implementation of Catalog
type MockCatalog struct {
	mock.Mock
}

func (m *MockCatalog) GetService(ctx context.Context, id int64) (*catalog.WashService, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.WashService), args.Error(1)
}

func (m *MockCatalog) ResolveAddons(ctx context.Context, ids []int64) (map[int64]*catalog.Addon, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]*catalog.Addon), args.Error(1)
}

func (m *MockCatalog) GetZone(ctx context.Context, id int64) (*catalog.Zone, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Zone), args.Error(1)
}

func (m *MockCatalog) ActiveCoupon(ctx context.Context, code string, now time.Time) (*catalog.Coupon, error) {
	args := m.Called(ctx, code, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Coupon), args.Error(1)
}

func (m *MockCatalog) CarTypeMultiplier(ctx context.Context) (*catalog.CarTypeMultiplierRule, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*catalog.CarTypeMultiplierRule), args.Bool(1), args.Error(2)
}

// MockRuleSource is a mock implementation of DistanceFeeSource
type MockRuleSource struct {
	mock.Mock
}

func (m *MockRuleSource) DistanceFee(ctx context.Context) (*catalog.DistanceFeeRule, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*catalog.DistanceFeeRule), args.Bool(1), args.Error(2)
}
