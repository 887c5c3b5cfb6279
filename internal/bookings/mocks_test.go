package bookings

import (
	"context"

	"github.com/richxcame/carwash-booking/internal/catalog"
	"github.com/richxcame/carwash-booking/internal/customers"
	"github.com/richxcame/carwash-booking/internal/notifications"
	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of RepositoryInterface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateBooking(ctx context.Context, b *Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockRepository) GetBooking(ctx context.Context, id int64) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepository) UpdateBooking(ctx context.Context, id int64, patch *Patch) (*Booking, Status, error) {
	args := m.Called(ctx, id, patch)
	if fn, ok := args.Get(0).(func(context.Context, int64, *Patch) (*Booking, Status, error)); ok {
		return fn(ctx, id, patch)
	}
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*Booking), args.Get(1).(Status), args.Error(2)
}

func (m *MockRepository) ListBookings(ctx context.Context, filter *ListFilter, limit, offset int) ([]*Booking, int64, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockRepository) ListStatusHistory(ctx context.Context, id int64) ([]*StatusChange, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*StatusChange), args.Error(1)
}

// MockCustomers is a mock implementation of CustomerDirectory
type MockCustomers struct {
	mock.Mock
}

func (m *MockCustomers) Resolve(ctx context.Context, name, phone string) (*customers.Customer, error) {
	args := m.Called(ctx, name, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customers.Customer), args.Error(1)
}

func (m *MockCustomers) Get(ctx context.Context, id int64) (*customers.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customers.Customer), args.Error(1)
}

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

// MockDispatcher is a mock implementation of Dispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) Enqueue(ctx context.Context, msg *notifications.Message) string {
	args := m.Called(ctx, msg)
	return args.String(0)
}

// recordingPublisher keeps the last published payload
type recordingPublisher struct {
	subject string
	data    interface{}
	done    chan struct{}
}

func (p *recordingPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	p.subject = subject
	p.data = data
	p.done <- struct{}{}
	return nil
}

// chanPublisher forwards published subjects to a channel
type chanPublisher struct {
	subjects chan string
}

func newChanPublisher() *chanPublisher {
	return &chanPublisher{subjects: make(chan string, 10)}
}

func (p *chanPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	p.subjects <- subject
	return nil
}
