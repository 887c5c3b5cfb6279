package bookings

import (
	"context"

	"github.com/richxcame/carwash-booking/internal/catalog"
	"github.com/richxcame/carwash-booking/internal/customers"
	"github.com/richxcame/carwash-booking/internal/notifications"
)

// RepositoryInterface defines booking persistence
type RepositoryInterface interface {
	CreateBooking(ctx context.Context, b *Booking) error
	GetBooking(ctx context.Context, id int64) (*Booking, error)
	UpdateBooking(ctx context.Context, id int64, patch *Patch) (*Booking, Status, error)
	ListBookings(ctx context.Context, filter *ListFilter, limit, offset int) ([]*Booking, int64, error)
	ListStatusHistory(ctx context.Context, id int64) ([]*StatusChange, error)
}

// CustomerDirectory resolves and looks up customers
type CustomerDirectory interface {
	Resolve(ctx context.Context, name, phone string) (*customers.Customer, error)
	Get(ctx context.Context, id int64) (*customers.Customer, error)
}

// Catalog is the catalog read contract booking intake validates against
type Catalog interface {
	GetService(ctx context.Context, id int64) (*catalog.WashService, error)
	ResolveAddons(ctx context.Context, ids []int64) (map[int64]*catalog.Addon, error)
	GetZone(ctx context.Context, id int64) (*catalog.Zone, error)
}

// Dispatcher queues customer notifications and returns their ids
type Dispatcher interface {
	Enqueue(ctx context.Context, msg *notifications.Message) string
}
