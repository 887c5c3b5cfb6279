package customers

import "context"

// RepositoryInterface defines the customer data access the service needs
type RepositoryInterface interface {
	// InsertIfAbsent creates a customer unless the phone is taken. It returns
	// (nil, nil) when a row for phone already exists.
	InsertIfAbsent(ctx context.Context, name, phone string) (*Customer, error)
	GetByPhone(ctx context.Context, phone string) (*Customer, error)
	GetByID(ctx context.Context, id int64) (*Customer, error)
}
