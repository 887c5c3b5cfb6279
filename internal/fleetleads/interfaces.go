package fleetleads

import "context"

// RepositoryInterface defines fleet lead persistence
type RepositoryInterface interface {
	Create(ctx context.Context, lead *FleetLead) error
	UpdateStatus(ctx context.Context, id int64, status Status, notes *string) (*FleetLead, error)
	List(ctx context.Context, status *Status, limit, offset int) ([]*FleetLead, int64, error)
}
