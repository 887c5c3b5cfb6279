package fleetleads

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
)

// MockRepository is a mock implementation of RepositoryInterface
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, lead *FleetLead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id int64, status Status, notes *string) (*FleetLead, error) {
	args := m.Called(ctx, id, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*FleetLead), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, status *Status, limit, offset int) ([]*FleetLead, int64, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*FleetLead), args.Get(1).(int64), args.Error(2)
}

// recordingPublisher collects published subjects
type recordingPublisher struct {
	mu       sync.Mutex
	subjects []string
	done     chan struct{}
}

func newRecordingPublisher() *recordingPublisher {
	return &recordingPublisher{done: make(chan struct{}, 10)}
}

func (p *recordingPublisher) Publish(ctx context.Context, subject string, data interface{}) error {
	p.mu.Lock()
	p.subjects = append(p.subjects, subject)
	p.mu.Unlock()
	p.done <- struct{}{}
	return nil
}
