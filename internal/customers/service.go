package customers

import (
	"context"
	"fmt"
	"strings"

	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/database"
	"github.com/richxcame/carwash-booking/pkg/logger"
	"github.com/richxcame/carwash-booking/pkg/resilience"
	"go.uber.org/zap"
)

// Service is the customer directory
type Service struct {
	repo  RepositoryInterface
	retry resilience.RetryConfig
}

// NewService creates a new customer directory
func NewService(repo RepositoryInterface) *Service {
	return &Service{
		repo:  repo,
		retry: resilience.DatabaseRetryConfig(database.IsTransient),
	}
}

// Resolve returns the customer for phone, creating it on first sight. An
// existing customer is returned unchanged and name is ignored. Concurrent
// calls for the same new phone produce a single row.
func (s *Service) Resolve(ctx context.Context, name, phone string) (*Customer, error) {
	name = strings.TrimSpace(name)

	result, err := resilience.Retry(ctx, s.retry, func(ctx context.Context) (interface{}, error) {
		created, err := s.repo.InsertIfAbsent(ctx, name, phone)
		if err != nil {
			return nil, err
		}
		if created != nil {
			logger.WithContext(ctx).Info("customer created", zap.Int64("customer_id", created.ID))
			return created, nil
		}
		return s.repo.GetByPhone(ctx, phone)
	})
	if err != nil {
		if database.IsTransient(err) {
			return nil, common.NewServiceUnavailableError("customer directory temporarily unavailable", err)
		}
		return nil, fmt.Errorf("failed to resolve customer: %w", err)
	}

	return result.(*Customer), nil
}

// Get returns a customer by ID
func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, common.NewNotFoundError(fmt.Sprintf("customer %d not found", id), err)
		}
		return nil, err
	}
	return c, nil
}
