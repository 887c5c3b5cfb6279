package fleetleads

import (
	"context"
	"fmt"
	"strings"

	"github.com/richxcame/carwash-booking/pkg/common"
	"github.com/richxcame/carwash-booking/pkg/database"
	"github.com/richxcame/carwash-booking/pkg/eventbus"
	"github.com/richxcame/carwash-booking/pkg/logger"
	"go.uber.org/zap"
)

// Service handles fleet lead intake and pipeline updates
type Service struct {
	repo   RepositoryInterface
	events eventbus.Publisher
}

// NewService creates a new fleet lead service. events may be nil.
func NewService(repo RepositoryInterface, events eventbus.Publisher) *Service {
	return &Service{repo: repo, events: events}
}

// CreateFleetLead stores a lead from the public form. New leads start in
// the "new" stage unless the form says otherwise.
func (s *Service) CreateFleetLead(ctx context.Context, req *CreateFleetLeadRequest) (*FleetLead, error) {
	lead := &FleetLead{
		CompanyName:   strings.TrimSpace(req.CompanyName),
		ContactPerson: strings.TrimSpace(req.ContactPerson),
		Phone:         req.Phone,
		Status:        StatusNew,
		Notes:         req.Notes,
	}
	if req.Status != nil {
		lead.Status = *req.Status
	}
	if lead.CompanyName == "" || lead.ContactPerson == "" {
		return nil, common.NewBadRequestError("company_name and contact_person must not be blank", nil)
	}

	if err := s.repo.Create(ctx, lead); err != nil {
		if database.IsTransient(err) {
			return nil, common.NewServiceUnavailableError("fleet leads temporarily unavailable", err)
		}
		return nil, err
	}

	logger.WithContext(ctx).Info("fleet lead created",
		zap.Int64("lead_id", lead.ID),
		zap.String("company_name", lead.CompanyName),
	)

	eventbus.PublishAsync(ctx, s.events, eventbus.SubjectFleetLeadCreated, &CreatedEvent{
		LeadID:      lead.ID,
		CompanyName: lead.CompanyName,
		Phone:       lead.Phone,
	})

	return lead, nil
}

// UpdateStatus moves a lead to any stage
func (s *Service) UpdateStatus(ctx context.Context, id int64, req *UpdateStatusRequest) (*FleetLead, error) {
	if !req.Status.Valid() {
		return nil, common.NewBadRequestError(fmt.Sprintf("invalid fleet lead status %q", req.Status), nil)
	}

	lead, err := s.repo.UpdateStatus(ctx, id, req.Status, req.Notes)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, common.NewNotFoundError(fmt.Sprintf("fleet lead %d not found", id), err)
		}
		return nil, err
	}

	logger.WithContext(ctx).Info("fleet lead status updated",
		zap.Int64("lead_id", id),
		zap.String("status", string(lead.Status)),
	)
	return lead, nil
}

// ListFleetLeads returns a page of leads, optionally in one stage
func (s *Service) ListFleetLeads(ctx context.Context, status *Status, limit, offset int) ([]*FleetLead, int64, error) {
	return s.repo.List(ctx, status, limit, offset)
}
