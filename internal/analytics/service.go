package analytics

import (
	"context"
	"time"
)

// RecentPeriod is how far back service time and completion are averaged
const RecentPeriod = 30 * 24 * time.Hour

// AnalyticsRepository defines the persistence operations required by the service.
type AnalyticsRepository interface {
	GetCounts(ctx context.Context, w Window) (*Counts, error)
}

// Service handles analytics business logic
type Service struct {
	repo     AnalyticsRepository
	location *time.Location
	Now      func() time.Time
}

// NewService creates a new analytics service. Days start at midnight in loc.
func NewService(repo AnalyticsRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{repo: repo, location: loc, Now: time.Now}
}

// GetOverview summarizes today's bookings and the recent completion rate
func (s *Service) GetOverview(ctx context.Context) (*Overview, error) {
	counts, err := s.repo.GetCounts(ctx, s.window())
	if err != nil {
		return nil, err
	}
	return counts.toOverview(), nil
}

func (s *Service) window() Window {
	now := s.Now().In(s.location)
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.location)
	return Window{
		DayStart:    dayStart,
		DayEnd:      dayStart.AddDate(0, 0, 1),
		RecentSince: now.Add(-RecentPeriod),
	}
}
