package analytics

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/richxcame/carwash-booking/pkg/money"
)

// Repository reads booking aggregates
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new analytics repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

// GetCounts aggregates bookings for the day and the recent period of w
func (r *Repository) GetCounts(ctx context.Context, w Window) (*Counts, error) {
	query := `
		SELECT
			COUNT(*) FILTER (WHERE b.created_at >= $1 AND b.created_at < $2),
			COUNT(*) FILTER (WHERE b.status IN ('confirmed', 'on_the_way', 'started')),
			COUNT(*) FILTER (WHERE b.status = 'finished' AND b.created_at >= $1 AND b.created_at < $2),
			COALESCE(SUM(b.price_total) FILTER (WHERE b.status = 'finished' AND b.created_at >= $1 AND b.created_at < $2), 0)::text,
			COALESCE(AVG(s.est_minutes) FILTER (WHERE b.status = 'finished' AND b.created_at >= $3), 0)::float8,
			COUNT(*) FILTER (WHERE b.created_at >= $3),
			COUNT(*) FILTER (WHERE b.status = 'finished' AND b.created_at >= $3)
		FROM bookings b
		JOIN services s ON s.id = b.service_id`

	c := &Counts{}
	var revenue string
	err := r.db.QueryRow(ctx, query, w.DayStart, w.DayEnd, w.RecentSince).Scan(
		&c.TodayBookings,
		&c.PendingBookings,
		&c.CompletedToday,
		&revenue,
		&c.AvgServiceMinutes,
		&c.RecentBookings,
		&c.RecentFinished,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking counts: %w", err)
	}

	c.RevenueToday, err = money.Parse(revenue)
	if err != nil {
		return nil, err
	}
	return c, nil
}
