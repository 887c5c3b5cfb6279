package bookings

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/richxcame/carwash-booking/pkg/database"
	"github.com/richxcame/carwash-booking/pkg/geo"
	"github.com/richxcame/carwash-booking/pkg/money"
)

// Repository handles booking persistence
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new booking repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const bookingColumns = `id, customer_id, service_id, addon_ids, car_type::text, zone_id,
	address_text, geo_point::text, scheduled_window_start, scheduled_window_end,
	status::text, price_total::text, is_solo, distance_fee::text, created_at, updated_at`

func scanBooking(row pgx.Row) (*Booking, error) {
	b := &Booking{}
	var priceTotal string
	var distanceFee *string
	err := row.Scan(
		&b.ID, &b.CustomerID, &b.ServiceID, &b.AddonIDs, &b.CarType, &b.ZoneID,
		&b.AddressText, &b.GeoPoint, &b.ScheduledWindow.Start, &b.ScheduledWindow.End,
		&b.Status, &priceTotal, &b.IsSolo, &distanceFee, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if b.PriceTotal, err = money.Parse(priceTotal); err != nil {
		return nil, err
	}
	if distanceFee != nil {
		fee, err := money.Parse(*distanceFee)
		if err != nil {
			return nil, err
		}
		b.DistanceFee = &fee
	}
	if b.GeoPoint, err = geo.Normalize(b.GeoPoint); err != nil {
		return nil, err
	}
	if b.AddonIDs == nil {
		b.AddonIDs = []int64{}
	}
	return b, nil
}

func recordStatus(ctx context.Context, tx pgx.Tx, id int64, from *Status, to Status) error {
	_, err := tx.Exec(ctx, `
		INSERT INTO booking_status_history (booking_id, from_status, to_status)
		VALUES ($1, $2::booking_status, $3::booking_status)`,
		id, from, to,
	)
	if err != nil {
		return fmt.Errorf("failed to record status change: %w", err)
	}
	return nil
}

// CreateBooking inserts b and its initial status history row in one
// transaction, filling in ID and timestamps
func (r *Repository) CreateBooking(ctx context.Context, b *Booking) error {
	var distanceFee *string
	if b.DistanceFee != nil {
		s := money.String(*b.DistanceFee)
		distanceFee = &s
	}

	return database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO bookings (
				customer_id, service_id, addon_ids, car_type, zone_id, address_text, geo_point,
				scheduled_window_start, scheduled_window_end, status, price_total, is_solo, distance_fee
			) VALUES ($1, $2, $3, $4::car_type, $5, $6, $7::jsonb, $8, $9, $10::booking_status, $11::numeric, $12, $13::numeric)
			RETURNING id, created_at, updated_at`

		err := tx.QueryRow(ctx, query,
			b.CustomerID, b.ServiceID, b.AddonIDs, b.CarType, b.ZoneID, b.AddressText, b.GeoPoint,
			b.ScheduledWindow.Start, b.ScheduledWindow.End, b.Status, money.String(b.PriceTotal), b.IsSolo, distanceFee,
		).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
		if err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}

		return recordStatus(ctx, tx, b.ID, nil, b.Status)
	})
}

// GetBooking retrieves a booking by ID
func (r *Repository) GetBooking(ctx context.Context, id int64) (*Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	b, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return b, nil
}

// UpdateBooking applies the non-nil fields of patch and returns the row with
// the status it held before. The row is locked while patch.Guard runs, and a
// status change is recorded in the history within the same transaction.
func (r *Repository) UpdateBooking(ctx context.Context, id int64, patch *Patch) (*Booking, Status, error) {
	var updated *Booking
	var previous Status

	err := database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `SELECT status::text FROM bookings WHERE id = $1 FOR UPDATE`, id).Scan(&previous)
		if err != nil {
			return fmt.Errorf("failed to lock booking: %w", err)
		}
		if patch.Status != nil && patch.Guard != nil {
			if err := patch.Guard(previous); err != nil {
				return err
			}
		}

		query := `
			UPDATE bookings SET
				status = COALESCE($2::booking_status, status),
				scheduled_window_start = COALESCE($3, scheduled_window_start),
				scheduled_window_end = COALESCE($4, scheduled_window_end),
				address_text = COALESCE($5, address_text),
				geo_point = COALESCE($6::jsonb, geo_point),
				reminder_sent_at = CASE
					WHEN $3::timestamptz IS NOT NULL AND $3::timestamptz <> scheduled_window_start THEN NULL
					ELSE reminder_sent_at
				END,
				updated_at = NOW()
			WHERE id = $1
			RETURNING ` + bookingColumns

		updated, err = scanBooking(tx.QueryRow(ctx, query,
			id, patch.Status, patch.WindowStart, patch.WindowEnd, patch.AddressText, patch.GeoPoint,
		))
		if err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}

		if patch.Status != nil && *patch.Status != previous {
			return recordStatus(ctx, tx, id, &previous, *patch.Status)
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return updated, previous, nil
}

// buildFilters constructs the WHERE clause and args for filter
func buildFilters(filter *ListFilter) (string, []interface{}, int) {
	where := []string{"TRUE"}
	args := []interface{}{}
	argIdx := 1

	if filter != nil {
		if filter.Status != nil {
			where = append(where, fmt.Sprintf("status = $%d::booking_status", argIdx))
			args = append(args, *filter.Status)
			argIdx++
		}
		if filter.DateFrom != nil {
			where = append(where, fmt.Sprintf("scheduled_window_start >= $%d", argIdx))
			args = append(args, *filter.DateFrom)
			argIdx++
		}
		if filter.DateTo != nil {
			where = append(where, fmt.Sprintf("scheduled_window_start < $%d", argIdx))
			args = append(args, *filter.DateTo)
			argIdx++
		}
		if filter.ZoneID != nil {
			where = append(where, fmt.Sprintf("zone_id = $%d", argIdx))
			args = append(args, *filter.ZoneID)
			argIdx++
		}
		if filter.CustomerID != nil {
			where = append(where, fmt.Sprintf("customer_id = $%d", argIdx))
			args = append(args, *filter.CustomerID)
			argIdx++
		}
	}

	return strings.Join(where, " AND "), args, argIdx
}

// ListBookings returns a page of bookings matching filter, newest first, and
// the total match count
func (r *Repository) ListBookings(ctx context.Context, filter *ListFilter, limit, offset int) ([]*Booking, int64, error) {
	whereClause, args, argIdx := buildFilters(filter)

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM bookings WHERE %s`, whereClause)
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM bookings WHERE %s
		ORDER BY created_at DESC, scheduled_window_start DESC
		LIMIT $%d OFFSET $%d`,
		bookingColumns, whereClause, argIdx, argIdx+1)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	bookings := make([]*Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, total, nil
}

// ListStatusHistory returns the status changes of a booking, oldest first
func (r *Repository) ListStatusHistory(ctx context.Context, id int64) ([]*StatusChange, error) {
	rows, err := r.db.Query(ctx, `
		SELECT booking_id, from_status::text, to_status::text, changed_at
		FROM booking_status_history
		WHERE booking_id = $1
		ORDER BY changed_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	defer rows.Close()

	history := make([]*StatusChange, 0)
	for rows.Next() {
		c := &StatusChange{}
		if err := rows.Scan(&c.BookingID, &c.FromStatus, &c.ToStatus, &c.ChangedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status change: %w", err)
		}
		history = append(history, c)
	}
	return history, rows.Err()
}
