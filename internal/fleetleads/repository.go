package fleetleads

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles fleet lead persistence
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new fleet lead repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const leadColumns = `id, company_name, contact_person, phone, status::text, notes, created_at`

func scanLead(row pgx.Row) (*FleetLead, error) {
	l := &FleetLead{}
	if err := row.Scan(&l.ID, &l.CompanyName, &l.ContactPerson, &l.Phone, &l.Status, &l.Notes, &l.CreatedAt); err != nil {
		return nil, err
	}
	return l, nil
}

// Create inserts a lead and fills in its id and created_at
func (r *Repository) Create(ctx context.Context, lead *FleetLead) error {
	query := `
		INSERT INTO fleet_leads (company_name, contact_person, phone, status, notes)
		VALUES ($1, $2, $3, $4::fleet_lead_status, $5)
		RETURNING id, created_at`

	err := r.db.QueryRow(ctx, query,
		lead.CompanyName, lead.ContactPerson, lead.Phone, string(lead.Status), lead.Notes,
	).Scan(&lead.ID, &lead.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create fleet lead: %w", err)
	}
	return nil
}

// UpdateStatus sets the stage of a lead. Notes are replaced only when given.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status Status, notes *string) (*FleetLead, error) {
	query := `
		UPDATE fleet_leads
		SET status = $2::fleet_lead_status, notes = COALESCE($3, notes)
		WHERE id = $1
		RETURNING ` + leadColumns

	l, err := scanLead(r.db.QueryRow(ctx, query, id, string(status), notes))
	if err != nil {
		return nil, fmt.Errorf("failed to update fleet lead: %w", err)
	}
	return l, nil
}

// List returns a page of leads, newest first
func (r *Repository) List(ctx context.Context, status *Status, limit, offset int) ([]*FleetLead, int64, error) {
	where := ""
	args := []interface{}{}
	if status != nil {
		where = " WHERE status = $1::fleet_lead_status"
		args = append(args, string(*status))
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM fleet_leads`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count fleet leads: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM fleet_leads%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		leadColumns, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list fleet leads: %w", err)
	}
	defer rows.Close()

	leads := make([]*FleetLead, 0)
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan fleet lead: %w", err)
		}
		leads = append(leads, l)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate fleet leads: %w", err)
	}

	return leads, total, nil
}
