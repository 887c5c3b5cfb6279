package customers

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/richxcame/carwash-booking/pkg/database"
)

// Repository handles customer persistence
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new customer repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const customerColumns = `id, name, phone, whatsapp_verified, created_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	c := &Customer{}
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.WhatsAppVerified, &c.CreatedAt); err != nil {
		return nil, err
	}
	return c, nil
}

// InsertIfAbsent inserts a customer, leaving an existing row for phone untouched
func (r *Repository) InsertIfAbsent(ctx context.Context, name, phone string) (*Customer, error) {
	query := `
		INSERT INTO customers (name, phone, whatsapp_verified)
		VALUES ($1, $2, false)
		ON CONFLICT (phone) DO NOTHING
		RETURNING ` + customerColumns

	c, err := scanCustomer(r.db.QueryRow(ctx, query, name, phone))
	if database.IsNoRows(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to insert customer: %w", err)
	}
	return c, nil
}

// GetByPhone retrieves a customer by phone
func (r *Repository) GetByPhone(ctx context.Context, phone string) (*Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE phone = $1`

	c, err := scanCustomer(r.db.QueryRow(ctx, query, phone))
	if err != nil {
		return nil, fmt.Errorf("failed to get customer by phone: %w", err)
	}
	return c, nil
}

// GetByID retrieves a customer by ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	c, err := scanCustomer(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return c, nil
}
