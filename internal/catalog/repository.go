package catalog

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/richxcame/carwash-booking/pkg/money"
)

// Repository handles catalog reads and admin writes
type Repository struct {
	db *pgxpool.Pool
}

// NewRepository creates a new catalog repository
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{db: db}
}

const serviceColumns = `id, slug, name_ar, name_en, desc_ar, desc_en,
	base_price_team::text, base_price_solo::text, est_minutes, "order", visible, created_at`

const addonColumns = `id, slug, name_ar, name_en, desc_ar, desc_en,
	price::text, est_minutes, "order", visible, created_at`

func scanService(row pgx.Row) (*WashService, error) {
	s := &WashService{}
	var team, solo string
	err := row.Scan(
		&s.ID, &s.Slug, &s.NameAr, &s.NameEn, &s.DescAr, &s.DescEn,
		&team, &solo, &s.EstMinutes, &s.Order, &s.Visible, &s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if s.BasePriceTeam, err = money.Parse(team); err != nil {
		return nil, err
	}
	if s.BasePriceSolo, err = money.Parse(solo); err != nil {
		return nil, err
	}
	return s, nil
}

func scanAddon(row pgx.Row) (*Addon, error) {
	a := &Addon{}
	var price string
	err := row.Scan(
		&a.ID, &a.Slug, &a.NameAr, &a.NameEn, &a.DescAr, &a.DescEn,
		&price, &a.EstMinutes, &a.Order, &a.Visible, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.Price, err = money.Parse(price); err != nil {
		return nil, err
	}
	return a, nil
}

// GetService retrieves a service by ID
func (r *Repository) GetService(ctx context.Context, id int64) (*WashService, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE id = $1`

	s, err := scanService(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return s, nil
}

// GetAddonsByIDs retrieves the addons matching ids. Missing ids are simply
// absent from the result.
func (r *Repository) GetAddonsByIDs(ctx context.Context, ids []int64) ([]*Addon, error) {
	query := `SELECT ` + addonColumns + ` FROM addons WHERE id = ANY($1)`

	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get addons: %w", err)
	}
	defer rows.Close()

	addons := make([]*Addon, 0, len(ids))
	for rows.Next() {
		a, err := scanAddon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan addon: %w", err)
		}
		addons = append(addons, a)
	}
	return addons, rows.Err()
}

// GetZone retrieves a zone by ID
func (r *Repository) GetZone(ctx context.Context, id int64) (*Zone, error) {
	query := `
		SELECT id, name_ar, name_en, polygon_or_center, notes, created_at
		FROM zones WHERE id = $1
	`
	z := &Zone{}
	err := r.db.QueryRow(ctx, query, id).Scan(
		&z.ID, &z.NameAr, &z.NameEn, &z.PolygonOrCenter, &z.Notes, &z.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get zone: %w", err)
	}
	return z, nil
}

// GetCouponByCode retrieves a coupon by its code
func (r *Repository) GetCouponByCode(ctx context.Context, code string) (*Coupon, error) {
	query := `
		SELECT id, code, discount_type::text, value::text, start_at, end_at, usage_limit, created_at
		FROM coupons WHERE code = $1
	`
	c := &Coupon{}
	var value string
	err := r.db.QueryRow(ctx, query, code).Scan(
		&c.ID, &c.Code, &c.DiscountType, &value, &c.StartAt, &c.EndAt, &c.UsageLimit, &c.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get coupon: %w", err)
	}
	if c.Value, err = money.Parse(value); err != nil {
		return nil, err
	}
	return c, nil
}

// GetPricingRule retrieves a pricing rule by key regardless of its enabled flag
func (r *Repository) GetPricingRule(ctx context.Context, key RuleKey) (*PricingRule, error) {
	query := `SELECT id, key, value_json, enabled, created_at FROM pricing_rules WHERE key = $1`

	rule := &PricingRule{}
	var value string
	err := r.db.QueryRow(ctx, query, string(key)).Scan(
		&rule.ID, &rule.Key, &value, &rule.Enabled, &rule.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get pricing rule: %w", err)
	}
	rule.Value = []byte(value)
	return rule, nil
}

// ListServices lists services in display order
func (r *Repository) ListServices(ctx context.Context, visibleOnly bool) ([]*WashService, error) {
	query := `SELECT ` + serviceColumns + ` FROM services`
	if visibleOnly {
		query += ` WHERE visible = true`
	}
	query += ` ORDER BY "order", id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	services := make([]*WashService, 0)
	for rows.Next() {
		s, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, s)
	}
	return services, rows.Err()
}

// ListAddons lists addons in display order
func (r *Repository) ListAddons(ctx context.Context, visibleOnly bool) ([]*Addon, error) {
	query := `SELECT ` + addonColumns + ` FROM addons`
	if visibleOnly {
		query += ` WHERE visible = true`
	}
	query += ` ORDER BY "order", id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list addons: %w", err)
	}
	defer rows.Close()

	addons := make([]*Addon, 0)
	for rows.Next() {
		a, err := scanAddon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan addon: %w", err)
		}
		addons = append(addons, a)
	}
	return addons, rows.Err()
}

// ListZones lists all zones
func (r *Repository) ListZones(ctx context.Context) ([]*Zone, error) {
	query := `
		SELECT id, name_ar, name_en, polygon_or_center, notes, created_at
		FROM zones ORDER BY id
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list zones: %w", err)
	}
	defer rows.Close()

	zones := make([]*Zone, 0)
	for rows.Next() {
		z := &Zone{}
		if err := rows.Scan(&z.ID, &z.NameAr, &z.NameEn, &z.PolygonOrCenter, &z.Notes, &z.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan zone: %w", err)
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

// ListPricingRules lists rules ordered by key, optionally filtered
func (r *Repository) ListPricingRules(ctx context.Context, enabledOnly bool, keys []string) ([]*PricingRule, error) {
	query := `
		SELECT id, key, value_json, enabled, created_at
		FROM pricing_rules
		WHERE ($1 = false OR enabled = true)
		  AND (cardinality($2::text[]) = 0 OR key = ANY($2))
		ORDER BY key
	`
	if keys == nil {
		keys = []string{}
	}

	rows, err := r.db.Query(ctx, query, enabledOnly, keys)
	if err != nil {
		return nil, fmt.Errorf("failed to list pricing rules: %w", err)
	}
	defer rows.Close()

	rules := make([]*PricingRule, 0)
	for rows.Next() {
		rule := &PricingRule{}
		var value string
		if err := rows.Scan(&rule.ID, &rule.Key, &value, &rule.Enabled, &rule.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pricing rule: %w", err)
		}
		rule.Value = []byte(value)
		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

// CreateService inserts a service
func (r *Repository) CreateService(ctx context.Context, s *WashService) error {
	query := `
		INSERT INTO services (slug, name_ar, name_en, desc_ar, desc_en,
		       base_price_team, base_price_solo, est_minutes, "order", visible)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		s.Slug, s.NameAr, s.NameEn, s.DescAr, s.DescEn,
		money.String(s.BasePriceTeam), money.String(s.BasePriceSolo),
		s.EstMinutes, s.Order, s.Visible,
	).Scan(&s.ID, &s.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

// CreateAddon inserts an addon
func (r *Repository) CreateAddon(ctx context.Context, a *Addon) error {
	query := `
		INSERT INTO addons (slug, name_ar, name_en, desc_ar, desc_en,
		       price, est_minutes, "order", visible)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query,
		a.Slug, a.NameAr, a.NameEn, a.DescAr, a.DescEn,
		money.String(a.Price), a.EstMinutes, a.Order, a.Visible,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create addon: %w", err)
	}
	return nil
}

// UpsertPricingRule inserts a rule or replaces the value of an existing key
func (r *Repository) UpsertPricingRule(ctx context.Context, rule *PricingRule) error {
	query := `
		INSERT INTO pricing_rules (key, value_json, enabled)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value_json = EXCLUDED.value_json, enabled = EXCLUDED.enabled
		RETURNING id, created_at
	`
	err := r.db.QueryRow(ctx, query, rule.Key, string(rule.Value), rule.Enabled).Scan(&rule.ID, &rule.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert pricing rule: %w", err)
	}
	return nil
}
