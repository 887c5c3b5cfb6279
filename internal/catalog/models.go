package catalog

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// CarType is the vehicle class a wash is booked for
type CarType string

const (
	CarTypeSedan  CarType = "sedan"
	CarTypeSUV    CarType = "suv"
	CarTypePickup CarType = "pickup"
)

// DiscountType is how a coupon value is applied
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// RuleKey names a pricing rule row
type RuleKey string

const (
	RuleDistanceFee       RuleKey = "distance_fee"
	RuleCarTypeMultiplier RuleKey = "car_type_multiplier"
)

// WashService is a bookable wash with team and solo prices
type WashService struct {
	ID            int64           `json:"id"`
	Slug          string          `json:"slug"`
	NameAr        string          `json:"name_ar"`
	NameEn        string          `json:"name_en"`
	DescAr        *string         `json:"desc_ar"`
	DescEn        *string         `json:"desc_en"`
	BasePriceTeam decimal.Decimal `json:"base_price_team"`
	BasePriceSolo decimal.Decimal `json:"base_price_solo"`
	EstMinutes    int             `json:"est_minutes"`
	Order         int             `json:"order"`
	Visible       bool            `json:"visible"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BasePrice returns the price for the staffing mode
func (s *WashService) BasePrice(isSolo bool) decimal.Decimal {
	if isSolo {
		return s.BasePriceSolo
	}
	return s.BasePriceTeam
}

// Addon is an extra stacked onto a service
type Addon struct {
	ID         int64           `json:"id"`
	Slug       string          `json:"slug"`
	NameAr     string          `json:"name_ar"`
	NameEn     string          `json:"name_en"`
	DescAr     *string         `json:"desc_ar"`
	DescEn     *string         `json:"desc_en"`
	Price      decimal.Decimal `json:"price"`
	EstMinutes int             `json:"est_minutes"`
	Order      int             `json:"order"`
	Visible    bool            `json:"visible"`
	CreatedAt  time.Time       `json:"created_at"`
}

// Zone is a service area. PolygonOrCenter holds GeoJSON.
type Zone struct {
	ID              int64     `json:"id"`
	NameAr          string    `json:"name_ar"`
	NameEn          string    `json:"name_en"`
	PolygonOrCenter string    `json:"polygon_or_center"`
	Notes           *string   `json:"notes"`
	CreatedAt       time.Time `json:"created_at"`
}

// Coupon is a code-activated discount
type Coupon struct {
	ID           int64           `json:"id"`
	Code         string          `json:"code"`
	DiscountType DiscountType    `json:"discount_type"`
	Value        decimal.Decimal `json:"value"`
	StartAt      *time.Time      `json:"start_at"`
	EndAt        *time.Time      `json:"end_at"`
	UsageLimit   *int            `json:"usage_limit"`
	CreatedAt    time.Time       `json:"created_at"`
}

// IsActive reports whether now falls inside the coupon window. A nil bound
// is open.
func (c *Coupon) IsActive(now time.Time) bool {
	if c.StartAt != nil && now.Before(*c.StartAt) {
		return false
	}
	if c.EndAt != nil && now.After(*c.EndAt) {
		return false
	}
	return true
}

// PricingRule is a keyed JSON configuration row
type PricingRule struct {
	ID        int64           `json:"id"`
	Key       string          `json:"key"`
	Value     json.RawMessage `json:"value"`
	Enabled   bool            `json:"enabled"`
	CreatedAt time.Time       `json:"created_at"`
}

// DistanceFeeRule is the decoded distance_fee value
type DistanceFeeRule struct {
	BaseFee decimal.Decimal `json:"base_fee"`
}

// CarTypeMultiplierRule is the decoded car_type_multiplier value
type CarTypeMultiplierRule struct {
	Sedan  *decimal.Decimal `json:"sedan,omitempty"`
	SUV    *decimal.Decimal `json:"suv,omitempty"`
	Pickup *decimal.Decimal `json:"pickup,omitempty"`
}

// For returns the multiplier for carType, 1 when unset
func (r *CarTypeMultiplierRule) For(carType CarType) decimal.Decimal {
	var m *decimal.Decimal
	switch carType {
	case CarTypeSedan:
		m = r.Sedan
	case CarTypeSUV:
		m = r.SUV
	case CarTypePickup:
		m = r.Pickup
	}
	if m == nil {
		return decimal.NewFromInt(1)
	}
	return *m
}

// CreateServiceRequest is the admin payload for a new service
type CreateServiceRequest struct {
	Slug          string  `json:"slug" binding:"required,max=100"`
	NameAr        string  `json:"name_ar" binding:"required"`
	NameEn        string  `json:"name_en" binding:"required"`
	DescAr        *string `json:"desc_ar"`
	DescEn        *string `json:"desc_en"`
	BasePriceTeam float64 `json:"base_price_team" binding:"gt=0"`
	BasePriceSolo float64 `json:"base_price_solo" binding:"gt=0"`
	EstMinutes    int     `json:"est_minutes" binding:"gt=0"`
	Order         int     `json:"order"`
	Visible       *bool   `json:"visible"`
}

// CreateAddonRequest is the admin payload for a new addon
type CreateAddonRequest struct {
	Slug       string  `json:"slug" binding:"required,max=100"`
	NameAr     string  `json:"name_ar" binding:"required"`
	NameEn     string  `json:"name_en" binding:"required"`
	DescAr     *string `json:"desc_ar"`
	DescEn     *string `json:"desc_en"`
	Price      float64 `json:"price" binding:"gt=0"`
	EstMinutes int     `json:"est_minutes" binding:"gt=0"`
	Order      int     `json:"order"`
	Visible    *bool   `json:"visible"`
}

// UpsertPricingRuleRequest is the admin payload for PUT /pricing-rules/:key
type UpsertPricingRuleRequest struct {
	Value   json.RawMessage `json:"value" binding:"required"`
	Enabled *bool           `json:"enabled"`
}
