// Package money carries amounts as fixed two-digit decimals. Amounts cross the
// storage boundary as NUMERIC(10,2) strings and the API boundary as float64.
package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Scale is the number of fraction digits every amount is rounded to
const Scale = 2

var hundred = decimal.NewFromInt(100)

// Zero is the zero amount
var Zero = decimal.Zero

func init() {
	// amounts leave the API as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// Round rounds an amount half away from zero to two fraction digits
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

// Parse reads an amount stored as a NUMERIC string
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// FromFloat converts an API amount into a rounded decimal
func FromFloat(f float64) decimal.Decimal {
	return Round(decimal.NewFromFloat(f))
}

// ToFloat converts an amount for the API boundary
func ToFloat(d decimal.Decimal) float64 {
	f, _ := Round(d).Float64()
	return f
}

// String renders an amount for the storage boundary
func String(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

// Percent returns pct percent of amount, rounded
func Percent(amount, pct decimal.Decimal) decimal.Decimal {
	return Round(amount.Mul(pct).Div(hundred))
}

// Clamp limits d to the range [0, max]
func Clamp(d, max decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	if d.GreaterThan(max) {
		return max
	}
	return d
}

// NonNegative returns d, or zero when d is negative
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
