package model

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

// Exponent bounds for client amounts. Anything outside is either beyond
// MaxMoney or too precise to round cheaply.
const (
	minMoneyExponent = -18
	maxMoneyExponent = 10
)

// MaxMoney is the largest amount accepted from clients; it matches the
// NUMERIC(12,2) columns amounts are stored in.
var MaxMoney = decimal.RequireFromString("9999999999.99")

// ErrMoneyOutOfRange is returned when a decoded amount exceeds MaxMoney or
// carries more precision than can be rounded cheaply.
var ErrMoneyOutOfRange = errors.New("amount out of range")

// Money is a dollar amount kept to two decimal places.
type Money struct {
	decimal.Decimal
}

// NewMoney rounds d to cents.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d.Round(2)}
}

// MoneyFromFloat is a convenience for tests and static tables.
func MoneyFromFloat(f float64) Money {
	return NewMoney(decimal.NewFromFloat(f))
}

// MarshalJSON writes the amount as a JSON number with two decimals.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.Round(2).StringFixed(2)), nil
}

// UnmarshalJSON accepts either a JSON number or a numeric string.
// Amounts beyond MaxMoney fail with ErrMoneyOutOfRange before any arithmetic.
func (m *Money) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		m.Decimal = decimal.Zero
		return nil
	}
	raw := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
	}
	d, err := parseAmount(raw)
	if err != nil {
		return err
	}
	m.Decimal = d.Round(2)
	return nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	// The exponent is checked before any comparison so that values like
	// 1e20000000 are never expanded.
	if exp := d.Exponent(); exp < minMoneyExponent || exp > maxMoneyExponent {
		return decimal.Zero, ErrMoneyOutOfRange
	}
	if d.Abs().GreaterThan(MaxMoney) {
		return decimal.Zero, ErrMoneyOutOfRange
	}
	return d, nil
}

// String returns the amount with two decimals.
func (m Money) String() string {
	return m.Decimal.Round(2).StringFixed(2)
}
