// Package money provides a fixed-point monetary amount with two decimal places.
package money

import (
	"database/sql/driver"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits kept for monetary values.
const Places = 2

// Amount is a decimal monetary value. It is encoded in JSON as a bare number
// with exactly two fractional digits (e.g. 400.50) and stored as NUMERIC(12,2).
type Amount struct {
	decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// New wraps d.
func New(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

// NewFromString parses a decimal string such as "150.50".
func NewFromString(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, err
	}
	return Amount{Decimal: d}, nil
}

// RequireFromString is like NewFromString but panics on error.
func RequireFromString(s string) Amount {
	return Amount{Decimal: decimal.RequireFromString(s)}
}

// Round returns a rounded to two places, half away from zero.
func Round(d decimal.Decimal) Amount {
	return Amount{Decimal: d.Round(Places)}
}

// HasValidPrecision reports whether d has at most two fractional digits.
func HasValidPrecision(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(Places))
}

// String renders the amount with two fractional digits.
func (a Amount) String() string {
	return a.StringFixed(Places)
}

// MarshalJSON implements json.Marshaler.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.StringFixed(Places)), nil
}

// UnmarshalJSON accepts both JSON numbers and quoted decimal strings.
func (a *Amount) UnmarshalJSON(b []byte) error {
	return a.Decimal.UnmarshalJSON(b)
}

// Value implements driver.Valuer.
func (a Amount) Value() (driver.Value, error) {
	return a.StringFixed(Places), nil
}

// Scan implements sql.Scanner.
func (a *Amount) Scan(src any) error {
	return a.Decimal.Scan(src)
}
