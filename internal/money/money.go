// Package money provides the fixed-point amount type used throughout ExpenseX.
//
// Amounts are held as integer minor units (cents) so that balances add up
// exactly. Conversion to and from decimal happens only at the boundaries:
// request parsing, storage and responses.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of decimal places in one major unit.
const Places = 2

// ErrInvalidAmount is returned when an amount cannot be parsed, is not
// positive, or is out of range.
var ErrInvalidAmount = errors.New("invalid amount")

// Cents is an amount in minor currency units.
type Cents int64

// MaxAmount is the largest magnitude a single amount may have:
// ten trillion major units. Sums of many such amounts still fit in an int64.
const MaxAmount Cents = 1_000_000_000_000_000

var (
	unit       = decimal.New(1, Places)
	maxDecimal = decimal.New(int64(MaxAmount), 0)
)

// FromDecimal rounds d to two decimal places (half away from zero) and
// converts it to minor units. Amounts larger in magnitude than MaxAmount
// are rejected with ErrInvalidAmount.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	scaled := d.Round(Places).Mul(unit)
	if scaled.Abs().GreaterThan(maxDecimal) {
		return 0, fmt.Errorf("%w: %s exceeds %s", ErrInvalidAmount, d, MaxAmount)
	}
	return Cents(scaled.IntPart()), nil
}

// Parse converts a user-supplied decimal string to cents.
//
// Both dot (12.34) and comma (12,34) separators are accepted. Extra
// fractional digits are rounded. Zero, negative and out-of-range amounts
// are rejected.
//
//	Parse("12.34")  -> 1234
//	Parse("12,345") -> 1235
//	Parse("0")      -> ErrInvalidAmount
//	Parse("1e20")   -> ErrInvalidAmount
func Parse(s string) (Cents, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	c, err := FromDecimal(d)
	if err != nil {
		return 0, err
	}
	if c <= 0 {
		return 0, fmt.Errorf("%w: %q must be positive", ErrInvalidAmount, s)
	}
	return c, nil
}

// Decimal returns the amount in major units.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -Places)
}

// String formats the amount with exactly two decimal places.
func (c Cents) String() string {
	return c.Decimal().StringFixed(Places)
}

// Abs returns the absolute value.
func (c Cents) Abs() Cents {
	if c < 0 {
		return -c
	}
	return c
}

// Split divides c into n shares that sum exactly to c.
// The remainder is spread one cent at a time over the leading shares, so
// shares never differ by more than one cent.
func (c Cents) Split(n int) ([]Cents, error) {
	if n <= 0 {
		return nil, fmt.Errorf("cannot split into %d shares", n)
	}
	base := c / Cents(n)
	rem := c % Cents(n)

	shares := make([]Cents, n)
	for i := range shares {
		shares[i] = base
		if Cents(i) < rem.Abs() {
			if rem > 0 {
				shares[i]++
			} else {
				shares[i]--
			}
		}
	}
	return shares, nil
}

// Sum adds up amounts.
func Sum(amounts ...Cents) Cents {
	var total Cents
	for _, a := range amounts {
		total += a
	}
	return total
}
