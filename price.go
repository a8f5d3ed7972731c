package cardprices

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// newDecimal is a convenient factory for decimal.Decimal
func newDecimal[T float64 | int | int64 | decimal.Decimal](value T) decimal.Decimal {
	switch v := any(value).(type) {
	case decimal.Decimal:
		return v
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	default:
		panic("unsupported type")
	}
}

// Price is an observed card price. The zero value is a zero price.
type Price struct {
	value decimal.Decimal
}

// P returns a Price from a numeric value.
func P[T float64 | int | int64 | decimal.Decimal](value T) Price {
	return Price{value: newDecimal(value)}
}

var errEmptyPrice = errors.New("empty price")

// ParsePrice reads a price as written by the scraper or stored in the matrix.
//
// Comma is accepted as decimal separator ("1,50" is 1.50), blanks are ignored.
// This is the only place where price text is turned into a number.
func ParsePrice(s string) (Price, error) {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "\u00a0", "")
	s = strings.ReplaceAll(s, ",", ".")
	if s == "" {
		return Price{}, errEmptyPrice
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Price{}, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return Price{value: d}, nil
}

// MustParsePrice is like ParsePrice but panics on error.
func MustParsePrice(s string) Price {
	p, err := ParsePrice(s)
	if err != nil {
		panic(err.Error())
	}
	return p
}

// Cmp returns -1, 0 or +1 whether p is lower, equal or greater than q.
func (p Price) Cmp(q Price) int                 { return p.value.Cmp(q.value) }
func (p Price) Equal(q Price) bool              { return p.value.Equal(q.value) }
func (p Price) LessThan(q Price) bool           { return p.value.LessThan(q.value) }
func (p Price) GreaterThan(q Price) bool        { return p.value.GreaterThan(q.value) }
func (p Price) IsNegative() bool                { return p.value.IsNegative() }
func (p Price) Sub(q Price) Price               { return Price{value: p.value.Sub(q.value)} }
func (p Price) InexactFloat64() float64         { return p.value.InexactFloat64() }
func (p Price) Decimal() decimal.Decimal        { return p.value }
func (p Price) StringFixed(places int32) string { return p.value.StringFixed(places) }

// String returns the canonical text of the price, with a dot as decimal separator and
// at least two decimals.
func (p Price) String() string {
	if p.value.Exponent() >= -2 {
		return p.value.StringFixed(2)
	}
	return p.value.String()
}
