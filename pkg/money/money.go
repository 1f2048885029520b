package money

import (
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Money represents a yen amount with exact decimal arithmetic.
type Money struct {
	decimal.Decimal
}

// New creates a Money from an integer yen amount.
func New(value int64) Money {
	return Money{decimal.NewFromInt(value)}
}

// NewFromFloat creates a Money from a float64.
func NewFromFloat(value float64) Money {
	return Money{decimal.NewFromFloat(value)}
}

// NewFromDecimal wraps a decimal.Decimal as Money.
func NewFromDecimal(d decimal.Decimal) Money {
	return Money{d}
}

// NewFromString parses a Money from its string form.
func NewFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return Money{d}, nil
}

// Round rounds to whole yen using half-up rounding.
func (m Money) Round() Money {
	return Money{m.Decimal.Round(0)}
}

// Annual converts a monthly amount to an annual amount.
func (m Money) Annual() Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(12))}
}

// Monthly converts an annual amount to a monthly amount.
func (m Money) Monthly() Money {
	return Money{m.Decimal.Div(decimal.NewFromInt(12))}
}

// Add adds another amount.
func (m Money) Add(other Money) Money {
	return Money{m.Decimal.Add(other.Decimal)}
}

// Sub subtracts another amount.
func (m Money) Sub(other Money) Money {
	return Money{m.Decimal.Sub(other.Decimal)}
}

// Mul multiplies by a decimal factor.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{m.Decimal.Mul(factor)}
}

// MulFloat multiplies by a float factor.
func (m Money) MulFloat(factor float64) Money {
	return Money{m.Decimal.Mul(decimal.NewFromFloat(factor))}
}

// Div divides by a decimal factor.
func (m Money) Div(factor decimal.Decimal) Money {
	return Money{m.Decimal.Div(factor)}
}

// Neg returns the negated amount.
func (m Money) Neg() Money {
	return Money{m.Decimal.Neg()}
}

// Grow applies one period of growth at the given rate: m * (1 + rate).
func (m Money) Grow(rate decimal.Decimal) Money {
	return Money{m.Decimal.Mul(decimal.NewFromInt(1).Add(rate))}
}

// Compound applies n periods of compound growth at the given rate.
func Compound(base Money, rate decimal.Decimal, periods int) Money {
	factor := decimal.NewFromInt(1).Add(rate).Pow(decimal.NewFromInt(int64(periods)))
	return Money{base.Decimal.Mul(factor)}
}

// GreaterThan reports whether m > other.
func (m Money) GreaterThan(other Money) bool {
	return m.Decimal.GreaterThan(other.Decimal)
}

// GreaterThanOrEqual reports whether m >= other.
func (m Money) GreaterThanOrEqual(other Money) bool {
	return m.Decimal.GreaterThanOrEqual(other.Decimal)
}

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool {
	return m.Decimal.LessThan(other.Decimal)
}

// LessThanOrEqual reports whether m <= other.
func (m Money) LessThanOrEqual(other Money) bool {
	return m.Decimal.LessThanOrEqual(other.Decimal)
}

// Equal reports whether the two amounts are equal.
func (m Money) Equal(other Money) bool {
	return m.Decimal.Equal(other.Decimal)
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.Decimal.IsZero()
}

// IsPositive reports whether the amount is positive.
func (m Money) IsPositive() bool {
	return m.Decimal.IsPositive()
}

// IsNegative reports whether the amount is negative.
func (m Money) IsNegative() bool {
	return m.Decimal.IsNegative()
}

// Min returns the smaller of two amounts.
func Min(a, b Money) Money {
	if a.LessThan(b) {
		return a
	}
	return b
}

// Max returns the larger of two amounts.
func Max(a, b Money) Money {
	if a.GreaterThan(b) {
		return a
	}
	return b
}

// Zero returns a zero amount.
func Zero() Money {
	return Money{decimal.Zero}
}

// Sum adds a list of amounts.
func Sum(amounts ...Money) Money {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a.Decimal)
	}
	return Money{total}
}

// UnmarshalYAML parses a YAML scalar (integer, float or string) as Money.
func (m *Money) UnmarshalYAML(value *yaml.Node) error {
	d, err := decimal.NewFromString(value.Value)
	if err != nil {
		return err
	}
	m.Decimal = d
	return nil
}

// MarshalYAML renders Money as a plain scalar.
func (m Money) MarshalYAML() (interface{}, error) {
	return m.Decimal.String(), nil
}

// String returns the amount as whole yen.
func (m Money) String() string {
	return m.Decimal.StringFixed(0)
}

// Format renders the amount with a yen sign.
func (m Money) Format() string {
	return "¥" + m.String()
}
