// Package money wraps shopspring/decimal with the two-decimal arithmetic
// used for invoice amounts.
//
// Rounding policy: round half away from zero (decimal.Round), applied
// uniformly at every call site. Subtotal, tax and grand total are each
// rounded from their own formula, never by re-summing already-rounded parts.
package money

import (
	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// FromFloat creates a decimal from a float, rounded to 2 places
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// FromString parses a decimal from a string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses a decimal from a string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Round2 rounds to 2 decimal places (currency minor units)
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Mul multiplies two decimals, rounds to 2 places
func Mul(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b).Round(2)
}

// Sum sums a slice of decimals without intermediate rounding
func Sum(values []decimal.Decimal) decimal.Decimal {
	result := Zero
	for _, v := range values {
		result = result.Add(v)
	}
	return result
}

// RateToPercent converts a fractional rate (0.18) to a percentage (18)
func RateToPercent(rate decimal.Decimal) decimal.Decimal {
	return rate.Mul(decimal.NewFromInt(100))
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

// IsNonNegative returns true if decimal is >= zero
func IsNonNegative(d decimal.Decimal) bool {
	return d.GreaterThanOrEqual(Zero)
}
