package invoice

import (
	"github.com/shopspring/decimal"

	"github.com/facturalabs/facturador/internal/model"
	"github.com/facturalabs/facturador/internal/money"
)

// Calculator aggregates line items into invoice totals under a fixed tax
// rate. The rate is injected at construction; the calculator never raises
// for empty or zero-value input.
type Calculator struct {
	rate decimal.Decimal
}

// NewCalculator creates a calculator for the given fractional rate.
// A zero rate falls back to DefaultTaxRate.
func NewCalculator(rate decimal.Decimal) Calculator {
	if rate.IsZero() {
		rate = DefaultTaxRate
	}
	return Calculator{rate: rate}
}

// Rate returns the configured fractional tax rate.
func (c Calculator) Rate() decimal.Decimal {
	return c.rate
}

// Totals computes subtotal, tax and grand total. Each field is rounded from
// its own formula:
//
//	subtotal = round2(sum of line totals)
//	tax      = round2(subtotal * rate)
//	grand    = round2(subtotal + tax)
//
// An empty item sequence yields 0.00 across the board.
func (c Calculator) Totals(items []model.LineItem) model.Totals {
	lineTotals := make([]decimal.Decimal, len(items))
	for i, item := range items {
		lineTotals[i] = item.Total
	}

	subtotal := money.Round2(money.Sum(lineTotals))
	tax := money.Mul(subtotal, c.rate)
	grand := money.Round2(subtotal.Add(tax))

	return model.Totals{
		Subtotal:    subtotal,
		Tax:         tax,
		Grand:       grand,
		RatePercent: money.RateToPercent(c.rate),
	}
}
