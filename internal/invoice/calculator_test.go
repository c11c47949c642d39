package invoice_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturalabs/facturador/internal/invoice"
	"github.com/facturalabs/facturador/internal/model"
)

func lineItem(qty, price, total string) model.LineItem {
	return model.LineItem{
		Description: "item",
		Quantity:    decimal.RequireFromString(qty),
		Unit:        "UNI",
		UnitPrice:   decimal.RequireFromString(price),
		Total:       decimal.RequireFromString(total),
	}
}

func assertAmount(t *testing.T, expected string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, got.Equal(decimal.RequireFromString(expected)),
		"got %s, want %s", got.String(), expected)
}

func TestCalculator_Totals(t *testing.T) {
	calc := invoice.NewCalculator(decimal.NewFromFloat(0.18))

	totals := calc.Totals([]model.LineItem{
		lineItem("2", "1500.00", "3000.00"),
		lineItem("1", "500.00", "500.00"),
	})

	assertAmount(t, "3500.00", totals.Subtotal)
	assertAmount(t, "630.00", totals.Tax)
	assertAmount(t, "4130.00", totals.Grand)
	assertAmount(t, "18", totals.RatePercent)
}

func TestCalculator_EmptyItems(t *testing.T) {
	calc := invoice.NewCalculator(decimal.NewFromFloat(0.18))

	totals := calc.Totals(nil)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Tax.IsZero())
	assert.True(t, totals.Grand.IsZero())
}

func TestCalculator_RoundingPerField(t *testing.T) {
	calc := invoice.NewCalculator(decimal.NewFromFloat(0.18))

	// Subtotal 33.33 -> tax 5.9994, which rounds to 6.00 before the grand
	// total is formed.
	totals := calc.Totals([]model.LineItem{
		lineItem("1", "33.33", "33.33"),
	})

	assertAmount(t, "33.33", totals.Subtotal)
	assertAmount(t, "6.00", totals.Tax)
	assertAmount(t, "39.33", totals.Grand)
}

func TestCalculator_InjectedRate(t *testing.T) {
	calc := invoice.NewCalculator(decimal.NewFromFloat(0.10))

	totals := calc.Totals([]model.LineItem{
		lineItem("1", "100.00", "100.00"),
	})

	assertAmount(t, "10.00", totals.Tax)
	assertAmount(t, "110.00", totals.Grand)
	assertAmount(t, "10", totals.RatePercent)
}

func TestCalculator_ZeroRateFallsBack(t *testing.T) {
	calc := invoice.NewCalculator(decimal.Zero)
	require.True(t, calc.Rate().Equal(invoice.DefaultTaxRate))
}

func TestCalculator_Deterministic(t *testing.T) {
	calc := invoice.NewCalculator(decimal.NewFromFloat(0.18))
	items := []model.LineItem{
		lineItem("3", "19.99", "59.97"),
		lineItem("2", "4.50", "9.00"),
	}

	first := calc.Totals(items)
	second := calc.Totals(items)

	assert.True(t, first.Subtotal.Equal(second.Subtotal))
	assert.True(t, first.Tax.Equal(second.Tax))
	assert.True(t, first.Grand.Equal(second.Grand))
}
