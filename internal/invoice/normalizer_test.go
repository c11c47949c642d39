package invoice_test

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturalabs/facturador/internal/invoice"
	"github.com/facturalabs/facturador/internal/model"
)

func rawItem(t *testing.T, payload string) model.RawItem {
	t.Helper()
	var item model.RawItem
	require.NoError(t, json.Unmarshal([]byte(payload), &item))
	return item
}

func TestNormalizeItem(t *testing.T) {
	n := invoice.NewNormalizer(model.ModePermissive)

	item, err := n.NormalizeItem(rawItem(t, `{
		"descripcion": "Laptop",
		"cantidad": 2,
		"unidad_medida": "UNI",
		"precio_unitario": 1500.00
	}`), 0)
	require.NoError(t, err)

	assert.Equal(t, "Laptop", item.Description)
	assert.True(t, item.Quantity.Equal(decimal.NewFromInt(2)))
	assert.Equal(t, "UNI", item.Unit)
	assert.True(t, item.UnitPrice.Equal(decimal.RequireFromString("1500.00")))
	assert.True(t, item.Total.Equal(decimal.RequireFromString("3000.00")),
		"expected 3000.00, got %s", item.Total.String())
}

func TestNormalizeItem_FractionalQuantity(t *testing.T) {
	n := invoice.NewNormalizer(model.ModePermissive)

	// 12.5 liters at 15.90 -> 198.75
	item, err := n.NormalizeItem(rawItem(t, `{
		"descripcion": "Gasolina",
		"cantidad": 12.5,
		"unidad_medida": "GAL",
		"precio_unitario": 15.90
	}`), 0)
	require.NoError(t, err)
	assert.True(t, item.Total.Equal(decimal.RequireFromString("198.75")))
}

func TestNormalizeItem_StringNumbers(t *testing.T) {
	n := invoice.NewNormalizer(model.ModePermissive)

	item, err := n.NormalizeItem(rawItem(t, `{
		"descripcion": "Servicio",
		"cantidad": "3",
		"precio_unitario": "99.90"
	}`), 0)
	require.NoError(t, err)
	assert.True(t, item.Total.Equal(decimal.RequireFromString("299.70")))
}

func TestNormalizeItem_IgnoresSuppliedTotal(t *testing.T) {
	n := invoice.NewNormalizer(model.ModePermissive)

	// The raw record carries a bogus "importe"; the line total must come
	// from quantity * unit price regardless.
	item, err := n.NormalizeItem(rawItem(t, `{
		"descripcion": "Monitor",
		"cantidad": 1,
		"precio_unitario": 500.00,
		"importe": 9999.99
	}`), 0)
	require.NoError(t, err)
	assert.True(t, item.Total.Equal(decimal.RequireFromString("500.00")))
}

func TestNormalizeItem_UnitDefault(t *testing.T) {
	n := invoice.NewNormalizer(model.ModePermissive)

	item, err := n.NormalizeItem(rawItem(t, `{
		"descripcion": "Asesoría",
		"cantidad": 1,
		"precio_unitario": 200
	}`), 0)
	require.NoError(t, err)
	assert.Equal(t, "UNI", item.Unit)
}

func TestNormalizeItem_CoercionFailures(t *testing.T) {
	n := invoice.NewNormalizer(model.ModePermissive)

	tests := []struct {
		name      string
		payload   string
		wantField string
	}{
		{"missing quantity", `{"descripcion": "X", "precio_unitario": 10}`, "cantidad"},
		{"non-numeric quantity", `{"descripcion": "X", "cantidad": "dos", "precio_unitario": 10}`, "cantidad"},
		{"zero quantity", `{"descripcion": "X", "cantidad": 0, "precio_unitario": 10}`, "cantidad"},
		{"negative quantity", `{"descripcion": "X", "cantidad": -1, "precio_unitario": 10}`, "cantidad"},
		{"missing price", `{"descripcion": "X", "cantidad": 1}`, "precio_unitario"},
		{"non-numeric price", `{"descripcion": "X", "cantidad": 1, "precio_unitario": "gratis"}`, "precio_unitario"},
		{"negative price", `{"descripcion": "X", "cantidad": 1, "precio_unitario": -5}`, "precio_unitario"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := n.NormalizeItem(rawItem(t, tt.payload), 3)

			var itemErr *model.InvalidItemDataError
			require.ErrorAs(t, err, &itemErr)
			assert.Equal(t, tt.wantField, itemErr.Field)
			assert.Equal(t, 3, itemErr.Index)
		})
	}
}

func TestNormalizeItem_ZeroPriceIsLegal(t *testing.T) {
	n := invoice.NewNormalizer(model.ModePermissive)

	item, err := n.NormalizeItem(rawItem(t, `{
		"descripcion": "Muestra gratis",
		"cantidad": 1,
		"precio_unitario": 0
	}`), 0)
	require.NoError(t, err)
	assert.True(t, item.Total.IsZero())
}

func TestNormalizeItem_DescriptionNotRequiredHere(t *testing.T) {
	// Description presence is mode policy, enforced by the assembler; the
	// normalizer passes an empty description through in both modes.
	for _, mode := range []model.Mode{model.ModePermissive, model.ModeStrict} {
		n := invoice.NewNormalizer(mode)
		item, err := n.NormalizeItem(rawItem(t, `{"cantidad": 1, "precio_unitario": 10}`), 0)
		require.NoError(t, err)
		assert.Equal(t, "", item.Description)
	}
}

func TestNormalizeItems_PreservesOrder(t *testing.T) {
	n := invoice.NewNormalizer(model.ModePermissive)

	raw := []model.RawItem{
		rawItem(t, `{"descripcion": "B", "cantidad": 1, "precio_unitario": 2}`),
		rawItem(t, `{"descripcion": "A", "cantidad": 1, "precio_unitario": 1}`),
		rawItem(t, `{"descripcion": "C", "cantidad": 1, "precio_unitario": 3}`),
	}

	items, err := n.NormalizeItems(raw)
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "B", items[0].Description)
	assert.Equal(t, "A", items[1].Description)
	assert.Equal(t, "C", items[2].Description)
}

func TestNormalizeItems_ReportsEveryFailure(t *testing.T) {
	n := invoice.NewNormalizer(model.ModePermissive)

	raw := []model.RawItem{
		rawItem(t, `{"descripcion": "OK", "cantidad": 1, "precio_unitario": 1}`),
		rawItem(t, `{"descripcion": "bad qty", "cantidad": "x", "precio_unitario": 1}`),
		rawItem(t, `{"descripcion": "bad price", "cantidad": 1, "precio_unitario": "gratis"}`),
	}

	_, err := n.NormalizeItems(raw)
	require.Error(t, err)

	var itemErr *model.InvalidItemDataError
	require.True(t, errors.As(err, &itemErr))

	// Both bad items appear in the joined error, not just the first.
	assert.Contains(t, err.Error(), "items[1].cantidad")
	assert.Contains(t, err.Error(), "items[2].precio_unitario")
}
