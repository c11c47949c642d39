package invoice

import (
	"errors"

	"github.com/facturalabs/facturador/internal/model"
	"github.com/facturalabs/facturador/internal/money"
)

// Normalizer coerces raw item records into validated line items. It is a
// pure function of its input: no clock, no I/O, no shared state. Field
// presence policy lives in the assembler; the normalizer only enforces shape.
type Normalizer struct {
	mode model.Mode
}

// NewNormalizer creates a normalizer for the given mode.
func NewNormalizer(mode model.Mode) Normalizer {
	if mode == "" {
		mode = model.ModePermissive
	}
	return Normalizer{mode: mode}
}

// NormalizeItem validates and types one raw item. The line total is computed
// by direct multiplication; any total present in the raw record is ignored.
// An absent description is not an error here: description presence is decided
// by the assembler's mode policy.
func (n Normalizer) NormalizeItem(raw model.RawItem, index int) (model.LineItem, error) {
	var item model.LineItem

	qty, err := raw.Quantity.Decimal()
	if err != nil {
		return item, model.NewInvalidItemDataError(index, "cantidad", "not a number", err)
	}
	if !money.IsPositive(qty) {
		return item, model.NewInvalidItemDataError(index, "cantidad", "must be positive", nil)
	}

	price, err := raw.UnitPrice.Decimal()
	if err != nil {
		return item, model.NewInvalidItemDataError(index, "precio_unitario", "not a number", err)
	}
	if !money.IsNonNegative(price) {
		return item, model.NewInvalidItemDataError(index, "precio_unitario", "must not be negative", nil)
	}
	price = money.Round2(price)

	// Unit of measure is never required; the placeholder applies only in
	// permissive mode.
	unit := raw.Unit
	if unit == "" && n.mode == model.ModePermissive {
		unit = model.DefaultUnit
	}

	item = model.LineItem{
		Description: raw.Description,
		Quantity:    qty,
		Unit:        unit,
		UnitPrice:   price,
		Total:       money.Mul(qty, price),
	}
	return item, nil
}

// NormalizeItems normalizes a full sequence, preserving input order. Every
// failing item is reported: the returned error joins one InvalidItemDataError
// per bad item, so a caller sees the complete list in a single pass.
func (n Normalizer) NormalizeItems(raw []model.RawItem) ([]model.LineItem, error) {
	items := make([]model.LineItem, 0, len(raw))
	var errs []error
	for i, r := range raw {
		item, err := n.NormalizeItem(r, i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		items = append(items, item)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return items, nil
}
