// Package invoice implements the normalization, tax calculation and assembly
// pipeline that turns an untrusted extracted record into one canonical
// invoice.
package invoice

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturalabs/facturador/internal/model"
)

// DefaultTaxRate is the flat value-added-tax rate (IGV 18%).
var DefaultTaxRate = decimal.NewFromFloat(0.18)

// Config carries the read-only knobs shared by the calculator and assembler.
// It is fixed at construction time; nothing reads ambient state during
// computation.
type Config struct {
	// TaxRate is the fractional rate applied to the subtotal.
	TaxRate decimal.Decimal

	// Mode selects the field-presence policy.
	Mode model.Mode

	// Now supplies the date used for permissive-mode date defaults.
	// Injectable so assembly stays deterministic under test.
	Now func() time.Time
}

// DefaultConfig returns the permissive 18% configuration.
func DefaultConfig() Config {
	return Config{
		TaxRate: DefaultTaxRate,
		Mode:    model.ModePermissive,
		Now:     time.Now,
	}
}

func (c Config) withDefaults() Config {
	if c.TaxRate.IsZero() {
		c.TaxRate = DefaultTaxRate
	}
	if c.Mode == "" {
		c.Mode = model.ModePermissive
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}
