package invoice

import (
	"fmt"

	"github.com/facturalabs/facturador/internal/model"
)

// dateLayout is the free-text date format used throughout the product.
const dateLayout = "02/01/2006"

// Assembler merges a raw extracted record with computed totals into one
// canonical invoice. It never calls the extraction oracle; the raw record is
// a pure input.
type Assembler struct {
	cfg  Config
	norm Normalizer
	calc Calculator
}

// NewAssembler creates an assembler from the given configuration.
func NewAssembler(cfg Config) *Assembler {
	cfg = cfg.withDefaults()
	return &Assembler{
		cfg:  cfg,
		norm: NewNormalizer(cfg.Mode),
		calc: NewCalculator(cfg.TaxRate),
	}
}

// Calculator exposes the assembler's calculator so callers can share the
// exact same rate.
func (a *Assembler) Calculator() Calculator {
	return a.calc
}

// Assemble produces exactly one canonical invoice or fails. In strict mode
// every missing required field is collected before failing; in permissive
// mode each missing field gets its documented default independently of the
// others. Wrong-shaped present fields fail as malformed regardless of mode.
func (a *Assembler) Assemble(raw *model.RawInvoice) (*model.Invoice, error) {
	if raw == nil {
		return nil, model.NewMalformedInvoiceDataError("record", "no extracted record", nil)
	}
	if raw.ErrorMessage != "" {
		return nil, model.NewExtractionError(raw.ErrorMessage, nil)
	}

	if a.cfg.Mode == model.ModeStrict {
		if missing := a.collectMissing(raw); len(missing) > 0 {
			return nil, model.NewIncompleteInvoiceDataError(missing)
		}
	} else if raw.ClientName == "" {
		// Client name is the one field with no default in either mode.
		return nil, model.NewIncompleteInvoiceDataError([]string{"client"})
	}

	items, err := a.norm.NormalizeItems(raw.Items)
	if err != nil {
		return nil, model.NewMalformedInvoiceDataError("items", "item normalization failed", err)
	}

	inv := &model.Invoice{
		DocumentType: defaultString(raw.DocumentType, model.DefaultDocumentType, a.cfg.Mode),
		Series:       defaultString(raw.Series, model.DefaultSeries, a.cfg.Mode),
		IssueDate:    a.defaultDate(raw.IssueDate),
		DueDate:      a.defaultDate(raw.DueDate),
		PaymentTerms: defaultString(raw.PaymentTerms, model.DefaultPaymentTerms, a.cfg.Mode),
		Currency:     defaultString(raw.Currency, model.DefaultCurrency, a.cfg.Mode),
		Issuer: model.Party{
			Name:    defaultString(raw.IssuerName, model.DefaultIssuerName, a.cfg.Mode),
			TaxID:   defaultString(raw.IssuerTaxID, model.DefaultIssuerTaxID, a.cfg.Mode),
			Address: defaultString(raw.IssuerAddress, model.DefaultIssuerAddress, a.cfg.Mode),
		},
		Client: model.Party{
			Name:    raw.ClientName,
			TaxID:   defaultString(raw.ClientTaxID, model.DefaultClientTaxID, a.cfg.Mode),
			Address: defaultString(raw.ClientAddress, model.DefaultClientAddress, a.cfg.Mode),
		},
		Items:         items,
		Totals:        a.calc.Totals(items),
		AmountInWords: defaultString(raw.AmountInWords, model.DefaultAmountWords, a.cfg.Mode),
	}
	return inv, nil
}

// collectMissing returns the full list of required-field violations for the
// strict policy, item descriptions included. Client name has no default in
// either mode, so it is always part of the required set.
func (a *Assembler) collectMissing(raw *model.RawInvoice) []string {
	var missing []string

	required := []struct {
		name  string
		value string
	}{
		{"client", raw.ClientName},
		{"client_address", raw.ClientAddress},
		{"client_ruc_dni", raw.ClientTaxID},
		{"emisor_nombre", raw.IssuerName},
		{"emisor_ruc", raw.IssuerTaxID},
		{"emisor_direccion", raw.IssuerAddress},
	}
	for _, f := range required {
		if f.value == "" {
			missing = append(missing, f.name)
		}
	}
	for i, item := range raw.Items {
		if item.Description == "" {
			missing = append(missing, fmt.Sprintf("items[%d].descripcion", i))
		}
	}
	return missing
}

func (a *Assembler) defaultDate(v string) string {
	if v != "" || a.cfg.Mode == model.ModeStrict {
		return v
	}
	return a.cfg.Now().Format(dateLayout)
}

func defaultString(v, def string, mode model.Mode) string {
	if v != "" || mode == model.ModeStrict {
		return v
	}
	return def
}
