package model

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// FlexNumber accepts a JSON number, a numeric string, or null without failing
// the enclosing unmarshal. The raw token is kept so that coercion happens at
// the normalizer boundary, where failures can name the offending field.
type FlexNumber struct {
	raw     string
	present bool
}

// UnmarshalJSON never returns an error for scalar tokens; structurally
// impossible tokens (objects, arrays) are kept verbatim and rejected later
// by Decimal.
func (n *FlexNumber) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" {
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		var unquoted string
		if err := json.Unmarshal(data, &unquoted); err == nil {
			s = strings.TrimSpace(unquoted)
		}
	}
	n.raw = s
	n.present = true
	return nil
}

// MarshalJSON emits the coerced value when possible, otherwise null.
func (n FlexNumber) MarshalJSON() ([]byte, error) {
	d, err := n.Decimal()
	if err != nil {
		return []byte("null"), nil
	}
	return []byte(d.String()), nil
}

// Present reports whether the field carried any value.
func (n FlexNumber) Present() bool {
	return n.present
}

// Decimal coerces the raw token to a decimal value.
func (n FlexNumber) Decimal() (decimal.Decimal, error) {
	if !n.present || n.raw == "" {
		return decimal.Zero, ErrValueMissing
	}
	return decimal.NewFromString(n.raw)
}

// RawItem is one untrusted item record as returned by the extraction oracle.
// Any subtotal or total the oracle includes is ignored.
type RawItem struct {
	Description string     `json:"descripcion"`
	Quantity    FlexNumber `json:"cantidad"`
	Unit        string     `json:"unidad_medida"`
	UnitPrice   FlexNumber `json:"precio_unitario"`
}

// RawInvoice is the oracle's structured output before validation. Every field
// is optional here; presence policy is enforced by the assembler.
type RawInvoice struct {
	DocumentType string `json:"document_type"`
	Series       string `json:"serie_correlativo"`

	IssuerName    string `json:"emisor_nombre"`
	IssuerTaxID   string `json:"emisor_ruc"`
	IssuerAddress string `json:"emisor_direccion"`

	ClientName    string `json:"client"`
	ClientAddress string `json:"client_address"`
	ClientTaxID   string `json:"client_ruc_dni"`

	IssueDate    string `json:"fecha_emision"`
	DueDate      string `json:"fecha_vencimiento"`
	PaymentTerms string `json:"forma_pago"`
	Currency     string `json:"moneda"`

	Items []RawItem `json:"items"`

	AmountInWords string `json:"monto_letras"`

	// ErrorMessage is set when the oracle refuses or fails instead of
	// returning invoice data.
	ErrorMessage string `json:"error_message,omitempty"`
}
