// Package model defines the canonical invoice record and the untrusted
// intermediate shape produced by the extraction oracle.
package model

import (
	"github.com/shopspring/decimal"
)

// Mode controls how the assembler treats missing fields.
type Mode string

const (
	// ModePermissive fills missing optional fields with documented defaults.
	ModePermissive Mode = "permissive"
	// ModeStrict fails assembly listing every missing required field.
	ModeStrict Mode = "strict"
)

// Default values applied in permissive mode. One default per field,
// independent of every other field's presence.
const (
	DefaultDocumentType  = "Boleta de Venta"
	DefaultSeries        = "B001-00001"
	DefaultIssuerName    = "Mi Empresa S.A.C."
	DefaultIssuerTaxID   = "20000000001"
	DefaultIssuerAddress = "Dirección no especificada"
	DefaultClientAddress = "Dirección no especificada"
	DefaultClientTaxID   = "00000000"
	DefaultPaymentTerms  = "Contado"
	DefaultCurrency      = "SOLES"
	DefaultUnit          = "UNI"
	DefaultAmountWords   = "---"
)

// Party identifies one side of the transaction.
type Party struct {
	Name    string `json:"nombre"`
	TaxID   string `json:"ruc"`
	Address string `json:"direccion"`
}

// LineItem is a validated invoice line. It is constructed once by the
// normalizer and not modified afterwards; Total is always recomputed from
// Quantity and UnitPrice, never taken from the raw input.
type LineItem struct {
	Description string          `json:"descripcion"`
	Quantity    decimal.Decimal `json:"cantidad"`
	Unit        string          `json:"unidad_medida"`
	UnitPrice   decimal.Decimal `json:"precio_unitario"`
	Total       decimal.Decimal `json:"importe"`
}

// Totals holds the computed invoice amounts. Each field is rounded from its
// own formula: Subtotal from the line total sum, Tax from Subtotal, Grand
// from Subtotal+Tax.
type Totals struct {
	Subtotal decimal.Decimal `json:"subtotal_neto"`
	Tax      decimal.Decimal `json:"monto_igv"`
	Grand    decimal.Decimal `json:"total"`
	// RatePercent is the applied tax rate as a percentage (e.g. 18 for 0.18).
	RatePercent decimal.Decimal `json:"igv_porcentaje"`
}

// Invoice is the canonical record produced by the assembler. The JSON schema
// is identical in strict and permissive mode; only the fill policy differs.
type Invoice struct {
	DocumentType string `json:"document_type"`
	Series       string `json:"serie_correlativo"`
	IssueDate    string `json:"fecha_emision"`
	DueDate      string `json:"fecha_vencimiento"`
	PaymentTerms string `json:"forma_pago"`
	Currency     string `json:"moneda"`

	Issuer Party `json:"emisor"`
	Client Party `json:"cliente"`

	// Items keep the input order; the pipeline never reorders them.
	Items  []LineItem `json:"items"`
	Totals Totals     `json:"totales"`

	// AmountInWords is supplied by the oracle (or the caller) and is not
	// checked against Totals.Grand.
	AmountInWords string `json:"monto_letras"`
}
