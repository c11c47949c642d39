// Package facturalib provides a public API for turning free-text transaction
// descriptions into canonical invoices and rendered PDF documents.
//
// Example usage:
//
//	proc := facturalib.NewProcessor(
//	    facturalib.WithAPIKey(os.Getenv("LLM_API_KEY")),
//	)
//	inv, err := proc.ProcessText(ctx, "factura para ACME por 2 laptops a 1500")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	pdf, err := proc.RenderPDF(inv)
package facturalib

import "github.com/facturalabs/facturador/internal/model"

// Re-export core types for public API
type (
	Invoice    = model.Invoice
	LineItem   = model.LineItem
	Party      = model.Party
	Totals     = model.Totals
	RawInvoice = model.RawInvoice
	RawItem    = model.RawItem
	Mode       = model.Mode
)

// Re-export field-presence modes
const (
	ModePermissive = model.ModePermissive
	ModeStrict     = model.ModeStrict
)

// Re-export error types
type (
	ExtractionError            = model.ExtractionError
	InvalidItemDataError       = model.InvalidItemDataError
	IncompleteInvoiceDataError = model.IncompleteInvoiceDataError
	MalformedInvoiceDataError  = model.MalformedInvoiceDataError
	RenderError                = model.RenderError
)
