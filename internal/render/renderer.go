// Package render lays a canonical invoice onto fixed A4 page bands and emits
// the finished PDF document.
//
// The engine draws fixed header and footer bands on every page, a bordered
// client block, an item table with fixed column widths, and a right-aligned
// totals block. All text passes through a cp1252 translator at render time;
// unmappable characters become a fallback glyph and the invoice itself is
// never mutated.
package render

import (
	"bytes"
	"fmt"
	"strings"

	gofpdf "github.com/lvillar/gofpdf"
	"github.com/lvillar/gofpdf/table"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/facturalabs/facturador/internal/model"
)

// Renderer produces one complete PDF document per invoice. It holds only
// configuration and is safe to reuse across invocations.
type Renderer struct {
	compress bool
	validate bool
}

// Option configures the renderer.
type Option func(*Renderer)

// WithCompression toggles content stream compression. Tests disable it to
// assert on rendered text.
func WithCompression(on bool) Option {
	return func(r *Renderer) {
		r.compress = on
	}
}

// WithOutputValidation toggles the structural check of the emitted bytes.
func WithOutputValidation(on bool) Option {
	return func(r *Renderer) {
		r.validate = on
	}
}

// NewRenderer creates a renderer with compression and output validation on.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		compress: true,
		validate: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render lays the invoice out and returns the document bytes. One call, one
// complete document; there is no partial or streaming output.
func (r *Renderer) Render(inv *model.Invoice) ([]byte, error) {
	if inv == nil {
		return nil, model.NewRenderError("layout", "no invoice to render", nil)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetAutoPageBreak(true, bottomSpace)

	// cp1252 fallback happens here and only here; the canonical invoice
	// keeps its UTF-8 text.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		drawHeader(pdf, tr, inv)
	})
	pdf.SetFooterFunc(func() {
		drawFooter(pdf, tr)
	})

	pdf.AddPage()
	drawClientBlock(pdf, tr, inv)
	if err := drawItemTable(pdf, tr, inv); err != nil {
		return nil, model.NewRenderError("layout", "item table", err)
	}
	drawTotals(pdf, tr, inv)

	if pdf.Err() {
		return nil, model.NewRenderError("layout", "page canvas error", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, model.NewRenderError("output", "writing document", err)
	}

	if r.validate {
		if err := api.Validate(bytes.NewReader(buf.Bytes()), nil); err != nil {
			return nil, model.NewRenderError("validate", "emitted document failed structural validation", err)
		}
	}

	return buf.Bytes(), nil
}

// drawHeader draws the fixed header band: issuer name, the bordered document
// box (type, RUC, series) and the issuer address. Repeated on every page.
func drawHeader(pdf *gofpdf.Fpdf, tr func(string) string, inv *model.Invoice) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetTextColor(0, 51, 153)
	pdf.SetXY(pageLeft, docBoxY)
	pdf.CellFormat(100, 10, tr(truncate(inv.Issuer.Name, issuerNameMax)), "", 0, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "B", 10)
	pdf.Rect(docBoxX, docBoxY, docBoxW, docBoxH, "D")
	pdf.SetXY(docBoxX, docBoxY+4)
	pdf.CellFormat(docBoxW, 5, tr(strings.ToUpper(inv.DocumentType)), "", 1, "C", false, 0, "")
	pdf.SetXY(docBoxX, docBoxY+11)
	pdf.CellFormat(docBoxW, 5, tr("RUC: "+inv.Issuer.TaxID), "", 1, "C", false, 0, "")
	pdf.SetXY(docBoxX, docBoxY+18)
	pdf.CellFormat(docBoxW, 5, tr(inv.Series), "", 1, "C", false, 0, "")

	pdf.SetXY(pageLeft, 20)
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(100, 5, tr(truncate(inv.Issuer.Address, issuerAddressMax)), "", 1, "L", false, 0, "")

	pdf.SetY(bodyTop)
}

// drawFooter draws the page number band at the bottom of every page.
func drawFooter(pdf *gofpdf.Fpdf, tr func(string) string) {
	pdf.SetY(-15)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 10, tr(fmt.Sprintf("Página %d", pdf.PageNo())), "", 0, "C", false, 0, "")
}

// drawClientBlock draws the bordered client info box with its fixed label
// column. First page only; continuation pages go straight to table rows.
func drawClientBlock(pdf *gofpdf.Fpdf, tr func(string) string, inv *model.Invoice) {
	pdf.Rect(pageLeft, clientBoxY, bodyWidth, clientBoxH, "D")
	pdf.SetXY(clientTextX, clientBoxY+2)

	row := func(label, value string, w float64, ln int) {
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(labelColW, clientRowH, tr(label), "", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(w, clientRowH, tr(value), "", ln, "L", false, 0, "")
		if ln == 1 {
			pdf.SetX(clientTextX)
		}
	}

	row("Cliente:", inv.Client.Name, 100, 1)
	row("Dirección:", inv.Client.Address, 100, 1)
	row("RUC/DNI:", inv.Client.TaxID, 50, 0)
	row("Moneda:", inv.Currency, 30, 1)
	row("Fecha:", inv.IssueDate, 50, 0)
	row("Vence:", inv.DueDate, 50, 1)

	pdf.SetY(clientBoxY + clientBoxH + 5)
}

// drawItemTable renders the item listing with fixed column widths. Body rows
// follow input order and print each item's precomputed total verbatim. Page
// breaks repeat the grey header row.
func drawItemTable(pdf *gofpdf.Fpdf, tr func(string) string, inv *model.Invoice) error {
	pdf.SetFont("Arial", "", 9)

	tbl := table.New(pdf)
	tbl.SetColumnWidths(colQty, colDesc, colUnit, colPrice, colTotal)
	tbl.SetPosition(pageLeft, pdf.GetY())
	tbl.SetStyle(table.TableStyle{
		CellPadding: table.UniformPadding(1),
		Border:      &table.BorderStyle{Width: 0.2, Color: table.RGBColor{R: 0, G: 0, B: 0}},
		CellFont:    &table.FontSpec{Family: "Arial", Style: "", Size: 9},
		HeaderStyle: &table.CellStyle{
			FillColor: &table.RGBColor{R: 200, G: 200, B: 200},
			Font:      &table.FontSpec{Family: "Arial", Style: "B", Size: 9},
			Align:     "C",
		},
	})

	header := tbl.AddHeaderRow()
	header.AddCell("CANT")
	header.AddCell(tr("DESCRIPCIÓN"))
	header.AddCell("UND")
	header.AddCell("P.UNIT")
	header.AddCell("TOTAL")

	for _, item := range inv.Items {
		row := tbl.AddRow()
		row.AddCell(item.Quantity.String()).SetAlign("C")
		row.AddCell(tr(item.Description))
		row.AddCell(tr(item.Unit)).SetAlign("C")
		row.AddCell(amount(item.UnitPrice)).SetAlign("R")
		row.AddCell(amount(item.Total)).SetAlign("R")
	}

	return tbl.Render()
}

// drawTotals renders the amount-in-words line and the right-aligned totals
// block directly below the table.
func drawTotals(pdf *gofpdf.Fpdf, tr func(string) string, inv *model.Invoice) {
	_, pageH := pdf.GetPageSize()
	if pdf.GetY()+totalsSpace > pageH-bottomSpace {
		pdf.AddPage()
	}

	pdf.Ln(5)
	pdf.SetX(pageLeft)
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(0, 5, tr("SON: "+inv.AmountInWords), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	taxLabel := fmt.Sprintf("IGV %s%%", inv.Totals.RatePercent.String())
	rows := []struct {
		label string
		value string
	}{
		{"Subtotal", amount(inv.Totals.Subtotal)},
		{taxLabel, amount(inv.Totals.Tax)},
		{"TOTAL", amount(inv.Totals.Grand)},
	}
	for _, r := range rows {
		pdf.SetX(totalsX)
		pdf.SetFont("Arial", "B", 9)
		pdf.CellFormat(totalsColW, totalsRowH, tr(r.label), "1", 0, "L", false, 0, "")
		pdf.SetFont("Arial", "", 9)
		pdf.CellFormat(totalsColW, totalsRowH, r.value, "1", 1, "R", false, 0, "")
	}
}
