package render

import (
	"github.com/shopspring/decimal"
)

// Page geometry in millimeters, A4 portrait.
const (
	pageLeft    = 10.0
	bodyWidth   = 190.0
	bottomSpace = 20.0 // auto page break margin, leaves room for the footer

	// Header band
	docBoxX = 120.0
	docBoxY = 10.0
	docBoxW = 80.0
	docBoxH = 25.0
	bodyTop = 42.0 // where content resumes under the header on every page

	// Client block
	clientBoxY  = 45.0
	clientBoxH  = 25.0
	labelColW   = 20.0
	clientRowH  = 5.0
	clientTextX = 12.0

	// Item table column widths: CANT, DESCRIPCIÓN, UND, P.UNIT, TOTAL
	colQty   = 20.0
	colDesc  = 100.0
	colUnit  = 20.0
	colPrice = 25.0
	colTotal = 25.0

	// Totals block
	totalsX     = 135.0
	totalsColW  = 30.0
	totalsRowH  = 6.0
	totalsSpace = 30.0 // vertical room required before falling to a new page
)

// Truncation limits for header text. Overlong values are cut, not wrapped.
const (
	issuerNameMax    = 35
	issuerAddressMax = 60
)

// truncate returns the first max runes of s.
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// amount formats a monetary value exactly as the calculator produced it,
// with two fixed decimals. The renderer never recomputes amounts.
func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
