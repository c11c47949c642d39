package server

import (
	"github.com/facturalabs/facturador/internal/model"
)

// ProcessRequest is the inbound payload for text processing endpoints.
type ProcessRequest struct {
	TextoFactura string `json:"texto_factura" binding:"required"`
}

// ProcessResponse is the response for the invoice extraction endpoint
type ProcessResponse struct {
	Invoice *model.Invoice `json:"invoice"`
}

// ValidationResponse is the response for the validate endpoint
type ValidationResponse struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}
