package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValueMissing reports a FlexNumber that carried no value.
var ErrValueMissing = errors.New("value missing")

// ExtractionError represents an oracle failure or refusal. It is surfaced to
// the caller as a client error and never retried by the pipeline.
type ExtractionError struct {
	Message string
	Cause   error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction failed: %s (%v)", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction failed: %s", e.Message)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// NewExtractionError creates a new extraction error
func NewExtractionError(message string, cause error) *ExtractionError {
	return &ExtractionError{Message: message, Cause: cause}
}

// InvalidItemDataError reports a coercion failure on a single item field.
type InvalidItemDataError struct {
	Index   int    // position of the item in the input sequence
	Field   string // offending field name, e.g. "cantidad"
	Message string
	Cause   error
}

func (e *InvalidItemDataError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid item data: items[%d].%s: %s (%v)", e.Index, e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid item data: items[%d].%s: %s", e.Index, e.Field, e.Message)
}

func (e *InvalidItemDataError) Unwrap() error {
	return e.Cause
}

// NewInvalidItemDataError creates a new invalid item data error
func NewInvalidItemDataError(index int, field, message string, cause error) *InvalidItemDataError {
	return &InvalidItemDataError{Index: index, Field: field, Message: message, Cause: cause}
}

// IncompleteInvoiceDataError lists every required field missing from the raw
// record. Strict mode collects all violations before failing so the caller
// gets the complete list in one message.
type IncompleteInvoiceDataError struct {
	Missing []string
}

func (e *IncompleteInvoiceDataError) Error() string {
	return fmt.Sprintf("incomplete invoice data: missing required fields: %s", strings.Join(e.Missing, ", "))
}

// NewIncompleteInvoiceDataError creates a new incomplete invoice data error
func NewIncompleteInvoiceDataError(missing []string) *IncompleteInvoiceDataError {
	return &IncompleteInvoiceDataError{Missing: missing}
}

// MalformedInvoiceDataError reports a present field with the wrong shape,
// distinct from a missing one.
type MalformedInvoiceDataError struct {
	Field   string
	Message string
	Cause   error
}

func (e *MalformedInvoiceDataError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed invoice data: %s: %s (%v)", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed invoice data: %s: %s", e.Field, e.Message)
}

func (e *MalformedInvoiceDataError) Unwrap() error {
	return e.Cause
}

// NewMalformedInvoiceDataError creates a new malformed invoice data error
func NewMalformedInvoiceDataError(field, message string, cause error) *MalformedInvoiceDataError {
	return &MalformedInvoiceDataError{Field: field, Message: message, Cause: cause}
}

// RenderError represents a layout engine failure. It is logged in full
// server-side and surfaced to the caller as an internal error.
type RenderError struct {
	Stage   string // e.g. "layout", "output", "validate"
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rendering failed [%s]: %s (%v)", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("rendering failed [%s]: %s", e.Stage, e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a new render error
func NewRenderError(stage, message string, cause error) *RenderError {
	return &RenderError{Stage: stage, Message: message, Cause: cause}
}
