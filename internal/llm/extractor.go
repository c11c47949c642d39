package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/facturalabs/facturador/internal/model"
)

// Extractor asks the oracle for a structured invoice record. Its output is a
// trust boundary: callers must validate the record before relying on it.
type Extractor struct {
	client *Client
	model  string
}

// ExtractorOption configures the extractor
type ExtractorOption func(*Extractor)

// WithModel sets the extraction model
func WithModel(model string) ExtractorOption {
	return func(e *Extractor) {
		e.model = model
	}
}

// NewExtractor creates a new extractor using the given client
func NewExtractor(client *Client, opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		client: client,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFromText sends the free-form invoice text to the oracle and parses
// its reply into a raw record. An oracle refusal (error_message) or an
// unparseable reply surfaces as an ExtractionError; it is never retried here.
func (e *Extractor) ExtractFromText(ctx context.Context, text string) (*model.RawInvoice, error) {
	if text == "" {
		return nil, model.NewExtractionError("empty input text", nil)
	}

	prompt := fmt.Sprintf(UserPromptTextExtraction, text)
	response, err := e.client.ChatText(ctx, e.model, SystemPromptInvoiceExtractor, prompt)
	if err != nil {
		return nil, model.NewExtractionError("oracle request failed", err)
	}

	jsonStr := ExtractJSON(response)

	var raw model.RawInvoice
	if err := json.Unmarshal([]byte(jsonStr), &raw); err != nil {
		return nil, model.NewExtractionError("oracle returned unparseable JSON", err)
	}

	if raw.ErrorMessage != "" {
		return nil, model.NewExtractionError(raw.ErrorMessage, nil)
	}

	return &raw, nil
}
