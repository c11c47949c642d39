// Package pipeline chains the invoice stages for one request: extract,
// normalize, calculate, assemble, and optionally render.
//
// Each invocation is an independent synchronous call with no suspension
// points and no state shared across requests; the only shared configuration
// is the tax rate and mode, both read-only after construction.
package pipeline

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/facturalabs/facturador/internal/invoice"
	"github.com/facturalabs/facturador/internal/logger"
	"github.com/facturalabs/facturador/internal/model"
	"github.com/facturalabs/facturador/internal/render"
)

// Oracle is the external text-to-structured-data collaborator. Its output is
// untrusted until assembled; retry policy, if any, belongs to the caller.
type Oracle interface {
	ExtractFromText(ctx context.Context, text string) (*model.RawInvoice, error)
}

// Pipeline executes the full chain for one request at a time.
type Pipeline struct {
	oracle    Oracle
	assembler *invoice.Assembler
	renderer  *render.Renderer
	log       zerolog.Logger
}

// PipelineOption configures the pipeline
type PipelineOption func(*Pipeline)

// WithOracle sets the extraction oracle
func WithOracle(o Oracle) PipelineOption {
	return func(p *Pipeline) {
		p.oracle = o
	}
}

// WithConfig sets the invoice configuration (tax rate, mode, clock)
func WithConfig(cfg invoice.Config) PipelineOption {
	return func(p *Pipeline) {
		p.assembler = invoice.NewAssembler(cfg)
	}
}

// WithRenderer sets the document renderer
func WithRenderer(r *render.Renderer) PipelineOption {
	return func(p *Pipeline) {
		p.renderer = r
	}
}

// NewPipeline creates a pipeline with the given options. Without an oracle
// only Assemble and RenderPDF are usable.
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		assembler: invoice.NewAssembler(invoice.DefaultConfig()),
		renderer:  render.NewRenderer(),
		log:       logger.WithComponent("pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process turns free text into exactly one canonical invoice, or fails
// before one exists.
func (p *Pipeline) Process(ctx context.Context, text string) (*model.Invoice, error) {
	if p.oracle == nil {
		return nil, model.NewExtractionError("no extraction oracle configured", nil)
	}

	raw, err := p.oracle.ExtractFromText(ctx, text)
	if err != nil {
		p.log.Debug().Err(err).Msg("extraction failed")
		return nil, err
	}

	inv, err := p.Assemble(raw)
	if err != nil {
		p.log.Debug().Err(err).Msg("assembly failed")
		return nil, err
	}

	p.log.Info().
		Str("document_type", inv.DocumentType).
		Str("client", inv.Client.Name).
		Int("items", len(inv.Items)).
		Str("total", inv.Totals.Grand.StringFixed(2)).
		Msg("invoice assembled")
	return inv, nil
}

// Assemble runs normalize, calculate and assemble on an already-extracted
// raw record.
func (p *Pipeline) Assemble(raw *model.RawInvoice) (*model.Invoice, error) {
	return p.assembler.Assemble(raw)
}

// RenderPDF renders a canonical invoice into one complete document.
func (p *Pipeline) RenderPDF(inv *model.Invoice) ([]byte, error) {
	data, err := p.renderer.Render(inv)
	if err != nil {
		p.log.Error().Err(err).Msg("rendering failed")
		return nil, err
	}
	p.log.Info().Int("bytes", len(data)).Msg("document rendered")
	return data, nil
}

// ProcessToPDF runs the full chain in one call.
func (p *Pipeline) ProcessToPDF(ctx context.Context, text string) (*model.Invoice, []byte, error) {
	inv, err := p.Process(ctx, text)
	if err != nil {
		return nil, nil, err
	}
	data, err := p.RenderPDF(inv)
	if err != nil {
		return nil, nil, err
	}
	return inv, data, nil
}
