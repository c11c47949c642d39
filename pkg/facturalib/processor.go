package facturalib

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/facturalabs/facturador/internal/invoice"
	"github.com/facturalabs/facturador/internal/llm"
	"github.com/facturalabs/facturador/internal/pipeline"
	"github.com/facturalabs/facturador/internal/render"
)

// ProcessorOptions configures processor behavior
type ProcessorOptions struct {
	// LLM configuration
	APIKey  string // API key (env: LLM_API_KEY)
	BaseURL string // Base URL (env: LLM_BASE_URL)
	Model   string // Extraction model (env: LLM_MODEL)

	// Invoice policy
	TaxRate decimal.Decimal // fractional rate, default 0.18
	Mode    Mode            // default permissive
}

// DefaultProcessorOptions returns default processor options
func DefaultProcessorOptions() ProcessorOptions {
	return ProcessorOptions{
		TaxRate: invoice.DefaultTaxRate,
		Mode:    ModePermissive,
	}
}

// Processor wires the oracle client, the normalization pipeline and the
// layout engine behind one facade.
type Processor struct {
	pipeline *pipeline.Pipeline
	options  ProcessorOptions
}

// NewProcessor creates a processor with the given options.
func NewProcessor(opts ...func(*ProcessorOptions)) *Processor {
	options := DefaultProcessorOptions()
	for _, opt := range opts {
		opt(&options)
	}

	cfg := invoice.DefaultConfig()
	if !options.TaxRate.IsZero() {
		cfg.TaxRate = options.TaxRate
	}
	if options.Mode != "" {
		cfg.Mode = options.Mode
	}

	pipelineOpts := []pipeline.PipelineOption{
		pipeline.WithConfig(cfg),
		pipeline.WithRenderer(render.NewRenderer()),
	}

	if options.APIKey != "" {
		var clientOpts []llm.ClientOption
		if options.BaseURL != "" {
			clientOpts = append(clientOpts, llm.WithBaseURL(options.BaseURL))
		}
		client := llm.NewClient(options.APIKey, clientOpts...)

		var extractorOpts []llm.ExtractorOption
		if options.Model != "" {
			extractorOpts = append(extractorOpts, llm.WithModel(options.Model))
		}
		pipelineOpts = append(pipelineOpts, pipeline.WithOracle(llm.NewExtractor(client, extractorOpts...)))
	}

	return &Processor{
		pipeline: pipeline.NewPipeline(pipelineOpts...),
		options:  options,
	}
}

// WithAPIKey sets the oracle API key
func WithAPIKey(key string) func(*ProcessorOptions) {
	return func(o *ProcessorOptions) {
		o.APIKey = key
	}
}

// WithBaseURL sets the oracle base URL
func WithBaseURL(url string) func(*ProcessorOptions) {
	return func(o *ProcessorOptions) {
		o.BaseURL = url
	}
}

// WithModel sets the extraction model
func WithModel(m string) func(*ProcessorOptions) {
	return func(o *ProcessorOptions) {
		o.Model = m
	}
}

// WithTaxRate sets the fractional tax rate
func WithTaxRate(rate decimal.Decimal) func(*ProcessorOptions) {
	return func(o *ProcessorOptions) {
		o.TaxRate = rate
	}
}

// WithMode sets the field-presence mode
func WithMode(m Mode) func(*ProcessorOptions) {
	return func(o *ProcessorOptions) {
		o.Mode = m
	}
}

// ProcessText turns free text into one canonical invoice.
func (p *Processor) ProcessText(ctx context.Context, text string) (*Invoice, error) {
	return p.pipeline.Process(ctx, text)
}

// AssembleRaw assembles an already-extracted raw record, bypassing the oracle.
func (p *Processor) AssembleRaw(raw *RawInvoice) (*Invoice, error) {
	return p.pipeline.Assemble(raw)
}

// RenderPDF renders a canonical invoice into one complete PDF document.
func (p *Processor) RenderPDF(inv *Invoice) ([]byte, error) {
	return p.pipeline.RenderPDF(inv)
}

// ProcessToPDF runs extraction, assembly and rendering in one call.
func (p *Processor) ProcessToPDF(ctx context.Context, text string) (*Invoice, []byte, error) {
	return p.pipeline.ProcessToPDF(ctx, text)
}
