// Package server exposes the invoice pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/facturalabs/facturador/internal/invoice"
	"github.com/facturalabs/facturador/internal/llm"
	"github.com/facturalabs/facturador/internal/logger"
	"github.com/facturalabs/facturador/internal/model"
	"github.com/facturalabs/facturador/internal/money"
	"github.com/facturalabs/facturador/internal/pipeline"
	"github.com/facturalabs/facturador/internal/render"
)

// Config holds server configuration
type Config struct {
	Address      string
	APIKey       string
	LLMBaseURL   string
	LLMModel     string
	TaxRate      float64
	Strict       bool
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config   *Config
	router   *gin.Engine
	pipeline *pipeline.Pipeline
	log      zerolog.Logger
}

// ServerOption overrides pieces of the server, mainly for tests.
type ServerOption func(*Server)

// WithPipeline injects a pre-built pipeline (e.g. with a fake oracle).
func WithPipeline(p *pipeline.Pipeline) ServerOption {
	return func(s *Server) {
		s.pipeline = p
	}
}

// NewServer creates a new API server
func NewServer(config *Config, opts ...ServerOption) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(corsMiddleware())

	s := &Server{
		config: config,
		router: router,
		log:    logger.WithComponent("server"),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.pipeline == nil {
		s.pipeline = buildPipeline(config)
	}

	s.setupRoutes()
	return s
}

func buildPipeline(config *Config) *pipeline.Pipeline {
	cfg := invoice.DefaultConfig()
	if config.TaxRate > 0 {
		cfg.TaxRate = money.FromFloat(config.TaxRate)
	}
	if config.Strict {
		cfg.Mode = model.ModeStrict
	}

	pipelineOpts := []pipeline.PipelineOption{
		pipeline.WithConfig(cfg),
		pipeline.WithRenderer(render.NewRenderer()),
	}

	if config.APIKey != "" {
		var clientOpts []llm.ClientOption
		if config.LLMBaseURL != "" {
			clientOpts = append(clientOpts, llm.WithBaseURL(config.LLMBaseURL))
		}
		client := llm.NewClient(config.APIKey, clientOpts...)

		var extractorOpts []llm.ExtractorOption
		if config.LLMModel != "" {
			extractorOpts = append(extractorOpts, llm.WithModel(config.LLMModel))
		}
		pipelineOpts = append(pipelineOpts, pipeline.WithOracle(llm.NewExtractor(client, extractorOpts...)))
	}

	return pipeline.NewPipeline(pipelineOpts...)
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/invoices", s.handleProcess)
		v1.POST("/invoices/pdf", s.handleRenderPDF)
		v1.POST("/invoices/document", s.handleProcessToPDF)
		v1.POST("/invoices/validate", s.handleValidate)
	}
}

// shutdownGrace bounds how long in-flight requests may run after a stop
// signal before the listener is torn down.
const shutdownGrace = 15 * time.Second

// Run starts the HTTP server and blocks until the listener fails or ctx is
// cancelled. On cancellation in-flight requests are drained before returning.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info().Msg("draining in-flight requests")
		drainCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return srv.Shutdown(drainCtx)
	}
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleProcess(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "texto_factura is required"})
		return
	}

	ctx, cancel := contextWithTimeout(c, 2*time.Minute)
	defer cancel()

	inv, err := s.pipeline.Process(ctx, req.TextoFactura)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProcessResponse{Invoice: inv})
}

func (s *Server) handleRenderPDF(c *gin.Context) {
	var inv model.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid invoice payload"})
		return
	}

	if errs := checkInvoiceShape(&inv); len(errs) > 0 {
		c.JSON(http.StatusUnprocessableEntity, ValidationResponse{Valid: false, Errors: errs})
		return
	}

	data, err := s.pipeline.RenderPDF(&inv)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.writePDF(c, &inv, data)
}

func (s *Server) handleProcessToPDF(c *gin.Context) {
	var req ProcessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "texto_factura is required"})
		return
	}

	ctx, cancel := contextWithTimeout(c, 2*time.Minute)
	defer cancel()

	inv, data, err := s.pipeline.ProcessToPDF(ctx, req.TextoFactura)
	if err != nil {
		s.respondError(c, err)
		return
	}

	s.writePDF(c, inv, data)
}

func (s *Server) handleValidate(c *gin.Context) {
	var inv model.Invoice
	if err := c.ShouldBindJSON(&inv); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid invoice payload"})
		return
	}

	errs, warnings := validateInvoice(&inv)
	c.JSON(http.StatusOK, ValidationResponse{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: warnings,
	})
}

func (s *Server) writePDF(c *gin.Context, inv *model.Invoice, data []byte) {
	filename := fmt.Sprintf("Doc_%s.pdf", sanitizeFilename(inv.Client.TaxID))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", data)
}

// respondError maps the error taxonomy to the three response tiers:
// bad input (400), unprocessable structured data (422), internal (500).
func (s *Server) respondError(c *gin.Context, err error) {
	var extractionErr *model.ExtractionError
	var incompleteErr *model.IncompleteInvoiceDataError
	var malformedErr *model.MalformedInvoiceDataError
	var itemErr *model.InvalidItemDataError
	var renderErr *model.RenderError

	switch {
	case errors.As(err, &extractionErr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.As(err, &incompleteErr), errors.As(err, &malformedErr), errors.As(err, &itemErr):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: err.Error()})
	case errors.As(err, &renderErr):
		s.log.Error().Err(err).Str("request_id", requestID(c)).Msg("rendering failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "document rendering failed"})
	default:
		s.log.Error().Err(err).Str("request_id", requestID(c)).Msg("unexpected error")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

// checkInvoiceShape verifies the minimum a caller-supplied invoice needs
// before layout: a client and a well-formed item sequence.
func checkInvoiceShape(inv *model.Invoice) []string {
	var errs []string
	if inv.Client.Name == "" {
		errs = append(errs, "missing client name")
	}
	for i, item := range inv.Items {
		if !money.IsPositive(item.Quantity) {
			errs = append(errs, fmt.Sprintf("items[%d]: quantity must be positive", i))
		}
		if !money.IsNonNegative(item.UnitPrice) {
			errs = append(errs, fmt.Sprintf("items[%d]: unit price must not be negative", i))
		}
	}
	return errs
}

// validateInvoice checks the arithmetic consistency of an invoice record.
func validateInvoice(inv *model.Invoice) ([]string, []string) {
	var errs, warnings []string

	if inv.Client.Name == "" {
		errs = append(errs, "missing client name")
	}
	if inv.Issuer.TaxID == "" {
		warnings = append(warnings, "missing issuer tax ID")
	}

	for i, item := range inv.Items {
		expected := money.Mul(item.Quantity, item.UnitPrice)
		if !expected.Equal(item.Total) {
			errs = append(errs, fmt.Sprintf("items[%d]: line total %s does not match %s",
				i, item.Total.StringFixed(2), expected.StringFixed(2)))
		}
	}

	expectedGrand := money.Round2(inv.Totals.Subtotal.Add(inv.Totals.Tax))
	if !expectedGrand.Equal(inv.Totals.Grand) {
		errs = append(errs, "grand total does not equal subtotal plus tax")
	}

	if inv.AmountInWords == model.DefaultAmountWords {
		warnings = append(warnings, "amount in words is a placeholder")
	}

	return errs, warnings
}

func sanitizeFilename(s string) string {
	if s == "" {
		return "invoice"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_' || r == '.':
			return r
		default:
			return '_'
		}
	}, s)
}
