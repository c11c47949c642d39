package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/facturalabs/facturador/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for generating invoices.

The API provides endpoints for:
  - POST /api/v1/invoices           - Free text to invoice JSON
  - POST /api/v1/invoices/pdf       - Invoice JSON to PDF
  - POST /api/v1/invoices/document  - Free text to PDF in one call
  - POST /api/v1/invoices/validate  - Arithmetic check of an invoice
  - GET  /health                    - Health check

Examples:
  # Start server on default port
  facturador serve --api-key <key>

  # Strict field policy on a custom port
  facturador serve --address :8000 --strict`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 5*time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	config := &server.Config{
		Address:      serverAddr,
		APIKey:       apiKey,
		LLMBaseURL:   llmBaseURL,
		LLMModel:     llmModel,
		TaxRate:      taxRate,
		Strict:       strict,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Debug:        serverDebug,
	}

	srv := server.NewServer(config)

	// SIGINT/SIGTERM cancel the context; Run drains before returning.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Starting server on %s\n", serverAddr)
	if apiKey != "" {
		fmt.Println("LLM extraction enabled")
	} else {
		fmt.Println("LLM extraction disabled (no API key)")
	}

	if err := srv.Run(ctx); err != nil {
		return err
	}
	fmt.Println("Server stopped")
	return nil
}
