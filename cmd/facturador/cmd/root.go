package cmd

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/facturalabs/facturador/internal/logger"
)

var (
	version = "1.0.0"

	// Global flags
	verbose    bool
	logFormat  string
	apiKey     string
	llmBaseURL string
	llmModel   string
	taxRate    float64
	strict     bool
)

var rootCmd = &cobra.Command{
	Use:   "facturador",
	Short: "Generate invoices (JSON and PDF) from free-form text",
	Long: `Facturador turns free-text transaction descriptions into structured
invoices with computed IGV totals, and renders them as PDF documents.

Examples:
  # Extract an invoice from text
  facturador process pedido.txt --api-key <openrouter-key>

  # Extract and render the PDF in one step
  facturador process pedido.txt --pdf -o factura.pdf

  # Render an existing invoice JSON
  facturador render factura.json -o factura.pdf

  # Check an invoice's arithmetic
  facturador validate factura.json

  # Run the HTTP API
  facturador serve --address :8000`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format (console, json)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for LLM provider (env: LLM_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&llmBaseURL, "llm-base-url", "", "LLM API base URL (env: LLM_BASE_URL)")
	rootCmd.PersistentFlags().StringVar(&llmModel, "llm-model", "", "LLM model for extraction (env: LLM_MODEL)")
	rootCmd.PersistentFlags().Float64Var(&taxRate, "tax-rate", 0, "Fractional tax rate, default 0.18 (env: TAX_RATE)")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "Fail on missing required fields instead of defaulting (env: STRICT)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env is optional; flags win over environment
	_ = godotenv.Load()

	if apiKey == "" {
		apiKey = os.Getenv("LLM_API_KEY")
	}
	if llmBaseURL == "" {
		llmBaseURL = os.Getenv("LLM_BASE_URL")
	}
	if llmModel == "" {
		llmModel = os.Getenv("LLM_MODEL")
	}
	if taxRate == 0 {
		if v, err := strconv.ParseFloat(os.Getenv("TAX_RATE"), 64); err == nil {
			taxRate = v
		}
	}
	if !strict {
		strict = os.Getenv("STRICT") == "true" || os.Getenv("STRICT") == "1"
	}

	level := "info"
	if verbose {
		level = "debug"
	}
	_ = logger.Setup(logger.Config{Level: level, Format: logFormat})
}
