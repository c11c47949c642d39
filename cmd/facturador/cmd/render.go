package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/facturalabs/facturador/internal/render"
	"github.com/facturalabs/facturador/pkg/facturalib"
)

var renderOutput string

var renderCmd = &cobra.Command{
	Use:   "render <invoice.json>",
	Short: "Render an invoice JSON file as PDF",
	Long: `Render a canonical invoice record (as produced by 'process') into a
paginated PDF document.

Examples:
  facturador render factura.json
  facturador render factura.json -o factura.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output PDF file (default: <input>.pdf)")
}

func runRender(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read invoice file: %w", err)
	}

	var inv facturalib.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return fmt.Errorf("invalid invoice JSON: %w", err)
	}

	pdf, err := render.NewRenderer().Render(&inv)
	if err != nil {
		return err
	}

	out := renderOutput
	if out == "" {
		out = strings.TrimSuffix(args[0], ".json") + ".pdf"
	}
	if err := os.WriteFile(out, pdf, 0o644); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}

	fmt.Printf("Wrote %s (%d bytes)\n", out, len(pdf))
	return nil
}
