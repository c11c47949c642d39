package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/facturalabs/facturador/pkg/facturalib"
)

var (
	outputFile string
	outputPDF  bool
	timeout    time.Duration
)

var processCmd = &cobra.Command{
	Use:   "process [file]",
	Short: "Turn free-form text into an invoice",
	Long: `Extract a structured invoice from free-form text and print it as JSON,
or render it straight to PDF with --pdf.

The text is read from the given file, or from stdin when no file is given.

Examples:
  facturador process pedido.txt --api-key <key>
  echo "factura para ACME por 2 laptops a 1500" | facturador process
  facturador process pedido.txt --pdf -o factura.pdf
  facturador process pedido.txt --strict`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	rootCmd.AddCommand(processCmd)

	processCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	processCmd.Flags().BoolVar(&outputPDF, "pdf", false, "Render the invoice as PDF instead of JSON")
	processCmd.Flags().StringP("format", "f", "json", "Output format for invoice data (json, table)")
	processCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Processing timeout")
}

func runProcess(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}
	if apiKey == "" {
		return fmt.Errorf("an API key is required (--api-key or LLM_API_KEY)")
	}

	proc := newProcessor()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if outputPDF {
		_, data, err := proc.ProcessToPDF(ctx, text)
		if err != nil {
			return err
		}
		return writeOutput(data)
	}

	inv, err := proc.ProcessText(ctx, text)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "json":
		data, err := json.MarshalIndent(inv, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(append(data, '\n'))
	case "table":
		return printInvoiceTable(inv)
	default:
		return fmt.Errorf("unsupported output format: %s", format)
	}
}

func newProcessor() *facturalib.Processor {
	opts := []func(*facturalib.ProcessorOptions){
		facturalib.WithAPIKey(apiKey),
	}
	if llmBaseURL != "" {
		opts = append(opts, facturalib.WithBaseURL(llmBaseURL))
	}
	if llmModel != "" {
		opts = append(opts, facturalib.WithModel(llmModel))
	}
	if taxRate > 0 {
		opts = append(opts, facturalib.WithTaxRate(decimalFromFloat(taxRate)))
	}
	if strict {
		opts = append(opts, facturalib.WithMode(facturalib.ModeStrict))
	}
	return facturalib.NewProcessor(opts...)
}

func decimalFromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func readInput(args []string) (string, error) {
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func writeOutput(data []byte) error {
	if outputFile == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(outputFile, data, 0o644)
}

func printInvoiceTable(inv *facturalib.Invoice) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Documento:\t%s %s\n", inv.DocumentType, inv.Series)
	fmt.Fprintf(tw, "Cliente:\t%s (%s)\n", inv.Client.Name, inv.Client.TaxID)
	fmt.Fprintf(tw, "Fecha:\t%s\n", inv.IssueDate)
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "CANT\tDESCRIPCION\tUND\tP.UNIT\tTOTAL")
	for _, item := range inv.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			item.Quantity.String(),
			item.Description,
			item.Unit,
			item.UnitPrice.StringFixed(2),
			item.Total.StringFixed(2),
		)
	}
	fmt.Fprintln(tw)
	fmt.Fprintf(tw, "Subtotal:\t%s\n", inv.Totals.Subtotal.StringFixed(2))
	fmt.Fprintf(tw, "IGV %s%%:\t%s\n", inv.Totals.RatePercent.String(), inv.Totals.Tax.StringFixed(2))
	fmt.Fprintf(tw, "TOTAL:\t%s\n", inv.Totals.Grand.StringFixed(2))
	return tw.Flush()
}
