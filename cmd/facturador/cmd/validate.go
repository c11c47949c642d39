package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/facturalabs/facturador/internal/model"
	"github.com/facturalabs/facturador/internal/money"
	"github.com/facturalabs/facturador/pkg/facturalib"
)

var validateCmd = &cobra.Command{
	Use:   "validate <invoice.json>",
	Short: "Check the arithmetic of an invoice JSON file",
	Long: `Verify that an invoice record is internally consistent: each line
total equals quantity times unit price, and the grand total equals
subtotal plus tax.

Exit status is non-zero when any check fails.

Examples:
  facturador validate factura.json`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("failed to read invoice file: %w", err)
	}

	var inv facturalib.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return fmt.Errorf("invalid invoice JSON: %w", err)
	}

	var problems []string

	for i, item := range inv.Items {
		expected := money.Mul(item.Quantity, item.UnitPrice)
		if !expected.Equal(item.Total) {
			problems = append(problems, fmt.Sprintf("items[%d]: line total %s, expected %s",
				i, item.Total.StringFixed(2), expected.StringFixed(2)))
		}
	}

	expectedGrand := money.Round2(inv.Totals.Subtotal.Add(inv.Totals.Tax))
	if !expectedGrand.Equal(inv.Totals.Grand) {
		problems = append(problems, fmt.Sprintf("total %s does not equal subtotal plus tax (%s)",
			inv.Totals.Grand.StringFixed(2), expectedGrand.StringFixed(2)))
	}

	if inv.AmountInWords == model.DefaultAmountWords {
		fmt.Println("warning: amount in words is a placeholder")
	}

	if len(problems) > 0 {
		for _, p := range problems {
			fmt.Println(p)
		}
		return fmt.Errorf("%d validation error(s)", len(problems))
	}

	fmt.Println("OK")
	return nil
}
