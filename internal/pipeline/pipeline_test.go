package pipeline_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturalabs/facturador/internal/invoice"
	"github.com/facturalabs/facturador/internal/model"
	"github.com/facturalabs/facturador/internal/pipeline"
)

// fakeOracle replays a canned raw record or error.
type fakeOracle struct {
	raw  *model.RawInvoice
	err  error
	seen string
}

func (f *fakeOracle) ExtractFromText(_ context.Context, text string) (*model.RawInvoice, error) {
	f.seen = text
	if f.err != nil {
		return nil, f.err
	}
	return f.raw, nil
}

func cannedRaw(t *testing.T) *model.RawInvoice {
	t.Helper()
	var raw model.RawInvoice
	require.NoError(t, json.Unmarshal([]byte(`{
		"client": "ACME S.A.",
		"client_ruc_dni": "20987654321",
		"items": [
			{"descripcion": "Laptop", "cantidad": 2, "unidad_medida": "UNI", "precio_unitario": 1500.00},
			{"descripcion": "Mouse", "cantidad": 1, "precio_unitario": 500.00}
		]
	}`), &raw))
	return &raw
}

func testConfig() invoice.Config {
	cfg := invoice.DefaultConfig()
	cfg.Now = func() time.Time {
		return time.Date(2026, time.January, 18, 0, 0, 0, 0, time.UTC)
	}
	return cfg
}

func TestProcess(t *testing.T) {
	oracle := &fakeOracle{raw: cannedRaw(t)}
	p := pipeline.NewPipeline(
		pipeline.WithOracle(oracle),
		pipeline.WithConfig(testConfig()),
	)

	inv, err := p.Process(context.Background(), "Factura para ACME por dos laptops")
	require.NoError(t, err)

	assert.Equal(t, "Factura para ACME por dos laptops", oracle.seen)
	assert.Equal(t, "ACME S.A.", inv.Client.Name)
	assert.Equal(t, "3500.00", inv.Totals.Subtotal.StringFixed(2))
	assert.Equal(t, "630.00", inv.Totals.Tax.StringFixed(2))
	assert.Equal(t, "4130.00", inv.Totals.Grand.StringFixed(2))
}

func TestProcess_NoOracle(t *testing.T) {
	p := pipeline.NewPipeline()

	_, err := p.Process(context.Background(), "some text")

	var extErr *model.ExtractionError
	require.ErrorAs(t, err, &extErr)
}

func TestProcess_OracleErrorPropagates(t *testing.T) {
	wantErr := model.NewExtractionError("oracle refused", nil)
	p := pipeline.NewPipeline(pipeline.WithOracle(&fakeOracle{err: wantErr}))

	_, err := p.Process(context.Background(), "unintelligible")

	var extErr *model.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Contains(t, err.Error(), "oracle refused")
}

func TestProcess_AssemblyErrorPropagates(t *testing.T) {
	var raw model.RawInvoice
	require.NoError(t, json.Unmarshal([]byte(`{"items": []}`), &raw))

	p := pipeline.NewPipeline(pipeline.WithOracle(&fakeOracle{raw: &raw}))

	_, err := p.Process(context.Background(), "texto sin cliente")

	var incErr *model.IncompleteInvoiceDataError
	require.ErrorAs(t, err, &incErr)
}

func TestAssemble_WithoutOracle(t *testing.T) {
	p := pipeline.NewPipeline(pipeline.WithConfig(testConfig()))

	inv, err := p.Assemble(cannedRaw(t))
	require.NoError(t, err)
	assert.Len(t, inv.Items, 2)
}

func TestProcessToPDF(t *testing.T) {
	p := pipeline.NewPipeline(
		pipeline.WithOracle(&fakeOracle{raw: cannedRaw(t)}),
		pipeline.WithConfig(testConfig()),
	)

	inv, pdf, err := p.ProcessToPDF(context.Background(), "Factura para ACME")
	require.NoError(t, err)

	assert.Equal(t, "ACME S.A.", inv.Client.Name)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))
}

func TestProcessToPDF_StopsOnExtractionFailure(t *testing.T) {
	p := pipeline.NewPipeline(
		pipeline.WithOracle(&fakeOracle{err: model.NewExtractionError("boom", nil)}),
	)

	inv, pdf, err := p.ProcessToPDF(context.Background(), "texto")
	require.Error(t, err)
	assert.Nil(t, inv)
	assert.Nil(t, pdf)
}
