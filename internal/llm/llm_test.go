package llm_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturalabs/facturador/internal/llm"
	"github.com/facturalabs/facturador/internal/model"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "Here is the result:\n```json\n{\"client\": \"ACME\"}\n```\nDone.",
			expected: `{"client": "ACME"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"client\": \"ACME\"}\n```",
			expected: `{"client": "ACME"}`,
		},
		{
			name:     "raw json object",
			input:    `  {"client": "ACME"}  `,
			expected: `{"client": "ACME"}`,
		},
		{
			name:     "raw json array",
			input:    `[{"descripcion": "Laptop"}]`,
			expected: `[{"descripcion": "Laptop"}]`,
		},
		{
			name:     "plain text passthrough",
			input:    "no json here",
			expected: "no json here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, llm.ExtractJSON(tt.input))
		})
	}
}

func TestNewClient_Options(t *testing.T) {
	client := llm.NewClient("test-key",
		llm.WithBaseURL("http://localhost:9999/v1"),
		llm.WithTimeout(5*time.Second),
		llm.WithDefaultModel(llm.ModelGPT4oMini),
	)
	require.NotNil(t, client)
}

func TestExtractor_EmptyText(t *testing.T) {
	client := llm.NewClient("test-key")
	extractor := llm.NewExtractor(client, llm.WithModel(llm.ModelGeminiFlash))

	_, err := extractor.ExtractFromText(context.Background(), "")

	var extErr *model.ExtractionError
	require.ErrorAs(t, err, &extErr)
	assert.Contains(t, err.Error(), "empty input text")
}

func TestExtractor_UnreachableOracle(t *testing.T) {
	// A closed port fails fast; the transport error must surface as an
	// extraction failure, not leak through raw.
	client := llm.NewClient("test-key",
		llm.WithBaseURL("http://127.0.0.1:1/v1"),
		llm.WithTimeout(2*time.Second),
	)
	extractor := llm.NewExtractor(client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := extractor.ExtractFromText(ctx, "Factura para ACME por 100 soles")

	var extErr *model.ExtractionError
	require.ErrorAs(t, err, &extErr)
}
