package suggest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debleena1993/KPIChatbot/pkg/llm"
	"github.com/debleena1993/KPIChatbot/pkg/models"
)

func newTestSuggester(t *testing.T, gen llm.TextGenerator) *Suggester {
	t.Helper()
	s, err := NewSuggester(gen, time.Second, nil)
	require.NoError(t, err)
	return s
}

func hrSchema() *models.SchemaSnapshot {
	return &models.SchemaSnapshot{
		Tables: map[string]models.TableSchema{
			"employees": {
				Columns: map[string]models.ColumnSchema{
					"id":         {Type: "integer"},
					"salary":     {Type: "numeric"},
					"created_at": {Type: "timestamp without time zone"},
				},
				ColumnOrder: []string{"id", "salary", "created_at"},
			},
		},
	}
}

func TestSuggest_AIResponseUsed(t *testing.T) {
	gen := llm.NewMockTextGenerator()
	gen.GenerateTextFunc = func(ctx context.Context, systemMessage, prompt string) (string, error) {
		return `[
			{"id": "k1", "name": "One", "description": "d", "query_template": "q"},
			{"id": "k2", "name": "Two", "description": "d", "query_template": "q"},
			{"id": "k3", "name": "Three", "description": "d", "query_template": "q"},
			{"id": "k4", "name": "Four", "description": "d", "query_template": "q"},
			{"id": "k5", "name": "Five", "description": "d", "query_template": "q"},
			{"id": "k6", "name": "Six", "description": "d", "query_template": "q"}
		]`, nil
	}

	s := newTestSuggester(t, gen)
	suggestions, err := s.Suggest(context.Background(), hrSchema(), "ithr")
	require.NoError(t, err)
	require.Len(t, suggestions, 6)
	assert.Equal(t, "k1", suggestions[0].ID)
}

func TestSuggest_TooFewValidDemotesToFallback(t *testing.T) {
	gen := llm.NewMockTextGenerator()
	gen.GenerateTextFunc = func(ctx context.Context, systemMessage, prompt string) (string, error) {
		// Only two complete entries; the third is missing fields.
		return `[
			{"id": "k1", "name": "One", "description": "d", "query_template": "q"},
			{"id": "k2", "name": "Two", "description": "d", "query_template": "q"},
			{"id": "k3", "name": "Three"}
		]`, nil
	}

	s := newTestSuggester(t, gen)
	suggestions, err := s.Suggest(context.Background(), hrSchema(), "ithr")
	require.NoError(t, err)

	// Fallback output: sector catalog entries lead the list.
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "employee_turnover", suggestions[0].ID)
}

func TestSuggest_AIErrorFallsBack(t *testing.T) {
	gen := llm.NewMockTextGenerator()
	gen.GenerateTextFunc = func(ctx context.Context, systemMessage, prompt string) (string, error) {
		return "", errors.New("service unavailable")
	}

	s := newTestSuggester(t, gen)
	suggestions, err := s.Suggest(context.Background(), hrSchema(), "bank")
	require.NoError(t, err)
	assert.NotEmpty(t, suggestions)
}

func TestSuggest_NilGeneratorNeverFails(t *testing.T) {
	s := newTestSuggester(t, nil)

	suggestions, err := s.Suggest(context.Background(), hrSchema(), "bank")
	require.NoError(t, err)
	require.NotEmpty(t, suggestions)
	assert.LessOrEqual(t, len(suggestions), 8)
	assert.GreaterOrEqual(t, len(suggestions), 6)
}

func TestSuggest_FallbackGeneratesTableSuggestions(t *testing.T) {
	s := newTestSuggester(t, nil)

	suggestions := s.suggestFallback(hrSchema(), "unknown-sector")

	ids := make([]string, len(suggestions))
	for i, sug := range suggestions {
		ids[i] = sug.ID
	}
	assert.Contains(t, ids, "employees_summary")
	assert.Contains(t, ids, "employees_totals")
	assert.Contains(t, ids, "employees_trends")
}

func TestSuggest_FallbackEmptySchemaStillSuggests(t *testing.T) {
	s := newTestSuggester(t, nil)

	suggestions, err := s.Suggest(context.Background(), nil, "bank")
	require.NoError(t, err)
	assert.NotEmpty(t, suggestions)
}

func TestSuggest_DeduplicatesByID(t *testing.T) {
	input := []models.KPISuggestion{
		{ID: "a", Name: "First"},
		{ID: "a", Name: "Duplicate"},
		{ID: "b", Name: "Second"},
	}

	out := dedupeAndCap(input)
	require.Len(t, out, 2)
	assert.Equal(t, "First", out[0].Name)
}

func TestSuggest_CapsAtEight(t *testing.T) {
	var input []models.KPISuggestion
	for _, id := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j"} {
		input = append(input, models.KPISuggestion{ID: id})
	}

	out := dedupeAndCap(input)
	assert.Len(t, out, 8)
}

func TestTableTitle(t *testing.T) {
	assert.Equal(t, "Loan Application", tableTitle("loan_applications"))
	assert.Equal(t, "Employee", tableTitle("employees"))
	assert.Equal(t, "Revenue", tableTitle("revenue"))
}
