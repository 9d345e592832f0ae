package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debleena1993/KPIChatbot/pkg/apperrors"
	"github.com/debleena1993/KPIChatbot/pkg/models"
)

func hrSchema() *models.SchemaSnapshot {
	return &models.SchemaSnapshot{
		Tables: map[string]models.TableSchema{
			"employees": {
				Columns: map[string]models.ColumnSchema{
					"id":         {Type: "integer"},
					"department": {Type: "text"},
					"salary":     {Type: "numeric"},
				},
				ColumnOrder: []string{"id", "department", "salary"},
			},
		},
	}
}

func TestTranslateFallback_KeywordRuleMatches(t *testing.T) {
	result, err := translateFallback("What is the average salary by department?", hrSchema())
	require.NoError(t, err)

	assert.Equal(t, models.OriginFallback, result.Origin)
	assert.Contains(t, result.QueryText, "AVG(salary)")
	assert.Equal(t, models.ChartBar, result.ChartKind)
	assert.Equal(t, "department", result.XField)
	assert.Equal(t, "avg_salary", result.YField)
}

func TestTranslateFallback_IsDeterministic(t *testing.T) {
	first, err := translateFallback("show me salary numbers", hrSchema())
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		again, err := translateFallback("show me salary numbers", hrSchema())
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTranslateFallback_RuleSkippedWhenTableMissing(t *testing.T) {
	// Salary keyword matches but there is no employees table, so the
	// safe default fires instead.
	schema := &models.SchemaSnapshot{
		Tables: map[string]models.TableSchema{
			"widgets": {
				Columns:     map[string]models.ColumnSchema{"id": {Type: "integer"}},
				ColumnOrder: []string{"id"},
			},
		},
	}

	result, err := translateFallback("salary report", schema)
	require.NoError(t, err)
	assert.Contains(t, result.QueryText, `"widgets"`)
	assert.Contains(t, result.QueryText, "LIMIT 50")
}

func TestTranslateFallback_SafeDefaultPicksFirstTableByName(t *testing.T) {
	schema := &models.SchemaSnapshot{
		Tables: map[string]models.TableSchema{
			"zebras": {
				Columns:     map[string]models.ColumnSchema{"id": {Type: "integer"}},
				ColumnOrder: []string{"id"},
			},
			"antelopes": {
				Columns:     map[string]models.ColumnSchema{"id": {Type: "integer"}},
				ColumnOrder: []string{"id"},
			},
		},
	}

	result, err := translateFallback("nothing matches this", schema)
	require.NoError(t, err)
	assert.Contains(t, result.QueryText, `"antelopes"`)
	assert.Equal(t, models.ChartBar, result.ChartKind)
}

func TestTranslateFallback_SafeDefaultCapsColumns(t *testing.T) {
	schema := &models.SchemaSnapshot{
		Tables: map[string]models.TableSchema{
			"wide": {
				Columns: map[string]models.ColumnSchema{
					"a": {}, "b": {}, "c": {}, "d": {}, "e": {}, "f": {}, "g": {},
				},
				ColumnOrder: []string{"a", "b", "c", "d", "e", "f", "g"},
			},
		},
	}

	result, err := translateFallback("unmatched question", schema)
	require.NoError(t, err)
	assert.Equal(t, `SELECT "a", "b", "c", "d", "e" FROM "wide" LIMIT 50`, result.QueryText)
}

func TestTranslateFallback_EmptySchema(t *testing.T) {
	_, err := translateFallback("anything", &models.SchemaSnapshot{Tables: map[string]models.TableSchema{}})
	assert.ErrorIs(t, err, apperrors.ErrNoSchemaAvailable)

	_, err = translateFallback("anything", nil)
	assert.ErrorIs(t, err, apperrors.ErrNoSchemaAvailable)
}

func TestTranslateFallback_FirstEligibleRuleWins(t *testing.T) {
	// Question mentions both salary and headcount; the salary rule
	// comes first in the rule order.
	result, err := translateFallback("salary and headcount by department", hrSchema())
	require.NoError(t, err)
	assert.Contains(t, result.QueryText, "AVG(salary)")
}
