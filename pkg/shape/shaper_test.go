package shape

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/debleena1993/KPIChatbot/pkg/models"
)

func sampleRows() ([]map[string]any, []string) {
	rows := []map[string]any{
		{"department": "engineering", "avg_salary": float64(95500.5)},
		{"department": "sales", "avg_salary": float64(61250)},
		{"department": "support", "avg_salary": nil},
	}
	return rows, []string{"department", "avg_salary"}
}

func TestShape_RowCountMatchesTableRows(t *testing.T) {
	rows, columns := sampleRows()
	env := Shape(rows, columns, 0.12, Classification{Kind: models.ChartBar})

	assert.Equal(t, 3, env.RowCount)
	assert.Len(t, env.TableRows, 3)
	assert.Len(t, env.DisplayRows, 3)
	assert.Equal(t, columns, env.Columns)
	assert.Equal(t, 0.12, env.ExecutionTimeSeconds)
}

func TestShape_ChartKindComesFromClassification(t *testing.T) {
	rows, columns := sampleRows()

	for _, kind := range []models.ChartKind{models.ChartBar, models.ChartLine, models.ChartPie} {
		env := Shape(rows, columns, 0, Classification{Kind: kind})
		assert.Equal(t, kind, env.Chart.Kind)
	}
}

func TestShape_EmptyClassificationDefaultsToBar(t *testing.T) {
	rows, columns := sampleRows()
	env := Shape(rows, columns, 0, Classification{})
	assert.Equal(t, models.ChartBar, env.Chart.Kind)
}

func TestShape_SeriesKeysAreEnvelopeColumns(t *testing.T) {
	rows, columns := sampleRows()
	env := Shape(rows, columns, 0, Classification{Kind: models.ChartBar})

	require.NotEmpty(t, env.Chart.Series)
	for _, point := range env.Chart.Series {
		for key := range point {
			assert.Contains(t, columns, key)
		}
	}
}

func TestShape_AxisInference(t *testing.T) {
	rows, columns := sampleRows()
	env := Shape(rows, columns, 0, Classification{Kind: models.ChartBar})

	assert.Equal(t, "department", env.Chart.XField)
	assert.Equal(t, "avg_salary", env.Chart.YField)
}

func TestShape_ExplicitAxesHonored(t *testing.T) {
	rows := []map[string]any{
		{"month": "2026-01", "count": int64(4), "total": float64(100)},
	}
	columns := []string{"month", "count", "total"}

	env := Shape(rows, columns, 0, Classification{
		Kind:   models.ChartLine,
		XField: "month",
		YField: "total",
	})

	assert.Equal(t, "month", env.Chart.XField)
	assert.Equal(t, "total", env.Chart.YField)
	require.Len(t, env.Chart.Series, 1)
	assert.Equal(t, float64(100), env.Chart.Series[0]["total"])
	assert.NotContains(t, env.Chart.Series[0], "count")
}

func TestShape_UnknownExplicitAxisFallsBackToInference(t *testing.T) {
	rows, columns := sampleRows()
	env := Shape(rows, columns, 0, Classification{
		Kind:   models.ChartBar,
		XField: "missing_column",
	})
	assert.Equal(t, "department", env.Chart.XField)
}

func TestShape_NullsBecomeNotAvailable(t *testing.T) {
	rows, columns := sampleRows()
	env := Shape(rows, columns, 0, Classification{Kind: models.ChartBar})

	assert.Equal(t, "N/A", env.DisplayRows[2]["avg_salary"])
	// The raw value stays nil for the chart layer.
	assert.Nil(t, env.TableRows[2]["avg_salary"])
}

func TestShape_LargeNumbersAreGrouped(t *testing.T) {
	rows, columns := sampleRows()
	env := Shape(rows, columns, 0, Classification{Kind: models.ChartBar})

	assert.Equal(t, "95,500.5", env.DisplayRows[0]["avg_salary"])
	assert.Equal(t, "61,250", env.DisplayRows[1]["avg_salary"])
	// Raw values are untouched.
	assert.Equal(t, float64(95500.5), env.TableRows[0]["avg_salary"])
}

func TestShape_SmallNumbersUngrouped(t *testing.T) {
	rows := []map[string]any{{"label": "x", "value": float64(999)}}
	env := Shape(rows, []string{"label", "value"}, 0, Classification{Kind: models.ChartBar})
	assert.Equal(t, "999", env.DisplayRows[0]["value"])
}

func TestShape_TimestampsFormatted(t *testing.T) {
	ts := time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)
	rows := []map[string]any{{"day": ts, "count": int64(2)}}
	env := Shape(rows, []string{"day", "count"}, 0, Classification{Kind: models.ChartLine})

	assert.Equal(t, "2026-03-15 09:30:00", env.DisplayRows[0]["day"])
}

func TestShape_EmptyResult(t *testing.T) {
	env := Shape(nil, []string{"a", "b"}, 0.01, Classification{Kind: models.ChartPie})

	assert.Equal(t, 0, env.RowCount)
	assert.NotNil(t, env.TableRows)
	assert.Empty(t, env.Chart.Series)
	assert.Equal(t, models.ChartPie, env.Chart.Kind)
}
