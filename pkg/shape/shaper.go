// Package shape converts raw query results into display-neutral
// result envelopes.
package shape

import (
	"fmt"
	"math"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/debleena1993/KPIChatbot/pkg/models"
)

// notAvailable is the sentinel rendered for null or absent values in
// display rows.
const notAvailable = "N/A"

// Classification is the chart binding decided by whatever produced the
// query (the AI tier or a fallback rule), not derived from the data.
type Classification struct {
	Kind   models.ChartKind
	XField string // optional; first non-numeric column when empty
	YField string // optional; first numeric column when empty
}

// Shape builds a result envelope from raw rows. TableRows keep the raw
// values so the chart series is never corrupted by display formatting;
// DisplayRows carry the formatted strings for table rendering. Nothing
// is truncated here; windowing is a presentation-layer concern.
func Shape(rows []map[string]any, columns []string, elapsedSeconds float64, class Classification) *models.ResultEnvelope {
	if rows == nil {
		rows = []map[string]any{}
	}

	kind := class.Kind
	if kind == "" {
		kind = models.ChartBar
	}

	xField, yField := chooseAxes(rows, columns, class)

	displayRows := make([]map[string]string, len(rows))
	for i, row := range rows {
		display := make(map[string]string, len(columns))
		for _, col := range columns {
			display[col] = formatValue(row[col])
		}
		displayRows[i] = display
	}

	return &models.ResultEnvelope{
		TableRows:            rows,
		DisplayRows:          displayRows,
		Columns:              columns,
		RowCount:             len(rows),
		ExecutionTimeSeconds: elapsedSeconds,
		Chart: models.ChartBinding{
			Kind:   kind,
			Series: buildSeries(rows, xField, yField),
			XField: xField,
			YField: yField,
		},
	}
}

// chooseAxes honors explicit fields from the classification, falling
// back to the first non-numeric column for x and the first numeric
// column for y.
func chooseAxes(rows []map[string]any, columns []string, class Classification) (string, string) {
	xField := class.XField
	yField := class.YField

	if xField != "" && !contains(columns, xField) {
		xField = ""
	}
	if yField != "" && !contains(columns, yField) {
		yField = ""
	}

	if xField == "" {
		for _, col := range columns {
			if !columnIsNumeric(rows, col) {
				xField = col
				break
			}
		}
		if xField == "" && len(columns) > 0 {
			xField = columns[0]
		}
	}

	if yField == "" {
		for _, col := range columns {
			if col == xField {
				continue
			}
			if columnIsNumeric(rows, col) {
				yField = col
				break
			}
		}
		if yField == "" && len(columns) > 1 {
			yField = columns[1]
		} else if yField == "" && len(columns) > 0 {
			yField = columns[0]
		}
	}

	return xField, yField
}

// buildSeries projects rows onto the chosen axes. When either axis is
// unknown the raw rows serve as the series; every key is still one of
// the envelope columns.
func buildSeries(rows []map[string]any, xField, yField string) []map[string]any {
	if xField == "" || yField == "" || xField == yField {
		return rows
	}

	series := make([]map[string]any, len(rows))
	for i, row := range rows {
		series[i] = map[string]any{
			xField: row[xField],
			yField: row[yField],
		}
	}
	return series
}

// columnIsNumeric samples the first non-null value of a column.
func columnIsNumeric(rows []map[string]any, col string) bool {
	for _, row := range rows {
		v, ok := row[col]
		if !ok || v == nil {
			continue
		}
		_, numeric := asFloat(v)
		return numeric
	}
	return false
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// formatValue renders one cell for table display. Nulls become the
// "not available" sentinel; numeric magnitudes at or above one
// thousand are thousands-grouped. The raw value in TableRows is left
// untouched.
func formatValue(v any) string {
	if v == nil {
		return notAvailable
	}

	if t, ok := v.(time.Time); ok {
		return t.Format("2006-01-02 15:04:05")
	}

	if f, ok := asFloat(v); ok {
		if math.Abs(f) >= 1000 {
			if f == math.Trunc(f) {
				return humanize.Comma(int64(f))
			}
			return humanize.CommafWithDigits(f, 2)
		}
		return fmt.Sprint(v)
	}

	return fmt.Sprint(v)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
