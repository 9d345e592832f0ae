package models

// ChartKind selects how the chart binding should be rendered.
type ChartKind string

const (
	ChartBar  ChartKind = "bar"
	ChartLine ChartKind = "line"
	ChartPie  ChartKind = "pie"
)

// ChartBinding is the chart-ready projection of a result set. Every
// key appearing in Series is one of the envelope's Columns.
type ChartBinding struct {
	Kind   ChartKind        `json:"kind"`
	Series []map[string]any `json:"series"`
	XField string           `json:"x_field"`
	YField string           `json:"y_field"`
}

// ResultEnvelope is the display-neutral bundle returned for one
// question. TableRows hold raw values; DisplayRows hold formatted
// strings for table rendering so formatting never corrupts the chart
// series. RowCount always equals len(TableRows).
type ResultEnvelope struct {
	TableRows            []map[string]any    `json:"table_rows"`
	DisplayRows          []map[string]string `json:"display_rows"`
	Columns              []string            `json:"columns"`
	RowCount             int                 `json:"row_count"`
	ExecutionTimeSeconds float64             `json:"execution_time_seconds"`
	Chart                ChartBinding        `json:"chart"`
}
