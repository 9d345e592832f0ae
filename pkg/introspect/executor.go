package introspect

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/debleena1993/KPIChatbot/pkg/logging"
	"github.com/debleena1993/KPIChatbot/pkg/models"
)

// QueryResult holds the raw outcome of one read-only query execution:
// column names in select-list order, rows as column-keyed maps, and
// elapsed wall-clock seconds.
type QueryResult struct {
	Columns        []string
	Rows           []map[string]any
	ElapsedSeconds float64
}

// Executor runs validated read-only queries against a target database
// over a short-lived connection. Read-only enforcement happens before
// this layer; the executor trusts its input was screened.
type Executor struct {
	connectTimeout time.Duration
	queryTimeout   time.Duration
	logger         *zap.Logger
}

// NewExecutor creates an executor with bounded timeouts.
// If logger is nil, a no-op logger is used.
func NewExecutor(connectTimeout, queryTimeout time.Duration, logger *zap.Logger) *Executor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		connectTimeout: connectTimeout,
		queryTimeout:   queryTimeout,
		logger:         logger.Named("executor"),
	}
}

// ExecuteQuery opens a connection, runs the query, collects all rows,
// and closes the connection before returning.
func (e *Executor) ExecuteQuery(ctx context.Context, params models.ConnectionParams, sqlQuery string) (*QueryResult, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, e.queryTimeout)
	defer cancel()

	start := time.Now()

	conn, err := pgx.Connect(ctx, connString(params, e.connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("connect to target database: %w", err)
	}
	defer conn.Close(context.Background())

	rows, err := conn.Query(ctx, sqlQuery)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	columns := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		columns[i] = string(fd.Name)
	}

	resultRows := make([]map[string]any, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("read row values: %w", err)
		}

		rowMap := make(map[string]any, len(columns))
		for i, col := range columns {
			rowMap[col] = values[i]
		}
		resultRows = append(resultRows, rowMap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}

	elapsed := time.Since(start)

	e.logger.Debug("query executed",
		zap.String("database", params.Database),
		zap.String("query", logging.SanitizeQuery(sqlQuery)),
		zap.Int("rows", len(resultRows)),
		zap.Duration("elapsed", elapsed))

	return &QueryResult{
		Columns:        columns,
		Rows:           resultRows,
		ElapsedSeconds: elapsed.Seconds(),
	}, nil
}
