// Package introspect discovers schemas and executes read-only queries
// against externally-owned PostgreSQL databases. Every connection is
// short-lived: opened for one unit of work and closed before the call
// returns.
package introspect

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/debleena1993/KPIChatbot/pkg/apperrors"
	"github.com/debleena1993/KPIChatbot/pkg/logging"
	"github.com/debleena1993/KPIChatbot/pkg/models"
)

// Introspector probes target databases and extracts schema snapshots.
type Introspector struct {
	connectTimeout time.Duration
	extractTimeout time.Duration
	logger         *zap.Logger
}

// NewIntrospector creates an introspector with bounded timeouts.
// If logger is nil, a no-op logger is used.
func NewIntrospector(connectTimeout, extractTimeout time.Duration, logger *zap.Logger) *Introspector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Introspector{
		connectTimeout: connectTimeout,
		extractTimeout: extractTimeout,
		logger:         logger.Named("introspect"),
	}
}

// connString builds a pgx connection string from target parameters.
func connString(params models.ConnectionParams, timeout time.Duration) string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s connect_timeout=%d sslmode=prefer",
		params.Host, params.Port, params.Database, params.Username, params.Password,
		int(timeout.Seconds()),
	)
}

// validateParams rejects structurally malformed parameters. Reachability
// is not checked here.
func validateParams(params models.ConnectionParams) error {
	if params.Kind != "" && params.Kind != "postgres" {
		return fmt.Errorf("unsupported database kind %q", params.Kind)
	}
	if params.Host == "" {
		return fmt.Errorf("host is required")
	}
	if params.Port <= 0 || params.Port > 65535 {
		return fmt.Errorf("port %d out of range", params.Port)
	}
	if params.Database == "" {
		return fmt.Errorf("database name is required")
	}
	return nil
}

// TestConnection opens a short-lived connection and issues a liveness
// probe. Unreachable or auth-rejected hosts return false with no
// error; only malformed parameters produce an error.
func (i *Introspector) TestConnection(ctx context.Context, params models.ConnectionParams) (bool, error) {
	if err := validateParams(params); err != nil {
		return false, err
	}

	ctx, cancel := context.WithTimeout(ctx, i.connectTimeout)
	defer cancel()

	conn, err := pgx.Connect(ctx, connString(params, i.connectTimeout))
	if err != nil {
		i.logger.Debug("connection test failed",
			zap.String("host", params.Host),
			zap.String("database", params.Database),
			zap.String("error", logging.SanitizeError(err)))
		return false, nil
	}
	defer conn.Close(context.Background())

	var one int
	if err := conn.QueryRow(ctx, "SELECT 1").Scan(&one); err != nil {
		i.logger.Debug("liveness probe failed",
			zap.String("host", params.Host),
			zap.Error(err))
		return false, nil
	}

	return true, nil
}

// ExtractSchema enumerates user-visible tables and their columns in a
// stable order (table name ascending, ordinal position ascending) and
// produces one immutable snapshot. Any mid-extraction failure aborts
// the whole extraction; no partial schema is ever returned.
func (i *Introspector) ExtractSchema(ctx context.Context, params models.ConnectionParams) (*models.SchemaSnapshot, error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, i.extractTimeout)
	defer cancel()

	conn, err := pgx.Connect(ctx, connString(params, i.connectTimeout))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrSchemaExtractionFailed, err)
	}
	defer conn.Close(context.Background())

	const query = `
		SELECT
			c.table_name,
			c.column_name,
			c.data_type,
			c.is_nullable = 'YES' AS is_nullable,
			c.column_default
		FROM information_schema.columns c
		JOIN information_schema.tables t
			ON t.table_schema = c.table_schema
			AND t.table_name = c.table_name
		WHERE c.table_schema = 'public'
		  AND t.table_type = 'BASE TABLE'
		ORDER BY c.table_name, c.ordinal_position
	`

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: query columns: %v", apperrors.ErrSchemaExtractionFailed, err)
	}
	defer rows.Close()

	snapshot := &models.SchemaSnapshot{
		Tables:      make(map[string]models.TableSchema),
		ExtractedAt: time.Now().UTC(),
	}

	for rows.Next() {
		var tableName, columnName, dataType string
		var nullable bool
		var columnDefault *string
		if err := rows.Scan(&tableName, &columnName, &dataType, &nullable, &columnDefault); err != nil {
			return nil, fmt.Errorf("%w: scan column: %v", apperrors.ErrSchemaExtractionFailed, err)
		}

		table, ok := snapshot.Tables[tableName]
		if !ok {
			table = models.TableSchema{Columns: make(map[string]models.ColumnSchema)}
		}
		table.Columns[columnName] = models.ColumnSchema{
			Type:     dataType,
			Nullable: nullable,
			Default:  columnDefault,
		}
		table.ColumnOrder = append(table.ColumnOrder, columnName)
		snapshot.Tables[tableName] = table
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate columns: %v", apperrors.ErrSchemaExtractionFailed, err)
	}

	i.logger.Info("schema extracted",
		zap.String("host", params.Host),
		zap.String("database", params.Database),
		zap.Int("tables", len(snapshot.Tables)))

	return snapshot, nil
}
