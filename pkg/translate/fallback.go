package translate

import (
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/debleena1993/KPIChatbot/pkg/apperrors"
	"github.com/debleena1993/KPIChatbot/pkg/models"
)

// defaultRowLimit bounds the safe-default query.
const defaultRowLimit = 50

// maxDefaultColumns caps the select list of the safe-default query.
const maxDefaultColumns = 5

// fallbackRule maps a keyword set to a templated query. A rule is
// eligible only when every keyword appears in the lowercased question
// and the required table exists in the active schema. Rules are
// evaluated in fixed order; the first eligible match wins, with no
// tie-break beyond that ordering.
type fallbackRule struct {
	keywords      []string
	requiredTable string
	queryText     string
	chartKind     models.ChartKind
	xField        string
	yField        string
}

// fallbackRules is the fixed ordered rule list. Templates are written
// against the column names conventional for each sector's tables; a
// rule whose table is absent simply never fires.
var fallbackRules = []fallbackRule{
	{
		keywords:      []string{"salary"},
		requiredTable: "employees",
		queryText:     "SELECT department, AVG(salary) AS avg_salary FROM employees GROUP BY department ORDER BY avg_salary DESC LIMIT 100",
		chartKind:     models.ChartBar,
		xField:        "department",
		yField:        "avg_salary",
	},
	{
		keywords:      []string{"transaction", "volume"},
		requiredTable: "transactions",
		queryText:     "SELECT DATE(created_at) AS day, COUNT(*) AS transaction_count FROM transactions WHERE created_at >= CURRENT_DATE - INTERVAL '30 days' GROUP BY DATE(created_at) ORDER BY day LIMIT 100",
		chartKind:     models.ChartLine,
		xField:        "day",
		yField:        "transaction_count",
	},
	{
		keywords:      []string{"loan", "approval"},
		requiredTable: "loans",
		queryText:     "SELECT status, COUNT(*) AS loan_count FROM loans GROUP BY status ORDER BY loan_count DESC LIMIT 100",
		chartKind:     models.ChartPie,
		xField:        "status",
		yField:        "loan_count",
	},
	{
		keywords:      []string{"account", "growth"},
		requiredTable: "accounts",
		queryText:     "SELECT DATE_TRUNC('month', created_at)::date AS month, COUNT(*) AS new_accounts FROM accounts GROUP BY DATE_TRUNC('month', created_at) ORDER BY month LIMIT 100",
		chartKind:     models.ChartLine,
		xField:        "month",
		yField:        "new_accounts",
	},
	{
		keywords:      []string{"headcount"},
		requiredTable: "employees",
		queryText:     "SELECT department, COUNT(*) AS headcount FROM employees GROUP BY department ORDER BY headcount DESC LIMIT 100",
		chartKind:     models.ChartBar,
		xField:        "department",
		yField:        "headcount",
	},
	{
		keywords:      []string{"revenue"},
		requiredTable: "revenue",
		queryText:     "SELECT DATE_TRUNC('month', recorded_at)::date AS month, SUM(amount) AS total_revenue FROM revenue GROUP BY DATE_TRUNC('month', recorded_at) ORDER BY month LIMIT 100",
		chartKind:     models.ChartLine,
		xField:        "month",
		yField:        "total_revenue",
	},
}

// translateFallback deterministically maps a question onto the first
// eligible rule, or onto the safe default when nothing matches. Fails
// only when the schema has zero tables.
func translateFallback(question string, schema *models.SchemaSnapshot) (*models.TranslationResult, error) {
	if schema == nil || len(schema.Tables) == 0 {
		return nil, apperrors.ErrNoSchemaAvailable
	}

	lowered := strings.ToLower(question)

	for _, rule := range fallbackRules {
		if !schema.HasTable(rule.requiredTable) {
			continue
		}
		if !matchesAll(lowered, rule.keywords) {
			continue
		}
		return &models.TranslationResult{
			QueryText: rule.queryText,
			Origin:    models.OriginFallback,
			ChartKind: rule.chartKind,
			XField:    rule.xField,
			YField:    rule.yField,
		}, nil
	}

	return safeDefault(schema), nil
}

func matchesAll(lowered string, keywords []string) bool {
	for _, kw := range keywords {
		if !strings.Contains(lowered, kw) {
			return false
		}
	}
	return true
}

// safeDefault selects a bounded sample of the first table (name
// ascending), restricted to at most five of its columns in catalog
// order. Identifiers are quoted before interpolation.
func safeDefault(schema *models.SchemaSnapshot) *models.TranslationResult {
	tableName := schema.TableNames()[0]
	table := schema.Tables[tableName]

	columns := table.ColumnOrder
	if len(columns) > maxDefaultColumns {
		columns = columns[:maxDefaultColumns]
	}

	selectList := "*"
	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, col := range columns {
			quoted[i] = pgx.Identifier{col}.Sanitize()
		}
		selectList = strings.Join(quoted, ", ")
	}

	queryText := fmt.Sprintf("SELECT %s FROM %s LIMIT %d",
		selectList, pgx.Identifier{tableName}.Sanitize(), defaultRowLimit)

	return &models.TranslationResult{
		QueryText: queryText,
		Origin:    models.OriginFallback,
		ChartKind: models.ChartBar,
	}
}
