package translate

import (
	"fmt"
	"strings"

	"github.com/debleena1993/KPIChatbot/pkg/models"
)

// systemMessage is the standing instruction for the text-generation
// service. The response contract (SELECT only, no prose, no fencing)
// is enforced again on the way back; the model is not trusted.
const systemMessage = `You are a SQL expert. Given a database schema and a natural language question, generate a safe PostgreSQL query.

IMPORTANT RULES:
1. Generate ONLY the SQL query, no explanations, no markdown fencing
2. Use proper PostgreSQL syntax
3. Include appropriate WHERE clauses and JOINs
4. Use LIMIT to prevent returning too many rows (max 100)
5. Never use DROP, DELETE, INSERT, UPDATE, or other destructive operations
6. Only use SELECT statements
7. Handle NULL values appropriately
8. Use proper column aliases for readability`

// sectorContexts gives the model domain hints for better column
// selection. Unknown sectors get a generic line.
var sectorContexts = map[string]string{
	"bank": `This is a banking sector database. Common KPIs include:
- Account balances and transactions
- Loan approval rates and amounts
- Customer demographics and banking products
- Branch performance metrics`,
	"finance": `This is a financial services database. Common KPIs include:
- Revenue and profit margins
- Investment portfolio performance
- Client asset values and allocations
- Fee income and expense ratios`,
	"ithr": `This is an IT/HR database. Common KPIs include:
- Employee headcount and turnover
- Hiring metrics and time-to-fill
- Salary and compensation analysis
- Performance ratings and reviews`,
}

// buildPrompt serializes the schema and question into the user prompt.
func buildPrompt(question string, schema *models.SchemaSnapshot, sector string) string {
	var b strings.Builder

	b.WriteString("DATABASE SCHEMA:\n")
	b.WriteString(schemaContext(schema))
	b.WriteString("\n\nSECTOR CONTEXT:\n")
	b.WriteString(sectorContext(sector))
	b.WriteString("\n\nNATURAL LANGUAGE QUERY: ")
	b.WriteString(question)
	b.WriteString("\n\nSQL Query:")

	return b.String()
}

// schemaContext renders the snapshot as one block per table, columns
// in catalog order.
func schemaContext(schema *models.SchemaSnapshot) string {
	if schema == nil || len(schema.Tables) == 0 {
		return "No schema available"
	}

	var blocks []string
	for _, tableName := range schema.TableNames() {
		table := schema.Tables[tableName]
		lines := []string{fmt.Sprintf("Table: %s", tableName)}
		for _, colName := range table.ColumnOrder {
			col := table.Columns[colName]
			nullability := "NOT NULL"
			if col.Nullable {
				nullability = "NULL"
			}
			lines = append(lines, fmt.Sprintf("  %s (%s) %s", colName, col.Type, nullability))
		}
		blocks = append(blocks, strings.Join(lines, "\n"))
	}

	return strings.Join(blocks, "\n\n")
}

func sectorContext(sector string) string {
	if ctx, ok := sectorContexts[sector]; ok {
		return ctx
	}
	return "General business database"
}
