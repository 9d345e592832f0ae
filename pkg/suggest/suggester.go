// Package suggest proposes starting KPI questions for a freshly
// connected database, using an AI-assisted primary tier and a
// hand-authored catalog fallback.
package suggest

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/debleena1993/KPIChatbot/pkg/llm"
	"github.com/debleena1993/KPIChatbot/pkg/models"
	"github.com/debleena1993/KPIChatbot/pkg/tiered"
)

const (
	// maxSuggestions caps every suggestion list.
	maxSuggestions = 8
	// minSuggestions is the smallest list the primary tier may return;
	// anything shorter is demoted to the fallback.
	minSuggestions = 6
)

// amountColumns are column names that mark a table as holding
// aggregatable magnitudes.
var amountColumns = []string{"amount", "total", "value", "price", "balance", "salary"}

// dateColumns are column names that mark a table as time-ordered.
var dateColumns = []string{"date", "created_at", "timestamp", "updated_at", "recorded_at"}

const suggestSystemMessage = `You are a business intelligence assistant. Given a database schema and a business sector, propose KPI queries an analyst would ask first.

Respond with ONLY a JSON array of 6 to 8 objects, each with exactly these fields:
  "id": short snake_case identifier
  "name": short display name
  "description": one sentence
  "query_template": the natural-language question to ask

No prose, no markdown fencing.`

// Suggester produces ranked KPI suggestions. A nil generator disables
// the AI tier.
type Suggester struct {
	gen     llm.TextGenerator
	catalog *catalog
	timeout time.Duration
	logger  *zap.Logger
}

// NewSuggester creates a suggester. gen may be nil when no
// text-generation service is configured.
func NewSuggester(gen llm.TextGenerator, timeout time.Duration, logger *zap.Logger) (*Suggester, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c, err := loadCatalog()
	if err != nil {
		return nil, err
	}
	return &Suggester{
		gen:     gen,
		catalog: c,
		timeout: timeout,
		logger:  logger.Named("suggest"),
	}, nil
}

// Suggest returns 6-8 suggestions deduplicated by id. The fallback
// tier never fails, so neither does Suggest.
func (s *Suggester) Suggest(ctx context.Context, schema *models.SchemaSnapshot, sector string) ([]models.KPISuggestion, error) {
	var primary tiered.Func[[]models.KPISuggestion]
	if s.gen != nil {
		primary = func(ctx context.Context) ([]models.KPISuggestion, error) {
			return s.suggestAI(ctx, schema, sector)
		}
	}

	return tiered.Run(ctx, s.logger, primary,
		func(suggestions []models.KPISuggestion) error {
			if len(suggestions) < minSuggestions {
				return fmt.Errorf("only %d valid suggestions, need %d", len(suggestions), minSuggestions)
			}
			return nil
		},
		func(ctx context.Context) ([]models.KPISuggestion, error) {
			return s.suggestFallback(schema, sector), nil
		},
	)
}

// suggestAI asks the text-generation service for a JSON suggestion
// list, discards malformed entries, and truncates to the cap.
func (s *Suggester) suggestAI(ctx context.Context, schema *models.SchemaSnapshot, sector string) ([]models.KPISuggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	prompt := fmt.Sprintf("SECTOR: %s\n\nDATABASE SCHEMA:\n%s", sector, schemaSummary(schema))

	response, err := s.gen.GenerateText(ctx, suggestSystemMessage, prompt)
	if err != nil {
		return nil, err
	}

	parsed, err := llm.ParseJSONResponse[[]models.KPISuggestion](response)
	if err != nil {
		return nil, err
	}

	valid := make([]models.KPISuggestion, 0, len(parsed))
	for _, sug := range parsed {
		if sug.ID == "" || sug.Name == "" || sug.Description == "" || sug.QueryTemplate == "" {
			s.logger.Debug("discarding suggestion with missing fields", zap.String("id", sug.ID))
			continue
		}
		valid = append(valid, sug)
	}

	return dedupeAndCap(valid), nil
}

// suggestFallback concatenates the fixed per-sector catalog with one
// generated suggestion per schema table, plus totals/trends
// suggestions for tables whose columns invite them. Deterministic and
// total: it works even on an empty schema.
func (s *Suggester) suggestFallback(schema *models.SchemaSnapshot, sector string) []models.KPISuggestion {
	suggestions := s.catalog.forSector(sector)

	if schema != nil {
		for _, tableName := range schema.TableNames() {
			table := schema.Tables[tableName]
			title := tableTitle(tableName)

			suggestions = append(suggestions, models.KPISuggestion{
				ID:            tableName + "_summary",
				Name:          title + " Summary",
				Description:   fmt.Sprintf("Overview of the %s table", tableName),
				QueryTemplate: fmt.Sprintf("Summarize the %s table", tableName),
			})

			if hasAnyColumn(table, amountColumns) {
				suggestions = append(suggestions, models.KPISuggestion{
					ID:            tableName + "_totals",
					Name:          title + " Totals",
					Description:   fmt.Sprintf("Total amounts from the %s table", tableName),
					QueryTemplate: fmt.Sprintf("Show me total amounts from %s", tableName),
				})
			}

			if hasAnyColumn(table, dateColumns) {
				suggestions = append(suggestions, models.KPISuggestion{
					ID:            tableName + "_trends",
					Name:          title + " Trends",
					Description:   fmt.Sprintf("Trends over time from the %s table", tableName),
					QueryTemplate: fmt.Sprintf("Show me %s trends over time", tableName),
				})
			}
		}
	}

	return dedupeAndCap(suggestions)
}

// schemaSummary renders a compact table/column listing for the prompt.
func schemaSummary(schema *models.SchemaSnapshot) string {
	if schema == nil || len(schema.Tables) == 0 {
		return "No schema available"
	}

	var lines []string
	for _, tableName := range schema.TableNames() {
		table := schema.Tables[tableName]
		lines = append(lines, fmt.Sprintf("%s: %s", tableName, strings.Join(table.ColumnOrder, ", ")))
	}
	return strings.Join(lines, "\n")
}

// tableTitle humanizes a table name: "loan_applications" becomes
// "Loan Application".
func tableTitle(tableName string) string {
	words := strings.Split(inflection.Singular(tableName), "_")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

func hasAnyColumn(table models.TableSchema, names []string) bool {
	for _, name := range names {
		if _, ok := table.Columns[name]; ok {
			return true
		}
	}
	return false
}

// dedupeAndCap removes duplicate ids (first occurrence wins) and
// truncates to the suggestion cap.
func dedupeAndCap(suggestions []models.KPISuggestion) []models.KPISuggestion {
	seen := make(map[string]struct{}, len(suggestions))
	out := make([]models.KPISuggestion, 0, len(suggestions))
	for _, sug := range suggestions {
		if _, dup := seen[sug.ID]; dup {
			continue
		}
		seen[sug.ID] = struct{}{}
		out = append(out, sug)
		if len(out) == maxSuggestions {
			break
		}
	}
	return out
}
