// Package translate converts natural-language questions into
// executable read-only SQL using an AI-assisted primary tier and a
// deterministic keyword fallback.
package translate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/debleena1993/KPIChatbot/pkg/apperrors"
	"github.com/debleena1993/KPIChatbot/pkg/llm"
	"github.com/debleena1993/KPIChatbot/pkg/models"
	"github.com/debleena1993/KPIChatbot/pkg/sqlguard"
	"github.com/debleena1993/KPIChatbot/pkg/tiered"
)

// Translator turns questions into validated read-only queries.
// A nil generator disables the AI tier entirely.
type Translator struct {
	gen     llm.TextGenerator
	timeout time.Duration
	logger  *zap.Logger
}

// NewTranslator creates a translator. gen may be nil when no
// text-generation service is configured.
func NewTranslator(gen llm.TextGenerator, timeout time.Duration, logger *zap.Logger) *Translator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Translator{
		gen:     gen,
		timeout: timeout,
		logger:  logger.Named("translate"),
	}
}

// Translate produces a read-only query for the question against the
// given schema. Primary-tier failures fall through silently to the
// deterministic rules; an error surfaces only when the fallback tier
// is also exhausted, which requires a schema with zero tables.
func (t *Translator) Translate(ctx context.Context, question string, schema *models.SchemaSnapshot, sector string) (*models.TranslationResult, error) {
	if check := sqlguard.CheckQuestion(question); check != nil {
		t.logger.Warn("question rejected by injection screen",
			zap.String("fingerprint", check.Fingerprint))
		return nil, fmt.Errorf("%w: question contains SQL injection pattern", apperrors.ErrTranslationFailed)
	}

	var primary tiered.Func[*models.TranslationResult]
	if t.gen != nil {
		primary = func(ctx context.Context) (*models.TranslationResult, error) {
			return t.translateAI(ctx, question, schema, sector)
		}
	}

	result, err := tiered.Run(ctx, t.logger, primary,
		func(r *models.TranslationResult) error {
			return sqlguard.EnsureReadOnly(r.QueryText)
		},
		func(ctx context.Context) (*models.TranslationResult, error) {
			return translateFallback(question, schema)
		},
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrTranslationFailed, err)
	}

	return result, nil
}

// translateAI is the primary tier: one bounded call to the
// text-generation service, then cleanup and validation.
func (t *Translator) translateAI(ctx context.Context, question string, schema *models.SchemaSnapshot, sector string) (*models.TranslationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	response, err := t.gen.GenerateText(ctx, systemMessage, buildPrompt(question, schema, sector))
	if err != nil {
		return nil, err
	}

	cleaned, err := cleanSQLResponse(response)
	if err != nil {
		return nil, err
	}

	if err := sqlguard.EnsureReadOnly(cleaned); err != nil {
		return nil, err
	}

	return &models.TranslationResult{
		QueryText: cleaned,
		Origin:    models.OriginAI,
		ChartKind: classifyQuestion(question),
	}, nil
}

// cleanSQLResponse strips code-fence markers, discards everything
// before the first SELECT, and normalizes the statement.
func cleanSQLResponse(response string) (string, error) {
	cleaned := strings.ReplaceAll(response, "```sql", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.TrimSpace(cleaned)

	idx := strings.Index(strings.ToUpper(cleaned), "SELECT")
	if idx < 0 {
		return "", fmt.Errorf("response contains no SELECT statement")
	}
	cleaned = cleaned[idx:]

	// Collapse to one line the way the original service did
	lines := strings.Fields(cleaned)
	cleaned = strings.Join(lines, " ")

	result := sqlguard.ValidateAndNormalize(cleaned)
	if result.Error != nil {
		return "", result.Error
	}

	return result.NormalizedSQL, nil
}

// classifyQuestion picks a chart kind for AI-origin queries from the
// question text alone, keeping the binding a pure function of the
// question rather than of the returned data.
func classifyQuestion(question string) models.ChartKind {
	lowered := strings.ToLower(question)

	lineHints := []string{"trend", "over time", "monthly", "daily", "weekly", "growth", "last 30 days"}
	for _, hint := range lineHints {
		if strings.Contains(lowered, hint) {
			return models.ChartLine
		}
	}

	pieHints := []string{"distribution", "share", "proportion", "percentage", "breakdown", "split"}
	for _, hint := range pieHints {
		if strings.Contains(lowered, hint) {
			return models.ChartPie
		}
	}

	return models.ChartBar
}
