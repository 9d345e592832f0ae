package models

// TranslationOrigin tags which tier produced a translation.
type TranslationOrigin string

const (
	// OriginAI marks queries produced by the text-generation service.
	OriginAI TranslationOrigin = "ai"
	// OriginFallback marks queries produced by the deterministic rules.
	OriginFallback TranslationOrigin = "fallback"
)

// TranslationResult is a generated, sanitized, executable read-only
// query. QueryText always begins with SELECT; translation that cannot
// guarantee that fails instead of degrading.
type TranslationResult struct {
	QueryText string            `json:"query_text"`
	Origin    TranslationOrigin `json:"origin"`

	// Chart classification supplied by the rule (or default) that
	// produced the query. The shaper consumes these verbatim.
	ChartKind ChartKind `json:"chart_kind"`
	XField    string    `json:"x_field,omitempty"`
	YField    string    `json:"y_field,omitempty"`
}
