package models

// KPISuggestion is one proposed starting question for a freshly
// connected database.
type KPISuggestion struct {
	ID            string `json:"id" yaml:"id"`
	Name          string `json:"name" yaml:"name"`
	Description   string `json:"description" yaml:"description"`
	QueryTemplate string `json:"query_template" yaml:"query_template"`
}
