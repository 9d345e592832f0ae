// Package llm provides access to external text-generation services.
package llm

import "context"

// TextGenerator is the narrow interface the translator and suggester
// depend on. Use it for dependency injection to enable mocking in
// tests.
type TextGenerator interface {
	// GenerateText sends a system instruction plus a prompt and returns
	// the completion text.
	GenerateText(ctx context.Context, systemMessage, prompt string) (string, error)

	// Model returns the configured model name.
	Model() string
}

// Ensure implementations satisfy TextGenerator at compile time.
var (
	_ TextGenerator = (*Client)(nil)
	_ TextGenerator = (*AnthropicClient)(nil)
	_ TextGenerator = (*MockTextGenerator)(nil)
)
