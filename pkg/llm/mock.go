package llm

import "context"

// MockTextGenerator is a configurable mock for testing components that
// consume a TextGenerator. Set the function field to control behavior.
type MockTextGenerator struct {
	// GenerateTextFunc is called when GenerateText is invoked.
	// If nil, returns empty string and nil error.
	GenerateTextFunc func(ctx context.Context, systemMessage, prompt string) (string, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	// GenerateTextCalls counts invocations for verification.
	GenerateTextCalls int
}

// NewMockTextGenerator creates a new mock with sensible defaults.
func NewMockTextGenerator() *MockTextGenerator {
	return &MockTextGenerator{ModelName: "mock-model"}
}

// GenerateText implements TextGenerator.
func (m *MockTextGenerator) GenerateText(ctx context.Context, systemMessage, prompt string) (string, error) {
	m.GenerateTextCalls++
	if m.GenerateTextFunc != nil {
		return m.GenerateTextFunc(ctx, systemMessage, prompt)
	}
	return "", nil
}

// Model implements TextGenerator.
func (m *MockTextGenerator) Model() string {
	if m.ModelName == "" {
		return "mock-model"
	}
	return m.ModelName
}
