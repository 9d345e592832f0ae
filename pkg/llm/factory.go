package llm

import (
	"fmt"

	"go.uber.org/zap"
)

// NewTextGenerator creates the client matching cfg.Provider.
func NewTextGenerator(cfg *Config, logger *zap.Logger) (TextGenerator, error) {
	switch cfg.Provider {
	case "openai", "":
		return NewClient(cfg, logger)
	case "anthropic":
		return NewAnthropicClient(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}
