package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"
)

// anthropicMaxTokens bounds completion size; generated SQL and KPI
// suggestion lists are short.
const anthropicMaxTokens = 2000

// AnthropicClient provides text generation via the Anthropic Messages
// API.
type AnthropicClient struct {
	client *anthropic.Client
	model  string
	logger *zap.Logger
}

// NewAnthropicClient creates an Anthropic-backed text generator.
func NewAnthropicClient(cfg *Config, logger *zap.Logger) (*AnthropicClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}

	return &AnthropicClient{
		client: anthropic.NewClient(cfg.APIKey),
		model:  cfg.Model,
		logger: logger.Named("llm"),
	}, nil
}

// GenerateText sends a messages request and returns the first text
// block of the response.
func (c *AnthropicClient) GenerateText(ctx context.Context, systemMessage, prompt string) (string, error) {
	start := time.Now()

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model:     anthropic.Model(c.model),
		System:    systemMessage,
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.Message{
			anthropic.NewUserTextMessage(prompt),
		},
	})
	if err != nil {
		c.logger.Warn("LLM request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", fmt.Errorf("create messages: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == anthropic.MessagesContentTypeText && block.Text != nil {
			c.logger.Info("LLM request completed",
				zap.Duration("elapsed", time.Since(start)))
			return *block.Text, nil
		}
	}

	return "", fmt.Errorf("no text content in response")
}

// Model returns the configured model name.
func (c *AnthropicClient) Model() string {
	return c.model
}
