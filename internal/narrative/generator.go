package narrative

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Tatch-AI/harper-memory-service/internal/enrich"
	"github.com/Tatch-AI/harper-memory-service/pkg/errors"
	"github.com/Tatch-AI/harper-memory-service/pkg/logger"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

const systemPrompt = `You are an insurance intake assistant. Given a structured ` +
	`business profile, write a single short paragraph summarizing the business ` +
	`for an underwriter. Mention only fields that are present; skip anything ` +
	`marked "Unknown". Do not invent details.`

// Generator writes a one-paragraph prose summary of an enriched profile
type Generator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// Option configures a Generator
type Option func(*openai.ClientConfig)

// WithBaseURL points the client at a non-default API endpoint (used in tests)
func WithBaseURL(baseURL string) Option {
	return func(cfg *openai.ClientConfig) {
		if baseURL != "" {
			cfg.BaseURL = baseURL
		}
	}
}

// NewGenerator creates a narrative generator
func NewGenerator(apiKey, model string, opts ...Option) *Generator {
	config := openai.DefaultConfig(apiKey)
	for _, opt := range opts {
		opt(&config)
	}

	return &Generator{
		client: openai.NewClientWithConfig(config),
		model:  model,
		logger: logger.Get(),
	}
}

// Generate produces the narrative for a business summary
func (g *Generator) Generate(ctx context.Context, summary *enrich.BusinessSummary) (string, error) {
	payload, err := json.Marshal(summary)
	if err != nil {
		return "", fmt.Errorf("failed to marshal summary: %w", err)
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: string(payload),
			},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", errors.NewNarrativeFailed(g.model, err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in completion response")
	}

	g.logger.Debug("Narrative generated",
		zap.String("model", g.model),
		zap.Int("length", len(resp.Choices[0].Message.Content)),
	)

	return resp.Choices[0].Message.Content, nil
}
