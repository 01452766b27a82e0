package summarizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/minutes/internal/config"
	goopenai "github.com/sashabaranov/go-openai"
)

// CompatibleGenerator calls a Chat Completions endpoint.
type CompatibleGenerator struct {
	client    *goopenai.Client
	model     string
	maxTokens int
}

// NewCompatibleGenerator builds a generator against baseURL (for example http://localhost:11434/v1).
func NewCompatibleGenerator(apiKey, model, baseURL string, maxTokens int) *CompatibleGenerator {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &CompatibleGenerator{
		client:    goopenai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: maxTokens,
	}
}

// GenerateText implements Generator.
func (g *CompatibleGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []goopenai.ChatCompletionMessage{{
			Role:    goopenai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})
	if err != nil {
		var apiErr *goopenai.APIError
		if errors.As(err, &apiErr) {
			return "", classifyStatus(config.ProviderOpenAICompatible, apiErr.HTTPStatusCode, err)
		}
		var reqErr *goopenai.RequestError
		if errors.As(err, &reqErr) {
			return "", classifyStatus(config.ProviderOpenAICompatible, reqErr.HTTPStatusCode, err)
		}
		return "", fmt.Errorf("%s: %w: %w", config.ProviderOpenAICompatible, ErrService, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%s: %w: no choices in response", config.ProviderOpenAICompatible, ErrService)
	}
	return resp.Choices[0].Message.Content, nil
}
