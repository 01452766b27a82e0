package summarizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperjump/minutes/internal/config"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/responses"
	"github.com/openai/openai-go/v3/shared"
)

// OpenAIGenerator calls OpenAI's Responses API.
type OpenAIGenerator struct {
	client          openai.Client
	model           string
	maxOutputTokens int64
}

// NewOpenAIGenerator builds a generator for model. baseURL may be empty.
func NewOpenAIGenerator(apiKey, model, baseURL string, maxOutputTokens int) *OpenAIGenerator {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIGenerator{
		client:          openai.NewClient(opts...),
		model:           model,
		maxOutputTokens: int64(maxOutputTokens),
	}
}

// GenerateText implements Generator.
func (g *OpenAIGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(g.model),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(prompt),
		},
	}
	if g.maxOutputTokens > 0 {
		params.MaxOutputTokens = openai.Int(g.maxOutputTokens)
	}
	resp, err := g.client.Responses.New(ctx, params)
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", classifyStatus(config.ProviderOpenAI, apiErr.StatusCode, err)
		}
		return "", fmt.Errorf("%s: %w: %w", config.ProviderOpenAI, ErrService, err)
	}
	if resp.Status == "incomplete" {
		return "", fmt.Errorf("%s: %w: response is incomplete (reason = %s)",
			config.ProviderOpenAI, ErrService, resp.IncompleteDetails.Reason)
	}
	return resp.OutputText(), nil
}
