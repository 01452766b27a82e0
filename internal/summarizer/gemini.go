package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/hyperjump/minutes/internal/config"
	"google.golang.org/genai"
)

// GeminiGenerator calls the Gemini generateContent endpoint.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator builds a generator for model. baseURL may be empty.
func NewGeminiGenerator(ctx context.Context, apiKey, model, baseURL string) (*GeminiGenerator, error) {
	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// GenerateText implements Generator.
func (g *GeminiGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", classifyGeminiError(err)
	}
	return resp.Text(), nil
}

// classifyGeminiError maps Gemini API errors. An invalid key is reported as
// 400 INVALID_ARGUMENT with an "API key not valid" message, not as 401.
func classifyGeminiError(err error) error {
	code, msg, ok := geminiAPIError(err)
	if !ok {
		return fmt.Errorf("%s: %w: %w", config.ProviderGemini, ErrService, err)
	}
	if code == http.StatusBadRequest && strings.Contains(strings.ToLower(msg), "api key not valid") {
		code = http.StatusUnauthorized
	}
	return classifyStatus(config.ProviderGemini, code, err)
}

func geminiAPIError(err error) (code int, msg string, ok bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, apiErr.Message, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, apiErrPtr.Message, true
	}
	return 0, "", false
}
