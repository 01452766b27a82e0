package summarizer

import (
	"context"
	"fmt"

	"github.com/hyperjump/minutes/internal/config"
	"go.uber.org/zap"
)

// NewFromConfig builds the Client for the configured provider.
// A provider that needs a key but has none still yields a Client; every call then fails
// with ErrAuth so the deployment problem surfaces as a credential error.
func NewFromConfig(ctx context.Context, cfg config.SummarizerConfig, logger *zap.Logger) (*Client, error) {
	gen, err := newGenerator(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewClient(gen, cfg.Provider, logger), nil
}

func newGenerator(ctx context.Context, cfg config.SummarizerConfig) (Generator, error) {
	model := cfg.Model
	if model == "" {
		model = config.DefaultModel(cfg.Provider)
	}
	if cfg.APIKey == "" && cfg.Provider != config.ProviderOpenAICompatible {
		return missingKey(cfg.Provider), nil
	}
	switch cfg.Provider {
	case config.ProviderGemini:
		return NewGeminiGenerator(ctx, cfg.APIKey, model, cfg.BaseURL)
	case config.ProviderOpenAI:
		return NewOpenAIGenerator(cfg.APIKey, model, cfg.BaseURL, cfg.MaxOutputTokens), nil
	case config.ProviderAnthropic:
		return NewAnthropicGenerator(cfg.APIKey, model, cfg.BaseURL, cfg.MaxOutputTokens), nil
	case config.ProviderOpenAICompatible:
		return NewCompatibleGenerator(cfg.APIKey, model, cfg.BaseURL, cfg.MaxOutputTokens), nil
	default:
		return nil, fmt.Errorf("unknown summarizer provider %q", cfg.Provider)
	}
}

func missingKey(provider string) Generator {
	return GeneratorFunc(func(context.Context, string) (string, error) {
		return "", fmt.Errorf("%s: %w: no API key configured", provider, ErrAuth)
	})
}
