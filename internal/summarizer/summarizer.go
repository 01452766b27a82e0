// Package summarizer sends composed prompts to a generative-text provider and
// returns plain-text output.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrAuth means the provider rejected the configured credential.
	ErrAuth = errors.New("summarization credential rejected")
	// ErrService covers every other provider failure (network, quota, malformed or empty response).
	ErrService = errors.New("summarization service failed")
)

// Generator is the capability a provider adapter offers: one prompt in, generated text out.
// Implementations wrap failures with ErrAuth or ErrService.
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, prompt string) (string, error)

// GenerateText calls f.
func (f GeneratorFunc) GenerateText(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Client calls a Generator once per request and enforces the plain-text contract on its output.
type Client struct {
	gen      Generator
	provider string
	logger   *zap.Logger
}

// NewClient wraps gen. provider is used for logs and metrics only. A nil logger disables logging.
func NewClient(gen Generator, provider string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{gen: gen, provider: provider, logger: logger}
}

// Provider returns the configured provider name.
func (c *Client) Provider() string {
	return c.provider
}

// Summarize sends prompt to the provider and returns the cleaned text.
// Errors match ErrAuth or ErrService; there is no retry.
func (c *Client) Summarize(ctx context.Context, prompt string) (string, error) {
	requestID := uuid.New().String()
	start := time.Now()
	c.logger.Debug("summarization started",
		zap.String("request_id", requestID),
		zap.String("provider", c.provider),
		zap.Int("prompt_length", len(prompt)),
	)

	out, err := c.gen.GenerateText(ctx, prompt)
	duration := time.Since(start)
	if err != nil {
		if !errors.Is(err, ErrAuth) && !errors.Is(err, ErrService) {
			err = fmt.Errorf("%w: %w", ErrService, err)
		}
		outcome := outcomeError
		if errors.Is(err, ErrAuth) {
			outcome = outcomeAuth
		}
		recordSummary(c.provider, outcome, duration)
		c.logger.Error("summarization failed",
			zap.String("request_id", requestID),
			zap.String("provider", c.provider),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return "", err
	}

	summary := Clean(out)
	if summary == "" {
		recordSummary(c.provider, outcomeError, duration)
		c.logger.Error("summarization returned no text",
			zap.String("request_id", requestID),
			zap.String("provider", c.provider),
			zap.Duration("duration", duration),
		)
		return "", fmt.Errorf("%w: empty output", ErrService)
	}
	recordSummary(c.provider, outcomeOK, duration)
	c.logger.Info("summarization completed",
		zap.String("request_id", requestID),
		zap.String("provider", c.provider),
		zap.Int("summary_length", len(summary)),
		zap.Duration("duration", duration),
	)
	return summary, nil
}

// Clean trims s and removes every "#", "_" and "**". Markers are removed in that order so a
// second pass never finds new "**" pairs, which makes Clean idempotent.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "#", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, "**", "")
	return strings.TrimSpace(s)
}

// classifyStatus wraps err with ErrAuth for 401/403 and ErrService otherwise.
func classifyStatus(provider string, status int, err error) error {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return fmt.Errorf("%s: %w: %w", provider, ErrAuth, err)
	}
	return fmt.Errorf("%s: %w: %w", provider, ErrService, err)
}
