package summarizer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/hyperjump/minutes/internal/config"
	"google.golang.org/genai"
)

// mockProvider serves body with status for every request and counts requests.
func mockProvider(t *testing.T, status int, body string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

const openAIResponseBody = `{
	"id": "resp_1",
	"object": "response",
	"created_at": 1700000000,
	"status": "completed",
	"model": "gpt-5-mini",
	"output": [{
		"type": "message",
		"id": "msg_1",
		"role": "assistant",
		"status": "completed",
		"content": [{"type": "output_text", "text": "Roadmap agreed.", "annotations": []}]
	}]
}`

func TestOpenAIGenerator(t *testing.T) {
	srv, _ := mockProvider(t, http.StatusOK, openAIResponseBody)
	g := NewOpenAIGenerator("sk-test", "gpt-5-mini", srv.URL, 256)
	got, err := g.GenerateText(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if got != "Roadmap agreed." {
		t.Errorf("got %q", got)
	}
}

func TestOpenAIGenerator_errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"unauthorized", 401, `{"error":{"message":"Incorrect API key provided","type":"invalid_request_error","code":"invalid_api_key"}}`, ErrAuth},
		{"rate limited", 429, `{"error":{"message":"Rate limit reached","type":"rate_limit_error"}}`, ErrService},
		{"server error", 500, `{"error":{"message":"Internal server error","type":"server_error"}}`, ErrService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := mockProvider(t, tt.status, tt.body)
			g := NewOpenAIGenerator("sk-test", "gpt-5-mini", srv.URL, 0)
			_, err := g.GenerateText(context.Background(), "prompt")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if n := atomic.LoadInt32(hits); n != 1 {
				t.Errorf("provider hit %d times, want 1 (no retries)", n)
			}
		})
	}
}

func TestCompatibleGenerator(t *testing.T) {
	srv, _ := mockProvider(t, http.StatusOK, `{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "Local summary."}, "finish_reason": "stop"}]
	}`)
	g := NewCompatibleGenerator("", "llama3.1", srv.URL+"/v1", 0)
	got, err := g.GenerateText(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if got != "Local summary." {
		t.Errorf("got %q", got)
	}
}

func TestCompatibleGenerator_errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"unauthorized json", 401, `{"error":{"message":"bad key","type":"invalid_request_error"}}`, ErrAuth},
		{"forbidden text", 403, `forbidden`, ErrAuth},
		{"server error", 502, `{"error":{"message":"upstream","type":"server_error"}}`, ErrService},
		{"no choices", 200, `{"id":"x","choices":[]}`, ErrService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := mockProvider(t, tt.status, tt.body)
			g := NewCompatibleGenerator("key", "llama3.1", srv.URL+"/v1", 0)
			_, err := g.GenerateText(context.Background(), "prompt")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestAnthropicGenerator(t *testing.T) {
	srv, _ := mockProvider(t, http.StatusOK, `{
		"id": "msg_1",
		"type": "message",
		"role": "assistant",
		"model": "claude-sonnet-4-5",
		"content": [{"type": "text", "text": "Claude summary."}],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 10, "output_tokens": 3}
	}`)
	g := NewAnthropicGenerator("sk-ant", "claude-sonnet-4-5", srv.URL, 0)
	got, err := g.GenerateText(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if got != "Claude summary." {
		t.Errorf("got %q", got)
	}
}

func TestAnthropicGenerator_errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"unauthorized", 401, `{"type":"error","error":{"type":"authentication_error","message":"invalid x-api-key"}}`, ErrAuth},
		{"overloaded", 529, `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`, ErrService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, hits := mockProvider(t, tt.status, tt.body)
			g := NewAnthropicGenerator("sk-ant", "claude-sonnet-4-5", srv.URL, 128)
			_, err := g.GenerateText(context.Background(), "prompt")
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
			if n := atomic.LoadInt32(hits); n != 1 {
				t.Errorf("provider hit %d times, want 1 (no retries)", n)
			}
		})
	}
}

func TestClassifyGeminiError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{"invalid key", genai.APIError{Code: 400, Message: "API key not valid. Please pass a valid API key.", Status: "INVALID_ARGUMENT"}, ErrAuth},
		{"unauthenticated", genai.APIError{Code: 401, Message: "Request had invalid authentication credentials.", Status: "UNAUTHENTICATED"}, ErrAuth},
		{"permission denied", genai.APIError{Code: 403, Message: "Permission denied", Status: "PERMISSION_DENIED"}, ErrAuth},
		{"bad request", genai.APIError{Code: 400, Message: "Invalid JSON payload", Status: "INVALID_ARGUMENT"}, ErrService},
		{"quota", genai.APIError{Code: 429, Message: "Resource exhausted", Status: "RESOURCE_EXHAUSTED"}, ErrService},
		{"transport", errors.New("connection reset"), ErrService},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := classifyGeminiError(tt.err); !errors.Is(err, tt.wantErr) {
				t.Errorf("classifyGeminiError() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewFromConfig(t *testing.T) {
	ctx := context.Background()
	for _, provider := range []string{config.ProviderGemini, config.ProviderOpenAI, config.ProviderAnthropic} {
		t.Run(provider+" with key", func(t *testing.T) {
			c, err := NewFromConfig(ctx, config.SummarizerConfig{Provider: provider, APIKey: "k"}, nil)
			if err != nil {
				t.Fatalf("NewFromConfig: %v", err)
			}
			if c.Provider() != provider {
				t.Errorf("Provider() = %q", c.Provider())
			}
		})
		t.Run(provider+" without key", func(t *testing.T) {
			c, err := NewFromConfig(ctx, config.SummarizerConfig{Provider: provider}, nil)
			if err != nil {
				t.Fatalf("NewFromConfig: %v", err)
			}
			if _, err := c.Summarize(ctx, "p"); !errors.Is(err, ErrAuth) {
				t.Errorf("Summarize without key: %v, want ErrAuth", err)
			}
		})
	}

	if _, err := NewFromConfig(ctx, config.SummarizerConfig{Provider: config.ProviderOpenAICompatible, BaseURL: "http://localhost:11434/v1"}, nil); err != nil {
		t.Errorf("openai-compatible without key: %v", err)
	}
	if _, err := NewFromConfig(ctx, config.SummarizerConfig{Provider: "palm", APIKey: "k"}, nil); err == nil {
		t.Error("expected error for unknown provider")
	}
}
