// Package cli provides the HTTP client and output helpers behind the minutes subcommands.
package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/hyperjump/minutes/internal/models"
	"github.com/hyperjump/minutes/pkg/utils"
)

// APIError is a non-200 response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to a running minutes server.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the server at baseURL. A nil httpClient uses http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// Summarize posts req to /api/summarize, as multipart when a file is attached and as JSON otherwise.
func (c *Client) Summarize(ctx context.Context, req *models.SummarizeRequest) (*models.SummaryResult, error) {
	var (
		body        io.Reader
		contentType string
	)
	if req.HasFile() {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		if err := mw.WriteField("transcript", req.Transcript); err != nil {
			return nil, err
		}
		if err := mw.WriteField("prompt", req.Instruction); err != nil {
			return nil, err
		}
		fw, err := mw.CreateFormFile("file", req.File.Name)
		if err != nil {
			return nil, err
		}
		if _, err := fw.Write(req.File.Content); err != nil {
			return nil, err
		}
		if err := mw.Close(); err != nil {
			return nil, err
		}
		body, contentType = &buf, mw.FormDataContentType()
	} else {
		b, err := json.Marshal(req)
		if err != nil {
			return nil, err
		}
		body, contentType = bytes.NewReader(b), "application/json"
	}
	var result models.SummaryResult
	if err := c.post(ctx, "/api/summarize", contentType, body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SendEmail posts req to /api/send-email.
func (c *Client) SendEmail(ctx context.Context, req *models.EmailRequest) (*models.EmailResult, error) {
	b, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	var result models.EmailResult
	if err := c.post(ctx, "/api/send-email", "application/json", bytes.NewReader(b), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) post(ctx context.Context, path, contentType string, body io.Reader, out interface{}) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", contentType)
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		msg := utils.Truncate(strings.TrimSpace(string(data)), 200)
		if json.Unmarshal(data, &e) == nil && e.Error != "" {
			msg = e.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
