package cli

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hyperjump/minutes/internal/models"
)

func TestClient_Summarize_JSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/summarize" {
			t.Errorf("path: got %s", r.URL.Path)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("content type: got %s", ct)
		}
		var got map[string]string
		_ = json.NewDecoder(r.Body).Decode(&got)
		if got["transcript"] != "notes" || got["prompt"] != "Summarize" {
			t.Errorf("request body: got %v", got)
		}
		_, _ = w.Write([]byte(`{"summary":"Done."}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", nil)
	res, err := c.Summarize(context.Background(), &models.SummarizeRequest{Transcript: "notes", Instruction: "Summarize"})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if res.Summary != "Done." {
		t.Errorf("summary: got %q", res.Summary)
	}
}

func TestClient_Summarize_file(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if r.FormValue("prompt") != "Summarize" {
			t.Errorf("prompt: got %q", r.FormValue("prompt"))
		}
		f, h, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			http.Error(w, "missing file", http.StatusBadRequest)
			return
		}
		defer f.Close()
		content, _ := io.ReadAll(f)
		if h.Filename != "notes.txt" || string(content) != "file body" {
			t.Errorf("file: got %s %q", h.Filename, content)
		}
		_, _ = w.Write([]byte(`{"summary":"From file."}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, nil)
	res, err := c.Summarize(context.Background(), &models.SummarizeRequest{
		File:        &models.Upload{Name: "notes.txt", Content: []byte("file body")},
		Instruction: "Summarize",
	})
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if res.Summary != "From file." {
		t.Errorf("summary: got %q", res.Summary)
	}
}

func TestClient_errors(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantStatus int
		wantMsg    string
	}{
		{"json error", http.StatusUnauthorized, `{"error":"Invalid summarization API key."}`, 401, "Invalid summarization API key."},
		{"plain error", http.StatusBadGateway, "bad gateway\n", 502, "bad gateway"},
		{"long body", http.StatusInternalServerError, strings.Repeat("x", 500), 500, strings.Repeat("x", 200) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, nil).SendEmail(context.Background(), &models.EmailRequest{Recipients: []string{"a@x.com"}, Message: "m"})
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *APIError", err)
			}
			if apiErr.StatusCode != tt.wantStatus || apiErr.Message != tt.wantMsg {
				t.Errorf("APIError = %d %q, want %d %q", apiErr.StatusCode, apiErr.Message, tt.wantStatus, tt.wantMsg)
			}
		})
	}
}

func TestClient_SendEmail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req models.EmailRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		if len(req.Recipients) != 2 || req.Subject != "Sync" {
			t.Errorf("request: got %+v", req)
		}
		_, _ = w.Write([]byte(`{"success":true,"message":"Email sent successfully"}`))
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, nil).SendEmail(context.Background(), &models.EmailRequest{
		Recipients: []string{"a@x.com", "b@y.com"},
		Subject:    "Sync",
		Message:    "body",
	})
	if err != nil {
		t.Fatalf("SendEmail: %v", err)
	}
	if !res.Success || res.Message != "Email sent successfully" {
		t.Errorf("result: got %+v", res)
	}
}

func TestClient_unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	if _, err := NewClient(url, nil).Summarize(context.Background(), &models.SummarizeRequest{Transcript: "t", Instruction: "p"}); err == nil {
		t.Error("expected error for closed server")
	}
}
