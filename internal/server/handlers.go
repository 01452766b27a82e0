package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/minutes/internal/extract"
	"github.com/hyperjump/minutes/internal/mailer"
	"github.com/hyperjump/minutes/internal/models"
	"github.com/hyperjump/minutes/internal/summarizer"
	"go.uber.org/zap"
)

// User-facing messages for failures whose cause stays in the server log.
const (
	msgSummarizerAuth = "Invalid summarization API key."
	msgSummarizeFail  = "Failed to generate summary."
	msgMailAuth       = "Authentication failed. Check mail username and password (use an app password)."
	msgEmailFail      = "Failed to send email"
	msgInvalidBody    = "invalid request body"
)

// uploadFields are the multipart file fields accepted by /api/summarize, in priority order.
var uploadFields = []string{"file", "pdfFile"}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, "API is running...")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	req, err := s.decodeSummarizeRequest(r)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusBadRequest, "File too large.")
			return
		}
		s.logger.Debug("summarize request rejected", zap.Error(err))
		s.respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	s.logger.Debug("summarize request",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Bool("has_file", req.HasFile()),
		zap.Int("transcript_length", len(req.Transcript)),
	)
	result, err := s.pipeline.Summarize(r.Context(), req)
	if err != nil {
		s.respondFailure(w, r, err, msgSummarizeFail)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// decodeSummarizeRequest reads a multipart, urlencoded or JSON body.
func (s *Server) decodeSummarizeRequest(r *http.Request) (*models.SummarizeRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case strings.HasPrefix(mediaType, "multipart/"):
		if err := r.ParseMultipartForm(s.config.MaxUploadBytes); err != nil {
			return nil, err
		}
		req := &models.SummarizeRequest{
			Transcript:  r.FormValue("transcript"),
			Instruction: r.FormValue("prompt"),
		}
		for _, field := range uploadFields {
			file, header, err := r.FormFile(field)
			if errors.Is(err, http.ErrMissingFile) {
				continue
			}
			if err != nil {
				return nil, err
			}
			content, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				return nil, err
			}
			req.File = &models.Upload{Name: header.Filename, Content: content}
			break
		}
		return req, nil
	case mediaType == "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return nil, err
		}
		return &models.SummarizeRequest{
			Transcript:  r.PostFormValue("transcript"),
			Instruction: r.PostFormValue("prompt"),
		}, nil
	default:
		var req models.SummarizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}
}

func (s *Server) handleSendEmail(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)
	var req models.EmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}
	s.logger.Debug("send email request",
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.Stringer("request", req),
	)
	result, err := s.pipeline.SendEmail(r.Context(), &req)
	if err != nil {
		s.respondFailure(w, r, err, msgEmailFail)
		return
	}
	s.respondJSON(w, http.StatusOK, result)
}

// statusFor maps a pipeline error to its status and the message shown to the caller.
// fallback is used for failures whose detail must not leave the server.
func statusFor(err error, fallback string) (int, string) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, ve.Message
	case errors.Is(err, extract.ErrUnsupportedFormat), errors.Is(err, extract.ErrParse):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, summarizer.ErrAuth):
		return http.StatusUnauthorized, msgSummarizerAuth
	case errors.Is(err, mailer.ErrAuth):
		return http.StatusUnauthorized, msgMailAuth
	case errors.Is(err, summarizer.ErrService):
		return http.StatusInternalServerError, msgSummarizeFail
	case errors.Is(err, mailer.ErrDelivery):
		return http.StatusInternalServerError, msgEmailFail
	default:
		return http.StatusInternalServerError, fallback
	}
}

func (s *Server) respondFailure(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status, message := statusFor(err, fallback)
	if status >= http.StatusInternalServerError || status == http.StatusUnauthorized {
		s.logger.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Int("status", status),
			zap.Error(err),
		)
	}
	s.respondError(w, status, message)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
