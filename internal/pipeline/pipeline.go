// Package pipeline runs the summarize and email requests end to end: validation, extraction,
// prompt composition and the calls to the summarization provider and mail relay.
package pipeline

import (
	"context"
	"strings"

	"github.com/hyperjump/minutes/internal/extract"
	"github.com/hyperjump/minutes/internal/mailer"
	"github.com/hyperjump/minutes/internal/models"
	"github.com/hyperjump/minutes/internal/prompt"
	"github.com/hyperjump/minutes/internal/summarizer"
	"go.uber.org/zap"
)

// EmailSentMessage is returned in EmailResult.Message on success.
const EmailSentMessage = "Email sent successfully"

// Pipeline holds the collaborators shared by every request. It has no mutable state.
type Pipeline struct {
	extractor  *extract.Extractor
	summarizer *summarizer.Client
	sender     mailer.Sender
	defaults   mailer.Defaults
	logger     *zap.Logger
}

// New creates a Pipeline.
func New(
	extractor *extract.Extractor,
	client *summarizer.Client,
	sender mailer.Sender,
	defaults mailer.Defaults,
	logger *zap.Logger,
) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		extractor:  extractor,
		summarizer: client,
		sender:     sender,
		defaults:   defaults,
		logger:     logger,
	}
}

// Summarize validates req, extracts the uploaded file if there is one, and asks the provider for
// a summary. Validation and extraction errors are returned before the provider is contacted.
func (p *Pipeline) Summarize(ctx context.Context, req *models.SummarizeRequest) (*models.SummaryResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var text string
	if req.HasFile() {
		doc, err := p.extractor.ExtractBytes(req.File.Content, req.File.Name)
		if err != nil {
			p.logger.Debug("extraction failed", zap.String("file", req.File.Name), zap.Error(err))
			return nil, err
		}
		p.logger.Debug("document extracted",
			zap.String("file", req.File.Name),
			zap.String("format", string(doc.Format)),
			zap.Int("pages", doc.Pages),
			zap.Int("text_length", len(doc.Text)),
		)
		text = doc.Text
	} else {
		text = strings.TrimSpace(req.Transcript)
	}
	if strings.TrimSpace(text) == "" {
		return nil, &models.ValidationError{Field: "transcript", Message: "The provided content is empty."}
	}

	summary, err := p.summarizer.Summarize(ctx, prompt.Compose(text, req.Instruction))
	if err != nil {
		return nil, err
	}
	return &models.SummaryResult{Summary: summary}, nil
}

// SendEmail validates req and makes one delivery attempt through the relay.
func (p *Pipeline) SendEmail(ctx context.Context, req *models.EmailRequest) (*models.EmailResult, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if err := p.sender.SendMail(ctx, mailer.BuildMessage(req, p.defaults)); err != nil {
		return nil, err
	}
	return &models.EmailResult{Success: true, Message: EmailSentMessage}, nil
}
