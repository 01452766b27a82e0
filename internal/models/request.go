package models

import (
	"fmt"
	"strings"
)

// ValidationError reports a missing or empty required field. Message is safe to show to the caller.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SummarizeRequest is the input of POST /api/summarize.
type SummarizeRequest struct {
	Transcript  string  `json:"transcript,omitempty"`
	File        *Upload `json:"-"`
	Instruction string  `json:"prompt"`
}

// HasFile reports whether a named upload is attached.
func (r *SummarizeRequest) HasFile() bool {
	return r.File != nil && strings.TrimSpace(r.File.Name) != ""
}

// Validate checks that some input text (transcript or file) and an instruction are present.
func (r *SummarizeRequest) Validate() error {
	if !r.HasFile() && strings.TrimSpace(r.Transcript) == "" {
		return &ValidationError{Field: "transcript", Message: "Please provide a TXT or PDF file or transcript text."}
	}
	if strings.TrimSpace(r.Instruction) == "" {
		return &ValidationError{Field: "prompt", Message: "Prompt is required."}
	}
	return nil
}

// EmailRequest is the input of POST /api/send-email.
type EmailRequest struct {
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject,omitempty"`
	Message    string   `json:"message"`
}

// Normalize trims every recipient and drops the blank ones.
func (r *EmailRequest) Normalize() {
	out := r.Recipients[:0]
	for _, addr := range r.Recipients {
		if addr = strings.TrimSpace(addr); addr != "" {
			out = append(out, addr)
		}
	}
	r.Recipients = out
	r.Subject = strings.TrimSpace(r.Subject)
}

// Validate ensures there is at least one recipient and a non-empty message.
func (r *EmailRequest) Validate() error {
	if len(r.Recipients) == 0 || strings.TrimSpace(r.Message) == "" {
		return &ValidationError{Field: "recipients", Message: "Recipients and message are required"}
	}
	return nil
}

// ParseRecipients splits a comma separated address list as typed into the UI or CLI.
func ParseRecipients(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func (r EmailRequest) String() string {
	return fmt.Sprintf("EmailRequest{recipients=%d subject=%q message_len=%d}", len(r.Recipients), r.Subject, len(r.Message))
}
