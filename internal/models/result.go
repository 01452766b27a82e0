package models

// SummaryResult is the response of a successful summarize request.
type SummaryResult struct {
	Summary string `json:"summary"`
}

// EmailResult is the response of a successful send.
type EmailResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
