// Package models defines the request, document, and result values that flow through a single
// summarize or email request. None of them outlive the request that created them.
package models

// SourceFormat identifies how an uploaded document was decoded.
type SourceFormat string

const (
	// FormatPlainText is a UTF-8 text upload (.txt).
	FormatPlainText SourceFormat = "plain-text"
	// FormatPDF is a PDF upload converted to text page by page.
	FormatPDF SourceFormat = "pdf"
)

// Upload is a file received with a summarize request, held in memory only.
type Upload struct {
	Name    string `json:"name"`
	Content []byte `json:"-"`
}

// ExtractedDocument is the plain text recovered from an Upload.
type ExtractedDocument struct {
	Text   string       `json:"text"`
	Format SourceFormat `json:"format"`
	// Pages is the number of PDF pages read; 0 for plain text.
	Pages int `json:"pages,omitempty"`
}
