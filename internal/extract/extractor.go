// Package extract provides text extraction from uploaded documents.
package extract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/minutes/internal/models"
)

// Extractor extracts plain text from uploaded document bytes.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// SupportedExtensions lists the extensions ExtractBytes accepts, with the leading dot.
func SupportedExtensions() []string {
	return []string{".txt", ".pdf"}
}

// Extract reads the file at path and returns its text content.
func (e *Extractor) Extract(path string) (*models.ExtractedDocument, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, filepath.Base(path))
}

// ExtractBytes extracts text from content based on the extension of filename (case-insensitive).
// For .txt the bytes are decoded as UTF-8 and returned as-is.
// For .pdf the text of every page is concatenated, pages separated by a blank line.
// Any other extension yields an *UnsupportedFormatError; a document that cannot be
// read or has no text yields a *ParseError.
func (e *Extractor) ExtractBytes(content []byte, filename string) (*models.ExtractedDocument, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".txt":
		return &models.ExtractedDocument{Text: extractPlain(content), Format: models.FormatPlainText}, nil
	case ".pdf":
		text, pages, err := extractPDF(content)
		if err != nil {
			return nil, &ParseError{Filename: filename, Reason: err.Error(), Err: err}
		}
		if strings.TrimSpace(text) == "" {
			return nil, &ParseError{Filename: filename, Reason: "the PDF has no extractable text"}
		}
		return &models.ExtractedDocument{Text: text, Format: models.FormatPDF, Pages: pages}, nil
	default:
		return nil, &UnsupportedFormatError{Filename: filename, Ext: ext}
	}
}
