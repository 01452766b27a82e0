package extract

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedFormat is matched by every UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported file type")
	// ErrParse is matched by every ParseError.
	ErrParse = errors.New("failed to parse document")
)

// UnsupportedFormatError is returned when the file extension is neither .txt nor .pdf.
type UnsupportedFormatError struct {
	Filename string
	Ext      string
}

func (e *UnsupportedFormatError) Error() string {
	ext := e.Ext
	if ext == "" {
		ext = "(none)"
	}
	return fmt.Sprintf("Unsupported file type %q. Only .txt and .pdf files are supported.", ext)
}

func (e *UnsupportedFormatError) Is(target error) bool {
	return target == ErrUnsupportedFormat
}

// ParseError is returned when a recognized document cannot be converted to text.
type ParseError struct {
	Filename string
	Reason   string
	Err      error
}

func (e *ParseError) Error() string {
	name := e.Filename
	if name == "" {
		name = "document"
	}
	return fmt.Sprintf("Failed to read %s: %s", name, e.Reason)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}
