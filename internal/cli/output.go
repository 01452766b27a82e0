package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/hyperjump/minutes/internal/models"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

// ParseOutputFormat accepts "text" or "json".
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case OutputText, OutputJSON:
		return OutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", s)
	}
}

// WriteSummary writes the summary to w. Text output is the summary alone so it can be piped
// straight into "minutes email --message-file -".
func WriteSummary(w io.Writer, result *models.SummaryResult, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, result)
	}
	_, err := fmt.Fprintln(w, result.Summary)
	return err
}

// WriteEmailResult writes the outcome of a send to w.
func WriteEmailResult(w io.Writer, result *models.EmailResult, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, result)
	}
	_, err := fmt.Fprintln(w, result.Message)
	return err
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
