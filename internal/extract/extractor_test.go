package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hyperjump/minutes/internal/models"
)

// buildPDF writes a minimal single-font PDF with one page per entry in pages.
// An empty entry produces a page with an empty content stream.
func buildPDF(pages ...string) []byte {
	var objs []string
	n := len(pages)
	// 1: catalog, 2: pages, 3: font, then (page, content) pairs.
	kids := make([]string, n)
	for i := range pages {
		kids[i] = fmt.Sprintf("%d 0 R", 4+2*i)
	}
	objs = append(objs,
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), n),
		"<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding >>",
	)
	for i, text := range pages {
		stream := ""
		if text != "" {
			stream = fmt.Sprintf("BT /F1 12 Tf 72 712 Td (%s) Tj ET", text)
		}
		objs = append(objs,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs))
	for i, body := range objs {
		offsets[i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", len(objs)+1)
	b.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xref)
	return []byte(b.String())
}

func TestExtractBytes_plain(t *testing.T) {
	e := NewExtractor()
	content := []byte("Hello world\nLine 2\n")
	got, err := e.ExtractBytes(content, "notes.txt")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got.Text != "Hello world\nLine 2\n" {
		t.Errorf("got %q", got.Text)
	}
	if got.Format != models.FormatPlainText {
		t.Errorf("format = %s", got.Format)
	}
}

func TestExtractBytes_plainIsUnmodified(t *testing.T) {
	e := NewExtractor()
	inputs := []string{
		"",
		"  leading and trailing  ",
		"caf\xc3\xa9 **bold** # heading snake_case",
		"tabs\tand\r\nwindows newlines",
	}
	for _, in := range inputs {
		got, err := e.ExtractBytes([]byte(in), "a.txt")
		if err != nil {
			t.Fatalf("ExtractBytes(%q): %v", in, err)
		}
		if got.Text != in {
			t.Errorf("ExtractBytes(%q) = %q", in, got.Text)
		}
	}
}

func TestExtractBytes_plainInvalidUTF8(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("hello\x80world"), "a.txt")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got.Text != "hello\uFFFDworld" {
		t.Errorf("got %q", got.Text)
	}
}

func TestExtractBytes_extensionIsCaseInsensitive(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes([]byte("upper"), "NOTES.TXT")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if got.Text != "upper" {
		t.Errorf("got %q", got.Text)
	}
	if _, err := e.ExtractBytes(buildPDF("Upper PDF"), "Report.PDF"); err != nil {
		t.Errorf("ExtractBytes(.PDF): %v", err)
	}
}

func TestExtractBytes_unsupported(t *testing.T) {
	e := NewExtractor()
	for _, name := range []string{"notes.docx", "sheet.xlsx", "README", "archive.txt.zip"} {
		_, err := e.ExtractBytes([]byte("raw content"), name)
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%s: err = %v, want ErrUnsupportedFormat", name, err)
			continue
		}
		if !strings.HasPrefix(err.Error(), "Unsupported file type") {
			t.Errorf("%s: message = %q", name, err.Error())
		}
	}
}

func TestExtractBytes_pdf(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes(buildPDF("Team discussed roadmap"), "minutes.pdf")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	if !strings.Contains(got.Text, "Team discussed roadmap") {
		t.Errorf("got %q", got.Text)
	}
	if got.Format != models.FormatPDF || got.Pages != 1 {
		t.Errorf("format = %s pages = %d", got.Format, got.Pages)
	}
}

func TestExtractBytes_pdfPagesSeparatedByBlankLine(t *testing.T) {
	e := NewExtractor()
	got, err := e.ExtractBytes(buildPDF("First page", "", "Second page"), "minutes.pdf")
	if err != nil {
		t.Fatalf("ExtractBytes: %v", err)
	}
	first := strings.Index(got.Text, "First page")
	sep := strings.Index(got.Text, pageSeparator)
	second := strings.Index(got.Text, "Second page")
	if first < 0 || second < 0 || sep < first || sep > second {
		t.Errorf("unexpected layout %q", got.Text)
	}
	if got.Pages != 3 {
		t.Errorf("pages = %d, want 3", got.Pages)
	}
}

func TestExtractBytes_pdfWithoutText(t *testing.T) {
	e := NewExtractor()
	_, err := e.ExtractBytes(buildPDF(""), "scan.pdf")
	if !errors.Is(err, ErrParse) {
		t.Fatalf("err = %v, want ErrParse", err)
	}
	if !strings.Contains(err.Error(), "scan.pdf") {
		t.Errorf("message should name the file: %q", err.Error())
	}
}

func TestExtractBytes_pdfCorrupt(t *testing.T) {
	e := NewExtractor()
	inputs := [][]byte{
		[]byte("definitely not a pdf"),
		buildPDF("truncated")[:40],
		nil,
	}
	for i, in := range inputs {
		_, err := e.ExtractBytes(in, "broken.pdf")
		if !errors.Is(err, ErrParse) {
			t.Errorf("input %d: err = %v, want ErrParse", i, err)
		}
	}
}

func TestExtract_plainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.txt")
	if err := os.WriteFile(path, []byte("File content"), 0600); err != nil {
		t.Fatal(err)
	}

	e := NewExtractor()
	got, err := e.Extract(path)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.Text != "File content" {
		t.Errorf("got %q", got.Text)
	}
}

func TestExtract_nonexistent(t *testing.T) {
	e := NewExtractor()
	_, err := e.Extract("/nonexistent/path/file.txt")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestSupportedExtensions(t *testing.T) {
	got := SupportedExtensions()
	if len(got) != 2 || got[0] != ".txt" || got[1] != ".pdf" {
		t.Errorf("SupportedExtensions() = %v", got)
	}
}
