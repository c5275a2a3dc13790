// Package extract pulls plain text out of uploaded IR documents.
// Extraction fidelity is best-effort: downstream scoring filters garbled
// passages, so a lossy PDF read is acceptable where a silent failure is
// not.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrUnsupportedType marks file types the pipeline cannot ingest.
var ErrUnsupportedType = errors.New("unsupported document type")

// Result is the extracted content of one document.
type Result struct {
	Text      string
	PageCount int
}

// FromBytes extracts text from raw file content based on its MIME type.
func FromBytes(content []byte, mimeType string) (Result, error) {
	switch normalizeMime(mimeType) {
	case "application/pdf":
		return fromPDF(content)
	case "text/plain", "text/markdown":
		return Result{Text: string(content)}, nil
	default:
		return Result{}, fmt.Errorf("%w: %s", ErrUnsupportedType, mimeType)
	}
}

// MimeFromFilename infers the MIME type from the file extension when the
// upload does not carry one.
func MimeFromFilename(name string) string {
	lower := strings.ToLower(name)
	switch {
	case strings.HasSuffix(lower, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(lower, ".txt"):
		return "text/plain"
	case strings.HasSuffix(lower, ".md"):
		return "text/markdown"
	}
	return ""
}

func fromPDF(content []byte) (Result, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return Result{}, fmt.Errorf("open pdf: %w", err)
	}

	textReader, err := reader.GetPlainText()
	if err != nil {
		return Result{}, fmt.Errorf("extract pdf text: %w", err)
	}
	text, err := io.ReadAll(textReader)
	if err != nil {
		return Result{}, fmt.Errorf("read pdf text: %w", err)
	}

	return Result{Text: string(text), PageCount: reader.NumPage()}, nil
}

func normalizeMime(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	return strings.TrimSpace(strings.ToLower(mimeType))
}
