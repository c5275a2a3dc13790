package model

import (
	"time"

	"github.com/google/uuid"
)

// Document is an uploaded IR document after text extraction.
// Immutable once stored; sessions hold references, never copies.
type Document struct {
	Id           uuid.UUID `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	PageCount    int       `json:"page_count,omitempty"`
	TextContent  string    `json:"-"`
	Topics       []string  `json:"topics"`
	UploadedAt   time.Time `json:"uploaded_at"`
}
