package dto

import (
	"time"

	"github.com/google/uuid"
)

type DocumentResponse struct {
	Id           uuid.UUID `json:"id"`
	Filename     string    `json:"filename"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	Size         int64     `json:"size"`
	PageCount    int       `json:"page_count,omitempty"`
	Topics       []string  `json:"topics,omitempty"`
	UploadedAt   time.Time `json:"uploaded_at"`
}

type GenerateFAQRequest struct {
	DocumentIds []uuid.UUID `json:"document_ids" validate:"required,min=1"`
}

type FAQItemResponse struct {
	Id       uuid.UUID `json:"id"`
	Question string    `json:"question"`
	Selected bool      `json:"selected"`
}

type GenerateFAQResponse struct {
	Questions []FAQItemResponse `json:"questions"`
}
