package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	DocumentIds       []uuid.UUID `json:"document_ids" validate:"required,min=1"`
	ExpectedQuestions []string    `json:"expected_questions" validate:"omitempty,dive,min=1"`
}

type SessionActionRequest struct {
	Action string `json:"action" validate:"required,oneof=next_question end"`
}

type MessageResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Speaker   string    `json:"speaker"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type SessionResponse struct {
	Id                uuid.UUID          `json:"id"`
	Status            string             `json:"status"`
	Documents         []DocumentResponse `json:"documents"`
	ExpectedQuestions []string           `json:"expected_questions,omitempty"`
	QuestionCursor    int                `json:"question_cursor"`
	Messages          []MessageResponse  `json:"messages"`
	CreatedAt         time.Time          `json:"created_at"`
	StartedAt         *time.Time         `json:"started_at,omitempty"`
	CompletedAt       *time.Time         `json:"completed_at,omitempty"`
}

type SessionSummaryResponse struct {
	Id             uuid.UUID  `json:"id"`
	Status         string     `json:"status"`
	MessageCount   int        `json:"message_count"`
	DocumentsCount int        `json:"documents_count"`
	CreatedAt      time.Time  `json:"created_at"`
	StartedAt      *time.Time `json:"started_at,omitempty"`
	CompletedAt    *time.Time `json:"completed_at,omitempty"`
}
