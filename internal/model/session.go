package model

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies which side of the simulated dialogue produced a message.
type Role string

const (
	RoleQuestioner Role = "shareholder"
	RoleResponder  Role = "company"
)

// SpeakerLabel returns the Japanese label used in transcripts.
func (r Role) SpeakerLabel() string {
	switch r {
	case RoleQuestioner:
		return "株主"
	case RoleResponder:
		return "会社側"
	}
	return string(r)
}

// SessionStatus is the lifecycle state of a simulation session.
// Transitions only move forward: initialized → active → completed,
// with error reachable from any non-terminal state.
type SessionStatus string

const (
	StatusInitialized SessionStatus = "initialized"
	StatusActive      SessionStatus = "active"
	StatusCompleted   SessionStatus = "completed"
	StatusError       SessionStatus = "error"
)

// Terminal reports whether no further transition is allowed.
func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Message is a single utterance in a session. Append-only; insertion
// order is conversation order.
type Message struct {
	Id        uuid.UUID `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the queryable snapshot of one simulated Q&A dialogue.
type Session struct {
	Id                uuid.UUID     `json:"id"`
	Documents         []Document    `json:"-"`
	ExpectedQuestions []string      `json:"expected_questions"`
	Messages          []Message     `json:"messages"`
	Status            SessionStatus `json:"status"`
	CreatedAt         time.Time     `json:"created_at"`
	StartedAt         *time.Time    `json:"started_at,omitempty"`
	CompletedAt       *time.Time    `json:"completed_at,omitempty"`
	QuestionCursor    int           `json:"question_cursor"`
}

// SessionSummary is the listing shape, sorted newest first.
type SessionSummary struct {
	Id             uuid.UUID     `json:"id"`
	Status         SessionStatus `json:"status"`
	CreatedAt      time.Time     `json:"created_at"`
	StartedAt      *time.Time    `json:"started_at,omitempty"`
	CompletedAt    *time.Time    `json:"completed_at,omitempty"`
	MessageCount   int           `json:"message_count"`
	DocumentsCount int           `json:"documents_count"`
}
