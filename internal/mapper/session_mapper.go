package mapper

import (
	"shareholder-qa-sim/internal/dto"
	"shareholder-qa-sim/internal/model"
)

func ToSessionResponse(session model.Session) dto.SessionResponse {
	messages := make([]dto.MessageResponse, len(session.Messages))
	for i, msg := range session.Messages {
		messages[i] = dto.MessageResponse{
			Id:        msg.Id,
			Role:      string(msg.Role),
			Speaker:   msg.Role.SpeakerLabel(),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
	}

	return dto.SessionResponse{
		Id:                session.Id,
		Status:            string(session.Status),
		Documents:         ToDocumentResponses(session.Documents),
		ExpectedQuestions: session.ExpectedQuestions,
		QuestionCursor:    session.QuestionCursor,
		Messages:          messages,
		CreatedAt:         session.CreatedAt,
		StartedAt:         session.StartedAt,
		CompletedAt:       session.CompletedAt,
	}
}

func ToSessionSummaryResponse(summary model.SessionSummary) dto.SessionSummaryResponse {
	return dto.SessionSummaryResponse{
		Id:             summary.Id,
		Status:         string(summary.Status),
		MessageCount:   summary.MessageCount,
		DocumentsCount: summary.DocumentsCount,
		CreatedAt:      summary.CreatedAt,
		StartedAt:      summary.StartedAt,
		CompletedAt:    summary.CompletedAt,
	}
}
