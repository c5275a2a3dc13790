package mapper

import (
	"shareholder-qa-sim/internal/dto"
	"shareholder-qa-sim/internal/model"
)

func ToDocumentResponse(doc model.Document) dto.DocumentResponse {
	return dto.DocumentResponse{
		Id:           doc.Id,
		Filename:     doc.Filename,
		OriginalName: doc.OriginalName,
		MimeType:     doc.MimeType,
		Size:         doc.Size,
		PageCount:    doc.PageCount,
		Topics:       doc.Topics,
		UploadedAt:   doc.UploadedAt,
	}
}

func ToDocumentResponses(docs []model.Document) []dto.DocumentResponse {
	out := make([]dto.DocumentResponse, len(docs))
	for i, doc := range docs {
		out[i] = ToDocumentResponse(doc)
	}
	return out
}
