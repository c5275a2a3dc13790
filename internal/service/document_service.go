package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"shareholder-qa-sim/internal/apperr"
	"shareholder-qa-sim/internal/dto"
	"shareholder-qa-sim/internal/mapper"
	"shareholder-qa-sim/internal/model"
	"shareholder-qa-sim/internal/pkg/logger"
	"shareholder-qa-sim/internal/repository/memory"
	"shareholder-qa-sim/pkg/dialogue"
	"shareholder-qa-sim/pkg/extract"
	"shareholder-qa-sim/pkg/relevance"
	"shareholder-qa-sim/pkg/vocabulary"
)

const maxTopicsPerDocument = 5

type IDocumentService interface {
	Upload(ctx context.Context, originalName, mimeType string, content []byte) (*dto.DocumentResponse, error)
	GetAll(ctx context.Context) ([]dto.DocumentResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GenerateFAQ(ctx context.Context, req *dto.GenerateFAQRequest) (*dto.GenerateFAQResponse, error)
}

type documentService struct {
	repo   memory.IDocumentRepository
	scorer *relevance.Scorer
	vocab  *vocabulary.Vocabulary
	logger logger.ILogger
}

func NewDocumentService(repo memory.IDocumentRepository, scorer *relevance.Scorer, vocab *vocabulary.Vocabulary, logger logger.ILogger) IDocumentService {
	return &documentService{
		repo:   repo,
		scorer: scorer,
		vocab:  vocab,
		logger: logger,
	}
}

func (s *documentService) Upload(ctx context.Context, originalName, mimeType string, content []byte) (*dto.DocumentResponse, error) {
	if len(content) == 0 {
		return nil, apperr.Validation("uploaded file is empty")
	}
	if mimeType == "" {
		mimeType = extract.MimeFromFilename(originalName)
	}

	result, err := extract.FromBytes(content, mimeType)
	if err != nil {
		s.logger.Warn("DocumentService", "Text extraction rejected upload", map[string]interface{}{
			"original_name": originalName,
			"mime_type":     mimeType,
			"error":         err.Error(),
		})
		return nil, apperr.Validation("cannot extract text from %q: %v", originalName, err)
	}

	doc := model.Document{
		Id:           uuid.New(),
		OriginalName: originalName,
		MimeType:     mimeType,
		Size:         int64(len(content)),
		PageCount:    result.PageCount,
		TextContent:  result.Text,
		Topics:       s.scorer.ExtractTopics(result.Text, maxTopicsPerDocument),
		UploadedAt:   time.Now(),
	}
	doc.Filename = fmt.Sprintf("%s%s", doc.Id, filepath.Ext(originalName))

	s.repo.Save(doc)

	s.logger.Info("DocumentService", "Document ingested", map[string]interface{}{
		"document_id": doc.Id,
		"size":        doc.Size,
		"pages":       doc.PageCount,
		"topics":      len(doc.Topics),
	})

	res := mapper.ToDocumentResponse(doc)
	return &res, nil
}

func (s *documentService) GetAll(ctx context.Context) ([]dto.DocumentResponse, error) {
	return mapper.ToDocumentResponses(s.repo.FindAll()), nil
}

func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	if !s.repo.Delete(id) {
		return apperr.NotFound("document %s not found", id)
	}
	s.logger.Info("DocumentService", "Document deleted", map[string]interface{}{"document_id": id})
	return nil
}

func (s *documentService) GenerateFAQ(ctx context.Context, req *dto.GenerateFAQRequest) (*dto.GenerateFAQResponse, error) {
	documents := s.repo.FindByIds(req.DocumentIds)
	if len(documents) == 0 {
		return nil, apperr.Validation("none of the requested documents exist")
	}

	faqs := dialogue.GenerateFAQs(s.scorer, s.vocab, documents)

	items := make([]dto.FAQItemResponse, len(faqs))
	for i, faq := range faqs {
		items[i] = dto.FAQItemResponse{
			Id:       faq.Id,
			Question: faq.Question,
			Selected: faq.Selected,
		}
	}
	return &dto.GenerateFAQResponse{Questions: items}, nil
}
