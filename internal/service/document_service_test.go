package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareholder-qa-sim/internal/apperr"
	"shareholder-qa-sim/internal/dto"
	"shareholder-qa-sim/internal/repository/memory"
	"shareholder-qa-sim/pkg/relevance"
	"shareholder-qa-sim/pkg/vocabulary"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func newDocumentFixture(t *testing.T) (IDocumentService, memory.IDocumentRepository) {
	t.Helper()
	vocab := vocabulary.Default()
	repo := memory.NewDocumentRepository()
	return NewDocumentService(repo, relevance.NewScorer(vocab), vocab, nopLogger{}), repo
}

func TestDocumentUpload(t *testing.T) {
	svc, repo := newDocumentFixture(t)

	content := []byte("当期の売上高は前年比15%増の500億円となりました。2026年には新規事業への投資を拡大します。")
	res, err := svc.Upload(context.Background(), "決算サマリー.txt", "text/plain", content)
	require.NoError(t, err)

	assert.Equal(t, "決算サマリー.txt", res.OriginalName)
	assert.Equal(t, int64(len(content)), res.Size)
	assert.NotEmpty(t, res.Topics, "topical material should yield topics")

	stored, ok := repo.FindById(res.Id)
	require.True(t, ok)
	assert.Equal(t, string(content), stored.TextContent)
}

func TestDocumentUploadInfersMimeFromName(t *testing.T) {
	svc, _ := newDocumentFixture(t)

	res, err := svc.Upload(context.Background(), "メモ.txt", "", []byte("資料の本文です。"))
	require.NoError(t, err)
	assert.Equal(t, "text/plain", res.MimeType)
}

func TestDocumentUploadRejectsUnsupported(t *testing.T) {
	svc, _ := newDocumentFixture(t)

	_, err := svc.Upload(context.Background(), "presentation.pptx", "", []byte("binary"))
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Upload(context.Background(), "empty.txt", "text/plain", nil)
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestDocumentDelete(t *testing.T) {
	svc, _ := newDocumentFixture(t)

	res, err := svc.Upload(context.Background(), "memo.txt", "text/plain", []byte("売上高の資料です。"))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), res.Id))

	err = svc.Delete(context.Background(), res.Id)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestGenerateFAQ(t *testing.T) {
	svc, _ := newDocumentFixture(t)

	res, err := svc.Upload(context.Background(), "決算.txt", "text/plain",
		[]byte("当期の売上高は前年比15%増の500億円となりました。株主還元として配当性向30%を目指します。"))
	require.NoError(t, err)

	faq, err := svc.GenerateFAQ(context.Background(), &dto.GenerateFAQRequest{DocumentIds: []uuid.UUID{res.Id}})
	require.NoError(t, err)
	assert.Len(t, faq.Questions, 5)

	_, err = svc.GenerateFAQ(context.Background(), &dto.GenerateFAQRequest{DocumentIds: []uuid.UUID{uuid.New()}})
	require.Error(t, err)
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}
