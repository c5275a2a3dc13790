package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareholder-qa-sim/internal/dto"
	"shareholder-qa-sim/internal/pkg/serverutils"
	"shareholder-qa-sim/internal/repository/memory"
	"shareholder-qa-sim/internal/service"
	"shareholder-qa-sim/pkg/dialogue"
	"shareholder-qa-sim/pkg/llm"
	"shareholder-qa-sim/pkg/relevance"
	"shareholder-qa-sim/pkg/simulation"
	"shareholder-qa-sim/pkg/vocabulary"
	"shareholder-qa-sim/pkg/voice"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

func newTestApp(t *testing.T) (*fiber.App, service.IDocumentService) {
	t.Helper()

	vocab := vocabulary.Default()
	scorer := relevance.NewScorer(vocab)
	repo := memory.NewDocumentRepository()

	docService := service.NewDocumentService(repo, scorer, vocab, nopLogger{})
	registry := simulation.NewRegistry(
		llm.Disabled(), vocab, scorer,
		simulation.Config{MaxTurns: 1},
		dialogue.ResponderConfig{},
		nil,
		log.New(io.Discard, "", 0),
	)
	simService := service.NewSimulationService(registry, repo, nopLogger{})
	voiceService := service.NewVoiceService(voice.NewAzureSynthesizer("", ""), nopLogger{})

	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())

	api := app.Group("/api")
	NewDocumentController(docService).RegisterRoutes(api)
	NewSessionController(simService).RegisterRoutes(api)
	NewVoiceController(voiceService).RegisterRoutes(api)

	return app, docService
}

func uploadRequest(t *testing.T, files map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for filename, content := range files {
		part, err := writer.CreateFormFile("documents", filename)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func decodeEnvelope(t *testing.T, resp *http.Response, data interface{}) {
	t.Helper()
	var envelope struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	require.True(t, envelope.Success, envelope.Message)
	if data != nil {
		require.NoError(t, json.Unmarshal(envelope.Data, data))
	}
}

func TestDocumentUploadEndpoint(t *testing.T) {
	app, _ := newTestApp(t)

	resp, err := app.Test(uploadRequest(t, map[string]string{
		"決算.txt": "当期の売上高は前年比10%増となりました。",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var docs []dto.DocumentResponse
	decodeEnvelope(t, resp, &docs)
	require.Len(t, docs, 1)
	assert.Equal(t, "決算.txt", docs[0].OriginalName)
	assert.NotEqual(t, uuid.Nil, docs[0].Id)
}

func TestDocumentUploadSkipsUnsupported(t *testing.T) {
	app, _ := newTestApp(t)

	// One good file, one the extractor rejects: the good one is kept.
	resp, err := app.Test(uploadRequest(t, map[string]string{
		"資料.txt":  "売上高の資料です。",
		"slide.pptx": "binary",
	}), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var docs []dto.DocumentResponse
	decodeEnvelope(t, resp, &docs)
	require.Len(t, docs, 1)
	assert.Equal(t, "資料.txt", docs[0].OriginalName)

	// Nothing processable at all fails the request.
	resp, err = app.Test(uploadRequest(t, map[string]string{"slide.pptx": "binary"}), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDocumentUploadMissingFile(t *testing.T) {
	app, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/documents/upload", nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDocumentListEndpoint(t *testing.T) {
	app, docService := newTestApp(t)

	_, err := docService.Upload(context.Background(), "a.txt", "text/plain", []byte("売上高の資料です。"))
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/documents", nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var docs []dto.DocumentResponse
	decodeEnvelope(t, resp, &docs)
	assert.Len(t, docs, 1)
}

func TestGenerateFAQUnknownDocuments(t *testing.T) {
	app, _ := newTestApp(t)

	payload, _ := json.Marshal(dto.GenerateFAQRequest{DocumentIds: []uuid.UUID{uuid.New()}})
	req := httptest.NewRequest(http.MethodPost, "/api/documents/generate-faq", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSessionLifecycleEndpoints(t *testing.T) {
	app, docService := newTestApp(t)

	doc, err := docService.Upload(context.Background(), "決算.txt", "text/plain",
		[]byte("当期の売上高は前年比10%増の500億円となりました。"))
	require.NoError(t, err)

	// Create
	payload, _ := json.Marshal(dto.CreateSessionRequest{
		DocumentIds:       []uuid.UUID{doc.Id},
		ExpectedQuestions: []string{"売上高について教えてください。"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created dto.SessionResponse
	decodeEnvelope(t, resp, &created)
	require.NotEmpty(t, created.Messages)

	// Show
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/sessions/"+created.Id.String(), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Action: end
	actionPayload, _ := json.Marshal(dto.SessionActionRequest{Action: "end"})
	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/sessions/%s/action", created.Id), bytes.NewReader(actionPayload))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var ended dto.SessionResponse
	decodeEnvelope(t, resp, &ended)
	assert.Equal(t, "completed", ended.Status)

	// Export
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/sessions/%s/export", created.Id), nil), -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get(fiber.HeaderContentDisposition), "attachment")

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "セッション ID"), "export body is the transcript")
}

func TestSessionEndpointErrors(t *testing.T) {
	app, _ := newTestApp(t)

	// Unknown session id maps to 404.
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/sessions/"+uuid.NewString(), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Malformed id maps to 400.
	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/sessions/not-a-uuid", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Missing document ids fail struct validation.
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unsupported action value fails the oneof rule.
	req = httptest.NewRequest(http.MethodPost, "/api/sessions/"+uuid.NewString()+"/action", strings.NewReader(`{"action":"pause"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestVoiceSynthesizeUnconfigured(t *testing.T) {
	app, _ := newTestApp(t)

	payload := `{"text":"ご質問ありがとうございます。","role":"company"}`
	req := httptest.NewRequest(http.MethodPost, "/api/voice/synthesize", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}
