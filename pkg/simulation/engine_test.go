package simulation

import (
	"io"
	"log"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareholder-qa-sim/internal/model"
	"shareholder-qa-sim/pkg/dialogue"
	"shareholder-qa-sim/pkg/llm"
	"shareholder-qa-sim/pkg/relevance"
	"shareholder-qa-sim/pkg/vocabulary"
)

func testRegistry(cfg Config) *Registry {
	vocab := vocabulary.Default()
	return NewRegistry(
		llm.Disabled(),
		vocab,
		relevance.NewScorer(vocab),
		cfg,
		dialogue.ResponderConfig{},
		nil, // no event bus needed for engine behavior
		log.New(io.Discard, "", 0),
	)
}

func testDocuments() []model.Document {
	return []model.Document{{
		Id:           uuid.New(),
		OriginalName: "決算説明資料.pdf",
		TextContent:  "当期の売上高は前年比10%増の500億円となりました。営業利益も過去最高を更新しています。",
		UploadedAt:   time.Now(),
	}}
}

func waitForStatus(t *testing.T, engine *Engine, want model.SessionStatus) model.Session {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if session := engine.Snapshot(); session.Status == want {
			return session
		}
		time.Sleep(5 * time.Millisecond)
	}
	session := engine.Snapshot()
	t.Fatalf("status = %s, want %s (messages: %d)", session.Status, want, len(session.Messages))
	return session
}

func TestEngineRunsOneTurn(t *testing.T) {
	registry := testRegistry(Config{MaxTurns: 1})
	engine := registry.Create(testDocuments(), []string{"売上高について教えてください。"})

	require.NoError(t, engine.Start())

	session := waitForStatus(t, engine, model.StatusCompleted)

	require.Len(t, session.Messages, 2, "one turn is exactly question plus answer")
	assert.Equal(t, model.RoleQuestioner, session.Messages[0].Role)
	assert.Equal(t, model.RoleResponder, session.Messages[1].Role)
	assert.Equal(t, "売上高について教えてください。", session.Messages[0].Content)
	assert.NotEmpty(t, session.Messages[1].Content)
	assert.False(t, engine.ShouldContinue())
	assert.NotNil(t, session.StartedAt)
	assert.NotNil(t, session.CompletedAt)
}

func TestEngineAlternatesRoles(t *testing.T) {
	registry := testRegistry(Config{MaxTurns: 3})
	engine := registry.Create(testDocuments(), nil)

	require.NoError(t, engine.Start())
	session := waitForStatus(t, engine, model.StatusCompleted)

	require.Len(t, session.Messages, 6)
	for i, msg := range session.Messages {
		want := model.RoleQuestioner
		if i%2 == 1 {
			want = model.RoleResponder
		}
		assert.Equalf(t, want, msg.Role, "message %d", i)
	}
}

func TestEngineStartOnlyFromInitialized(t *testing.T) {
	registry := testRegistry(Config{MaxTurns: 1})
	engine := registry.Create(testDocuments(), nil)

	require.NoError(t, engine.Start())
	assert.Error(t, engine.Start(), "second start must be rejected")

	waitForStatus(t, engine, model.StatusCompleted)
	assert.Error(t, engine.Start(), "start after completion must be rejected")
}

func TestEngineEndDiscardsInFlightTurn(t *testing.T) {
	// A long answer delay leaves the answer continuation pending.
	registry := testRegistry(Config{MaxTurns: 5, AnswerDelay: time.Hour})
	engine := registry.Create(testDocuments(), []string{"質問です。"})

	require.NoError(t, engine.Start())
	require.Len(t, engine.Snapshot().Messages, 1, "question is appended synchronously")

	engine.End()
	session := engine.Snapshot()
	assert.Equal(t, model.StatusCompleted, session.Status)

	// The pending answer step must not mutate the ended session.
	time.Sleep(50 * time.Millisecond)
	assert.Len(t, engine.Snapshot().Messages, 1)
	assert.Equal(t, model.StatusCompleted, engine.Snapshot().Status)
}

func TestEngineEndIsIdempotent(t *testing.T) {
	registry := testRegistry(Config{MaxTurns: 1})
	engine := registry.Create(testDocuments(), nil)

	require.NoError(t, engine.Start())
	waitForStatus(t, engine, model.StatusCompleted)

	completedAt := *engine.Snapshot().CompletedAt
	engine.End()
	assert.Equal(t, completedAt, *engine.Snapshot().CompletedAt, "End on a terminal session is a no-op")
}

func TestEngineNextQuestionRequiresActive(t *testing.T) {
	registry := testRegistry(Config{MaxTurns: 1})
	engine := registry.Create(testDocuments(), nil)

	assert.Error(t, engine.NextQuestion(), "not started yet")

	require.NoError(t, engine.Start())
	waitForStatus(t, engine, model.StatusCompleted)
	assert.Error(t, engine.NextQuestion(), "already completed")
}

func waitForMessages(t *testing.T, engine *Engine, want int) model.Session {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if session := engine.Snapshot(); len(session.Messages) >= want {
			return session
		}
		time.Sleep(5 * time.Millisecond)
	}
	session := engine.Snapshot()
	t.Fatalf("messages = %d, want at least %d", len(session.Messages), want)
	return session
}

func TestEngineNextQuestionSkipsExpected(t *testing.T) {
	registry := testRegistry(Config{MaxTurns: 3, AnswerDelay: time.Hour})
	engine := registry.Create(testDocuments(), []string{"一つ目の質問。", "二つ目の質問。", "三つ目の質問。"})

	require.NoError(t, engine.Start())
	require.NoError(t, engine.NextQuestion())

	session := waitForMessages(t, engine, 3)
	assert.Equal(t, "一つ目の質問。", session.Messages[0].Content)
	// The open question is answered before the skip takes effect.
	assert.Equal(t, model.RoleResponder, session.Messages[1].Role)
	// The second expected question is skipped entirely.
	assert.Equal(t, "三つ目の質問。", session.Messages[2].Content)
	assert.Equal(t, 3, session.QuestionCursor)
}

func TestEngineNextQuestionKeepsAlternation(t *testing.T) {
	// A long answer delay leaves the first question unanswered when the
	// skip command arrives; roles must still strictly alternate.
	registry := testRegistry(Config{MaxTurns: 3, AnswerDelay: time.Hour})
	engine := registry.Create(testDocuments(), []string{"一つ目の質問。", "二つ目の質問。"})

	require.NoError(t, engine.Start())
	require.NoError(t, engine.NextQuestion())

	session := waitForMessages(t, engine, 3)
	assert.Equal(t, model.RoleQuestioner, session.Messages[0].Role)
	for i := 1; i < len(session.Messages); i++ {
		assert.NotEqualf(t, session.Messages[i-1].Role, session.Messages[i].Role,
			"messages %d and %d share a role", i-1, i)
	}
}
