// Package simulation owns the lifecycle of one simulated Q&A dialogue:
// state transitions, turn scheduling, termination policy and message
// ordering. Each session is driven by a chain of timer continuations;
// the per-session mutex plus a status guard before every append keep the
// alternating-role invariant even when End arrives mid-turn.
package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"shareholder-qa-sim/internal/model"
	"shareholder-qa-sim/pkg/dialogue"
	"shareholder-qa-sim/pkg/events"
)

// Config bounds the turn loop. MaxTurns is a product decision, not an
// engineering constraint; the default mirrors the tight demo limit.
type Config struct {
	MaxTurns      int
	AnswerDelay   time.Duration
	FollowUpDelay time.Duration
}

func (c Config) withDefaults() Config {
	if c.MaxTurns <= 0 {
		c.MaxTurns = 1
	}
	return c
}

// Engine is the state machine for one session.
type Engine struct {
	mu sync.Mutex

	id                uuid.UUID
	documents         []model.Document
	expectedQuestions []string
	messages          []model.Message
	status            model.SessionStatus
	createdAt         time.Time
	startedAt         *time.Time
	completedAt       *time.Time

	questioner *dialogue.Questioner
	responder  *dialogue.Responder
	cfg        Config
	publisher  message.Publisher
	logger     *log.Logger

	// timer is the pending continuation, if any. NextQuestion and End
	// stop it so a superseded step never fires late.
	timer *time.Timer
}

func NewEngine(documents []model.Document, expectedQuestions []string, questioner *dialogue.Questioner, responder *dialogue.Responder, cfg Config, publisher message.Publisher, logger *log.Logger) *Engine {
	return &Engine{
		id:                uuid.New(),
		documents:         documents,
		expectedQuestions: expectedQuestions,
		status:            model.StatusInitialized,
		createdAt:         time.Now(),
		questioner:        questioner,
		responder:         responder,
		cfg:               cfg.withDefaults(),
		publisher:         publisher,
		logger:            logger,
	}
}

// Id returns the session id.
func (e *Engine) Id() uuid.UUID {
	return e.id
}

// Start moves the session to active and generates the first question
// synchronously; the matching answer is scheduled on the answer delay.
func (e *Engine) Start() error {
	e.mu.Lock()
	if e.status != model.StatusInitialized {
		status := e.status
		e.mu.Unlock()
		return fmt.Errorf("session %s cannot start from status %s", e.id, status)
	}
	now := time.Now()
	e.status = model.StatusActive
	e.startedAt = &now
	e.mu.Unlock()

	e.publish(events.New(events.TypeSessionStarted, map[string]interface{}{
		"session_id": e.id.String(),
	}))

	e.questionStep()
	return nil
}

// End forces any non-terminal session to completed. Pending timer
// continuations become no-ops through the status guard.
func (e *Engine) End() {
	e.mu.Lock()
	if e.status.Terminal() {
		e.mu.Unlock()
		return
	}
	e.completeLocked()
	e.mu.Unlock()

	e.publish(events.New(events.TypeSessionCompleted, map[string]interface{}{
		"session_id": e.id.String(),
		"reason":     "ended by user",
	}))
}

// NextQuestion skips the current expected question and triggers a turn
// immediately, overriding the normal pacing. When a question is still
// waiting on its answer, that answer is produced first so the roles keep
// alternating; the advanced cursor takes effect on the following
// question step.
func (e *Engine) NextQuestion() error {
	e.mu.Lock()
	if e.status != model.StatusActive {
		status := e.status
		e.mu.Unlock()
		return fmt.Errorf("session %s is not active (status %s)", e.id, status)
	}
	e.questioner.AdvanceCursor()
	e.stopTimerLocked()
	answerPending := len(e.messages) > 0 && e.messages[len(e.messages)-1].Role == model.RoleQuestioner
	e.mu.Unlock()

	if answerPending {
		go e.answerStep()
	} else {
		go e.questionStep()
	}
	return nil
}

// ShouldContinue is a pure function of message count and the configured
// turn cap, deliberately decoupled from the expected-question count.
func (e *Engine) ShouldContinue() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shouldContinueLocked()
}

func (e *Engine) shouldContinueLocked() bool {
	return len(e.messages) < e.cfg.MaxTurns*2
}

// Snapshot returns a copy of the queryable session state.
func (e *Engine) Snapshot() model.Session {
	e.mu.Lock()
	defer e.mu.Unlock()

	messages := make([]model.Message, len(e.messages))
	copy(messages, e.messages)

	return model.Session{
		Id:                e.id,
		Documents:         e.documents,
		ExpectedQuestions: e.expectedQuestions,
		Messages:          messages,
		Status:            e.status,
		CreatedAt:         e.createdAt,
		StartedAt:         e.startedAt,
		CompletedAt:       e.completedAt,
		QuestionCursor:    e.questioner.Cursor(),
	}
}

// Summary returns the listing shape.
func (e *Engine) Summary() model.SessionSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	return model.SessionSummary{
		Id:             e.id,
		Status:         e.status,
		CreatedAt:      e.createdAt,
		StartedAt:      e.startedAt,
		CompletedAt:    e.completedAt,
		MessageCount:   len(e.messages),
		DocumentsCount: len(e.documents),
	}
}

// questionStep generates and appends the next shareholder question, then
// schedules the answer. Runs on the session's continuation chain.
func (e *Engine) questionStep() {
	defer e.recoverFatal("question step")

	e.mu.Lock()
	if e.status != model.StatusActive {
		e.mu.Unlock()
		return
	}
	if n := len(e.messages); n > 0 && e.messages[n-1].Role == model.RoleQuestioner {
		// Alternation invariant: never ask while a question is unanswered.
		e.mu.Unlock()
		return
	}
	history := make([]model.Message, len(e.messages))
	copy(history, e.messages)
	e.mu.Unlock()

	question, ok := e.questioner.GenerateQuestion(context.Background(), history)
	if !ok {
		e.mu.Lock()
		if e.status == model.StatusActive {
			e.completeLocked()
		}
		e.mu.Unlock()
		e.publish(events.New(events.TypeSessionCompleted, map[string]interface{}{
			"session_id": e.id.String(),
			"reason":     "no more questions",
		}))
		return
	}

	if !e.appendMessage(model.RoleQuestioner, question) {
		return
	}

	e.schedule(e.cfg.AnswerDelay, e.answerStep)
}

// answerStep answers the latest question, then either completes the
// session or schedules the next turn.
func (e *Engine) answerStep() {
	defer e.recoverFatal("answer step")

	e.mu.Lock()
	if e.status != model.StatusActive || len(e.messages) == 0 {
		e.mu.Unlock()
		return
	}
	last := e.messages[len(e.messages)-1]
	if last.Role != model.RoleQuestioner {
		// Alternation invariant: never answer an answer.
		e.mu.Unlock()
		return
	}
	history := make([]model.Message, len(e.messages))
	copy(history, e.messages)
	e.mu.Unlock()

	answer := e.responder.GenerateAnswer(context.Background(), last.Content, history)

	if !e.appendMessage(model.RoleResponder, answer) {
		return
	}

	e.mu.Lock()
	if e.shouldContinueLocked() {
		e.mu.Unlock()
		e.schedule(e.cfg.FollowUpDelay, e.questionStep)
		return
	}
	e.completeLocked()
	e.mu.Unlock()

	e.publish(events.New(events.TypeSessionCompleted, map[string]interface{}{
		"session_id": e.id.String(),
		"reason":     "turn limit reached",
	}))
}

// appendMessage commits a message under the stale-status guard. Returns
// false when the session left the active state while the step was
// generating, or when the commit would put the same role twice in a
// row; in either case nothing is mutated.
func (e *Engine) appendMessage(role model.Role, content string) bool {
	e.mu.Lock()
	if e.status != model.StatusActive {
		e.mu.Unlock()
		return false
	}
	if n := len(e.messages); n > 0 && e.messages[n-1].Role == role {
		e.mu.Unlock()
		return false
	}
	msg := model.Message{
		Id:        uuid.New(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
	e.messages = append(e.messages, msg)
	e.mu.Unlock()

	e.publish(events.New(events.TypeMessageAppended, map[string]interface{}{
		"session_id": e.id.String(),
		"message_id": msg.Id.String(),
		"role":       string(role),
		"content":    content,
	}))
	return true
}

func (e *Engine) completeLocked() {
	now := time.Now()
	e.status = model.StatusCompleted
	e.completedAt = &now
	e.stopTimerLocked()
}

// schedule arms the next continuation. Steps re-check status on entry,
// so arming after a concurrent End is harmless.
func (e *Engine) schedule(d time.Duration, step func()) {
	e.mu.Lock()
	e.timer = time.AfterFunc(d, step)
	e.mu.Unlock()
}

func (e *Engine) stopTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
}

// recoverFatal converts an unexpected panic during a turn into the error
// status. The session stays queryable with its committed messages; no
// retry is attempted.
func (e *Engine) recoverFatal(step string) {
	if r := recover(); r != nil {
		e.mu.Lock()
		if !e.status.Terminal() {
			e.status = model.StatusError
		}
		e.mu.Unlock()
		e.logger.Printf("ERROR session %s: %s failed: %v", e.id, step, r)
		e.publish(events.New(events.TypeSessionFailed, map[string]interface{}{
			"session_id": e.id.String(),
			"step":       step,
			"error":      fmt.Sprint(r),
		}))
	}
}

func (e *Engine) publish(evt events.Event) {
	if e.publisher == nil {
		return
	}
	payload := map[string]interface{}{
		"type":      evt.EventType(),
		"timestamp": evt.Timestamp(),
		"data":      evt.Payload(),
	}
	data, err := json.Marshal(payload)
	if err != nil {
		e.logger.Printf("WARN session %s: marshal event: %v", e.id, err)
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := e.publisher.Publish(events.Topic, msg); err != nil {
		e.logger.Printf("WARN session %s: publish event: %v", e.id, err)
	}
}
