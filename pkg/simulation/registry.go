package simulation

import (
	"log"
	"sort"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"shareholder-qa-sim/internal/model"
	"shareholder-qa-sim/pkg/dialogue"
	"shareholder-qa-sim/pkg/llm"
	"shareholder-qa-sim/pkg/relevance"
	"shareholder-qa-sim/pkg/vocabulary"
)

// Registry is the process-lifetime store of session engines. Sessions
// are never deleted; the coarse lock covers only insert and lookup, not
// turn generation.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Engine

	provider     llm.LLMProvider
	vocab        *vocabulary.Vocabulary
	scorer       *relevance.Scorer
	engineCfg    Config
	responderCfg dialogue.ResponderConfig
	publisher    message.Publisher
	logger       *log.Logger
}

func NewRegistry(provider llm.LLMProvider, vocab *vocabulary.Vocabulary, scorer *relevance.Scorer, engineCfg Config, responderCfg dialogue.ResponderConfig, publisher message.Publisher, logger *log.Logger) *Registry {
	return &Registry{
		sessions:     make(map[uuid.UUID]*Engine),
		provider:     provider,
		vocab:        vocab,
		scorer:       scorer,
		engineCfg:    engineCfg,
		responderCfg: responderCfg,
		publisher:    publisher,
		logger:       logger,
	}
}

// Create builds participants and an engine for the given material and
// registers it. The session is not started.
func (r *Registry) Create(documents []model.Document, expectedQuestions []string) *Engine {
	questioner := dialogue.NewQuestioner(documents, expectedQuestions, r.provider, r.vocab, r.logger)
	responder := dialogue.NewResponder(documents, r.provider, r.scorer, r.vocab, r.responderCfg, r.logger)
	engine := NewEngine(documents, expectedQuestions, questioner, responder, r.engineCfg, r.publisher, r.logger)

	r.mu.Lock()
	r.sessions[engine.Id()] = engine
	r.mu.Unlock()

	return engine
}

// Get looks up a session engine by id.
func (r *Registry) Get(id uuid.UUID) (*Engine, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	engine, ok := r.sessions[id]
	return engine, ok
}

// List returns session summaries sorted by creation time, newest first.
func (r *Registry) List() []model.SessionSummary {
	r.mu.RLock()
	engines := make([]*Engine, 0, len(r.sessions))
	for _, e := range r.sessions {
		engines = append(engines, e)
	}
	r.mu.RUnlock()

	summaries := make([]model.SessionSummary, len(engines))
	for i, e := range engines {
		summaries[i] = e.Summary()
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries
}
