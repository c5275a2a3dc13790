package service

import (
	"context"

	"github.com/google/uuid"

	"shareholder-qa-sim/internal/apperr"
	"shareholder-qa-sim/internal/dto"
	"shareholder-qa-sim/internal/mapper"
	"shareholder-qa-sim/internal/pkg/logger"
	"shareholder-qa-sim/internal/repository/memory"
	"shareholder-qa-sim/pkg/simulation"
)

type ISimulationService interface {
	Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error)
	GetAll(ctx context.Context) ([]dto.SessionSummaryResponse, error)
	Action(ctx context.Context, id uuid.UUID, req *dto.SessionActionRequest) (*dto.SessionResponse, error)
	Export(ctx context.Context, id uuid.UUID) (string, error)
}

type simulationService struct {
	registry *simulation.Registry
	docRepo  memory.IDocumentRepository
	logger   logger.ILogger
}

func NewSimulationService(registry *simulation.Registry, docRepo memory.IDocumentRepository, logger logger.ILogger) ISimulationService {
	return &simulationService{
		registry: registry,
		docRepo:  docRepo,
		logger:   logger,
	}
}

// Create builds a session over the referenced documents and starts it
// immediately, so the response already carries the opening question.
func (s *simulationService) Create(ctx context.Context, req *dto.CreateSessionRequest) (*dto.SessionResponse, error) {
	documents := s.docRepo.FindByIds(req.DocumentIds)
	if len(documents) == 0 {
		return nil, apperr.Validation("session requires at least one existing document")
	}

	engine := s.registry.Create(documents, req.ExpectedQuestions)
	if err := engine.Start(); err != nil {
		return nil, apperr.Internal("failed to start session", err)
	}

	s.logger.Info("SimulationService", "Session started", map[string]interface{}{
		"session_id":         engine.Id(),
		"documents":          len(documents),
		"expected_questions": len(req.ExpectedQuestions),
	})

	res := mapper.ToSessionResponse(engine.Snapshot())
	return &res, nil
}

func (s *simulationService) Show(ctx context.Context, id uuid.UUID) (*dto.SessionResponse, error) {
	engine, ok := s.registry.Get(id)
	if !ok {
		return nil, apperr.NotFound("session %s not found", id)
	}
	res := mapper.ToSessionResponse(engine.Snapshot())
	return &res, nil
}

func (s *simulationService) GetAll(ctx context.Context) ([]dto.SessionSummaryResponse, error) {
	summaries := s.registry.List()
	out := make([]dto.SessionSummaryResponse, len(summaries))
	for i, summary := range summaries {
		out[i] = mapper.ToSessionSummaryResponse(summary)
	}
	return out, nil
}

func (s *simulationService) Action(ctx context.Context, id uuid.UUID, req *dto.SessionActionRequest) (*dto.SessionResponse, error) {
	engine, ok := s.registry.Get(id)
	if !ok {
		return nil, apperr.NotFound("session %s not found", id)
	}

	switch req.Action {
	case "next_question":
		if err := engine.NextQuestion(); err != nil {
			return nil, apperr.Validation("%v", err)
		}
	case "end":
		engine.End()
	default:
		return nil, apperr.Validation("unknown action %q", req.Action)
	}

	res := mapper.ToSessionResponse(engine.Snapshot())
	return &res, nil
}

func (s *simulationService) Export(ctx context.Context, id uuid.UUID) (string, error) {
	engine, ok := s.registry.Get(id)
	if !ok {
		return "", apperr.NotFound("session %s not found", id)
	}
	return simulation.ExportTranscript(engine.Snapshot()), nil
}
