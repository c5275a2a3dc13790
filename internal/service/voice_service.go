package service

import (
	"context"

	"shareholder-qa-sim/internal/apperr"
	"shareholder-qa-sim/internal/dto"
	"shareholder-qa-sim/internal/model"
	"shareholder-qa-sim/internal/pkg/logger"
	"shareholder-qa-sim/pkg/voice"
)

type IVoiceService interface {
	Synthesize(ctx context.Context, req *dto.SynthesizeRequest) ([]byte, error)
}

type voiceService struct {
	synthesizer voice.Synthesizer
	logger      logger.ILogger
}

func NewVoiceService(synthesizer voice.Synthesizer, logger logger.ILogger) IVoiceService {
	return &voiceService{synthesizer: synthesizer, logger: logger}
}

func (s *voiceService) Synthesize(ctx context.Context, req *dto.SynthesizeRequest) ([]byte, error) {
	if !s.synthesizer.Available() {
		return nil, apperr.Unavailable("speech synthesis is not configured", voice.ErrNotConfigured)
	}

	audio, err := s.synthesizer.Synthesize(ctx, req.Text, model.Role(req.Role))
	if err != nil {
		s.logger.Error("VoiceService", "Speech synthesis failed", map[string]interface{}{
			"role":  req.Role,
			"error": err.Error(),
		})
		return nil, apperr.Internal("speech synthesis failed", err)
	}
	return audio, nil
}
