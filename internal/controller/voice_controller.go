package controller

import (
	"github.com/gofiber/fiber/v2"

	"shareholder-qa-sim/internal/apperr"
	"shareholder-qa-sim/internal/dto"
	"shareholder-qa-sim/internal/pkg/serverutils"
	"shareholder-qa-sim/internal/service"
)

type IVoiceController interface {
	RegisterRoutes(r fiber.Router)
	Synthesize(ctx *fiber.Ctx) error
}

type voiceController struct {
	service service.IVoiceService
}

func NewVoiceController(service service.IVoiceService) IVoiceController {
	return &voiceController{service: service}
}

func (c *voiceController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/voice")
	h.Post("/synthesize", c.Synthesize)
}

func (c *voiceController) Synthesize(ctx *fiber.Ctx) error {
	var req dto.SynthesizeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	audio, err := c.service.Synthesize(ctx.Context(), &req)
	if err != nil {
		return err
	}

	ctx.Set(fiber.HeaderContentType, "audio/mpeg")
	return ctx.Send(audio)
}
