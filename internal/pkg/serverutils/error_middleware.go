package serverutils

import (
	"github.com/gofiber/fiber/v2"

	"shareholder-qa-sim/internal/apperr"
)

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorHandlerMiddleware converts errors bubbled out of handlers into
// the envelope shape with a status derived from the error kind.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		err := ctx.Next()
		if err == nil {
			return nil
		}

		status := fiber.StatusInternalServerError
		switch apperr.KindOf(err) {
		case apperr.KindValidation:
			status = fiber.StatusBadRequest
		case apperr.KindNotFound:
			status = fiber.StatusNotFound
		case apperr.KindUnavailable:
			status = fiber.StatusServiceUnavailable
		}

		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		}

		return ctx.Status(status).JSON(errorBody{
			Success: false,
			Message: err.Error(),
		})
	}
}
