package controller

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"shareholder-qa-sim/internal/apperr"
	"shareholder-qa-sim/internal/dto"
	"shareholder-qa-sim/internal/pkg/serverutils"
	"shareholder-qa-sim/internal/service"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	GetAll(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	GenerateFAQ(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.IDocumentService
}

func NewDocumentController(service service.IDocumentService) IDocumentController {
	return &documentController{service: service}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/documents")
	h.Get("", c.GetAll)
	h.Post("/upload", c.Upload)
	h.Delete(":id", c.Delete)
	h.Post("/generate-faq", c.GenerateFAQ)
}

// Upload accepts one or more files under the multipart field "documents".
// Files the extractor rejects are skipped; the request fails only when
// nothing could be ingested.
func (c *documentController) Upload(ctx *fiber.Ctx) error {
	form, err := ctx.MultipartForm()
	if err != nil {
		return apperr.Validation("multipart form is required")
	}
	fileHeaders := form.File["documents"]
	if len(fileHeaders) == 0 {
		return apperr.Validation("multipart field 'documents' is required")
	}

	var uploaded []*dto.DocumentResponse
	var lastErr error
	for _, fileHeader := range fileHeaders {
		file, err := fileHeader.Open()
		if err != nil {
			return apperr.Internal("failed to open uploaded file", err)
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return apperr.Internal("failed to read uploaded file", err)
		}

		res, err := c.service.Upload(ctx.Context(), fileHeader.Filename, fileHeader.Header.Get("Content-Type"), content)
		if err != nil {
			lastErr = err
			continue
		}
		uploaded = append(uploaded, res)
	}

	if len(uploaded) == 0 {
		return lastErr
	}

	return ctx.JSON(serverutils.SuccessResponse("Success upload documents", uploaded))
}

func (c *documentController) GetAll(ctx *fiber.Ctx) error {
	res, err := c.service.GetAll(ctx.Context())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get all documents", res))
}

func (c *documentController) Delete(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperr.Validation("invalid document id")
	}

	if err := c.service.Delete(ctx.Context(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse[any]("Success delete document", nil))
}

func (c *documentController) GenerateFAQ(ctx *fiber.Ctx) error {
	var req dto.GenerateFAQRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.GenerateFAQ(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate FAQ candidates", res))
}
