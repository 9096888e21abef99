package controller

import (
	"quizgen-be/internal/apperr"
	"quizgen-be/internal/dto"
	"quizgen-be/internal/pkg/serverutils"
	"quizgen-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Search(ctx *fiber.Ctx) error
}

type documentController struct {
	documentService service.IDocumentService
}

func NewDocumentController(documentService service.IDocumentService) IDocumentController {
	return &documentController{
		documentService: documentService,
	}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/documents")
	h.Get("search", c.Search)
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Put(":id", c.Update)
}

func (c *documentController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("malformed request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.documentService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create document", res))
}

func (c *documentController) Show(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return apperr.Validation("invalid document id")
	}

	res, err := c.documentService.Get(ctx.Context(), uint(id))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get document", res))
}

func (c *documentController) Search(ctx *fiber.Ctx) error {
	ownerId := ctx.QueryInt("owner_id")
	if ownerId <= 0 {
		return apperr.Validation("owner_id query parameter is required")
	}
	query := ctx.Query("q")
	if query == "" {
		return apperr.Validation("q query parameter is required")
	}
	limit := ctx.QueryInt("limit", 5)

	res, err := c.documentService.Search(ctx.Context(), uint(ownerId), query, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search documents", res))
}

func (c *documentController) Update(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return apperr.Validation("invalid document id")
	}

	var req dto.UpdateDocumentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("malformed request body")
	}

	res, err := c.documentService.Update(ctx.Context(), uint(id), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update document", res))
}
