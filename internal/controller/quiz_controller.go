package controller

import (
	"quizgen-be/internal/apperr"
	"quizgen-be/internal/dto"
	"quizgen-be/internal/pkg/serverutils"
	"quizgen-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IQuizController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	List(ctx *fiber.Ctx) error
	CreateQuestion(ctx *fiber.Ctx) error
	ShowQuestion(ctx *fiber.Ctx) error
	Generate(ctx *fiber.Ctx) error
	RunStatus(ctx *fiber.Ctx) error
}

type quizController struct {
	quizService service.IQuizService
}

func NewQuizController(quizService service.IQuizService) IQuizController {
	return &quizController{
		quizService: quizService,
	}
}

func (c *quizController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/quizzes")
	h.Post("generate", c.Generate)
	h.Get("runs/:session_id", c.RunStatus)
	h.Post("", c.Create)
	h.Get("", c.List)
	h.Get(":id", c.Show)
	h.Post(":id/questions", c.CreateQuestion)
	h.Get(":id/questions/:question_id", c.ShowQuestion)
}

func (c *quizController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateQuizRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("malformed request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.quizService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create quiz", res))
}

func (c *quizController) Show(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return apperr.Validation("invalid quiz id")
	}

	res, err := c.quizService.Get(ctx.Context(), uint(id))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get quiz", res))
}

func (c *quizController) List(ctx *fiber.Ctx) error {
	ownerId := ctx.QueryInt("owner_id")
	if ownerId <= 0 {
		return apperr.Validation("owner_id query parameter is required")
	}

	res, err := c.quizService.ListByOwner(ctx.Context(), uint(ownerId))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success list quizzes", res))
}

func (c *quizController) CreateQuestion(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return apperr.Validation("invalid quiz id")
	}

	var req dto.CreateQuestionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("malformed request body")
	}
	req.QuizId = uint(id)

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.quizService.CreateQuestion(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create question", res))
}

func (c *quizController) ShowQuestion(ctx *fiber.Ctx) error {
	quizId, err := ctx.ParamsInt("id")
	if err != nil || quizId <= 0 {
		return apperr.Validation("invalid quiz id")
	}
	questionId, err := ctx.ParamsInt("question_id")
	if err != nil || questionId <= 0 {
		return apperr.Validation("invalid question id")
	}

	res, err := c.quizService.GetQuestion(ctx.Context(), uint(quizId), uint(questionId))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get question", res))
}

func (c *quizController) Generate(ctx *fiber.Ctx) error {
	var req dto.GenerateQuizRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("malformed request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.quizService.Generate(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success generate quiz", res))
}

func (c *quizController) RunStatus(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("session_id")
	if _, err := uuid.Parse(sessionId); err != nil {
		return apperr.Validation("invalid session id")
	}

	res, err := c.quizService.GetRunStatus(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get run status", res))
}
