package controller

import (
	"quizgen-be/internal/apperr"
	"quizgen-be/internal/dto"
	"quizgen-be/internal/pkg/serverutils"
	"quizgen-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Memory(ctx *fiber.Ctx) error
}

type userController struct {
	userService service.IUserService
}

func NewUserController(userService service.IUserService) IUserController {
	return &userController{
		userService: userService,
	}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/users")
	h.Post("", c.Create)
	h.Get(":id", c.Show)
	h.Get(":id/memory", c.Memory)
}

func (c *userController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperr.Validation("malformed request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.userService.Create(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Success create user", res))
}

func (c *userController) Show(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return apperr.Validation("invalid user id")
	}

	res, err := c.userService.Get(ctx.Context(), uint(id))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get user", res))
}

func (c *userController) Memory(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil || id <= 0 {
		return apperr.Validation("invalid user id")
	}

	query := ctx.Query("q")
	limit := ctx.QueryInt("limit", 10)

	res, err := c.userService.GetMemory(ctx.Context(), uint(id), query, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get user memory", res))
}
