package serverutils

import (
	"quizgen-be/internal/apperr"

	"github.com/gofiber/fiber/v2"
)

type APISuccess[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data,omitempty"`
}

type APIError struct {
	Success bool   `json:"success"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func SuccessResponse[T any](message string, data T) APISuccess[T] {
	return APISuccess[T]{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(code int, message string) APIError {
	return APIError{
		Success: false,
		Code:    code,
		Message: message,
	}
}

// RespondError translates a service error into a structured JSON response
// using the apperr taxonomy.
func RespondError(ctx *fiber.Ctx, err error) error {
	status := apperr.HTTPStatus(err)
	return ctx.Status(status).JSON(ErrorResponse(status, err.Error()))
}
