package apperr

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Sentinel errors for the failure classes the pipeline and CRUD layers can
// surface. Wrap with the helpers below and test with errors.Is.
var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation failed")
	ErrUpstream    = errors.New("upstream failure")
	ErrPersistence = errors.New("persistence failure")
	ErrConflict    = errors.New("conflict")
)

func NotFound(format string, args ...interface{}) error {
	return wrap(ErrNotFound, format, args...)
}

func Validation(format string, args ...interface{}) error {
	return wrap(ErrValidation, format, args...)
}

func Upstream(format string, args ...interface{}) error {
	return wrap(ErrUpstream, format, args...)
}

func Persistence(format string, args ...interface{}) error {
	return wrap(ErrPersistence, format, args...)
}

func Conflict(format string, args ...interface{}) error {
	return wrap(ErrConflict, format, args...)
}

func wrap(sentinel error, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), sentinel)
}

// HTTPStatus maps an error to the response code the REST layer should emit.
// Unclassified errors fall through to 500.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, ErrValidation):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, ErrConflict):
		return fiber.StatusConflict
	case errors.Is(err, ErrUpstream):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
