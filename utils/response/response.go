package response

import (
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/propelhq/propel-api/utils/validation"
)

// Every success payload is wrapped as {"<entity>": ...} so clients can
// destructure by name; failures are {"error": CODE, "message": text}
// with a non-2xx status.

// ErrorResponse is the error envelope.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// Entity returns a 200 response with data wrapped under name.
func Entity(c *fiber.Ctx, name string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{name: data})
}

// Created returns a 201 response with data wrapped under name.
func Created(c *fiber.Ctx, name string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{name: data})
}

// NoContent returns a 204 No Content response.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Error returns an error response.
func Error(c *fiber.Ctx, statusCode int, code string, message string) error {
	return c.Status(statusCode).JSON(ErrorResponse{
		Error:   code,
		Message: message,
	})
}

// BadRequest returns a 400 Bad Request response.
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, "BAD_REQUEST", message)
}

// Unauthorized returns a 401 Unauthorized response.
func Unauthorized(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Unauthorized access"
	}
	return Error(c, fiber.StatusUnauthorized, "UNAUTHORIZED", message)
}

// Forbidden returns a 403 Forbidden response.
func Forbidden(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Access forbidden"
	}
	return Error(c, fiber.StatusForbidden, "FORBIDDEN", message)
}

// NotFound returns a 404 Not Found response.
func NotFound(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return Error(c, fiber.StatusNotFound, "NOT_FOUND", message)
}

// Conflict returns a 409 Conflict response.
func Conflict(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusConflict, "CONFLICT", message)
}

// ValidationError returns a 422 Unprocessable Entity response with
// per-field messages.
func ValidationError(c *fiber.Ctx, err error) error {
	fields := validation.FormatValidationErrors(err)
	if len(fields) == 0 {
		return Error(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", err.Error())
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	messages := make([]string, 0, len(names))
	for _, name := range names {
		messages = append(messages, fields[name])
	}
	return Error(c, fiber.StatusUnprocessableEntity, "VALIDATION_ERROR", strings.Join(messages, "; "))
}

// InternalServerError returns a 500 Internal Server Error response.
func InternalServerError(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Internal server error"
	}
	return Error(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", message)
}

// BadGateway returns a 502 when the record store misbehaves.
func BadGateway(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Upstream store unavailable"
	}
	return Error(c, fiber.StatusBadGateway, "UPSTREAM_ERROR", message)
}
