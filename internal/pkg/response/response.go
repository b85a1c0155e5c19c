package response

import "github.com/gofiber/fiber/v2"

// Error codes returned alongside error messages
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeNotFound          = "LOAN_NOT_FOUND"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeForbidden         = "FORBIDDEN"
	CodeRateLimited       = "RATE_LIMITED"
	CodeInternal          = "INTERNAL_ERROR"
)

// ErrorBody represents a standard API error response
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// Success sends a 200 response with body as-is
func Success(c *fiber.Ctx, body interface{}) error {
	return c.JSON(body)
}

// Created sends a 201 created response
func Created(c *fiber.Ctx, body interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(body)
}

// Error sends an error response
func Error(c *fiber.Ctx, statusCode int, message, code string) error {
	return c.Status(statusCode).JSON(ErrorBody{
		Error: message,
		Code:  code,
	})
}

// BadRequest sends a 400 bad request response
func BadRequest(c *fiber.Ctx, message, code string) error {
	return Error(c, fiber.StatusBadRequest, message, code)
}

// Unauthorized sends a 401 unauthorized response
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message, CodeUnauthorized)
}

// Forbidden sends a 403 forbidden response
func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message, CodeForbidden)
}

// NotFound sends a 404 not found response
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message, CodeNotFound)
}

// InternalServerError sends a 500 internal server error response
func InternalServerError(c *fiber.Ctx) error {
	return Error(c, fiber.StatusInternalServerError, "Internal Server Error", CodeInternal)
}
