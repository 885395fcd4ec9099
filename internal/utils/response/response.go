package response

import (
	domainerr "minipay/internal/errors"

	"github.com/gofiber/fiber/v2"
)

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

func Unauthorized(c *fiber.Ctx) error {
	return Error(c, fiber.StatusUnauthorized, "Unauthorized")
}

// DomainError maps a domain error code to an HTTP status. Transient storage
// conflicts come back 503 so clients know to retry with backoff.
func DomainError(c *fiber.Ctx, err error) error {
	if domainerr.IsTransient(err) {
		return Error(c, fiber.StatusServiceUnavailable, "temporary storage conflict, retry later")
	}

	switch domainerr.CodeOf(err) {
	case "INVALID_REQUEST", "INSUFFICIENT_FUNDS", "INVALID_CREDENTIALS":
		return BadRequest(c, err.Error())
	case "ACCOUNT_NOT_FOUND", "USER_NOT_FOUND":
		return Error(c, fiber.StatusNotFound, err.Error())
	case "CONFLICT":
		return Error(c, fiber.StatusConflict, err.Error())
	default:
		return ServerError(c, err.Error())
	}
}
