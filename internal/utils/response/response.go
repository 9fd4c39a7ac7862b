package response

import (
	"github.com/gofiber/fiber/v2"
)

func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// Fail writes a coded error with optional per-field details.
func Fail(c *fiber.Ctx, status int, code, message string, fields map[string]string) error {
	body := fiber.Map{
		"error": message,
		"code":  code,
	}
	if len(fields) > 0 {
		body["fields"] = fields
	}
	return c.Status(status).JSON(body)
}

func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}
