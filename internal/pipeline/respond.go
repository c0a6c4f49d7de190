package pipeline

import (
	"github.com/gofiber/fiber/v2"
)

// Error renders a failed outcome with the standard error envelope.
func Error(c *fiber.Ctx, out *Outcome) error {
	status := out.Kind.Status()
	return c.Status(status).JSON(fiber.Map{
		"message": out.Message,
		"success": false,
		"status":  status,
	})
}

// Success renders a successful outcome. NoContent sends an empty body; every
// other kind sends body as JSON.
func Success(c *fiber.Ctx, kind Kind, body interface{}) error {
	if kind == NoContent {
		return c.SendStatus(kind.Status())
	}
	return c.Status(kind.Status()).JSON(body)
}
