package health

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

var startedAt = time.Now()

// Healthcheck handles GET /api/healthcheck
func Healthcheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "ok",
		"uptime": time.Since(startedAt).String(),
	})
}
