package api

import "github.com/gofiber/fiber/v2"

// The pre-organization auth endpoints are permanently gone. Old desktop
// clients still call them, so each answer points at the replacement.
func deprecatedEndpoint(replacement string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusGone).JSON(fiber.Map{
			"error":       "this endpoint has been removed",
			"replacement": replacement,
		})
	}
}
