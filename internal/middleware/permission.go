package middleware

import (
	"opscrm/internal/features/permission"

	"github.com/gofiber/fiber/v2"
)

// RequirePermission gates a route on the authorization predicate. Callers
// pass ("admin", "<specific key>") to mean admin or that key. The response
// never reveals which permission was missing.
func RequirePermission(required ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := CurrentUser(c)
		if user == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Unauthorized",
			})
		}

		if !user.Active || !permission.HasPermission(user.Permissions, required) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "Forbidden",
			})
		}

		return c.Next()
	}
}
