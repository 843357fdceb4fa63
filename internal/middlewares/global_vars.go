package middlewares

import "github.com/gofiber/fiber/v2"

// InjectGlobalVars exposes site-wide values (site name, base URL) to
// every handler through request locals.
func InjectGlobalVars(vars fiber.Map) fiber.Handler {
	return func(c *fiber.Ctx) error {
		for key, val := range vars {
			c.Locals(key, val)
		}
		return c.Next()
	}
}
