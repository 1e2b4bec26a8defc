package http

import (
	"github.com/gofiber/fiber/v2"
)

// CachingMiddleware sets Cache-Control on GET responses. Reports change
// while the page is open and the page itself is rewritten on every start,
// so nothing the bridge serves may be reused without revalidation.
func CachingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := c.Next()

		if c.Method() != fiber.MethodGet {
			return err
		}
		// Don't override if already set
		if c.GetRespHeader(fiber.HeaderCacheControl) != "" {
			return err
		}

		switch c.Path() {
		case "/reports.json", "/metrics":
			c.Set(fiber.HeaderCacheControl, "no-store")
		default:
			c.Set(fiber.HeaderCacheControl, "no-cache")
		}
		return err
	}
}
