package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/somema/somema-api/pkg/ratelimit"
)

// RateLimit throttles a route group by client IP. The counter lives in
// Redis so every instance enforces the same budget.
func RateLimit(limiter *ratelimit.Limiter, scope string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !limiter.Allow(c.Context(), scope, c.IP()) {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests",
			})
		}
		return c.Next()
	}
}
