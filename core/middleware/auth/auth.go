package auth

import "github.com/gofiber/fiber/v2"

// Config holds the API key the middleware checks against.
type Config struct {
	ApiKey string
}

// New returns a middleware that rejects requests without the configured
// API key in the X-Api-Key header. With an empty key it is a no-op.
func New(cfg Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if cfg.ApiKey == "" {
			return c.Next()
		}
		if c.Get("X-Api-Key") != cfg.ApiKey {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid api key",
			})
		}
		return c.Next()
	}
}
