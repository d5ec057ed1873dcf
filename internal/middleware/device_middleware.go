package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// DeviceContext records which scan surface issued the request. Surfaces send
// X-Device-Type (desktop or mobile); requests without it pass through so
// plain API clients keep working, but an unknown value is rejected early.
func DeviceContext() fiber.Handler {
	return func(c *fiber.Ctx) error {
		deviceType := c.Get("X-Device-Type")
		switch deviceType {
		case "", "desktop", "mobile":
			c.Locals("device_type", deviceType)
		default:
			return c.Status(400).JSON(fiber.Map{"detail": "unknown device type: " + deviceType})
		}
		return c.Next()
	}
}
