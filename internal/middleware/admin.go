package middleware

import (
	"strings"

	"sklep/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminRequired rejects requests without a valid admin bearer token.
func AdminRequired(verifier *services.TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header is required",
			})
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header format must be 'Bearer <token>'",
			})
		}

		claims, err := verifier.ValidateToken(parts[1])
		if err != nil {
			zap.S().Warnw("admin token rejected", "path", c.Path(), "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("admin_subject", claims["sub"])
		return c.Next()
	}
}
