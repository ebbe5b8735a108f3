package middleware

import (
	"strings"

	"treva/internal/apperrors"
	"treva/internal/handlers"
	"treva/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired is the authorization gate applied to every user-scoped
// route. A missing header and an invalid token fail with distinct catalog
// entries; everything about WHY a token failed stays hidden.
func AuthRequired(authService *services.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return handlers.Fail(c, apperrors.ErrAuthHeaderMissing)
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return handlers.Fail(c, apperrors.ErrInvalidToken)
		}

		userID, err := authService.ValidateToken(parts[1])
		if err != nil {
			return handlers.Fail(c, err)
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}
