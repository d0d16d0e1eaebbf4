package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// TokenValidator resolves a bearer token to the caller's id and display
// name. Satisfied by service.AuthService, which owns the signing secret.
type TokenValidator interface {
	ValidateToken(token string) (userID, username string, err error)
}

// Auth verifies the bearer token and stores the caller's id and display
// name in the request locals.
func Auth(tokens TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(401).JSON(fiber.Map{"error": "missing authorization header"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(401).JSON(fiber.Map{"error": "invalid authorization format"})
		}

		userID, username, err := tokens.ValidateToken(tokenString)
		if err != nil {
			return c.Status(401).JSON(fiber.Map{"error": "invalid or expired token"})
		}

		c.Locals("user_id", userID)
		c.Locals("username", username)
		return c.Next()
	}
}
