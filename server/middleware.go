package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const claimsContextKey = "claims"

// Protected extracts and validates the bearer credential on every request.
// Missing, malformed, expired, or otherwise invalid tokens answer 401 with
// the error payload the client's gateway classifies as unauthorized.
func Protected(tokens TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := bearerToken(header)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing or malformed JWT",
			})
		}

		claims, err := tokens.Validate(token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired JWT",
			})
		}

		c.Locals(claimsContextKey, claims)
		return c.Next()
	}
}

// ClaimsFromContext returns the validated claims set by Protected.
func ClaimsFromContext(c *fiber.Ctx) (*TokenClaims, bool) {
	claims, ok := c.Locals(claimsContextKey).(*TokenClaims)
	return claims, ok
}

func bearerToken(header string) (string, bool) {
	const scheme = "Bearer "
	if len(header) <= len(scheme) || !strings.EqualFold(header[:len(scheme)], scheme) {
		return "", false
	}
	token := strings.TrimSpace(header[len(scheme):])
	return token, token != ""
}
