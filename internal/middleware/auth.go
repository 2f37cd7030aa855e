package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/Esayas077/Backend/internal/services"
)

// SessionClaims parses an Authorization bearer token into c.Locals("claims")
// when one is present and valid. It never rejects: no route in this API is
// gated by a token, and only the staff dashboard checks a role (against the
// database, not the token).
func SessionClaims(tokens *services.TokenService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if after, ok := strings.CutPrefix(header, "Bearer "); ok {
			if claims, err := tokens.Verify(after); err == nil {
				c.Locals("claims", claims)
			}
		}
		return c.Next()
	}
}
