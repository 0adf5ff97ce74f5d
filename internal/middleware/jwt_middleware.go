package middleware

import (
	"strings"

	"storefront/internal/logging"

	"github.com/gofiber/fiber/v2"
)

const userIDKey = "user_id"

// TokenVerifier turns a bearer token into a user id.
type TokenVerifier interface {
	VerifyToken(token string) (string, error)
}

// AuthRequired is a Fiber middleware that only lets requests with a valid
// identity-provider token through and stores the user id in the context.
func AuthRequired(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header is required",
			})
		}

		scheme, token, ok := strings.Cut(authHeader, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Authorization header format must be 'Bearer <token>'",
			})
		}

		userID, err := verifier.VerifyToken(strings.TrimSpace(token))
		if err != nil {
			logging.FromContext(c.UserContext()).Info("token rejected", "error", err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "Invalid or expired token",
			})
		}

		c.Locals(userIDKey, userID)
		c.SetUserContext(logging.IntoContext(c.UserContext(), logging.FromContext(c.UserContext()).With("user_id", userID)))
		return c.Next()
	}
}

// UserID returns the authenticated user of the request.
func UserID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(userIDKey).(string)
	return id, ok && id != ""
}
