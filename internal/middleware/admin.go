package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminRequired guards administrative routes with a shared key whose bcrypt
// hash is configured. With no hash configured the gate is open and access
// control is left to whatever sits in front of the service.
func AdminRequired(keyHash string, log *slog.Logger) fiber.Handler {
	if keyHash == "" {
		log.Warn("ADMIN_API_KEY_HASH is not set, admin routes are not protected")
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	hash := []byte(keyHash)
	return func(c *fiber.Ctx) error {
		key := c.Get(AdminKeyHeader)
		if key == "" || bcrypt.CompareHashAndPassword(hash, []byte(key)) != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message": "A valid admin key is required",
			})
		}
		return c.Next()
	}
}

// HashAdminKey returns the bcrypt hash to configure for key.
func HashAdminKey(key string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}
