package middleware_test

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront/internal/logging"
	"storefront/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type staticVerifier map[string]string

func (v staticVerifier) VerifyToken(token string) (string, error) {
	if id, ok := v[token]; ok {
		return id, nil
	}
	return "", errors.New("unknown token")
}

func TestAuthRequired(t *testing.T) {
	app := fiber.New()
	app.Get("/me", middleware.AuthRequired(staticVerifier{"good": "user-42"}), func(c *fiber.Ctx) error {
		id, ok := middleware.UserID(c)
		require.True(t, ok)
		return c.SendString(id)
	})

	cases := map[string]int{
		"":               fiber.StatusUnauthorized,
		"Bearer":         fiber.StatusUnauthorized,
		"Bearer bad":     fiber.StatusUnauthorized,
		"Token good":     fiber.StatusUnauthorized,
		"Bearer good":    fiber.StatusOK,
		"bearer good":    fiber.StatusOK,
		"Bearer   good ": fiber.StatusOK,
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, "header %q", header)
	}
}

func TestAdminRequired(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	app := fiber.New()
	app.Get("/closed", middleware.AdminRequired(string(hash), logging.Discard()), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })
	app.Get("/open", middleware.AdminRequired("", logging.Discard()), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	check := func(path, key string, want int) {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if key != "" {
			req.Header.Set(middleware.AdminKeyHeader, key)
		}
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, "%s key=%q", path, key)
	}
	check("/closed", "", fiber.StatusUnauthorized)
	check("/closed", "wrong", fiber.StatusUnauthorized)
	check("/closed", "s3cret", fiber.StatusNoContent)
	check("/open", "", fiber.StatusNoContent)
}

func TestHashAdminKey(t *testing.T) {
	hash, err := middleware.HashAdminKey("k")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("k")))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	app := fiber.New()
	app.Use(requestid.New())
	app.Use(middleware.RequestLogger(logging.NewWithWriter(&buf, "info", "production")))
	app.Get("/ping", func(c *fiber.Ctx) error {
		logging.FromContext(c.UserContext()).Info("inside handler")
		return c.SendString("pong")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	out := buf.String()
	assert.Contains(t, out, `"msg":"inside handler"`)
	assert.Contains(t, out, `"msg":"request completed"`)
	assert.Contains(t, out, `"request_id":`)
	assert.Contains(t, out, `"path":"/ping"`)
}
