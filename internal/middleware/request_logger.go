package middleware

import (
	"log/slog"
	"time"

	"storefront/internal/logging"

	"github.com/gofiber/fiber/v2"
)

// RequestLogger attaches a request-scoped logger to the user context and
// writes one line per finished request. It expects the requestid middleware
// to run first.
func RequestLogger(base *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		l := base.With(
			"method", c.Method(),
			"path", c.Path(),
			"remote_ip", c.IP(),
		)
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			l = l.With("request_id", rid)
		}
		c.SetUserContext(logging.IntoContext(c.UserContext(), l))

		start := time.Now()
		err := c.Next()
		dur := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		switch {
		case err != nil || status >= 500:
			l.Error("request completed", "status", status, "duration_ms", dur.Milliseconds(), "error", errString(err))
		case status >= 400:
			l.Warn("request completed", "status", status, "duration_ms", dur.Milliseconds())
		default:
			l.Info("request completed", "status", status, "duration_ms", dur.Milliseconds(), "bytes", len(c.Response().Body()))
		}
		return err
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
