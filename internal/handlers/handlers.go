package handlers

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"storefront/internal/logging"
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Guards are the middlewares protecting user-scoped and administrative routes.
type Guards struct {
	User  fiber.Handler
	Admin fiber.Handler
}

var errUnauthenticated = errors.New("no authenticated user")

// requestError is a malformed request, reported as 400 with optional
// per-field messages.
type requestError struct {
	message string
	fields  map[string]string
}

func (e *requestError) Error() string { return e.message }

func badRequest(format string, args ...any) error {
	return &requestError{message: fmt.Sprintf(format, args...)}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// bind parses the JSON body into dst and runs its validate tags.
func bind(c *fiber.Ctx, v *validator.Validate, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		return badRequest("Invalid request body")
	}
	err := v.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make(map[string]string, len(verrs))
	for _, e := range verrs {
		name := e.Namespace()
		if _, rest, ok := strings.Cut(name, "."); ok {
			name = rest
		}
		fields[name] = fmt.Sprintf("Field '%s' failed on the '%s' tag", name, e.Tag())
	}
	return &requestError{message: "Validation failed", fields: fields}
}

// idParam reads a positive integer route parameter.
func idParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, badRequest("%s must be a positive integer", name)
	}
	return uint(id), nil
}

// intQuery reads an integer query parameter, falling back to def when absent.
func intQuery(c *fiber.Ctx, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("%s must be an integer", name)
	}
	return n, nil
}

func currentUser(c *fiber.Ctx) (string, error) {
	id, ok := middleware.UserID(c)
	if !ok {
		return "", errUnauthenticated
	}
	return id, nil
}

// respondError maps service errors onto status codes. Causes of 500s are
// logged and never sent to the client.
func respondError(c *fiber.Ctx, err error, action string) error {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		body := fiber.Map{"message": reqErr.message}
		if len(reqErr.fields) > 0 {
			body["errors"] = reqErr.fields
		}
		return c.Status(fiber.StatusBadRequest).JSON(body)
	case errors.Is(err, errUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Authentication required"})
	case errors.Is(err, services.ErrValidation):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Resource not found"})
	}
	logging.FromContext(c.UserContext()).Error("request failed", "action", action, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not " + action,
	})
}
