// Package app assembles the HTTP surface of the storefront.
package app

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"storefront/internal/handlers"
	"storefront/internal/metrics"
	"storefront/internal/middleware"
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Logger *slog.Logger
	DB     *gorm.DB

	Identity middleware.TokenVerifier
	Products *services.ProductService
	Cart     *services.CartService
	Orders   *services.OrderService
	Sections *services.SectionService
	Wishlist *services.WishlistService

	AdminKeyHash   string
	CORSOrigins    string
	MetricsEnabled bool
}

// New builds the fiber application with every route registered.
func New(d Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "storefront",
		DisableStartupMessage: true,
		ReadTimeout:           15 * time.Second,
		WriteTimeout:          15 * time.Second,
		ErrorHandler:          errorHandler(d.Logger),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	if d.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{
			AllowOrigins: d.CORSOrigins,
			AllowHeaders: "Origin, Content-Type, Accept, Authorization, " + middleware.AdminKeyHeader,
		}))
	}
	app.Use(middleware.RequestLogger(d.Logger))
	if d.MetricsEnabled {
		app.Use(metrics.Middleware())
		app.Get("/metrics", metrics.Handler())
	}

	app.Get("/health", healthHandler(d.DB))

	guards := handlers.Guards{
		User:  middleware.AuthRequired(d.Identity),
		Admin: middleware.AdminRequired(d.AdminKeyHash, d.Logger),
	}
	api := app.Group("/api")
	handlers.NewProductHandler(d.Products).RegisterRoutes(api, guards)
	handlers.NewCartHandler(d.Cart).RegisterRoutes(api, guards)
	handlers.NewOrderHandler(d.Orders).RegisterRoutes(api, guards)
	handlers.NewSectionHandler(d.Sections).RegisterRoutes(api, guards)
	handlers.NewWishlistHandler(d.Wishlist).RegisterRoutes(api, guards)
	handlers.NewAdminHandler(d.Products, d.Orders).RegisterRoutes(api, guards)

	return app
}

func healthHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status, code := "ok", fiber.StatusOK
		if db != nil {
			ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
			defer cancel()
			if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
				status, code = "degraded", fiber.StatusServiceUnavailable
			}
		}
		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// errorHandler keeps fiber's own errors (unknown route, bad method) in the
// same JSON shape as handler responses.
func errorHandler(log *slog.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		msg := "Internal server error"
		var fe *fiber.Error
		if errors.As(err, &fe) {
			code, msg = fe.Code, fe.Message
		} else {
			log.Error("unhandled error", "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(fiber.Map{"message": msg})
	}
}
