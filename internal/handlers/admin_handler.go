package handlers

import (
	"storefront/internal/services"

	"github.com/gofiber/fiber/v2"
)

// AdminHandler serves store-wide statistics.
type AdminHandler struct {
	products *services.ProductService
	orders   *services.OrderService
}

func NewAdminHandler(products *services.ProductService, orders *services.OrderService) *AdminHandler {
	return &AdminHandler{products: products, orders: orders}
}

func (h *AdminHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/admin/stats", g.Admin, h.HandleGetStats)
}

// HandleGetStats returns the catalog size, the order count and the revenue
// summed over every order total.
func (h *AdminHandler) HandleGetStats(c *fiber.Ctx) error {
	ctx := c.UserContext()
	products, err := h.products.Count(ctx)
	if err != nil {
		return respondError(c, err, "retrieve stats")
	}
	stats, err := h.orders.GetStats(ctx)
	if err != nil {
		return respondError(c, err, "retrieve stats")
	}
	return c.JSON(fiber.Map{
		"totalProducts": products,
		"totalOrders":   stats.TotalOrders,
		"totalRevenue":  stats.TotalRevenue,
	})
}
