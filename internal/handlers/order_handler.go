package handlers

import (
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service  *services.OrderService
	validate *validator.Validate
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{
		service:  service,
		validate: newValidator(),
	}
}

// OrderItemRequest is one line of a checkout, as priced by the client.
type OrderItemRequest struct {
	Title    string           `json:"title" validate:"required"`
	Price    *decimal.Decimal `json:"price" validate:"required"`
	Quantity int              `json:"quantity" validate:"required,min=1"`
	Image    *string          `json:"image"`
}

// CreateOrderRequest is the body of POST /orders.
type CreateOrderRequest struct {
	Total  *decimal.Decimal   `json:"total" validate:"required"`
	Status string             `json:"status"`
	Items  []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateStatusRequest is the body of PATCH /orders/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// RegisterRoutes registers the order routes. Status changes are an
// administrative operation and are not scoped to the caller.
func (h *OrderHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Post("/orders", g.User, h.HandleCreateOrder)
	router.Get("/orders", g.User, h.HandleGetOrders)
	router.Get("/orders/:id", g.User, h.HandleGetOrderByID)
	router.Delete("/orders/:id", g.User, h.HandleDeleteOrder)
	router.Patch("/orders/:id/status", g.Admin, h.HandleUpdateOrderStatus)
}

// HandleCreateOrder places an order for the caller.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err, "create order")
	}
	var req CreateOrderRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err, "create order")
	}

	in := services.CreateOrderInput{
		Total:  *req.Total,
		Status: req.Status,
		Items:  make([]services.OrderItemInput, 0, len(req.Items)),
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, services.OrderItemInput{
			Title:    it.Title,
			Price:    *it.Price,
			Quantity: it.Quantity,
			Image:    it.Image,
		})
	}

	order, err := h.service.Create(c.UserContext(), userID, in)
	if err != nil {
		return respondError(c, err, "create order")
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

// HandleGetOrders lists the caller's orders, newest first.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err, "retrieve orders")
	}
	orders, err := h.service.FindByUser(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err, "retrieve orders")
	}
	return c.JSON(orders)
}

// HandleGetOrderByID returns one of the caller's orders. Orders of other
// users are reported as missing.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err, "retrieve order")
	}
	order, err := h.service.FindOne(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return respondError(c, err, "retrieve order")
	}
	return c.JSON(order)
}

// HandleDeleteOrder removes one of the caller's orders with its items.
func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err, "delete order")
	}
	orderID := c.Params("id")
	if err := h.service.Remove(c.UserContext(), orderID, userID); err != nil {
		return respondError(c, err, "delete order")
	}
	return c.JSON(fiber.Map{
		"message": "Order deleted",
		"id":      orderID,
	})
}

// HandleUpdateOrderStatus sets the status of any order.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err, "update order status")
	}
	order, err := h.service.UpdateStatus(c.UserContext(), c.Params("id"), req.Status)
	if err != nil {
		return respondError(c, err, "update order status")
	}
	return c.JSON(order)
}
