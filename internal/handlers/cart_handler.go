package handlers

import (
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// CartHandler handles HTTP requests for the authenticated user's cart.
type CartHandler struct {
	service  *services.CartService
	validate *validator.Validate
}

// NewCartHandler creates a new CartHandler.
func NewCartHandler(service *services.CartService) *CartHandler {
	return &CartHandler{
		service:  service,
		validate: newValidator(),
	}
}

// AddToCartRequest is the body of POST /cart. Quantity defaults to 1.
type AddToCartRequest struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  *int `json:"quantity"`
}

// UpdateCartItemRequest is the body of PATCH /cart/:productId.
type UpdateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

// RegisterRoutes registers the cart routes.
func (h *CartHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/cart", g.User, h.HandleGetCart)
	router.Post("/cart", g.User, h.HandleAddToCart)
	router.Delete("/cart", g.User, h.HandleClearCart)
	router.Patch("/cart/:productId", g.User, h.HandleUpdateQuantity)
	router.Delete("/cart/:productId", g.User, h.HandleRemoveItem)
}

// HandleGetCart returns every line of the caller's cart with its product.
func (h *CartHandler) HandleGetCart(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err, "retrieve cart")
	}
	lines, err := h.service.GetCart(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err, "retrieve cart")
	}
	return c.JSON(lines)
}

// HandleAddToCart adds a product, merging with an existing line.
func (h *CartHandler) HandleAddToCart(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err, "add to cart")
	}
	var req AddToCartRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err, "add to cart")
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	line, err := h.service.AddToCart(c.UserContext(), userID, req.ProductID, quantity)
	if err != nil {
		return respondError(c, err, "add to cart")
	}
	return c.Status(fiber.StatusCreated).JSON(line)
}

// HandleUpdateQuantity overwrites the quantity of one line.
func (h *CartHandler) HandleUpdateQuantity(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err, "update cart item")
	}
	productID, err := idParam(c, "productId")
	if err != nil {
		return respondError(c, err, "update cart item")
	}
	var req UpdateCartItemRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err, "update cart item")
	}

	line, err := h.service.UpdateItemQuantity(c.UserContext(), userID, productID, *req.Quantity)
	if err != nil {
		return respondError(c, err, "update cart item")
	}
	return c.JSON(line)
}

// HandleRemoveItem deletes one line from the cart.
func (h *CartHandler) HandleRemoveItem(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err, "remove cart item")
	}
	productID, err := idParam(c, "productId")
	if err != nil {
		return respondError(c, err, "remove cart item")
	}
	if err := h.service.RemoveFromCart(c.UserContext(), userID, productID); err != nil {
		return respondError(c, err, "remove cart item")
	}
	return c.JSON(fiber.Map{
		"message":   "Item removed from cart",
		"productId": productID,
	})
}

// HandleClearCart empties the cart. Clearing an empty cart succeeds.
func (h *CartHandler) HandleClearCart(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err, "clear cart")
	}
	n, err := h.service.ClearCart(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err, "clear cart")
	}
	return c.JSON(fiber.Map{
		"message": "Cart cleared",
		"count":   n,
	})
}
