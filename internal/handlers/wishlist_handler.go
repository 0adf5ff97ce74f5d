package handlers

import (
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// WishlistHandler handles the caller's saved products.
type WishlistHandler struct {
	service  *services.WishlistService
	validate *validator.Validate
}

func NewWishlistHandler(service *services.WishlistService) *WishlistHandler {
	return &WishlistHandler{
		service:  service,
		validate: newValidator(),
	}
}

type AddToWishlistRequest struct {
	ProductID uint `json:"productId" validate:"required"`
}

func (h *WishlistHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/wishlist", g.User, h.HandleGetWishlist)
	router.Post("/wishlist", g.User, h.HandleAddToWishlist)
	router.Delete("/wishlist/:productId", g.User, h.HandleRemoveFromWishlist)
}

func (h *WishlistHandler) HandleGetWishlist(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err, "retrieve wishlist")
	}
	items, err := h.service.GetWishlist(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err, "retrieve wishlist")
	}
	return c.JSON(items)
}

// HandleAddToWishlist saves a product. Saving it twice is not an error.
func (h *WishlistHandler) HandleAddToWishlist(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err, "add to wishlist")
	}
	var req AddToWishlistRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err, "add to wishlist")
	}
	item, err := h.service.Add(c.UserContext(), userID, req.ProductID)
	if err != nil {
		return respondError(c, err, "add to wishlist")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *WishlistHandler) HandleRemoveFromWishlist(c *fiber.Ctx) error {
	userID, err := currentUser(c)
	if err != nil {
		return respondError(c, err, "remove from wishlist")
	}
	productID, err := idParam(c, "productId")
	if err != nil {
		return respondError(c, err, "remove from wishlist")
	}
	if err := h.service.Remove(c.UserContext(), userID, productID); err != nil {
		return respondError(c, err, "remove from wishlist")
	}
	return c.JSON(fiber.Map{
		"message":   "Item removed from wishlist",
		"productId": productID,
	})
}
