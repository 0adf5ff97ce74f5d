package handlers

import (
	"encoding/json"

	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

const (
	defaultPage     = 1
	defaultPageSize = 10
)

// ProductHandler handles HTTP requests for the catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: newValidator(),
	}
}

// CreateProductRequest is the body of POST /products. Metadata must match
// the shape of the chosen category.
type CreateProductRequest struct {
	Title       string           `json:"title" validate:"required,max=255"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	Image       string           `json:"image"`
	Category    string           `json:"category" validate:"required"`
	Description string           `json:"description"`
	Metadata    json.RawMessage  `json:"metadata"`
}

// UpdateProductRequest is the body of PATCH /products/:id. Absent fields
// are left unchanged.
type UpdateProductRequest struct {
	Title       *string          `json:"title" validate:"omitempty,max=255"`
	Price       *decimal.Decimal `json:"price"`
	Image       *string          `json:"image"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	Metadata    json.RawMessage  `json:"metadata"`
}

// RegisterRoutes registers the catalog routes. Reads are public.
func (h *ProductHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/products", h.HandleGetProducts)
	router.Get("/products/search", h.HandleSearchProducts)
	router.Get("/products/:id", h.HandleGetProductByID)
	router.Post("/products", g.Admin, h.HandleCreateProduct)
	router.Patch("/products/:id", g.Admin, h.HandleUpdateProduct)
	router.Delete("/products/:id", g.Admin, h.HandleDeleteProduct)
}

// HandleGetProducts returns one page of the catalog, optionally filtered
// by category.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	page, err := intQuery(c, "page", defaultPage)
	if err != nil {
		return respondError(c, err, "retrieve products")
	}
	pageSize, err := intQuery(c, "pageSize", defaultPageSize)
	if err != nil {
		return respondError(c, err, "retrieve products")
	}
	products, err := h.service.FindAll(c.UserContext(), c.Query("category"), page, pageSize)
	if err != nil {
		return respondError(c, err, "retrieve products")
	}
	return c.JSON(products)
}

// HandleSearchProducts runs a case-insensitive substring search over titles
// and descriptions.
func (h *ProductHandler) HandleSearchProducts(c *fiber.Ctx) error {
	products, err := h.service.Search(c.UserContext(), c.Query("q"), c.Query("category"))
	if err != nil {
		return respondError(c, err, "search products")
	}
	return c.JSON(products)
}

// HandleGetProductByID returns a single product.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err, "retrieve product")
	}
	product, err := h.service.FindOne(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "retrieve product")
	}
	return c.JSON(product)
}

// HandleCreateProduct adds a product to the catalog.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var req CreateProductRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err, "create product")
	}
	product, err := h.service.Create(c.UserContext(), services.ProductInput{
		Title:       req.Title,
		Price:       *req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Description: req.Description,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return respondError(c, err, "create product")
	}
	return c.Status(fiber.StatusCreated).JSON(product)
}

// HandleUpdateProduct patches a product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err, "update product")
	}
	var req UpdateProductRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err, "update product")
	}
	product, err := h.service.Update(c.UserContext(), id, services.ProductPatch{
		Title:       req.Title,
		Price:       req.Price,
		Image:       req.Image,
		Category:    req.Category,
		Description: req.Description,
		Metadata:    req.Metadata,
	})
	if err != nil {
		return respondError(c, err, "update product")
	}
	return c.JSON(product)
}

// HandleDeleteProduct removes a product together with the cart and
// wishlist entries that reference it.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err, "delete product")
	}
	if err := h.service.Remove(c.UserContext(), id); err != nil {
		return respondError(c, err, "delete product")
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted",
		"id":      id,
	})
}
