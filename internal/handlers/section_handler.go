package handlers

import (
	"storefront/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// SectionHandler serves the storefront landing-page sections.
type SectionHandler struct {
	service  *services.SectionService
	validate *validator.Validate
}

func NewSectionHandler(service *services.SectionService) *SectionHandler {
	return &SectionHandler{
		service:  service,
		validate: newValidator(),
	}
}

type SectionRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=255"`
	Description *string `json:"description"`
	Image       *string `json:"image"`
	Link        *string `json:"link" validate:"omitempty,max=512"`
}

func (r SectionRequest) input() services.SectionInput {
	return services.SectionInput{
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
		Link:        r.Link,
	}
}

func (h *SectionHandler) RegisterRoutes(router fiber.Router, g Guards) {
	router.Get("/sections", h.HandleGetSections)
	router.Get("/sections/:id", h.HandleGetSection)
	router.Post("/sections", g.Admin, h.HandleCreateSection)
	router.Patch("/sections/:id", g.Admin, h.HandleUpdateSection)
	router.Delete("/sections/:id", g.Admin, h.HandleDeleteSection)
}

func (h *SectionHandler) HandleGetSections(c *fiber.Ctx) error {
	sections, err := h.service.FindAll(c.UserContext())
	if err != nil {
		return respondError(c, err, "retrieve sections")
	}
	return c.JSON(sections)
}

func (h *SectionHandler) HandleGetSection(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err, "retrieve section")
	}
	section, err := h.service.FindOne(c.UserContext(), id)
	if err != nil {
		return respondError(c, err, "retrieve section")
	}
	return c.JSON(section)
}

func (h *SectionHandler) HandleCreateSection(c *fiber.Ctx) error {
	var req SectionRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err, "create section")
	}
	section, err := h.service.Create(c.UserContext(), req.input())
	if err != nil {
		return respondError(c, err, "create section")
	}
	return c.Status(fiber.StatusCreated).JSON(section)
}

func (h *SectionHandler) HandleUpdateSection(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err, "update section")
	}
	var req SectionRequest
	if err := bind(c, h.validate, &req); err != nil {
		return respondError(c, err, "update section")
	}
	section, err := h.service.Update(c.UserContext(), id, req.input())
	if err != nil {
		return respondError(c, err, "update section")
	}
	return c.JSON(section)
}

func (h *SectionHandler) HandleDeleteSection(c *fiber.Ctx) error {
	id, err := idParam(c, "id")
	if err != nil {
		return respondError(c, err, "delete section")
	}
	if err := h.service.Remove(c.UserContext(), id); err != nil {
		return respondError(c, err, "delete section")
	}
	return c.JSON(fiber.Map{
		"message": "Section deleted",
		"id":      id,
	})
}
