package handlers

import (
	"errors"
	"strconv"

	"sklep/internal/models"
	"sklep/internal/repositories"
	"sklep/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ProductRequest is the admin payload for creating or updating a product.
// ImageIDs are in display order; the first one becomes the primary image.
type ProductRequest struct {
	models.Product
	ImageIDs []uint `json:"image_ids"`
}

// EventRequest is the admin payload for creating or updating an event.
type EventRequest struct {
	models.Event
	Active   *bool  `json:"active"`
	ImageIDs []uint `json:"image_ids"`
}

// ImageRequest registers an already uploaded image file.
type ImageRequest struct {
	Title  string   `json:"title"`
	File   string   `json:"file"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Tags   []string `json:"tags"`
}

// AdminHandler exposes the catalog write operations.
type AdminHandler struct {
	products  *services.ProductService
	events    *services.EventService
	images    *services.ImageService
	publicURL string
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(products *services.ProductService, events *services.EventService, images *services.ImageService, publicURL string) *AdminHandler {
	return &AdminHandler{
		products:  products,
		events:    events,
		images:    images,
		publicURL: publicURL,
	}
}

// RegisterRoutes mounts the admin routes on router. The caller guards the group.
func (h *AdminHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/products", h.CreateProduct)
	router.Put("/products/:id", h.UpdateProduct)
	router.Delete("/products/:id", h.DeleteProduct)

	router.Post("/events", h.CreateEvent)
	router.Put("/events/:id", h.UpdateEvent)
	router.Delete("/events/:id", h.DeleteEvent)

	router.Post("/images", h.CreateImage)
}

func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid ID format")
	}
	return uint(id), nil
}

// writeError maps service errors onto admin responses.
func writeError(c *fiber.Ctx, err error) error {
	var verrs models.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"details": verrs,
		})
	case errors.Is(err, services.ErrUnknownImage):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown image_ids"})
	case errors.Is(err, repositories.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Not found"})
	}
	return err
}

// CreateProduct handles POST /api/admin/products.
func (h *AdminHandler) CreateProduct(c *fiber.Ctx) error {
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	product := req.Product
	if err := h.products.CreateProduct(c.UserContext(), &product, req.ImageIDs); err != nil {
		return writeError(c, err)
	}
	zap.S().Infow("product created", "product_id", product.ID, "slug", product.Slug)
	return c.Status(fiber.StatusCreated).JSON(newProductView(&product, h.publicURL))
}

// UpdateProduct handles PUT /api/admin/products/:id.
func (h *AdminHandler) UpdateProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	product, err := h.products.UpdateProduct(c.UserContext(), id, &req.Product, req.ImageIDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(newProductView(product, h.publicURL))
}

// DeleteProduct handles DELETE /api/admin/products/:id.
func (h *AdminHandler) DeleteProduct(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.products.DeleteProduct(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (r *EventRequest) event() *models.Event {
	event := r.Event
	event.Active = r.Active == nil || *r.Active
	return &event
}

// CreateEvent handles POST /api/admin/events. Events are active unless stated otherwise.
func (h *AdminHandler) CreateEvent(c *fiber.Ctx) error {
	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	event := req.event()
	if err := h.events.CreateEvent(c.UserContext(), event, req.ImageIDs); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newEventView(event, h.publicURL))
}

// UpdateEvent handles PUT /api/admin/events/:id.
func (h *AdminHandler) UpdateEvent(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	event, err := h.events.UpdateEvent(c.UserContext(), id, req.event(), req.ImageIDs)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(newEventView(event, h.publicURL))
}

// DeleteEvent handles DELETE /api/admin/events/:id.
func (h *AdminHandler) DeleteEvent(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.events.DeleteEvent(c.UserContext(), id); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CreateImage handles POST /api/admin/images.
func (h *AdminHandler) CreateImage(c *fiber.Ctx) error {
	var req ImageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	image := models.ImageAsset{
		Title:  req.Title,
		File:   req.File,
		Width:  req.Width,
		Height: req.Height,
	}
	if err := h.images.CreateImage(c.UserContext(), &image, req.Tags); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newImageView(&image, h.publicURL))
}
