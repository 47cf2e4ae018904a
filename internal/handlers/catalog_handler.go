package handlers

import (
	"errors"
	"strings"

	"sklep/internal/repositories"
	"sklep/internal/services"

	"github.com/gofiber/fiber/v2"
)

// CatalogHandler serves the public product, event and image APIs.
type CatalogHandler struct {
	service   *services.CatalogService
	publicURL string
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService, publicURL string) *CatalogHandler {
	return &CatalogHandler{service: service, publicURL: publicURL}
}

// RegisterRoutes sets up the catalog routes under the /api group.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/v1/products", h.ListProducts)
	router.Get("/v1/products/:slug", h.GetProduct)

	router.Get("/products", h.ListLegacyProducts)
	router.Get("/events", h.ListEvents)
	router.Get("/images", h.ListImages)
	router.Get("/product-filters", h.ProductFilters)
}

// ListProducts handles GET /api/v1/products/?status=active|sold|all.
func (h *CatalogHandler) ListProducts(c *fiber.Ctx) error {
	products, err := h.service.ListProducts(c.UserContext(), c.Query("status", services.StatusFilterActive))
	if err != nil {
		return err
	}
	views := make([]ProductView, 0, len(products))
	for i := range products {
		views = append(views, newProductView(&products[i], h.publicURL))
	}
	return c.JSON(views)
}

// GetProduct handles GET /api/v1/products/:slug/.
func (h *CatalogHandler) GetProduct(c *fiber.Ctx) error {
	product, err := h.service.GetProductBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return err
	}
	return c.JSON(newProductView(product, h.publicURL))
}

// ListLegacyProducts handles GET /api/products/.
func (h *CatalogHandler) ListLegacyProducts(c *fiber.Ctx) error {
	products, err := h.service.ListLegacyProducts(c.UserContext())
	if err != nil {
		return err
	}
	views := make([]LegacyProductView, 0, len(products))
	for i := range products {
		views = append(views, newLegacyProductView(&products[i], h.publicURL))
	}
	return c.JSON(fiber.Map{"count": len(views), "products": views})
}

// ListEvents handles GET /api/events/.
func (h *CatalogHandler) ListEvents(c *fiber.Ctx) error {
	events, err := h.service.ListEvents(c.UserContext())
	if err != nil {
		return err
	}
	views := make([]EventView, 0, len(events))
	for i := range events {
		views = append(views, newEventView(&events[i], h.publicURL))
	}
	return c.JSON(fiber.Map{"count": len(views), "events": views})
}

// ListImages handles GET /api/images/?tag=a,b. Every listed tag must match.
func (h *CatalogHandler) ListImages(c *fiber.Ctx) error {
	var tags []string
	if raw := c.Query("tag"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}
	images, err := h.service.ListImages(c.UserContext(), tags)
	if err != nil {
		return err
	}
	views := make([]ImageView, 0, len(images))
	for i := range images {
		views = append(views, newImageView(&images[i], h.publicURL))
	}
	return c.JSON(fiber.Map{"count": len(views), "images": views})
}

// ProductFilters handles GET /api/product-filters/.
func (h *CatalogHandler) ProductFilters(c *fiber.Ctx) error {
	filters, err := h.service.AggregateFilters(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(filters)
}
