package handlers

import (
	"errors"

	"sklep/internal/models"
	"sklep/internal/repositories"
	"sklep/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CheckoutRequest is the body of POST /api/v1/checkout/.
type CheckoutRequest struct {
	ProductID     uint   `json:"product_id" validate:"required"`
	SuccessURL    string `json:"success_url" validate:"required,url"`
	CancelURL     string `json:"cancel_url" validate:"required,url"`
	CustomerEmail string `json:"customer_email" validate:"omitempty,email"`
}

// CheckoutHandler creates payment sessions.
type CheckoutHandler struct {
	products *services.ProductService
	checkout *services.CheckoutService
	validate *validator.Validate
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(products *services.ProductService, checkout *services.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{
		products: products,
		checkout: checkout,
		validate: models.NewValidator(),
	}
}

// RegisterRoutes sets up the checkout route under the /api group.
func (h *CheckoutHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/v1/checkout", h.CreateCheckout)
}

// CreateCheckout handles POST /api/v1/checkout/.
func (h *CheckoutHandler) CreateCheckout(c *fiber.Ctx) error {
	var req CheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request",
			"details": err.Error(),
		})
	}
	if err := models.ValidateStruct(h.validate, &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Invalid request",
			"details": err,
		})
	}

	product, err := h.products.GetProductByID(c.UserContext(), req.ProductID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}
		return err
	}
	if !product.IsBuyable() {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product is not available for purchase"})
	}

	result := h.checkout.CreateSession(c.UserContext(), product, req.SuccessURL, req.CancelURL, req.CustomerEmail)
	if !result.Success {
		zap.S().Errorw("checkout creation failed", "product_id", product.ID, "error", result.Error)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   "Failed to create checkout session",
			"details": result.Error,
		})
	}

	return c.JSON(fiber.Map{
		"checkout_url": result.CheckoutURL,
		"session_id":   result.SessionID,
	})
}
