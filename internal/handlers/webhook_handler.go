package handlers

import (
	"errors"

	"sklep/internal/payments"
	"sklep/internal/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// SignatureHeader carries the provider's webhook signature.
const SignatureHeader = "Stripe-Signature"

// WebhookHandler receives payment provider notifications.
type WebhookHandler struct {
	service *services.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(service *services.WebhookService) *WebhookHandler {
	return &WebhookHandler{service: service}
}

// RegisterRoutes sets up the webhook route under the /api group.
func (h *WebhookHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/webhooks/stripe", h.Stripe)
}

// Stripe handles POST /api/webhooks/stripe/.
func (h *WebhookHandler) Stripe(c *fiber.Ctx) error {
	payload := append([]byte(nil), c.Body()...)
	err := h.service.Process(c.UserContext(), payload, c.Get(SignatureHeader))
	if err == nil {
		return c.JSON(fiber.Map{"status": "success"})
	}

	status, message := webhookError(err)
	if status == fiber.StatusInternalServerError {
		zap.S().Errorw("webhook processing failed", "error", err)
	}
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func webhookError(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrNoSignature):
		return fiber.StatusBadRequest, "No signature"
	case errors.Is(err, services.ErrWebhookNotConfigured):
		return fiber.StatusInternalServerError, "Webhook not configured"
	case errors.Is(err, payments.ErrInvalidSignature):
		return fiber.StatusBadRequest, "Invalid signature"
	case errors.Is(err, payments.ErrInvalidPayload):
		return fiber.StatusBadRequest, "Invalid payload"
	case errors.Is(err, services.ErrMissingProductID):
		return fiber.StatusBadRequest, "No product_id in metadata"
	case errors.Is(err, services.ErrInvalidProductID):
		return fiber.StatusBadRequest, "Invalid product_id"
	case errors.Is(err, services.ErrProductNotFound):
		return fiber.StatusNotFound, "Product not found"
	case errors.Is(err, services.ErrProcessing):
		return fiber.StatusInternalServerError, "Processing error"
	default:
		return fiber.StatusInternalServerError, "Unexpected error"
	}
}
