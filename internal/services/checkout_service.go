package services

import (
	"context"
	"strconv"
	"strings"

	"sklep/internal/models"
	"sklep/internal/payments"

	"go.uber.org/zap"
)

const sessionIDPlaceholder = "session_id={CHECKOUT_SESSION_ID}"

// CheckoutResult is the outcome of creating a checkout session.
type CheckoutResult struct {
	Success     bool   `json:"success"`
	CheckoutURL string `json:"checkout_url,omitempty"`
	SessionID   string `json:"session_id,omitempty"`
	Error       string `json:"error,omitempty"`
}

// CheckoutService builds hosted checkout sessions for single products.
type CheckoutService struct {
	provider payments.Provider
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(provider payments.Provider) *CheckoutService {
	return &CheckoutService{provider: provider}
}

// WithSessionPlaceholder appends the provider's session id placeholder to a
// success URL unless it is already there.
func WithSessionPlaceholder(successURL string) string {
	if strings.Contains(successURL, "{CHECKOUT_SESSION_ID}") {
		return successURL
	}
	sep := "?"
	if strings.Contains(successURL, "?") {
		sep = "&"
	}
	return successURL + sep + sessionIDPlaceholder
}

// CreateSession creates a checkout session for one unit of the product with fixed
// courier shipping. Products that are not buyable never reach the provider.
func (s *CheckoutService) CreateSession(ctx context.Context, p *models.Product, successURL, cancelURL, customerEmail string) CheckoutResult {
	if !p.IsBuyable() {
		return CheckoutResult{Error: "Product is not available for purchase"}
	}
	if p.StripePriceID == "" {
		return CheckoutResult{Error: "Product has no Stripe price"}
	}
	if s.provider == nil {
		return CheckoutResult{Error: "Stripe is not configured"}
	}

	session, err := s.provider.CreateCheckoutSession(ctx, payments.CheckoutInput{
		PriceID:       p.StripePriceID,
		Quantity:      1,
		SuccessURL:    WithSessionPlaceholder(successURL),
		CancelURL:     cancelURL,
		CustomerEmail: customerEmail,
		Shipping: payments.ShippingRate{
			DisplayName:     payments.ShippingDisplayName,
			Amount:          payments.ShippingCostMinorUnits,
			Currency:        payments.Currency,
			MinBusinessDays: payments.ShippingMinBusinessDays,
			MaxBusinessDays: payments.ShippingMaxBusinessDays,
		},
		Metadata: map[string]string{
			"product_id": strconv.FormatUint(uint64(p.ID), 10),
		},
	})
	if err != nil {
		zap.S().Errorw("failed to create checkout session", "product_id", p.ID, "error", err)
		msg := "Unexpected error: " + err.Error()
		if payments.IsProviderError(err) {
			msg = "Stripe API error: " + err.Error()
		}
		return CheckoutResult{Error: msg}
	}

	zap.S().Infow("created checkout session", "product_id", p.ID, "session_id", session.ID)
	return CheckoutResult{Success: true, CheckoutURL: session.URL, SessionID: session.ID}
}
