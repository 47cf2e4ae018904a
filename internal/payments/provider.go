// Package payments talks to the remote payment provider that holds the canonical
// Product, Price and Checkout Session objects.
package payments

import (
	"context"
	"errors"
	"fmt"
)

// Currency and shipping terms used for every sale.
const (
	Currency                = "pln"
	ShippingCostMinorUnits  = 2000
	ShippingDisplayName     = "Przesyłka kurierska"
	ShippingMinBusinessDays = 3
	ShippingMaxBusinessDays = 7
)

// ProductInput describes the remote product mirrored from a local one.
type ProductInput struct {
	Name        string
	Description string
	Active      bool
	Images      []string
	Metadata    map[string]string
}

// RemoteProduct is the provider's view of a product.
type RemoteProduct struct {
	ID     string
	Active bool
}

// RemotePrice is the provider's view of a price.
type RemotePrice struct {
	ID         string
	ProductID  string
	UnitAmount int64
	Currency   string
	Active     bool
}

// ShippingRate is a fixed-amount shipping option attached to a checkout session.
type ShippingRate struct {
	DisplayName     string
	Amount          int64
	Currency        string
	MinBusinessDays int64
	MaxBusinessDays int64
}

// CheckoutInput describes a hosted checkout session for a single item.
type CheckoutInput struct {
	PriceID       string
	Quantity      int64
	SuccessURL    string
	CancelURL     string
	CustomerEmail string
	Shipping      ShippingRate
	Metadata      map[string]string
}

// CheckoutSession is the created hosted checkout session.
type CheckoutSession struct {
	ID  string
	URL string
}

// Provider is the remote payment provider gateway.
type Provider interface {
	CreateProduct(ctx context.Context, in ProductInput) (*RemoteProduct, error)
	UpdateProduct(ctx context.Context, id string, in ProductInput) (*RemoteProduct, error)
	SetProductActive(ctx context.Context, id string, active bool) error
	GetPrice(ctx context.Context, id string) (*RemotePrice, error)
	CreatePrice(ctx context.Context, productID string, unitAmount int64, currency string) (*RemotePrice, error)
	ArchivePrice(ctx context.Context, id string) error
	CreateCheckoutSession(ctx context.Context, in CheckoutInput) (*CheckoutSession, error)
}

// Error is a failure reported by the provider (network, auth, rate limit, invalid request).
type Error struct {
	Op         string
	Type       string
	Code       string
	HTTPStatus int
	Message    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Op, e.Message, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// ErrorTypeInvalidRequest marks requests the provider rejected, e.g. an unknown object id.
const ErrorTypeInvalidRequest = "invalid_request_error"

// IsProviderError reports whether err came from the provider.
func IsProviderError(err error) bool {
	var perr *Error
	return errors.As(err, &perr)
}

// IsInvalidRequest reports whether the provider rejected the request as invalid.
func IsInvalidRequest(err error) bool {
	var perr *Error
	return errors.As(err, &perr) && perr.Type == ErrorTypeInvalidRequest
}
