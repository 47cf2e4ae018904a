package payments

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// StripeProvider implements Provider on top of the Stripe API.
type StripeProvider struct {
	sc *client.API
}

// NewStripeProvider creates a provider authenticated with the given secret key.
func NewStripeProvider(secretKey string) *StripeProvider {
	return &StripeProvider{sc: client.New(secretKey, nil)}
}

func wrapStripeError(op string, err error) error {
	if err == nil {
		return nil
	}
	var serr *stripe.Error
	if errors.As(err, &serr) {
		return &Error{
			Op:         op,
			Type:       string(serr.Type),
			Code:       string(serr.Code),
			HTTPStatus: serr.HTTPStatusCode,
			Message:    serr.Msg,
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

func productParams(ctx context.Context, in ProductInput) *stripe.ProductParams {
	params := &stripe.ProductParams{
		Name:   stripe.String(in.Name),
		Active: stripe.Bool(in.Active),
	}
	params.Context = ctx
	if in.Description != "" {
		params.Description = stripe.String(in.Description)
	}
	if len(in.Images) > 0 {
		params.Images = stripe.StringSlice(in.Images)
	}
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}
	return params
}

// CreateProduct creates a Stripe Product.
func (p *StripeProvider) CreateProduct(ctx context.Context, in ProductInput) (*RemoteProduct, error) {
	prod, err := p.sc.Products.New(productParams(ctx, in))
	if err != nil {
		return nil, wrapStripeError("create product", err)
	}
	return &RemoteProduct{ID: prod.ID, Active: prod.Active}, nil
}

// UpdateProduct modifies a Stripe Product. Images are left untouched.
func (p *StripeProvider) UpdateProduct(ctx context.Context, id string, in ProductInput) (*RemoteProduct, error) {
	in.Images = nil
	prod, err := p.sc.Products.Update(id, productParams(ctx, in))
	if err != nil {
		return nil, wrapStripeError("update product", err)
	}
	return &RemoteProduct{ID: prod.ID, Active: prod.Active}, nil
}

// SetProductActive toggles the active flag of a Stripe Product.
func (p *StripeProvider) SetProductActive(ctx context.Context, id string, active bool) error {
	params := &stripe.ProductParams{Active: stripe.Bool(active)}
	params.Context = ctx
	if _, err := p.sc.Products.Update(id, params); err != nil {
		return wrapStripeError("update product", err)
	}
	return nil
}

// GetPrice retrieves a Stripe Price.
func (p *StripeProvider) GetPrice(ctx context.Context, id string) (*RemotePrice, error) {
	params := &stripe.PriceParams{}
	params.Context = ctx
	pr, err := p.sc.Prices.Get(id, params)
	if err != nil {
		return nil, wrapStripeError("retrieve price", err)
	}
	return toRemotePrice(pr), nil
}

// CreatePrice creates a one-off Stripe Price for a product.
func (p *StripeProvider) CreatePrice(ctx context.Context, productID string, unitAmount int64, currency string) (*RemotePrice, error) {
	params := &stripe.PriceParams{
		Product:    stripe.String(productID),
		UnitAmount: stripe.Int64(unitAmount),
		Currency:   stripe.String(currency),
	}
	params.Context = ctx
	pr, err := p.sc.Prices.New(params)
	if err != nil {
		return nil, wrapStripeError("create price", err)
	}
	return toRemotePrice(pr), nil
}

// ArchivePrice marks a Stripe Price inactive.
func (p *StripeProvider) ArchivePrice(ctx context.Context, id string) error {
	params := &stripe.PriceParams{Active: stripe.Bool(false)}
	params.Context = ctx
	if _, err := p.sc.Prices.Update(id, params); err != nil {
		return wrapStripeError("archive price", err)
	}
	return nil
}

// CreateCheckoutSession creates a hosted Checkout Session in payment mode.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, in CheckoutInput) (*CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(in.PriceID),
				Quantity: stripe.Int64(in.Quantity),
			},
		},
		SuccessURL: stripe.String(in.SuccessURL),
		CancelURL:  stripe.String(in.CancelURL),
		ShippingOptions: []*stripe.CheckoutSessionShippingOptionParams{
			{
				ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
					Type: stripe.String("fixed_amount"),
					FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
						Amount:   stripe.Int64(in.Shipping.Amount),
						Currency: stripe.String(in.Shipping.Currency),
					},
					DisplayName: stripe.String(in.Shipping.DisplayName),
					DeliveryEstimate: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateParams{
						Minimum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMinimumParams{
							Unit:  stripe.String("business_day"),
							Value: stripe.Int64(in.Shipping.MinBusinessDays),
						},
						Maximum: &stripe.CheckoutSessionShippingOptionShippingRateDataDeliveryEstimateMaximumParams{
							Unit:  stripe.String("business_day"),
							Value: stripe.Int64(in.Shipping.MaxBusinessDays),
						},
					},
				},
			},
		},
	}
	params.Context = ctx
	for k, v := range in.Metadata {
		params.AddMetadata(k, v)
	}
	if in.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(in.CustomerEmail)
		params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			ReceiptEmail: stripe.String(in.CustomerEmail),
		}
	}

	s, err := p.sc.CheckoutSessions.New(params)
	if err != nil {
		return nil, wrapStripeError("create checkout session", err)
	}
	return &CheckoutSession{ID: s.ID, URL: s.URL}, nil
}

func toRemotePrice(pr *stripe.Price) *RemotePrice {
	rp := &RemotePrice{
		ID:         pr.ID,
		UnitAmount: pr.UnitAmount,
		Currency:   string(pr.Currency),
		Active:     pr.Active,
	}
	if pr.Product != nil {
		rp.ProductID = pr.Product.ID
	}
	return rp
}
