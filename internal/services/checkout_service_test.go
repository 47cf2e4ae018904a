package services_test

import (
	"context"
	"strings"
	"testing"

	"sklep/internal/models"
	"sklep/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithSessionPlaceholder(t *testing.T) {
	cases := map[string]string{
		"https://sklep.test/success":                                   "https://sklep.test/success?session_id={CHECKOUT_SESSION_ID}",
		"https://sklep.test/success?lang=pl":                           "https://sklep.test/success?lang=pl&session_id={CHECKOUT_SESSION_ID}",
		"https://sklep.test/success?session_id={CHECKOUT_SESSION_ID}": "https://sklep.test/success?session_id={CHECKOUT_SESSION_ID}",
	}
	for in, want := range cases {
		assert.Equal(t, want, services.WithSessionPlaceholder(in), in)
	}
}

func TestCheckoutService_CreateSession(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := newProduct("Earrings", "150.00")
	require.NoError(t, f.products.Save(ctx, p, services.SaveOptions{}))
	checkout := services.NewCheckoutService(f.provider)

	res := checkout.CreateSession(ctx, p, "https://sklep.test/dziekujemy", "https://sklep.test/koszyk", "ala@example.com")

	require.True(t, res.Success, res.Error)
	assert.NotEmpty(t, res.SessionID)
	assert.True(t, strings.HasSuffix(res.CheckoutURL, res.SessionID))

	sessions := f.provider.Sessions()
	require.Len(t, sessions, 1)
	in := sessions[0]
	assert.Equal(t, p.StripePriceID, in.PriceID)
	assert.Equal(t, int64(1), in.Quantity)
	assert.Equal(t, "https://sklep.test/dziekujemy?session_id={CHECKOUT_SESSION_ID}", in.SuccessURL)
	assert.Equal(t, "https://sklep.test/koszyk", in.CancelURL)
	assert.Equal(t, "ala@example.com", in.CustomerEmail)
	assert.Equal(t, "1", in.Metadata["product_id"])
	assert.Equal(t, int64(2000), in.Shipping.Amount)
	assert.Equal(t, "pln", in.Shipping.Currency)
	assert.Equal(t, "Przesyłka kurierska", in.Shipping.DisplayName)
	assert.Equal(t, int64(3), in.Shipping.MinBusinessDays)
	assert.Equal(t, int64(7), in.Shipping.MaxBusinessDays)
}

func TestCheckoutService_CreateSession_NotBuyable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	checkout := services.NewCheckoutService(f.provider)

	unsynced := f.stored(t, newProduct("Earrings", "150.00"))
	sold := newProduct("Ring", "150.00")
	sold.Status = models.ProductStatusSold
	sold.StripePriceID = "price_1"
	inactive := newProduct("Brooch", "150.00")
	inactive.Status = models.ProductStatusInactive
	inactive.StripePriceID = "price_2"

	for _, p := range []*models.Product{unsynced, sold, inactive} {
		res := checkout.CreateSession(ctx, p, "https://sklep.test/ok", "https://sklep.test/cancel", "")
		assert.False(t, res.Success)
		assert.Equal(t, "Product is not available for purchase", res.Error)
	}
	assert.Equal(t, 0, f.provider.CountCalls("CreateCheckoutSession"))
}

func TestCheckoutService_CreateSession_ProviderFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := newProduct("Earrings", "150.00")
	require.NoError(t, f.products.Save(ctx, p, services.SaveOptions{}))
	f.provider.Fail("CreateCheckoutSession")

	res := services.NewCheckoutService(f.provider).CreateSession(ctx, p, "https://sklep.test/ok", "https://sklep.test/cancel", "")

	assert.False(t, res.Success)
	assert.True(t, strings.HasPrefix(res.Error, "Stripe API error: "), res.Error)
}
