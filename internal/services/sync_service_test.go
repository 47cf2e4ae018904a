package services_test

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"sklep/internal/models"
	"sklep/internal/payments"
	"sklep/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncService_CreateOrUpdate_NewProduct(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := newProduct("Feather earrings", "150.00")
	p.Title = "Kolczyki z piór"
	p.Opis = "Ręcznie robione"
	f.stored(t, p)

	res := f.sync.CreateOrUpdate(ctx, p)

	require.True(t, res.Success, res.Error)
	assert.NotEmpty(t, p.StripeProductID)
	assert.NotEmpty(t, p.StripePriceID)

	remote, active, ok := f.provider.Product(p.StripeProductID)
	require.True(t, ok)
	assert.True(t, active)
	assert.Equal(t, "Kolczyki z piór", remote.Name)
	assert.Equal(t, "Ręcznie robione", remote.Description)
	assert.Equal(t, "1", remote.Metadata["local_id"])
	assert.Equal(t, "feather-earrings", remote.Metadata["slug"])

	price, ok := f.provider.Price(p.StripePriceID)
	require.True(t, ok)
	assert.Equal(t, int64(15000), price.UnitAmount)
	assert.Equal(t, "pln", price.Currency)
	assert.Equal(t, p.StripeProductID, price.ProductID)

	stored := f.reload(t, p.ID)
	assert.Equal(t, p.StripeProductID, stored.StripeProductID)
	assert.Equal(t, p.StripePriceID, stored.StripePriceID)
}

func TestSyncService_CreateOrUpdate_UsesPrimaryImageURL(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.stored(t, newProduct("Earrings", "80.00"))
	f.repo.PutImage(models.ImageAsset{ID: 4, Title: "back", File: "/media/images/back.jpg"})
	f.repo.PutImage(models.ImageAsset{ID: 3, Title: "front", File: "/media/images/front.jpg"})
	require.NoError(t, f.repo.ReplaceImages(ctx, p.ID, []uint{3, 4}))
	p = f.reload(t, p.ID)

	require.True(t, f.sync.CreateOrUpdate(ctx, p).Success)

	remote, _, _ := f.provider.Product(p.StripeProductID)
	assert.Equal(t, []string{"https://sklep.test/media/images/front.jpg"}, remote.Images)
}

func TestSyncService_CreateOrUpdate_IsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.stored(t, newProduct("Necklace", "150.00"))

	require.True(t, f.sync.CreateOrUpdate(ctx, p).Success)
	productID, priceID := p.StripeProductID, p.StripePriceID

	require.True(t, f.sync.CreateOrUpdate(ctx, p).Success)

	assert.Equal(t, productID, p.StripeProductID)
	assert.Equal(t, priceID, p.StripePriceID)
	assert.Equal(t, 1, f.provider.CountCalls("CreateProduct"))
	assert.Equal(t, 1, f.provider.CountCalls("CreatePrice"))
	assert.Equal(t, 0, f.provider.CountCalls("ArchivePrice"))
	assert.Equal(t, 1, f.provider.CountCalls("UpdateProduct"))
}

func TestSyncService_CreateOrUpdate_PriceChangeArchivesOldPrice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.stored(t, newProduct("Bracelet", "150.00"))
	require.True(t, f.sync.CreateOrUpdate(ctx, p).Success)
	oldPriceID := p.StripePriceID

	p.Price = decimal.RequireFromString("199.50")
	require.True(t, f.sync.CreateOrUpdate(ctx, p).Success)

	assert.NotEqual(t, oldPriceID, p.StripePriceID)
	old, _ := f.provider.Price(oldPriceID)
	assert.False(t, old.Active)
	current, _ := f.provider.Price(p.StripePriceID)
	assert.True(t, current.Active)
	assert.Equal(t, int64(19950), current.UnitAmount)
}

func TestSyncService_CreateOrUpdate_RecreatesMissingPrice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.stored(t, newProduct("Hair clip", "60.00"))
	require.True(t, f.sync.CreateOrUpdate(ctx, p).Success)
	oldPriceID := p.StripePriceID
	f.provider.DeletePrice(oldPriceID)

	res := f.sync.CreateOrUpdate(ctx, p)

	require.True(t, res.Success, res.Error)
	assert.NotEqual(t, oldPriceID, p.StripePriceID)
	assert.Equal(t, 0, f.provider.CountCalls("ArchivePrice"))
	assert.Equal(t, 2, f.provider.CountCalls("CreatePrice"))
}

func TestSyncService_CreateOrUpdate_PriceLookupErrorKeepsOldPrice(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.stored(t, newProduct("Hair clip", "60.00"))
	require.True(t, f.sync.CreateOrUpdate(ctx, p).Success)
	oldPriceID := p.StripePriceID
	f.provider.Fail("GetPrice")

	res := f.sync.CreateOrUpdate(ctx, p)

	assert.False(t, res.Success)
	assert.True(t, strings.HasPrefix(res.Error, "Stripe API error: "), res.Error)
	assert.Equal(t, 1, f.provider.CountCalls("CreatePrice"))
	assert.Equal(t, 0, f.provider.CountCalls("ArchivePrice"))
	assert.Equal(t, oldPriceID, f.reload(t, p.ID).StripePriceID)
	old, ok := f.provider.Price(oldPriceID)
	require.True(t, ok)
	assert.True(t, old.Active)
}

func TestSyncService_CreateOrUpdate_ProviderFailure(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.stored(t, newProduct("Brooch", "90.00"))
	f.provider.Fail("CreateProduct")

	res := f.sync.CreateOrUpdate(ctx, p)

	assert.False(t, res.Success)
	assert.True(t, strings.HasPrefix(res.Error, "Stripe API error: "), res.Error)
	assert.Empty(t, f.reload(t, p.ID).StripeProductID)
}

func TestSyncService_CreateOrUpdate_NonProviderFailure(t *testing.T) {
	f := newFixture()
	p := f.stored(t, newProduct("Brooch", "90.00"))
	f.provider.FailOn["CreateProduct"] = fmt.Errorf("create product: %w", context.DeadlineExceeded)

	res := f.sync.CreateOrUpdate(context.Background(), p)

	assert.False(t, res.Success)
	assert.Equal(t, "Unexpected error: create product: context deadline exceeded", res.Error)
}

func TestSyncService_CreateOrUpdate_KeepsRemoteProductWhenPriceFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.stored(t, newProduct("Brooch", "90.00"))
	f.provider.Fail("CreatePrice")

	res := f.sync.CreateOrUpdate(ctx, p)
	require.False(t, res.Success)
	assert.NotEmpty(t, f.reload(t, p.ID).StripeProductID)
	assert.Empty(t, f.reload(t, p.ID).StripePriceID)

	f.provider.Recover("CreatePrice")
	require.True(t, f.sync.CreateOrUpdate(ctx, p).Success)
	assert.Equal(t, 1, f.provider.CountCalls("CreateProduct"))
}

func TestSyncService_Deactivate(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.stored(t, newProduct("Ring", "120.00"))

	res := f.sync.Deactivate(ctx, p)
	assert.False(t, res.Success)
	assert.Equal(t, "No stripe_product_id", res.Error)
	assert.Equal(t, 0, f.provider.CountCalls("SetProductActive"))

	require.True(t, f.sync.CreateOrUpdate(ctx, p).Success)
	require.True(t, f.sync.Deactivate(ctx, p).Success)
	_, active, _ := f.provider.Product(p.StripeProductID)
	assert.False(t, active)
}

func TestSyncService_MarkAsSold(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.stored(t, newProduct("Earrings", "150.00"))
	require.True(t, f.sync.CreateOrUpdate(ctx, p).Success)
	calls := f.provider.CountCalls("UpdateProduct")

	require.NoError(t, f.sync.MarkAsSold(ctx, p))

	stored := f.reload(t, p.ID)
	assert.Equal(t, models.ProductStatusSold, stored.Status)
	assert.False(t, stored.Active)
	require.NotNil(t, stored.SoldAt)
	assert.False(t, stored.IsBuyable())
	_, active, _ := f.provider.Product(p.StripeProductID)
	assert.False(t, active)
	// the sale is written without another product sync
	assert.Equal(t, calls, f.provider.CountCalls("UpdateProduct"))
	assert.Equal(t, 1, f.provider.CountCalls("CreatePrice"))
}

func TestSyncService_MarkAsSold_KeepsFirstSoldAt(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.stored(t, newProduct("Earrings", "150.00"))
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	p.SoldAt = &first

	require.NoError(t, f.sync.MarkAsSold(ctx, p))

	stored := f.reload(t, p.ID)
	require.NotNil(t, stored.SoldAt)
	assert.True(t, first.Equal(*stored.SoldAt))
}

func TestSyncService_MarkAsSold_RemoteFailureIsNotFatal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	p := f.stored(t, newProduct("Earrings", "150.00"))
	require.True(t, f.sync.CreateOrUpdate(ctx, p).Success)
	f.provider.Fail("SetProductActive")

	require.NoError(t, f.sync.MarkAsSold(ctx, p))
	assert.Equal(t, models.ProductStatusSold, f.reload(t, p.ID).Status)
}

func TestSyncService_Disabled(t *testing.T) {
	f := newFixture()
	disabled := services.NewSyncService(nil, f.repo, f.cache, testPublicURL)
	p := f.stored(t, newProduct("Earrings", "150.00"))

	assert.False(t, disabled.Enabled())
	res := disabled.CreateOrUpdate(context.Background(), p)
	assert.False(t, res.Success)

	disabled.Reconcile(context.Background(), p, "")
	assert.Empty(t, f.provider.Calls())

	_, err := disabled.SyncAll(context.Background(), false, nil)
	assert.Error(t, err)
}

func TestSyncService_SyncAll(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.stored(t, newProduct("Active one", "10.00"))
	f.stored(t, newProduct("Active two", "20.00"))
	inactive := newProduct("Hidden", "30.00")
	inactive.Status = models.ProductStatusInactive
	f.stored(t, inactive)

	var seen []services.SyncReportItem
	report, err := f.sync.SyncAll(ctx, false, func(item services.SyncReportItem) { seen = append(seen, item) })
	require.NoError(t, err)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
	assert.Len(t, seen, 2)

	report, err = f.sync.SyncAll(ctx, true, nil)
	require.NoError(t, err)
	assert.Len(t, report.Items, 3)
	assert.Equal(t, 3, report.Succeeded)
	_, active, _ := f.provider.Product(f.reload(t, inactive.ID).StripeProductID)
	assert.False(t, active)
}

func TestSyncService_SyncAll_CountsFailures(t *testing.T) {
	f := newFixture()
	f.stored(t, newProduct("Earrings", "10.00"))
	f.provider.FailOn["CreateProduct"] = &payments.Error{Op: "create product", Type: "api_error", Message: "boom"}

	report, err := f.sync.SyncAll(context.Background(), false, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, "Stripe API error: create product: boom", report.Items[0].Result.Error)
}

func TestAbsoluteURL(t *testing.T) {
	assert.Equal(t, "https://sklep.test/media/a.jpg", services.AbsoluteURL("https://sklep.test/", "/media/a.jpg"))
	assert.Equal(t, "https://sklep.test/media/a.jpg", services.AbsoluteURL("https://sklep.test", "media/a.jpg"))
	assert.Equal(t, "https://cdn.test/a.jpg", services.AbsoluteURL("https://sklep.test", "https://cdn.test/a.jpg"))
}
