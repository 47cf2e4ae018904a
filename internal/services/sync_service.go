package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sklep/internal/models"
	"sklep/internal/payments"
	"sklep/internal/repositories"

	"go.uber.org/zap"
)

// SyncResult is the outcome of a synchronization attempt. Failures are reported
// here instead of as Go errors so callers never abort a save because of the provider.
type SyncResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// SyncReportItem is one product handled by SyncAll.
type SyncReportItem struct {
	ProductID uint
	Name      string
	Result    SyncResult
}

// SyncReport summarizes a SyncAll run.
type SyncReport struct {
	Items     []SyncReportItem
	Succeeded int
	Failed    int
}

// SyncService mirrors local products to the payment provider.
type SyncService struct {
	provider  payments.Provider
	repo      repositories.ProductRepository
	cache     *FilterCache
	publicURL string
}

// NewSyncService creates a new SyncService. A nil provider disables synchronization.
func NewSyncService(provider payments.Provider, repo repositories.ProductRepository, cache *FilterCache, publicURL string) *SyncService {
	return &SyncService{
		provider:  provider,
		repo:      repo,
		cache:     cache,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Enabled reports whether a payment provider is configured.
func (s *SyncService) Enabled() bool {
	return s.provider != nil
}

func (s *SyncService) failure(p *models.Product, op string, err error) SyncResult {
	msg := "Unexpected error: " + err.Error()
	if payments.IsProviderError(err) {
		msg = "Stripe API error: " + err.Error()
	}
	zap.S().Errorw("stripe sync failed", "product_id", p.ID, "op", op, "error", err)
	return SyncResult{Success: false, Error: msg}
}

// AbsoluteURL joins a media path onto the public base URL. Absolute URLs pass through.
func AbsoluteURL(base, path string) string {
	if path == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(base, "/") + path
}

func (s *SyncService) productInput(p *models.Product) payments.ProductInput {
	in := payments.ProductInput{
		Name:   p.DisplayName(),
		Active: p.Status == models.ProductStatusActive,
		Metadata: map[string]string{
			"local_id": strconv.FormatUint(uint64(p.ID), 10),
			"slug":     p.Slug,
		},
	}
	if p.Opis != "" {
		in.Description = p.Opis
	}
	if img := p.PrimaryImage(); img != nil {
		in.Images = []string{AbsoluteURL(s.publicURL, img.File)}
	}
	return in
}

// CreateOrUpdate ensures the product has a remote product and a remote price
// matching its current price, then stores both ids locally without triggering
// another synchronization.
func (s *SyncService) CreateOrUpdate(ctx context.Context, p *models.Product) SyncResult {
	if !s.Enabled() {
		return SyncResult{Success: false, Error: "Stripe is not configured"}
	}

	in := s.productInput(p)
	productID := p.StripeProductID
	if productID == "" {
		rp, err := s.provider.CreateProduct(ctx, in)
		if err != nil {
			return s.failure(p, "create product", err)
		}
		productID = rp.ID
		zap.S().Infow("created stripe product", "product_id", p.ID, "stripe_product_id", productID)
	} else {
		if _, err := s.provider.UpdateProduct(ctx, productID, in); err != nil {
			return s.failure(p, "update product", err)
		}
		zap.S().Debugw("updated stripe product", "product_id", p.ID, "stripe_product_id", productID)
	}

	priceID, err := s.ensurePrice(ctx, p, productID)
	if err != nil {
		if productID != p.StripeProductID {
			// keep the new remote product linked so the next attempt updates it
			if werr := s.repo.UpdateFields(ctx, p.ID, map[string]interface{}{"stripe_product_id": productID}); werr == nil {
				p.StripeProductID = productID
			}
		}
		return s.failure(p, "sync price", err)
	}

	fields := map[string]interface{}{
		"stripe_product_id": productID,
		"stripe_price_id":   priceID,
	}
	if err := s.repo.UpdateFields(ctx, p.ID, fields); err != nil {
		return s.failure(p, "store stripe ids", err)
	}
	p.StripeProductID = productID
	p.StripePriceID = priceID
	return SyncResult{Success: true}
}

// ensurePrice returns a price id for the current amount, replacing a stale price.
func (s *SyncService) ensurePrice(ctx context.Context, p *models.Product, productID string) (string, error) {
	amount := p.PriceMinorUnits()

	if p.StripePriceID != "" {
		current, err := s.provider.GetPrice(ctx, p.StripePriceID)
		switch {
		case payments.IsInvalidRequest(err):
			zap.S().Warnw("stripe price not found, creating a new one",
				"product_id", p.ID, "stripe_price_id", p.StripePriceID, "error", err)
		case err != nil:
			return "", err
		case current.UnitAmount == amount:
			return p.StripePriceID, nil
		default:
			if err := s.provider.ArchivePrice(ctx, current.ID); err != nil {
				return "", err
			}
			zap.S().Infow("archived stripe price", "product_id", p.ID, "stripe_price_id", current.ID,
				"old_amount", current.UnitAmount, "new_amount", amount)
		}
	}

	price, err := s.provider.CreatePrice(ctx, productID, amount, payments.Currency)
	if err != nil {
		return "", err
	}
	zap.S().Infow("created stripe price", "product_id", p.ID, "stripe_price_id", price.ID, "amount", amount)
	return price.ID, nil
}

// Deactivate marks the remote product inactive.
func (s *SyncService) Deactivate(ctx context.Context, p *models.Product) SyncResult {
	if !s.Enabled() {
		return SyncResult{Success: false, Error: "Stripe is not configured"}
	}
	if p.StripeProductID == "" {
		return SyncResult{Success: false, Error: "No stripe_product_id"}
	}
	if err := s.provider.SetProductActive(ctx, p.StripeProductID, false); err != nil {
		return s.failure(p, "deactivate product", err)
	}
	zap.S().Infow("deactivated stripe product", "product_id", p.ID, "stripe_product_id", p.StripeProductID)
	return SyncResult{Success: true}
}

// MarkAsSold records the sale locally and deactivates the remote product. The local
// write goes through UpdateFields so no synchronization is dispatched. An existing
// sold_at is kept.
func (s *SyncService) MarkAsSold(ctx context.Context, p *models.Product) error {
	soldAt := time.Now()
	if p.SoldAt != nil {
		soldAt = *p.SoldAt
	}
	fields := map[string]interface{}{
		"status":  models.ProductStatusSold,
		"sold_at": soldAt,
		"active":  false,
	}
	if err := s.repo.UpdateFields(ctx, p.ID, fields); err != nil {
		return fmt.Errorf("failed to mark product %d as sold: %w", p.ID, err)
	}
	p.Status = models.ProductStatusSold
	p.SoldAt = &soldAt
	p.Active = false
	s.cache.Invalidate()

	if s.Enabled() && p.StripeProductID != "" {
		if res := s.Deactivate(ctx, p); !res.Success {
			zap.S().Warnw("sold product stays active at stripe", "product_id", p.ID, "error", res.Error)
		}
	}
	return nil
}

// Reconcile applies the synchronization policy after a local save. It never fails
// the caller: problems are logged.
func (s *SyncService) Reconcile(ctx context.Context, p *models.Product, prev models.ProductStatus) {
	if !s.Enabled() {
		zap.S().Debugw("stripe not configured, skipping sync", "product_id", p.ID)
		return
	}
	defer func() {
		if r := recover(); r != nil {
			zap.S().Errorw("unexpected error in stripe sync", "product_id", p.ID, "panic", r)
		}
	}()

	switch p.Status {
	case models.ProductStatusInactive:
		if prev == models.ProductStatusInactive {
			return
		}
		zap.S().Infow("product deactivated, syncing to stripe", "product_id", p.ID)
		if res := s.Deactivate(ctx, p); !res.Success {
			zap.S().Errorw("failed to deactivate stripe product", "product_id", p.ID, "error", res.Error)
		}
	case models.ProductStatusActive:
		if prev != models.ProductStatusActive {
			zap.S().Infow("product activated or created, syncing to stripe", "product_id", p.ID)
		} else {
			zap.S().Debugw("product updated, syncing to stripe", "product_id", p.ID)
		}
		if res := s.CreateOrUpdate(ctx, p); !res.Success {
			zap.S().Errorw("failed to sync stripe product", "product_id", p.ID, "error", res.Error)
		}
	}
}

// SyncAll runs CreateOrUpdate for every active product, or for every product when
// force is set. onResult, when given, is called after each product.
func (s *SyncService) SyncAll(ctx context.Context, force bool, onResult func(SyncReportItem)) (*SyncReport, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("STRIPE_SECRET_KEY is not configured")
	}

	filter := repositories.ProductFilter{Status: models.ProductStatusActive}
	if force {
		filter = repositories.ProductFilter{}
	}
	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products for sync: %w", err)
	}

	report := &SyncReport{Items: make([]SyncReportItem, 0, len(products))}
	for i := range products {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		p := &products[i]
		item := SyncReportItem{ProductID: p.ID, Name: p.DisplayName(), Result: s.CreateOrUpdate(ctx, p)}
		if item.Result.Success {
			report.Succeeded++
		} else {
			report.Failed++
		}
		report.Items = append(report.Items, item)
		if onResult != nil {
			onResult(item)
		}
	}
	return report, nil
}
