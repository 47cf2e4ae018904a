package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"sklep/internal/models"
	"sklep/internal/payments"
	"sklep/internal/repositories"

	"go.uber.org/zap"
)

const webhookProvider = "stripe"

var (
	ErrNoSignature          = errors.New("no signature")
	ErrWebhookNotConfigured = errors.New("webhook not configured")
	ErrMissingProductID     = errors.New("no product_id in metadata")
	ErrInvalidProductID     = errors.New("invalid product_id")
	ErrProductNotFound      = errors.New("product not found")
	ErrProcessing           = errors.New("processing error")
)

// WebhookService reconciles local state with payment provider notifications.
type WebhookService struct {
	secret    string
	products  repositories.ProductRepository
	events    repositories.WebhookEventRepository
	sync      *SyncService
	publisher FulfillmentPublisher
}

// NewWebhookService creates a new WebhookService. events and publisher may be nil.
func NewWebhookService(secret string, products repositories.ProductRepository, events repositories.WebhookEventRepository, sync *SyncService, publisher FulfillmentPublisher) *WebhookService {
	return &WebhookService{
		secret:    secret,
		products:  products,
		events:    events,
		sync:      sync,
		publisher: publisher,
	}
}

// Process verifies and handles one delivery. The returned error wraps one of the
// package sentinels, or payments.ErrInvalidSignature / payments.ErrInvalidPayload.
func (s *WebhookService) Process(ctx context.Context, payload []byte, signature string) error {
	if signature == "" {
		return ErrNoSignature
	}
	if s.secret == "" {
		zap.S().Error("STRIPE_WEBHOOK_SECRET not configured")
		return ErrWebhookNotConfigured
	}

	event, err := payments.VerifyWebhook(payload, signature, s.secret)
	if err != nil {
		zap.S().Warnw("rejected stripe webhook", "error", err)
		return err
	}

	var logged *models.WebhookEvent
	if s.events != nil {
		logged, err = s.events.Record(ctx, &models.WebhookEvent{
			Provider:        webhookProvider,
			ProviderEventID: event.ID,
			EventType:       event.Type,
			Payload:         string(payload),
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrProcessing, err)
		}
		if logged.ProcessedAt != nil {
			zap.S().Infow("stripe event already processed", "event_id", event.ID, "type", event.Type)
			return nil
		}
	}

	procErr := s.dispatch(ctx, event)
	if logged != nil {
		if err := s.events.MarkProcessed(ctx, logged.ID, procErr); err != nil {
			zap.S().Warnw("failed to store webhook outcome", "event_id", event.ID, "error", err)
		}
	}
	return procErr
}

func (s *WebhookService) dispatch(ctx context.Context, event *payments.WebhookEvent) error {
	switch event.Type {
	case payments.EventCheckoutSessionCompleted:
		return s.handleCheckoutCompleted(ctx, event)
	case payments.EventCheckoutSessionExpired:
		zap.S().Infow("checkout session expired", "session_id", event.SessionID)
	default:
		zap.S().Debugw("unhandled stripe event", "type", event.Type, "event_id", event.ID)
	}
	return nil
}

func (s *WebhookService) handleCheckoutCompleted(ctx context.Context, event *payments.WebhookEvent) error {
	raw := event.Metadata["product_id"]
	if raw == "" {
		zap.S().Errorw("checkout session without product_id", "session_id", event.SessionID)
		return ErrMissingProductID
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		zap.S().Errorw("checkout session with invalid product_id", "session_id", event.SessionID, "product_id", raw)
		return fmt.Errorf("%w: %q", ErrInvalidProductID, raw)
	}

	product, err := s.products.GetByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			zap.S().Errorw("checkout session for unknown product", "session_id", event.SessionID, "product_id", id)
			return fmt.Errorf("%w: %d", ErrProductNotFound, id)
		}
		return fmt.Errorf("%w: %v", ErrProcessing, err)
	}

	if err := s.sync.MarkAsSold(ctx, product); err != nil {
		zap.S().Errorw("failed to mark product as sold", "product_id", id, "error", err)
		return fmt.Errorf("%w: %v", ErrProcessing, err)
	}
	zap.S().Infow("product sold", "product_id", product.ID, "session_id", event.SessionID)

	if s.publisher != nil {
		msg := ProductSoldMessage{
			ProductID:         product.ID,
			Slug:              product.Slug,
			Name:              product.DisplayName(),
			CheckoutSessionID: event.SessionID,
			SoldAt:            *product.SoldAt,
		}
		if err := s.publisher.PublishProductSold(ctx, msg); err != nil {
			zap.S().Warnw("failed to publish product.sold", "product_id", product.ID, "error", err)
		}
	}
	return nil
}
