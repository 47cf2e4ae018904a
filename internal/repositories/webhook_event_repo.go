package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sklep/internal/models"

	"gorm.io/gorm"
)

// WebhookEventRepository records payment provider deliveries.
type WebhookEventRepository interface {
	// Record stores the event unless it is already known and returns the stored row.
	Record(ctx context.Context, event *models.WebhookEvent) (*models.WebhookEvent, error)
	MarkProcessed(ctx context.Context, id uint, processingErr error) error
}

// GORMWebhookEventRepository is a GORM implementation of WebhookEventRepository.
type GORMWebhookEventRepository struct {
	db *gorm.DB
}

// NewGORMWebhookEventRepository creates a new instance of GORMWebhookEventRepository.
func NewGORMWebhookEventRepository(db *gorm.DB) *GORMWebhookEventRepository {
	return &GORMWebhookEventRepository{db: db}
}

// Record inserts the delivery or returns the row stored by an earlier delivery.
func (r *GORMWebhookEventRepository) Record(ctx context.Context, event *models.WebhookEvent) (*models.WebhookEvent, error) {
	var existing models.WebhookEvent
	err := r.db.WithContext(ctx).
		Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up webhook event %s: %w", event.ProviderEventID, err)
	}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("failed to record webhook event %s: %w", event.ProviderEventID, err)
	}
	return event, nil
}

// MarkProcessed stores the outcome of processing a delivery.
func (r *GORMWebhookEventRepository) MarkProcessed(ctx context.Context, id uint, processingErr error) error {
	fields := map[string]interface{}{"processing_error": ""}
	if processingErr != nil {
		fields["processing_error"] = processingErr.Error()
	} else {
		fields["processed_at"] = time.Now()
	}
	if err := r.db.WithContext(ctx).Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("failed to update webhook event %d: %w", id, err)
	}
	return nil
}
