package repositories

import (
	"context"
	"errors"
	"fmt"

	"sklep/internal/models"

	"gorm.io/gorm"
)

// EventRepository defines the interface for event data access.
type EventRepository interface {
	ListActive(ctx context.Context) ([]models.Event, error)
	GetByID(ctx context.Context, id uint) (*models.Event, error)
	Create(ctx context.Context, event *models.Event) error
	Update(ctx context.Context, event *models.Event) error
	ReplaceImages(ctx context.Context, eventID uint, imageIDs []uint) error
	Delete(ctx context.Context, id uint) error
}

// GORMEventRepository is a GORM implementation of EventRepository.
type GORMEventRepository struct {
	db *gorm.DB
}

// NewGORMEventRepository creates a new instance of GORMEventRepository.
func NewGORMEventRepository(db *gorm.DB) *GORMEventRepository {
	return &GORMEventRepository{db: db}
}

func (r *GORMEventRepository) withImages(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("sort_order ASC, id ASC")
	}).Preload("Images.Image")
}

// ListActive returns active events ordered by start date.
func (r *GORMEventRepository) ListActive(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	if err := r.withImages(ctx).Where("active = ?", true).Order("start_date ASC").Find(&events).Error; err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// GetByID retrieves a single event.
func (r *GORMEventRepository) GetByID(ctx context.Context, id uint) (*models.Event, error) {
	var event models.Event
	if err := r.withImages(ctx).First(&event, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("event with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get event by ID %d: %w", id, err)
	}
	return &event, nil
}

// Create creates a new event.
func (r *GORMEventRepository) Create(ctx context.Context, event *models.Event) error {
	if err := r.db.WithContext(ctx).Omit("Images").Create(event).Error; err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// Update updates an existing event.
func (r *GORMEventRepository) Update(ctx context.Context, event *models.Event) error {
	res := r.db.WithContext(ctx).Omit("Images", "CreatedAt").Save(event)
	if res.Error != nil {
		return fmt.Errorf("failed to update event: %w", res.Error)
	}
	return nil
}

// ReplaceImages stores the ordered image list of an event.
func (r *GORMEventRepository) ReplaceImages(ctx context.Context, eventID uint, imageIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", eventID).Delete(&models.EventImage{}).Error; err != nil {
			return fmt.Errorf("failed to clear images of event %d: %w", eventID, err)
		}
		for i, imageID := range imageIDs {
			ei := models.EventImage{EventID: eventID, ImageID: imageID, SortOrder: i}
			if err := tx.Omit("Image").Create(&ei).Error; err != nil {
				return fmt.Errorf("failed to attach image %d to event %d: %w", imageID, eventID, err)
			}
		}
		return nil
	})
}

// Delete deletes an event and its image links.
func (r *GORMEventRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&models.EventImage{}).Error; err != nil {
			return fmt.Errorf("failed to delete images of event %d: %w", id, err)
		}
		res := tx.Delete(&models.Event{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete event: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("event with ID %d not found for deletion: %w", id, ErrNotFound)
		}
		return nil
	})
}
