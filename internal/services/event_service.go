package services

import (
	"context"

	"sklep/internal/models"
	"sklep/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// EventService handles admin writes of events.
type EventService struct {
	repo     repositories.EventRepository
	images   repositories.ImageRepository
	validate *validator.Validate
}

// NewEventService creates a new EventService.
func NewEventService(repo repositories.EventRepository, images repositories.ImageRepository) *EventService {
	return &EventService{repo: repo, images: images, validate: models.NewValidator()}
}

func (s *EventService) check(ctx context.Context, event *models.Event, imageIDs []uint) error {
	if err := models.ValidateStruct(s.validate, event); err != nil {
		return err
	}
	if len(imageIDs) == 0 {
		return nil
	}
	ids := dedupe(imageIDs)
	n, err := s.images.CountExisting(ctx, ids)
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return ErrUnknownImage
	}
	return nil
}

// CreateEvent stores a new event with its ordered images.
func (s *EventService) CreateEvent(ctx context.Context, event *models.Event, imageIDs []uint) error {
	event.ID = 0
	if err := s.check(ctx, event, imageIDs); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, event); err != nil {
		return err
	}
	if len(imageIDs) == 0 {
		return nil
	}
	if err := s.repo.ReplaceImages(ctx, event.ID, imageIDs); err != nil {
		return err
	}
	reloaded, err := s.repo.GetByID(ctx, event.ID)
	if err != nil {
		return err
	}
	event.Images = reloaded.Images
	return nil
}

// UpdateEvent overwrites an event. A nil imageIDs leaves the images untouched.
func (s *EventService) UpdateEvent(ctx context.Context, id uint, event *models.Event, imageIDs []uint) (*models.Event, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	event.ID = existing.ID
	event.CreatedAt = existing.CreatedAt
	if err := s.check(ctx, event, imageIDs); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	if imageIDs != nil {
		if err := s.repo.ReplaceImages(ctx, id, imageIDs); err != nil {
			return nil, err
		}
	}
	return s.repo.GetByID(ctx, id)
}

// DeleteEvent deletes an event by its ID.
func (s *EventService) DeleteEvent(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func dedupe(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
