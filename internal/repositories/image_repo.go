package repositories

import (
	"context"
	"fmt"
	"strings"

	"sklep/internal/models"

	"gorm.io/gorm"
)

// ImageRepository defines the interface for image asset data access.
type ImageRepository interface {
	// ListByTags returns images carrying every given tag (case-insensitive).
	// An empty tag list returns all images.
	ListByTags(ctx context.Context, tags []string) ([]models.ImageAsset, error)
	Create(ctx context.Context, image *models.ImageAsset, tags []string) error
	CountExisting(ctx context.Context, ids []uint) (int64, error)
}

// GORMImageRepository is a GORM implementation of ImageRepository.
type GORMImageRepository struct {
	db *gorm.DB
}

// NewGORMImageRepository creates a new instance of GORMImageRepository.
func NewGORMImageRepository(db *gorm.DB) *GORMImageRepository {
	return &GORMImageRepository{db: db}
}

// ListByTags returns the images tagged with all of the given tags.
func (r *GORMImageRepository) ListByTags(ctx context.Context, tags []string) ([]models.ImageAsset, error) {
	q := r.db.WithContext(ctx).Preload("Tags").Order("id ASC")
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		q = q.Where("id IN (?)", r.db.Model(&models.ImageTag{}).Select("image_id").Where("LOWER(name) = ?", tag))
	}
	var images []models.ImageAsset
	if err := q.Find(&images).Error; err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

// Create stores an image asset with its tags.
func (r *GORMImageRepository) Create(ctx context.Context, image *models.ImageAsset, tags []string) error {
	image.Tags = image.Tags[:0]
	for _, t := range tags {
		if t = strings.TrimSpace(t); t != "" {
			image.Tags = append(image.Tags, models.ImageTag{Name: t})
		}
	}
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	return nil
}

// CountExisting counts how many of the ids refer to stored images.
func (r *GORMImageRepository) CountExisting(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ImageAsset{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return count, nil
}
