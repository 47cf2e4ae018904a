package services

import (
	"context"

	"sklep/internal/models"
	"sklep/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// ImageService registers image assets. The files themselves live elsewhere.
type ImageService struct {
	repo     repositories.ImageRepository
	validate *validator.Validate
}

// NewImageService creates a new ImageService.
func NewImageService(repo repositories.ImageRepository) *ImageService {
	return &ImageService{repo: repo, validate: models.NewValidator()}
}

// CreateImage stores an image reference with its tags.
func (s *ImageService) CreateImage(ctx context.Context, image *models.ImageAsset, tags []string) error {
	image.ID = 0
	if err := models.ValidateStruct(s.validate, image); err != nil {
		return err
	}
	return s.repo.Create(ctx, image, tags)
}
