package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sklep/internal/models"
	"sklep/internal/repositories"

	"github.com/go-playground/validator/v10"
)

// ErrUnknownImage is returned when a product or event references a missing image.
var ErrUnknownImage = errors.New("unknown image")

// SaveOptions tunes a single product save.
type SaveOptions struct {
	// SkipSync persists the product without running the payment provider sync.
	SkipSync bool
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	images   repositories.ImageRepository
	sync     *SyncService
	cache    *FilterCache
	validate *validator.Validate
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, images repositories.ImageRepository, sync *SyncService, cache *FilterCache) *ProductService {
	return &ProductService{
		repo:     repo,
		images:   images,
		sync:     sync,
		cache:    cache,
		validate: models.NewValidator(),
	}
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id uint) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// Save validates and persists a product, then applies the sync policy unless
// opts.SkipSync is set. Sync problems are logged, never returned.
func (s *ProductService) Save(ctx context.Context, p *models.Product, opts SaveOptions) error {
	var prev models.ProductStatus
	if p.ID != 0 {
		status, err := s.repo.GetStatus(ctx, p.ID)
		if err != nil {
			return err
		}
		prev = status
	}

	p.Normalize()
	if err := p.Validate(s.validate); err != nil {
		return err
	}
	if p.Status == models.ProductStatusSold && p.SoldAt == nil {
		now := time.Now()
		p.SoldAt = &now
	}
	if err := s.assignSlug(ctx, p); err != nil {
		return err
	}

	if prev == "" {
		if err := s.repo.Create(ctx, p); err != nil {
			return err
		}
	} else if err := s.repo.Update(ctx, p); err != nil {
		return err
	}
	s.cache.Invalidate()

	if !opts.SkipSync && s.sync != nil {
		s.sync.Reconcile(ctx, p, prev)
	}
	return nil
}

// assignSlug derives the slug from the name when empty and keeps it unique by
// appending -1, -2, ... An explicit slug that is taken is a validation error.
func (s *ProductService) assignSlug(ctx context.Context, p *models.Product) error {
	if p.Slug != "" {
		p.Slug = models.Slugify(p.Slug)
		taken, err := s.repo.SlugExists(ctx, p.Slug, p.ID)
		if err != nil {
			return err
		}
		if taken {
			return models.ValidationErrors{"Slug": fmt.Sprintf("Slug '%s' is already in use", p.Slug)}
		}
		return nil
	}

	base := models.Slugify(p.Name)
	if base == "" {
		base = "product"
	}
	candidate := base
	for i := 1; ; i++ {
		taken, err := s.repo.SlugExists(ctx, candidate, p.ID)
		if err != nil {
			return err
		}
		if !taken {
			p.Slug = candidate
			return nil
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
}

// CreateProduct creates a new product with its ordered images.
func (s *ProductService) CreateProduct(ctx context.Context, p *models.Product, imageIDs []uint) error {
	p.ID = 0
	if p.Status != models.ProductStatusSold {
		p.SoldAt = nil
	}
	if err := s.checkImages(ctx, imageIDs); err != nil {
		return err
	}
	// Images go in before the sync so the remote product gets its picture.
	if err := s.Save(ctx, p, SaveOptions{SkipSync: true}); err != nil {
		return err
	}
	if err := s.attachImages(ctx, p, imageIDs); err != nil {
		return err
	}
	if s.sync != nil {
		s.sync.Reconcile(ctx, p, "")
	}
	return nil
}

// UpdateProduct applies the editable fields of input to the stored product.
// Remote ids and sale data are kept. A nil imageIDs leaves the images untouched.
func (s *ProductService) UpdateProduct(ctx context.Context, id uint, input *models.Product, imageIDs []uint) (*models.Product, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkImages(ctx, imageIDs); err != nil {
		return nil, err
	}
	prev := existing.Status

	existing.Name = input.Name
	existing.Title = input.Title
	existing.Description = input.Description
	existing.Opis = input.Opis
	existing.Price = input.Price
	existing.PromoPrice = input.PromoPrice
	existing.Status = input.Status
	existing.Featured = input.Featured
	existing.CatalogNumber = input.CatalogNumber
	existing.Purpose = input.Purpose
	existing.ForWhom = input.ForWhom
	existing.LengthCategory = input.LengthCategory
	existing.LengthCM = input.LengthCM
	existing.FeatherColors = input.FeatherColors
	existing.BirdSpecies = input.BirdSpecies
	existing.MetalColor = input.MetalColor
	existing.ClaspTypes = input.ClaspTypes
	if input.Slug != "" {
		existing.Slug = input.Slug
	}

	if err := s.Save(ctx, existing, SaveOptions{SkipSync: true}); err != nil {
		return nil, err
	}
	if imageIDs != nil {
		if err := s.attachImages(ctx, existing, imageIDs); err != nil {
			return nil, err
		}
	}
	if s.sync != nil {
		s.sync.Reconcile(ctx, existing, prev)
	}
	return existing, nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate()
	return nil
}

func (s *ProductService) checkImages(ctx context.Context, imageIDs []uint) error {
	if len(imageIDs) == 0 || s.images == nil {
		return nil
	}
	ids := dedupe(imageIDs)
	n, err := s.images.CountExisting(ctx, ids)
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return fmt.Errorf("%w: one of %v", ErrUnknownImage, imageIDs)
	}
	return nil
}

func (s *ProductService) attachImages(ctx context.Context, p *models.Product, imageIDs []uint) error {
	if err := s.repo.ReplaceImages(ctx, p.ID, imageIDs); err != nil {
		return err
	}
	reloaded, err := s.repo.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	p.Images = reloaded.Images
	return nil
}
