package repositories

import (
	"context"
	"errors"

	"sklep/internal/models"
)

// ErrNotFound is wrapped by every repository lookup that finds no row.
var ErrNotFound = errors.New("record not found")

// ProductFilter narrows product listings. Zero values mean "no predicate".
type ProductFilter struct {
	Status     models.ProductStatus
	ActiveOnly bool // legacy active flag
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetBySlug(ctx context.Context, slug string) (*models.Product, error)
	// GetStatus returns the persisted status of a product without loading relations.
	GetStatus(ctx context.Context, id uint) (models.ProductStatus, error)
	SlugExists(ctx context.Context, slug string, excludeID uint) (bool, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	// UpdateFields writes only the given columns. It is the write path used by
	// synchronization and reconciliation and never triggers a sync itself.
	UpdateFields(ctx context.Context, id uint, fields map[string]interface{}) error
	ReplaceImages(ctx context.Context, productID uint, imageIDs []uint) error
	Delete(ctx context.Context, id uint) error
}
