package repositories

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"sklep/internal/models"
)

// MockProductRepository is an in-memory implementation of ProductRepository.
type MockProductRepository struct {
	products map[uint]models.Product
	images   map[uint]models.ImageAsset
	nextID   uint
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[uint]models.Product),
		images:   make(map[uint]models.ImageAsset),
		nextID:   1,
	}
}

// PutImage registers an image asset so ReplaceImages can resolve it.
func (r *MockProductRepository) PutImage(image models.ImageAsset) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.images[image.ID] = image
}

// List returns products matching the filter, newest first.
func (r *MockProductRepository) List(_ context.Context, filter ProductFilter) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.ActiveOnly && !p.Active {
			continue
		}
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID > productList[j].ID })
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MockProductRepository) GetByID(_ context.Context, id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
	}
	return &product, nil
}

// GetBySlug returns a product by its slug.
func (r *MockProductRepository) GetBySlug(_ context.Context, slug string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Slug == slug {
			product := p
			return &product, nil
		}
	}
	return nil, fmt.Errorf("product with slug %s: %w", slug, ErrNotFound)
}

// GetStatus returns the stored status of a product.
func (r *MockProductRepository) GetStatus(_ context.Context, id uint) (models.ProductStatus, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return "", fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
	}
	return product.Status, nil
}

// SlugExists reports whether another product already uses the slug.
func (r *MockProductRepository) SlugExists(_ context.Context, slug string, excludeID uint) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, p := range r.products {
		if p.Slug == slug && id != excludeID {
			return true, nil
		}
	}
	return false, nil
}

// Create adds a new product.
func (r *MockProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == 0 {
		product.ID = r.nextID
	}
	if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

// Update modifies an existing product.
func (r *MockProductRepository) Update(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.products[product.ID]
	if !ok {
		return fmt.Errorf("product with ID %d not found for update: %w", product.ID, ErrNotFound)
	}
	product.Images = existing.Images
	product.UpdatedAt = time.Now()
	r.products[product.ID] = *product
	return nil
}

// UpdateFields modifies the listed columns of a product.
func (r *MockProductRepository) UpdateFields(_ context.Context, id uint, fields map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %d not found for update: %w", id, ErrNotFound)
	}
	for column, value := range fields {
		switch column {
		case "stripe_product_id":
			p.StripeProductID = value.(string)
		case "stripe_price_id":
			p.StripePriceID = value.(string)
		case "status":
			p.Status = value.(models.ProductStatus)
		case "active":
			p.Active = value.(bool)
		case "sold_at":
			t := value.(time.Time)
			p.SoldAt = &t
		default:
			return fmt.Errorf("unsupported column %s", column)
		}
	}
	p.UpdatedAt = time.Now()
	r.products[id] = p
	return nil
}

// ReplaceImages stores the ordered image list of a product.
func (r *MockProductRepository) ReplaceImages(_ context.Context, productID uint, imageIDs []uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.products[productID]
	if !ok {
		return fmt.Errorf("product with ID %d: %w", productID, ErrNotFound)
	}
	p.Images = make([]models.ProductImage, 0, len(imageIDs))
	for i, imageID := range imageIDs {
		p.Images = append(p.Images, models.ProductImage{
			ProductID: productID,
			ImageID:   imageID,
			Image:     r.images[imageID],
			SortOrder: i,
		})
	}
	r.products[productID] = p
	return nil
}

// Delete removes a product by its ID.
func (r *MockProductRepository) Delete(_ context.Context, id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, ok := r.products[id]
	if !ok {
		return fmt.Errorf("product with ID %d not found for deletion: %w", id, ErrNotFound)
	}
	delete(r.products, id)
	return nil
}
