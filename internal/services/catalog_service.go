package services

import (
	"context"
	"sort"

	"sklep/internal/models"
	"sklep/internal/repositories"
)

// Status filter values accepted by ListProducts.
const (
	StatusFilterActive = "active"
	StatusFilterSold   = "sold"
	StatusFilterAll    = "all"
)

// ProductFilters lists the attribute values present on active products.
type ProductFilters struct {
	Purpose        []string `json:"przeznaczenie_ogolne"`
	ForWhom        []string `json:"dla_kogo"`
	LengthCategory []string `json:"dlugosc_kategoria"`
	FeatherColors  []string `json:"kolor_pior"`
	BirdSpecies    []string `json:"gatunek_ptakow"`
	MetalColor     []string `json:"kolor_elementow_metalowych"`
	ClaspTypes     []string `json:"rodzaj_zapiecia"`
}

// CatalogService serves the public read side of the shop.
type CatalogService struct {
	products repositories.ProductRepository
	events   repositories.EventRepository
	images   repositories.ImageRepository
	cache    *FilterCache
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(products repositories.ProductRepository, events repositories.EventRepository, images repositories.ImageRepository, cache *FilterCache) *CatalogService {
	return &CatalogService{
		products: products,
		events:   events,
		images:   images,
		cache:    cache,
	}
}

// ListProducts returns products by status: "sold", "all", or active for anything else.
func (s *CatalogService) ListProducts(ctx context.Context, status string) ([]models.Product, error) {
	switch status {
	case StatusFilterSold:
		return s.products.List(ctx, repositories.ProductFilter{Status: models.ProductStatusSold})
	case StatusFilterAll:
		return s.products.List(ctx, repositories.ProductFilter{})
	default:
		return s.products.List(ctx, repositories.ProductFilter{Status: models.ProductStatusActive})
	}
}

// GetProductBySlug returns a product of any status.
func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return s.products.GetBySlug(ctx, slug)
}

// ListLegacyProducts returns products flagged active the old way.
func (s *CatalogService) ListLegacyProducts(ctx context.Context) ([]models.Product, error) {
	return s.products.List(ctx, repositories.ProductFilter{ActiveOnly: true})
}

// ListEvents returns active events.
func (s *CatalogService) ListEvents(ctx context.Context) ([]models.Event, error) {
	return s.events.ListActive(ctx)
}

// ListImages returns images carrying all of the tags.
func (s *CatalogService) ListImages(ctx context.Context, tags []string) ([]models.ImageAsset, error) {
	return s.images.ListByTags(ctx, tags)
}

// AggregateFilters collects the distinct attribute values of active products.
// The result is cached until the next product write or for a day.
func (s *CatalogService) AggregateFilters(ctx context.Context) (*ProductFilters, error) {
	if cached, ok := s.cache.Get(); ok {
		return cached, nil
	}

	gen := s.cache.Generation()
	products, err := s.products.List(ctx, repositories.ProductFilter{Status: models.ProductStatusActive})
	if err != nil {
		return nil, err
	}

	purpose := newValueSet()
	forWhom := newValueSet()
	length := newValueSet()
	feathers := newValueSet()
	species := newValueSet()
	metal := newValueSet()
	clasps := newValueSet()
	for _, p := range products {
		purpose.add(p.Purpose)
		length.add(p.LengthCategory)
		metal.add(p.MetalColor)
		forWhom.add(p.ForWhom...)
		feathers.add(p.FeatherColors...)
		species.add(p.BirdSpecies...)
		clasps.add(p.ClaspTypes...)
	}

	filters := &ProductFilters{
		Purpose:        purpose.sorted(),
		ForWhom:        forWhom.sorted(),
		LengthCategory: length.sorted(),
		FeatherColors:  feathers.sorted(),
		BirdSpecies:    species.sorted(),
		MetalColor:     metal.sorted(),
		ClaspTypes:     clasps.sorted(),
	}
	s.cache.SetIfCurrent(gen, filters)
	return filters, nil
}

type valueSet map[string]struct{}

func newValueSet() valueSet { return valueSet{} }

func (v valueSet) add(values ...string) {
	for _, val := range values {
		if val != "" {
			v[val] = struct{}{}
		}
	}
}

func (v valueSet) sorted() []string {
	out := make([]string, 0, len(v))
	for val := range v {
		out = append(out, val)
	}
	sort.Strings(out)
	return out
}
