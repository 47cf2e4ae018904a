package services

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	productFiltersKey = "product_filters"
	productFiltersTTL = 24 * time.Hour
)

// FilterCache keeps the aggregated product filter options between requests.
type FilterCache struct {
	c   *cache.Cache
	mu  sync.Mutex
	gen uint64
}

// NewFilterCache creates an empty FilterCache.
func NewFilterCache() *FilterCache {
	return &FilterCache{c: cache.New(productFiltersTTL, time.Hour)}
}

// Get returns the cached filters, if any.
func (f *FilterCache) Get() (*ProductFilters, bool) {
	if f == nil {
		return nil, false
	}
	v, ok := f.c.Get(productFiltersKey)
	if !ok {
		return nil, false
	}
	filters, ok := v.(*ProductFilters)
	return filters, ok
}

// Generation changes on every Invalidate.
func (f *FilterCache) Generation() uint64 {
	if f == nil {
		return 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen
}

// SetIfCurrent stores filters built at generation gen for a day. It reports
// false and stores nothing when the cache was invalidated since.
func (f *FilterCache) SetIfCurrent(gen uint64, filters *ProductFilters) bool {
	if f == nil {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gen != gen {
		return false
	}
	f.c.Set(productFiltersKey, filters, productFiltersTTL)
	return true
}

// Invalidate drops the cached filters. Called after every product write.
func (f *FilterCache) Invalidate() {
	if f == nil {
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gen++
	f.c.Delete(productFiltersKey)
}
