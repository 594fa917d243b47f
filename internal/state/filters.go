package state

import (
	"strings"
	"sync"

	"admindash-sync/internal/domain"

	"github.com/shopspring/decimal"
)

// Filters is the transient product-list filter state. It is purely local:
// filters are applied client-side over an already-fetched page and are never
// sent to the server.
type Filters struct {
	Query       string
	CategoryID  *int64
	PriceMin    *decimal.Decimal
	PriceMax    *decimal.Decimal
	InStockOnly bool
}

// Matches reports whether a product passes every set filter.
func (f Filters) Matches(p domain.Product) bool {
	if q := strings.TrimSpace(strings.ToLower(f.Query)); q != "" {
		name := strings.ToLower(p.Name)
		sku := strings.ToLower(p.SKU)
		if !strings.Contains(name, q) && !strings.Contains(sku, q) {
			return false
		}
	}
	if f.CategoryID != nil {
		if p.CategoryID == nil || *p.CategoryID != *f.CategoryID {
			return false
		}
	}
	if f.PriceMin != nil && p.Price.LessThan(*f.PriceMin) {
		return false
	}
	if f.PriceMax != nil && p.Price.GreaterThan(*f.PriceMax) {
		return false
	}
	if f.InStockOnly && p.TrackQuantity && p.StockQuantity <= 0 {
		return false
	}
	return true
}

// Apply returns the products passing the filter, preserving input order.
func (f Filters) Apply(products []domain.Product) []domain.Product {
	var out []domain.Product
	for _, p := range products {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	return out
}

// FilterStore guards the shared Filters value.
type FilterStore struct {
	mu      sync.RWMutex
	filters Filters
}

func NewFilterStore() *FilterStore {
	return &FilterStore{}
}

func (s *FilterStore) Get() Filters {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filters
}

func (s *FilterStore) Set(f Filters) {
	s.mu.Lock()
	s.filters = f
	s.mu.Unlock()
}

// Update applies fn to the current filters under the lock.
func (s *FilterStore) Update(fn func(*Filters)) {
	s.mu.Lock()
	fn(&s.filters)
	s.mu.Unlock()
}

func (s *FilterStore) Reset() {
	s.mu.Lock()
	s.filters = Filters{}
	s.mu.Unlock()
}
