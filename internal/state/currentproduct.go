// Package state holds the small local stores backing transient UI state:
// the product selected for editing and the product-list filters. Nothing in
// here talks to the server.
package state

import (
	"sync"

	"admindash-sync/internal/domain"
)

// CurrentProduct holds the product picked from a list before navigating to
// the edit view. The edit view reads it to pre-populate its form; when it is
// unset the view redirects back to the list.
type CurrentProduct struct {
	mu      sync.RWMutex
	product *domain.Product
}

func NewCurrentProduct() *CurrentProduct {
	return &CurrentProduct{}
}

func (s *CurrentProduct) Set(p domain.Product) {
	s.mu.Lock()
	s.product = &p
	s.mu.Unlock()
}

// Get returns the selection, or domain.ErrNoSelection when nothing was set.
func (s *CurrentProduct) Get() (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.product == nil {
		return domain.Product{}, domain.ErrNoSelection
	}
	return *s.product, nil
}

func (s *CurrentProduct) Clear() {
	s.mu.Lock()
	s.product = nil
	s.mu.Unlock()
}
