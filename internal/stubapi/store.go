package stubapi

import (
	"crypto/rand"
	"encoding/base64"
	"sort"
	"sync"
	"time"

	"admindash-sync/internal/domain"

	"github.com/shopspring/decimal"
)

// Store is the in-memory state behind the stub server. Categories are kept
// flat; tree shapes and product counts are derived on read, and order totals
// are recomputed on every item mutation, mirroring what the real API does
// server-side.
type Store struct {
	mu         sync.Mutex
	nextID     int64
	products   map[int64]*domain.Product
	variants   map[int64]*domain.Variant
	categories map[int64]*domain.Category
	orders     map[int64]*domain.Order
	items      map[int64]*domain.OrderItem
	banners    map[int64]*domain.Banner
	users      map[string]*domain.ApplicationUser
	passwords  map[string]string
	refresh    map[string]string
}

func NewStore() *Store {
	return &Store{
		nextID:     1000,
		products:   map[int64]*domain.Product{},
		variants:   map[int64]*domain.Variant{},
		categories: map[int64]*domain.Category{},
		orders:     map[int64]*domain.Order{},
		items:      map[int64]*domain.OrderItem{},
		banners:    map[int64]*domain.Banner{},
		users:      map[string]*domain.ApplicationUser{},
		passwords:  map[string]string{},
		refresh:    map[string]string{},
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Seed loads a small demo data set.
func (s *Store) Seed() {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin := &domain.ApplicationUser{
		ID:             "u-admin",
		FirstName:      "Ada",
		LastName:       "Admin",
		Email:          "admin@example.com",
		Roles:          []string{"Admin"},
		EmailConfirmed: true,
	}
	s.users[admin.ID] = admin
	s.passwords[admin.Email] = "admin123"

	electronics := &domain.Category{ID: 1, Name: "Electronics", IsActive: true, SortOrder: 1, CreatedAt: time.Now()}
	phones := &domain.Category{ID: 2, Name: "Phones", IsActive: true, SortOrder: 1, ParentID: ptr(int64(1)), CreatedAt: time.Now()}
	s.categories[electronics.ID] = electronics
	s.categories[phones.ID] = phones

	p := &domain.Product{
		ID:            10,
		Name:          "Handset X",
		SKU:           "HX-1",
		Price:         decimal.NewFromInt(499),
		StockQuantity: 25,
		TrackQuantity: true,
		IsActive:      true,
		CategoryID:    ptr(int64(2)),
		CreatedAt:     time.Now(),
	}
	s.products[p.ID] = p

	order := &domain.Order{
		ID:             100,
		OrderNumber:    "ORD-100",
		ShippingStatus: domain.ShippingPending,
		PaymentStatus:  domain.PaymentPending,
		UserID:         admin.ID,
		CreatedAt:      time.Now(),
	}
	s.orders[order.ID] = order
	item := &domain.OrderItem{
		ID:        200,
		OrderID:   order.ID,
		ProductID: p.ID,
		Quantity:  2,
		UnitPrice: p.Price,
	}
	s.items[item.ID] = item
	s.recomputeOrderLocked(order.ID)
}

func ptr[T any](v T) *T { return &v }

func sortSlice[T any](s []T, less func(a, b T) bool) {
	sort.Slice(s, func(i, j int) bool { return less(s[i], s[j]) })
}

// childrenLocked returns parentID's direct children ordered by sort order
// then name. A nil parentID selects the roots.
func (s *Store) childrenLocked(parentID *int64) []domain.Category {
	var out []domain.Category
	for _, c := range s.categories {
		switch {
		case parentID == nil && c.ParentID == nil,
			parentID != nil && c.ParentID != nil && *c.ParentID == *parentID:
			cc := *c
			cc.ProductCount = s.productCountLocked(c.ID)
			out = append(out, cc)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (s *Store) treeLocked(parentID *int64) []domain.Category {
	nodes := s.childrenLocked(parentID)
	for i := range nodes {
		nodes[i].Children = s.treeLocked(ptr(nodes[i].ID))
	}
	return nodes
}

func (s *Store) productCountLocked(categoryID int64) int {
	n := 0
	for _, p := range s.products {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			n++
		}
	}
	return n
}

func (s *Store) hasChildrenLocked(id int64) bool {
	for _, c := range s.categories {
		if c.ParentID != nil && *c.ParentID == id {
			return true
		}
	}
	return false
}

// recomputeOrderLocked rebuilds an order's item list and money totals.
func (s *Store) recomputeOrderLocked(orderID int64) {
	o, ok := s.orders[orderID]
	if !ok {
		return
	}
	o.Items = o.Items[:0]
	subtotal := decimal.Zero
	for _, it := range s.items {
		if it.OrderID != orderID {
			continue
		}
		it.TotalPrice = it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		o.Items = append(o.Items, *it)
		subtotal = subtotal.Add(it.TotalPrice)
	}
	sort.Slice(o.Items, func(i, j int) bool { return o.Items[i].ID < o.Items[j].ID })
	o.Subtotal = subtotal
	o.Total = subtotal.Add(o.Tax).Add(o.Shipping).Sub(o.Discount)
}
