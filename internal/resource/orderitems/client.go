// Package orderitems is the resource client for order line items. Every
// mutation here crosses resource families on purpose: order totals are
// server-recomputed, so the owning order and the order list are invalidated
// alongside the item tags and must be re-read rather than patched locally.
package orderitems

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"admindash-sync/internal/cache"
	"admindash-sync/internal/domain"
	"admindash-sync/internal/query"
	"admindash-sync/internal/transport"
)

const TagType = "OrderItem"

type Client struct {
	http     *transport.Client
	registry *cache.Registry
}

func New(http *transport.Client, registry *cache.Registry) *Client {
	return &Client{http: http, registry: registry}
}

// MutationTags is the invalidation set for an item mutation: the item, the
// item list, and always the owning order plus the order list.
func MutationTags(orderID int64, itemID *int64) []cache.Tag {
	tags := []cache.Tag{
		cache.Sentinel(TagType, cache.IDList),
		cache.Entity("Order", orderID),
		cache.Sentinel("Order", cache.IDList),
	}
	if itemID != nil {
		tags = append(tags, cache.Entity(TagType, *itemID))
	}
	return tags
}

// SubscribeByOrder caches one order's items under LIST plus per-item tags.
func (c *Client) SubscribeByOrder(ctx context.Context, orderID int64, onChange func([]domain.OrderItem)) (*cache.Subscription, []domain.OrderItem, error) {
	path := fmt.Sprintf("orderitems/order/%d", orderID)
	q := query.Query[[]domain.OrderItem]{
		Client:   c.http,
		Registry: c.registry,
		Key:      path,
		Path:     path,
		Provides: func(items []domain.OrderItem) []cache.Tag {
			tags := []cache.Tag{cache.Sentinel(TagType, cache.IDList)}
			for _, it := range items {
				tags = append(tags, cache.Entity(TagType, it.ID))
			}
			return tags
		},
	}
	return q.Subscribe(ctx, onChange)
}

// Get fetches a single item without touching the cache.
func (c *Client) Get(ctx context.Context, id int64) (domain.OrderItem, error) {
	var item domain.OrderItem
	err := c.http.Get(ctx, fmt.Sprintf("orderitems/%d", id), &item)
	return item, err
}

// CreateInput adds a line item to an order.
type CreateInput struct {
	OrderID   int64  `json:"orderId"`
	ProductID int64  `json:"productId"`
	VariantID *int64 `json:"variantId,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Create adds a line item.
func (c *Client) Create(ctx context.Context, in CreateInput) (domain.OrderItem, error) {
	if in.Quantity < 1 {
		return domain.OrderItem{}, domain.ErrQuantityFloor
	}
	m := query.Mutation[CreateInput, domain.OrderItem]{
		Client:   c.http,
		Registry: c.registry,
		Method:   http.MethodPost,
		Path:     func(CreateInput) string { return "orderitems" },
		Body:     func(in CreateInput) any { return in },
		Invalidates: func(in CreateInput, _ json.RawMessage) []cache.Tag {
			return MutationTags(in.OrderID, nil)
		},
	}
	return m.Do(ctx, in)
}

// SetQuantity changes an item's quantity. Quantities below 1 are rejected
// client-side without a request; the displayed quantity stays as it was.
func (c *Client) SetQuantity(ctx context.Context, item domain.OrderItem, quantity int) (domain.OrderItem, error) {
	if quantity < 1 {
		return item, domain.ErrQuantityFloor
	}
	type updateArgs struct {
		item     domain.OrderItem
		quantity int
	}
	m := query.Mutation[updateArgs, domain.OrderItem]{
		Client:   c.http,
		Registry: c.registry,
		Method:   http.MethodPut,
		Path:     func(a updateArgs) string { return fmt.Sprintf("orderitems/%d", a.item.ID) },
		Body: func(a updateArgs) any {
			return map[string]int{"quantity": a.quantity}
		},
		Invalidates: func(a updateArgs, _ json.RawMessage) []cache.Tag {
			return MutationTags(a.item.OrderID, &a.item.ID)
		},
	}
	return m.Do(ctx, updateArgs{item: item, quantity: quantity})
}

// Increment bumps the quantity by one.
func (c *Client) Increment(ctx context.Context, item domain.OrderItem) (domain.OrderItem, error) {
	return c.SetQuantity(ctx, item, item.Quantity+1)
}

// Decrement lowers the quantity by one. At the floor of 1 it is a no-op:
// the item is returned unchanged and no request is issued.
func (c *Client) Decrement(ctx context.Context, item domain.OrderItem) (domain.OrderItem, error) {
	if item.Quantity <= 1 {
		return item, nil
	}
	return c.SetQuantity(ctx, item, item.Quantity-1)
}

// Delete removes a line item. The owning order id comes from the item so the
// order can be invalidated precisely.
func (c *Client) Delete(ctx context.Context, item domain.OrderItem) error {
	m := query.Mutation[domain.OrderItem, struct{}]{
		Client:   c.http,
		Registry: c.registry,
		Method:   http.MethodDelete,
		Path:     func(it domain.OrderItem) string { return fmt.Sprintf("orderitems/%d", it.ID) },
		Invalidates: func(it domain.OrderItem, _ json.RawMessage) []cache.Tag {
			return MutationTags(it.OrderID, &it.ID)
		},
	}
	_, err := m.Do(ctx, item)
	return err
}
