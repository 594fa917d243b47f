// Package orders is the resource client for orders. Totals are always
// server-computed; nothing here recalculates them locally.
package orders

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

const TagType = "Order"

type Client struct {
	http     *transport.Client
	registry *cache.Registry
}

func New(http *transport.Client, registry *cache.Registry) *Client {
	return &Client{http: http, registry: registry}
}

// SubscribeList caches one page of orders under LIST plus per-entity tags.
func (c *Client) SubscribeList(ctx context.Context, page, pageSize int, onChange func([]domain.Order)) (*cache.Subscription, []domain.Order, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	path := fmt.Sprintf("orders?page=%d&pageSize=%d", page, pageSize)
	q := query.Query[[]domain.Order]{
		Client:   c.http,
		Registry: c.registry,
		Key:      path,
		Path:     path,
		Provides: func(orders []domain.Order) []cache.Tag {
			tags := []cache.Tag{cache.Sentinel(TagType, cache.IDList)}
			for _, o := range orders {
				tags = append(tags, cache.Entity(TagType, o.ID))
			}
			return tags
		},
	}
	return q.Subscribe(ctx, onChange)
}

// Subscribe caches a single order under its entity tag.
func (c *Client) Subscribe(ctx context.Context, id int64, onChange func(domain.Order)) (*cache.Subscription, domain.Order, error) {
	path := fmt.Sprintf("orders/%d", id)
	q := query.Query[domain.Order]{
		Client:   c.http,
		Registry: c.registry,
		Key:      path,
		Path:     path,
		Provides: func(o domain.Order) []cache.Tag {
			return []cache.Tag{cache.Entity(TagType, o.ID)}
		},
	}
	return q.Subscribe(ctx, onChange)
}

// StatusInput updates either or both status enumerations. Nil leaves a
// status unchanged.
type StatusInput struct {
	ID             int64                  `json:"-"`
	ShippingStatus *domain.ShippingStatus `json:"shippingStatus,omitempty"`
	PaymentStatus  *domain.PaymentStatus  `json:"paymentStatus,omitempty"`
}

// UpdateStatus sets an order's shipping/payment status. On failure the
// caller restores the previously displayed value; the status dropdowns are
// the only place with revert-on-error behavior.
func (c *Client) UpdateStatus(ctx context.Context, in StatusInput) (domain.Order, error) {
	m := query.Mutation[StatusInput, domain.Order]{
		Client:   c.http,
		Registry: c.registry,
		Method:   http.MethodPut,
		Path:     func(in StatusInput) string { return fmt.Sprintf("orders/%d/status", in.ID) },
		Body:     func(in StatusInput) any { return in },
		Invalidates: func(in StatusInput, _ json.RawMessage) []cache.Tag {
			return []cache.Tag{
				cache.Entity(TagType, in.ID),
				cache.Sentinel(TagType, cache.IDList),
				cache.Sentinel("Dashboard", cache.IDSummary),
			}
		},
	}
	return m.Do(ctx, in)
}

// Delete removes an order.
func (c *Client) Delete(ctx context.Context, id int64) error {
	m := query.Mutation[int64, struct{}]{
		Client:   c.http,
		Registry: c.registry,
		Method:   http.MethodDelete,
		Path:     func(id int64) string { return fmt.Sprintf("orders/%d", id) },
		Invalidates: func(id int64, _ json.RawMessage) []cache.Tag {
			return []cache.Tag{
				cache.Entity(TagType, id),
				cache.Sentinel(TagType, cache.IDList),
				cache.Sentinel("Dashboard", cache.IDSummary),
			}
		},
	}
	_, err := m.Do(ctx, id)
	return err
}
