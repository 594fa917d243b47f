// Package variants is the resource client for product variants. Like order
// items, variant mutations invalidate the owning product because the product
// payload embeds its variant list.
package variants

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"admindash-sync/internal/cache"
	"admindash-sync/internal/domain"
	"admindash-sync/internal/query"
	"admindash-sync/internal/transport"

	"github.com/shopspring/decimal"
)

const TagType = "Variant"

type Client struct {
	http     *transport.Client
	registry *cache.Registry
}

func New(http *transport.Client, registry *cache.Registry) *Client {
	return &Client{http: http, registry: registry}
}

func mutationTags(productID int64, variantID *int64) []cache.Tag {
	tags := []cache.Tag{
		cache.Sentinel(TagType, cache.IDList),
		cache.Entity("Product", productID),
		cache.Sentinel("Product", cache.IDList),
	}
	if variantID != nil {
		tags = append(tags, cache.Entity(TagType, *variantID))
	}
	return tags
}

// SubscribeByProduct caches one product's variants.
func (c *Client) SubscribeByProduct(ctx context.Context, productID int64, onChange func([]domain.Variant)) (*cache.Subscription, []domain.Variant, error) {
	path := fmt.Sprintf("products/%d/variants", productID)
	q := query.Query[[]domain.Variant]{
		Client:   c.http,
		Registry: c.registry,
		Key:      path,
		Path:     path,
		Provides: func(vars []domain.Variant) []cache.Tag {
			tags := []cache.Tag{cache.Sentinel(TagType, cache.IDList)}
			for _, v := range vars {
				tags = append(tags, cache.Entity(TagType, v.ID))
			}
			return tags
		},
	}
	return q.Subscribe(ctx, onChange)
}

// Input carries the variant form fields.
type Input struct {
	ID            int64            `json:"-"`
	ProductID     int64            `json:"productId"`
	SKU           string           `json:"sku"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	StockQuantity int              `json:"stockQuantity"`
	IsActive      bool             `json:"isActive"`
	Color         string           `json:"color,omitempty"`
	Size          string           `json:"size,omitempty"`
}

// Create adds a variant to a product.
func (c *Client) Create(ctx context.Context, in Input) (domain.Variant, error) {
	m := query.Mutation[Input, domain.Variant]{
		Client:   c.http,
		Registry: c.registry,
		Method:   http.MethodPost,
		Path:     func(Input) string { return "variants" },
		Body:     func(in Input) any { return in },
		Invalidates: func(in Input, _ json.RawMessage) []cache.Tag {
			return mutationTags(in.ProductID, nil)
		},
	}
	return m.Do(ctx, in)
}

// Update rewrites a variant.
func (c *Client) Update(ctx context.Context, in Input) (domain.Variant, error) {
	m := query.Mutation[Input, domain.Variant]{
		Client:   c.http,
		Registry: c.registry,
		Method:   http.MethodPut,
		Path:     func(in Input) string { return fmt.Sprintf("variants/%d", in.ID) },
		Body:     func(in Input) any { return in },
		Invalidates: func(in Input, _ json.RawMessage) []cache.Tag {
			return mutationTags(in.ProductID, &in.ID)
		},
	}
	return m.Do(ctx, in)
}

// Delete removes a variant; the owning product id comes from the variant.
func (c *Client) Delete(ctx context.Context, v domain.Variant) error {
	m := query.Mutation[domain.Variant, struct{}]{
		Client:   c.http,
		Registry: c.registry,
		Method:   http.MethodDelete,
		Path:     func(v domain.Variant) string { return fmt.Sprintf("variants/%d", v.ID) },
		Invalidates: func(v domain.Variant, _ json.RawMessage) []cache.Tag {
			return mutationTags(v.ProductID, &v.ID)
		},
	}
	_, err := m.Do(ctx, v)
	return err
}
