// Package products is the resource client for the catalog.
package products

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"admindash-sync/internal/cache"
	"admindash-sync/internal/domain"
	"admindash-sync/internal/query"
	"admindash-sync/internal/transport"

	"github.com/shopspring/decimal"
)

const TagType = "Product"

// DashboardTag goes stale whenever a mutation changes one of the aggregate
// counters on the landing page.
var DashboardTag = cache.Sentinel("Dashboard", cache.IDSummary)

type Client struct {
	http     *transport.Client
	registry *cache.Registry
}

func New(http *transport.Client, registry *cache.Registry) *Client {
	return &Client{http: http, registry: registry}
}

// ListPage identifies one page of the catalog.
type ListPage struct {
	Page     int
	PageSize int
}

func (p ListPage) path() string {
	page, size := p.Page, p.PageSize
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 20
	}
	return fmt.Sprintf("products?page=%d&pageSize=%d", page, size)
}

// SubscribeList caches one page of products under LIST plus per-entity tags.
func (c *Client) SubscribeList(ctx context.Context, page ListPage, onChange func([]domain.Product)) (*cache.Subscription, []domain.Product, error) {
	path := page.path()
	q := query.Query[[]domain.Product]{
		Client:   c.http,
		Registry: c.registry,
		Key:      path,
		Path:     path,
		Provides: func(prods []domain.Product) []cache.Tag {
			tags := []cache.Tag{cache.Sentinel(TagType, cache.IDList)}
			for _, p := range prods {
				tags = append(tags, cache.Entity(TagType, p.ID))
			}
			return tags
		},
	}
	return q.Subscribe(ctx, onChange)
}

// Subscribe caches a single product under its entity tag.
func (c *Client) Subscribe(ctx context.Context, id int64, onChange func(domain.Product)) (*cache.Subscription, domain.Product, error) {
	path := fmt.Sprintf("products/%d", id)
	q := query.Query[domain.Product]{
		Client:   c.http,
		Registry: c.registry,
		Key:      path,
		Path:     path,
		Provides: func(p domain.Product) []cache.Tag {
			return []cache.Tag{cache.Entity(TagType, p.ID)}
		},
	}
	return q.Subscribe(ctx, onChange)
}

// Get fetches one product without touching the cache.
func (c *Client) Get(ctx context.Context, id int64) (domain.Product, error) {
	var p domain.Product
	err := c.http.Get(ctx, fmt.Sprintf("products/%d", id), &p)
	return p, err
}

// Input carries the product form fields for create and update.
type Input struct {
	ID            int64            `json:"-"`
	Name          string           `json:"name"`
	SKU           string           `json:"sku"`
	Description   string           `json:"description,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	ComparePrice  *decimal.Decimal `json:"comparePrice,omitempty"`
	StockQuantity int              `json:"stockQuantity"`
	TrackQuantity bool             `json:"trackQuantity"`
	IsActive      bool             `json:"isActive"`
	IsFeatured    bool             `json:"isFeatured"`
	Weight        string           `json:"weight,omitempty"`
	Dimensions    string           `json:"dimensions,omitempty"`
	Tags          string           `json:"tags,omitempty"`
	CategoryID    *int64           `json:"categoryId,omitempty"`
	// RemovedImageIDs lists images the edit form marked for removal.
	RemovedImageIDs []int64 `json:"removedImageIds,omitempty"`
}

// mutationTags invalidates the product entity and list, the dashboard
// counters, and the category summary/tree sentinels because the denormalized
// per-category product counts are server-computed.
func mutationTags(id *int64) []cache.Tag {
	tags := []cache.Tag{
		cache.Sentinel(TagType, cache.IDList),
		cache.Sentinel("Category", cache.IDSummary),
		cache.Sentinel("Category", cache.IDTree),
		DashboardTag,
	}
	if id != nil {
		tags = append(tags, cache.Entity(TagType, *id))
	}
	return tags
}

// Create adds a product to the catalog.
func (c *Client) Create(ctx context.Context, in Input) (domain.Product, error) {
	m := query.Mutation[Input, domain.Product]{
		Client:   c.http,
		Registry: c.registry,
		Method:   http.MethodPost,
		Path:     func(Input) string { return "products" },
		Body:     func(in Input) any { return in },
		Invalidates: func(Input, json.RawMessage) []cache.Tag {
			return mutationTags(nil)
		},
	}
	return m.Do(ctx, in)
}

// Update rewrites a product.
func (c *Client) Update(ctx context.Context, in Input) (domain.Product, error) {
	m := query.Mutation[Input, domain.Product]{
		Client:   c.http,
		Registry: c.registry,
		Method:   http.MethodPut,
		Path:     func(in Input) string { return fmt.Sprintf("products/%d", in.ID) },
		Body:     func(in Input) any { return in },
		Invalidates: func(in Input, _ json.RawMessage) []cache.Tag {
			return mutationTags(&in.ID)
		},
	}
	return m.Do(ctx, in)
}

// Delete removes a product.
func (c *Client) Delete(ctx context.Context, id int64) error {
	m := query.Mutation[int64, struct{}]{
		Client:   c.http,
		Registry: c.registry,
		Method:   http.MethodDelete,
		Path:     func(id int64) string { return fmt.Sprintf("products/%d", id) },
		Invalidates: func(id int64, _ json.RawMessage) []cache.Tag {
			return mutationTags(&id)
		},
	}
	_, err := m.Do(ctx, id)
	return err
}

// UploadImage attaches an image file to a product as multipart form data.
// The Image/AltText/IsPrimary keys match the server's binding names.
func (c *Client) UploadImage(ctx context.Context, productID int64, filename string, contents io.Reader, altText string, primary bool) (domain.Product, error) {
	form := transport.NewForm().
		Field("AltText", altText).
		Field("IsPrimary", fmt.Sprintf("%t", primary)).
		File("Image", filename, contents)

	var updated domain.Product
	path := fmt.Sprintf("products/%d/images", productID)
	if err := c.http.Upload(ctx, http.MethodPost, path, form, &updated); err != nil {
		return domain.Product{}, err
	}
	c.registry.Invalidate(ctx, []cache.Tag{
		cache.Entity(TagType, productID),
		cache.Sentinel(TagType, cache.IDList),
	})
	return updated, nil
}
