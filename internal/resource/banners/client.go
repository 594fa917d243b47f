// Package banners is the resource client for promotional banners.
package banners

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"admindash-sync/internal/cache"
	"admindash-sync/internal/domain"
	"admindash-sync/internal/query"
	"admindash-sync/internal/transport"
)

const TagType = "Banner"

type Client struct {
	http     *transport.Client
	registry *cache.Registry
}

func New(http *transport.Client, registry *cache.Registry) *Client {
	return &Client{http: http, registry: registry}
}

func mutationTags(id *int64) []cache.Tag {
	tags := []cache.Tag{
		cache.Sentinel(TagType, cache.IDList),
		cache.Sentinel(TagType, cache.IDActive),
		cache.Sentinel("Dashboard", cache.IDSummary),
	}
	if id != nil {
		tags = append(tags, cache.Entity(TagType, *id))
	}
	return tags
}

// SubscribeList caches the banner collection under LIST plus per-entity tags.
func (c *Client) SubscribeList(ctx context.Context, onChange func([]domain.Banner)) (*cache.Subscription, []domain.Banner, error) {
	q := query.Query[[]domain.Banner]{
		Client:   c.http,
		Registry: c.registry,
		Key:      "banners",
		Path:     "banners",
		Provides: func(banners []domain.Banner) []cache.Tag {
			tags := []cache.Tag{cache.Sentinel(TagType, cache.IDList)}
			for _, b := range banners {
				tags = append(tags, cache.Entity(TagType, b.ID))
			}
			return tags
		},
	}
	return q.Subscribe(ctx, onChange)
}

// Subscribe caches a single banner under its entity tag.
func (c *Client) Subscribe(ctx context.Context, id int64, onChange func(domain.Banner)) (*cache.Subscription, domain.Banner, error) {
	path := fmt.Sprintf("banners/%d", id)
	q := query.Query[domain.Banner]{
		Client:   c.http,
		Registry: c.registry,
		Key:      path,
		Path:     path,
		Provides: func(b domain.Banner) []cache.Tag {
			return []cache.Tag{cache.Entity(TagType, b.ID)}
		},
	}
	return q.Subscribe(ctx, onChange)
}

// Input carries the banner form fields. The banner image rides along as a
// multipart part under the Image key on create.
type Input struct {
	ID          int64
	Title       string
	Description string
	LinkURL     string
	ButtonText  string
	Position    domain.BannerPosition
	IsActive    bool
	SortOrder   int
	StartDate   *time.Time
	EndDate     *time.Time
}

func (in Input) form() *transport.Form {
	form := transport.NewForm().
		Field("Title", in.Title).
		Field("Description", in.Description).
		Field("LinkUrl", in.LinkURL).
		Field("ButtonText", in.ButtonText).
		Field("Position", string(in.Position)).
		Field("IsActive", strconv.FormatBool(in.IsActive)).
		Field("SortOrder", strconv.Itoa(in.SortOrder))
	if in.StartDate != nil {
		form.Field("StartDate", in.StartDate.Format(time.RFC3339))
	}
	if in.EndDate != nil {
		form.Field("EndDate", in.EndDate.Format(time.RFC3339))
	}
	return form
}

// Create posts the banner as multipart form data with its image file.
func (c *Client) Create(ctx context.Context, in Input, imageFilename string, image io.Reader) (domain.Banner, error) {
	form := in.form()
	if image != nil {
		form.File("Image", imageFilename, image)
	}
	var created domain.Banner
	if err := c.http.Upload(ctx, http.MethodPost, "banners", form, &created); err != nil {
		return domain.Banner{}, err
	}
	c.registry.Invalidate(ctx, mutationTags(nil))
	return created, nil
}

// Update rewrites a banner; a nil image keeps the current one.
func (c *Client) Update(ctx context.Context, in Input, imageFilename string, image io.Reader) (domain.Banner, error) {
	form := in.form()
	if image != nil {
		form.File("Image", imageFilename, image)
	}
	var updated domain.Banner
	path := fmt.Sprintf("banners/%d", in.ID)
	if err := c.http.Upload(ctx, http.MethodPut, path, form, &updated); err != nil {
		return domain.Banner{}, err
	}
	c.registry.Invalidate(ctx, mutationTags(&in.ID))
	return updated, nil
}

// Delete removes a banner.
func (c *Client) Delete(ctx context.Context, id int64) error {
	m := query.Mutation[int64, struct{}]{
		Client:   c.http,
		Registry: c.registry,
		Method:   http.MethodDelete,
		Path:     func(id int64) string { return fmt.Sprintf("banners/%d", id) },
		Invalidates: func(id int64, _ json.RawMessage) []cache.Tag {
			return mutationTags(&id)
		},
	}
	_, err := m.Do(ctx, id)
	return err
}
