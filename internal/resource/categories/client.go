// Package categories is the resource client for the category hierarchy. Its
// tag graph is the densest one: besides per-entity and LIST tags it uses the
// TREE, SUMMARY, ACTIVE and per-parent CHILDREN_<id> sentinels so a single
// hierarchy edit invalidates every affected slice of the tree.
package categories

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"

	"admindash-sync/internal/cache"
	"admindash-sync/internal/domain"
	"admindash-sync/internal/query"
	"admindash-sync/internal/transport"

	"github.com/tidwall/gjson"
)

// TagType is the tag family shared by every category tag.
const TagType = "Category"

type Client struct {
	http     *transport.Client
	registry *cache.Registry
	logger   *log.Logger
}

func New(http *transport.Client, registry *cache.Registry, logger *log.Logger) *Client {
	return &Client{http: http, registry: registry, logger: logger}
}

// MutationTags is the invalidation set shared by every category mutation:
// coarse-over-precise, the full collection sentinels always go stale, plus
// the parent's own entry and child list when the parent is known. This keeps
// the tree view fresh after any single-level edit at the cost of some
// over-fetching.
func MutationTags(parentID *int64) []cache.Tag {
	tags := []cache.Tag{
		cache.Sentinel(TagType, cache.IDList),
		cache.Sentinel(TagType, cache.IDSummary),
		cache.Sentinel(TagType, cache.IDTree),
		cache.Sentinel(TagType, cache.IDActive),
		cache.Sentinel(TagType, cache.IDParentCategory),
		cache.Sentinel("Dashboard", cache.IDSummary),
	}
	if parentID != nil {
		tags = append(tags,
			cache.Entity(TagType, *parentID),
			cache.ChildrenOf(TagType, *parentID),
		)
	}
	return tags
}

func listTags(sentinel string) func([]domain.Category) []cache.Tag {
	return func(cats []domain.Category) []cache.Tag {
		tags := []cache.Tag{cache.Sentinel(TagType, sentinel)}
		for _, c := range cats {
			tags = append(tags, cache.Entity(TagType, c.ID))
		}
		return tags
	}
}

func treeTags(cats []domain.Category) []cache.Tag {
	tags := []cache.Tag{cache.Sentinel(TagType, cache.IDTree)}
	var walk func([]domain.Category)
	walk = func(nodes []domain.Category) {
		for _, n := range nodes {
			tags = append(tags, cache.Entity(TagType, n.ID))
			walk(n.Children)
		}
	}
	walk(cats)
	return tags
}

// SubscribeList caches the flat category collection under LIST.
func (c *Client) SubscribeList(ctx context.Context, onChange func([]domain.Category)) (*cache.Subscription, []domain.Category, error) {
	q := query.Query[[]domain.Category]{
		Client:   c.http,
		Registry: c.registry,
		Key:      "categories",
		Path:     "categories",
		Provides: listTags(cache.IDList),
	}
	return q.Subscribe(ctx, onChange)
}

// SubscribeTree caches the nested hierarchy under TREE plus every contained
// entity id.
func (c *Client) SubscribeTree(ctx context.Context, onChange func([]domain.Category)) (*cache.Subscription, []domain.Category, error) {
	q := query.Query[[]domain.Category]{
		Client:   c.http,
		Registry: c.registry,
		Key:      "categories/tree",
		Path:     "categories/tree",
		Provides: treeTags,
	}
	return q.Subscribe(ctx, onChange)
}

// SubscribeSummary caches the reduced dropdown shape under SUMMARY and
// PARENT_CATEGORY, the sentinel parent pickers subscribe through.
func (c *Client) SubscribeSummary(ctx context.Context, onChange func([]domain.CategorySummary)) (*cache.Subscription, []domain.CategorySummary, error) {
	q := query.Query[[]domain.CategorySummary]{
		Client:   c.http,
		Registry: c.registry,
		Key:      "categories/summary",
		Path:     "categories/summary",
		Provides: func(sums []domain.CategorySummary) []cache.Tag {
			tags := []cache.Tag{
				cache.Sentinel(TagType, cache.IDSummary),
				cache.Sentinel(TagType, cache.IDParentCategory),
			}
			for _, s := range sums {
				tags = append(tags, cache.Entity(TagType, s.ID))
			}
			return tags
		},
	}
	return q.Subscribe(ctx, onChange)
}

// SubscribeActive caches the active-only collection under ACTIVE.
func (c *Client) SubscribeActive(ctx context.Context, onChange func([]domain.Category)) (*cache.Subscription, []domain.Category, error) {
	q := query.Query[[]domain.Category]{
		Client:   c.http,
		Registry: c.registry,
		Key:      "categories/active",
		Path:     "categories/active",
		Provides: listTags(cache.IDActive),
	}
	return q.Subscribe(ctx, onChange)
}

// SubscribeChildren caches one parent's child list under its CHILDREN_<id>
// composite tag.
func (c *Client) SubscribeChildren(ctx context.Context, parentID int64, onChange func([]domain.Category)) (*cache.Subscription, []domain.Category, error) {
	path := fmt.Sprintf("categories/%d/children", parentID)
	q := query.Query[[]domain.Category]{
		Client:   c.http,
		Registry: c.registry,
		Key:      path,
		Path:     path,
		Provides: func(cats []domain.Category) []cache.Tag {
			tags := []cache.Tag{cache.ChildrenOf(TagType, parentID)}
			for _, child := range cats {
				tags = append(tags, cache.Entity(TagType, child.ID))
			}
			return tags
		},
	}
	return q.Subscribe(ctx, onChange)
}

// Subscribe caches a single category under its entity tag.
func (c *Client) Subscribe(ctx context.Context, id int64, onChange func(domain.Category)) (*cache.Subscription, domain.Category, error) {
	path := fmt.Sprintf("categories/%d", id)
	q := query.Query[domain.Category]{
		Client:   c.http,
		Registry: c.registry,
		Key:      path,
		Path:     path,
		Provides: func(cat domain.Category) []cache.Tag {
			return []cache.Tag{cache.Entity(TagType, cat.ID)}
		},
	}
	return q.Subscribe(ctx, onChange)
}

// Get fetches one category without touching the cache.
func (c *Client) Get(ctx context.Context, id int64) (domain.Category, error) {
	var cat domain.Category
	err := c.http.Get(ctx, fmt.Sprintf("categories/%d", id), &cat)
	return cat, err
}

// CreateInput carries the category form fields. Image files ride along as
// multipart parts under the Images key.
type CreateInput struct {
	Name        string
	Description string
	ParentID    *int64
	SortOrder   int
	IsActive    bool
	Images      []ImageFile
}

type ImageFile struct {
	Filename string
	Contents io.Reader
}

// Create posts the category as multipart form data (the endpoint accepts
// image uploads) and invalidates the collection sentinels plus the parent's
// slice.
func (c *Client) Create(ctx context.Context, in CreateInput) (domain.Category, error) {
	form := transport.NewForm().
		Field("Name", in.Name).
		Field("Description", in.Description).
		Field("SortOrder", strconv.Itoa(in.SortOrder)).
		Field("IsActive", strconv.FormatBool(in.IsActive))
	if in.ParentID != nil {
		form.Field("ParentId", strconv.FormatInt(*in.ParentID, 10))
	}
	for _, img := range in.Images {
		form.File("Images", img.Filename, img.Contents)
	}

	var created domain.Category
	if err := c.http.Upload(ctx, http.MethodPost, "categories", form, &created); err != nil {
		return domain.Category{}, err
	}
	c.registry.Invalidate(ctx, MutationTags(in.ParentID))
	return created, nil
}

// UpdateInput carries the editable category fields.
type UpdateInput struct {
	ID          int64    `json:"-"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	ParentID    *int64   `json:"parentId"`
	SortOrder   int      `json:"sortOrder"`
	IsActive    bool     `json:"isActive"`
	ImageURLs   []string `json:"imageUrls,omitempty"`
	// RemovedImageURLs lists images the edit form marked for removal.
	RemovedImageURLs []string `json:"removedImageUrls,omitempty"`
}

// Update rewrites a category and invalidates its entity tag, the collection
// sentinels and the parent's slice.
func (c *Client) Update(ctx context.Context, in UpdateInput) (domain.Category, error) {
	m := query.Mutation[UpdateInput, domain.Category]{
		Client:   c.http,
		Registry: c.registry,
		Method:   http.MethodPut,
		Path:     func(in UpdateInput) string { return fmt.Sprintf("categories/%d", in.ID) },
		Body:     func(in UpdateInput) any { return in },
		Invalidates: func(in UpdateInput, _ json.RawMessage) []cache.Tag {
			return append(MutationTags(in.ParentID), cache.Entity(TagType, in.ID))
		},
	}
	return m.Do(ctx, in)
}

// ToggleStatus flips the active flag. The parent id is only known from the
// response, so invalidation is derived from it, degrading to the coarse
// sentinels when the server omits it.
func (c *Client) ToggleStatus(ctx context.Context, id int64) (domain.Category, error) {
	m := query.Mutation[int64, domain.Category]{
		Client:   c.http,
		Registry: c.registry,
		Method:   http.MethodPut,
		Path:     func(id int64) string { return fmt.Sprintf("categories/%d/toggle-status", id) },
		Invalidates: func(id int64, resp json.RawMessage) []cache.Tag {
			return append(c.tagsFromResponse("toggle-status", id, resp), cache.Entity(TagType, id))
		},
	}
	return m.Do(ctx, id)
}

// Delete removes a category. The server is expected to echo the deleted
// entity (including parentId) so the parent's slice can be invalidated
// precisely; when it does not, invalidation degrades to the coarse
// collection sentinels and the degradation is logged.
func (c *Client) Delete(ctx context.Context, id int64) error {
	m := query.Mutation[int64, struct{}]{
		Client:   c.http,
		Registry: c.registry,
		Method:   http.MethodDelete,
		Path:     func(id int64) string { return fmt.Sprintf("categories/%d", id) },
		Invalidates: func(id int64, resp json.RawMessage) []cache.Tag {
			return append(c.tagsFromResponse("delete", id, resp), cache.Entity(TagType, id))
		},
	}
	_, err := m.Do(ctx, id)
	return err
}

// tagsFromResponse probes the mutation response for a parent id. Response
// shapes vary between a bare entity and a {category: {...}} wrapper, so both
// paths are tried.
func (c *Client) tagsFromResponse(op string, id int64, resp json.RawMessage) []cache.Tag {
	for _, path := range []string{"parentId", "category.parentId"} {
		v := gjson.GetBytes(resp, path)
		if v.Exists() && v.Type == gjson.Number {
			parent := v.Int()
			return MutationTags(&parent)
		}
	}
	c.logger.Printf("category %s %d: response omits parentId, falling back to coarse invalidation", op, id)
	return MutationTags(nil)
}
