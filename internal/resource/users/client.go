// Package users is the resource client for user administration. User ids are
// opaque strings, so entity tags use the raw id rather than a numeric form.
package users

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"admindash-sync/internal/cache"
	"admindash-sync/internal/domain"
	"admindash-sync/internal/query"
	"admindash-sync/internal/transport"
)

const TagType = "User"

type Client struct {
	http     *transport.Client
	registry *cache.Registry
}

func New(http *transport.Client, registry *cache.Registry) *Client {
	return &Client{http: http, registry: registry}
}

func userPath(id string) string {
	return "users/" + url.PathEscape(id)
}

func mutationTags(id string) []cache.Tag {
	return []cache.Tag{
		cache.Sentinel(TagType, id),
		cache.Sentinel(TagType, cache.IDList),
		cache.Sentinel("Dashboard", cache.IDSummary),
	}
}

// SubscribeList caches the user collection under LIST plus per-entity tags.
func (c *Client) SubscribeList(ctx context.Context, onChange func([]domain.ApplicationUser)) (*cache.Subscription, []domain.ApplicationUser, error) {
	q := query.Query[[]domain.ApplicationUser]{
		Client:   c.http,
		Registry: c.registry,
		Key:      "users",
		Path:     "users",
		Provides: func(us []domain.ApplicationUser) []cache.Tag {
			tags := []cache.Tag{cache.Sentinel(TagType, cache.IDList)}
			for _, u := range us {
				tags = append(tags, cache.Sentinel(TagType, u.ID))
			}
			return tags
		},
	}
	return q.Subscribe(ctx, onChange)
}

// Get fetches one user without touching the cache.
func (c *Client) Get(ctx context.Context, id string) (domain.ApplicationUser, error) {
	var u domain.ApplicationUser
	err := c.http.Get(ctx, userPath(id), &u)
	return u, err
}

// Delete removes a user account.
func (c *Client) Delete(ctx context.Context, id string) error {
	m := query.Mutation[string, struct{}]{
		Client:   c.http,
		Registry: c.registry,
		Method:   http.MethodDelete,
		Path:     userPath,
		Invalidates: func(id string, _ json.RawMessage) []cache.Tag {
			return mutationTags(id)
		},
	}
	_, err := m.Do(ctx, id)
	return err
}

// AssignRoles replaces a user's role list.
func (c *Client) AssignRoles(ctx context.Context, id string, roles []string) (domain.ApplicationUser, error) {
	type args struct {
		id    string
		roles []string
	}
	m := query.Mutation[args, domain.ApplicationUser]{
		Client:   c.http,
		Registry: c.registry,
		Method:   http.MethodPost,
		Path:     func(a args) string { return userPath(a.id) + "/roles" },
		Body: func(a args) any {
			return map[string][]string{"roles": a.roles}
		},
		Invalidates: func(a args, _ json.RawMessage) []cache.Tag {
			return mutationTags(a.id)
		},
	}
	return m.Do(ctx, args{id: id, roles: roles})
}
