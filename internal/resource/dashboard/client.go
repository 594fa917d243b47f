// Package dashboard is the resource client for the aggregate counters.
// Several other families invalidate the SUMMARY tag on mutations that move a
// counter, so a mounted dashboard stays current without polling.
package dashboard

import (
	"context"

	"admindash-sync/internal/cache"
	"admindash-sync/internal/domain"
	"admindash-sync/internal/query"
	"admindash-sync/internal/transport"
)

const TagType = "Dashboard"

type Client struct {
	http     *transport.Client
	registry *cache.Registry
}

func New(http *transport.Client, registry *cache.Registry) *Client {
	return &Client{http: http, registry: registry}
}

// SubscribeStats caches the landing-page counters under SUMMARY.
func (c *Client) SubscribeStats(ctx context.Context, onChange func(domain.DashboardStats)) (*cache.Subscription, domain.DashboardStats, error) {
	q := query.Query[domain.DashboardStats]{
		Client:   c.http,
		Registry: c.registry,
		Key:      "dashboard/stats",
		Path:     "dashboard/stats",
		Provides: func(domain.DashboardStats) []cache.Tag {
			return []cache.Tag{cache.Sentinel(TagType, cache.IDSummary)}
		},
	}
	return q.Subscribe(ctx, onChange)
}
