// Package query is the declarative glue between resource clients, the
// transport and the cache registry. A resource operation is declared as a
// Query (read, cached under the tags its result provides) or a Mutation
// (write, publishes an invalidated tag set on success), not written as an
// imperative request.
package query

import (
	"context"
	"encoding/json"
	"fmt"

	"admindash-sync/internal/cache"
	"admindash-sync/internal/transport"
)

// Query declares a cacheable read operation returning T.
type Query[T any] struct {
	Client   *transport.Client
	Registry *cache.Registry
	// Key identifies the cache entry; by convention the request path
	// including query parameters.
	Key string
	// Path is the relative request path.
	Path string
	// Provides maps the decoded result to the tags it provides.
	Provides func(T) []cache.Tag
}

// Fetch performs the read directly, bypassing the cache.
func (q Query[T]) Fetch(ctx context.Context) (T, error) {
	var out T
	err := q.Client.Get(ctx, q.Path, &out)
	return out, err
}

// Subscribe registers interest in the query through the registry, fetching if
// the entry is absent or stale. onChange, if non-nil, fires whenever a later
// invalidation-driven re-fetch changes the payload.
func (q Query[T]) Subscribe(ctx context.Context, onChange func(T)) (*cache.Subscription, T, error) {
	var zero T

	var notify cache.NotifyFunc
	if onChange != nil {
		notify = func(data []byte) {
			var out T
			if err := json.Unmarshal(data, &out); err != nil {
				return
			}
			onChange(out)
		}
	}

	sub, data, err := q.Registry.Subscribe(ctx, q.Key, q.fetchRaw, notify)
	if err != nil {
		return nil, zero, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		sub.Cancel()
		return nil, zero, fmt.Errorf("decode cached %s: %w", q.Key, err)
	}
	return sub, out, nil
}

func (q Query[T]) fetchRaw(ctx context.Context) ([]byte, []cache.Tag, error) {
	var raw json.RawMessage
	if err := q.Client.Get(ctx, q.Path, &raw); err != nil {
		return nil, nil, err
	}
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", q.Key, err)
	}
	var tags []cache.Tag
	if q.Provides != nil {
		tags = q.Provides(out)
	}
	return raw, tags, nil
}

// Mutation declares a write operation taking arguments A and returning R.
// R may be struct{} for endpoints with empty responses.
type Mutation[A, R any] struct {
	Client   *transport.Client
	Registry *cache.Registry
	Method   string
	// Path builds the request path from the arguments.
	Path func(A) string
	// Body builds the JSON request body; nil means no body.
	Body func(A) any
	// Invalidates maps the arguments and raw response to the invalidated tag
	// set. The raw response is passed so tags depending on response-only data
	// (a deleted category's parent id) can be derived from it.
	Invalidates func(A, json.RawMessage) []cache.Tag
}

// Do performs the mutation and, on success, publishes its invalidated tags.
func (m Mutation[A, R]) Do(ctx context.Context, args A) (R, error) {
	var zero R
	var body any
	if m.Body != nil {
		body = m.Body(args)
	}
	var raw json.RawMessage
	if err := m.Client.Do(ctx, m.Method, m.Path(args), body, &raw); err != nil {
		return zero, err
	}
	var out R
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return zero, fmt.Errorf("decode %s %s response: %w", m.Method, m.Path(args), err)
		}
	}
	if m.Invalidates != nil {
		m.Registry.Invalidate(ctx, m.Invalidates(args, raw))
	}
	return out, nil
}
