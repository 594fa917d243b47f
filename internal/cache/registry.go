package cache

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// FetchFunc loads a query's payload from the server and reports the tags the
// result provides. Tags are computed per result because list payloads provide
// one tag per contained entity.
type FetchFunc func(ctx context.Context) (data []byte, tags []Tag, err error)

// NotifyFunc receives the new payload after a background re-fetch changed it.
type NotifyFunc func(data []byte)

// Registry is the shared client-side cache. Query results live in it keyed by
// request path, annotated with the tags they provide; mutations publish
// invalidated tag sets through Invalidate. Entries with live subscribers are
// re-fetched immediately on invalidation, others are merely marked stale and
// re-fetched by the next Subscribe. An entry whose last subscriber leaves is
// evicted after the retention window.
type Registry struct {
	mu        sync.Mutex
	entries   map[string]*entry
	retention time.Duration
	logger    *log.Logger
	nextSub   int64
}

type entry struct {
	key         string
	fetch       FetchFunc
	tags        Set
	data        []byte
	sum         uint64
	hasData     bool
	stale       bool
	subscribers map[int64]NotifyFunc
	evict       *time.Timer
}

// NewRegistry builds a Registry. Entries without subscribers survive for
// retention before being evicted.
func NewRegistry(retention time.Duration, logger *log.Logger) *Registry {
	return &Registry{
		entries:   make(map[string]*entry),
		retention: retention,
		logger:    logger,
	}
}

// Subscription represents one consumer's interest in a cached query.
type Subscription struct {
	reg *Registry
	key string
	id  int64
}

// Cancel withdraws the subscription. The cache entry stays around for the
// retention window so a quickly remounted view can reuse it.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.reg.unsubscribe(s.key, s.id)
}

// Subscribe registers interest in the query identified by key. If the entry
// is absent or stale the fetch runs before returning; otherwise the cached
// payload is served as-is. notify may be nil for consumers that only poll.
func (r *Registry) Subscribe(ctx context.Context, key string, fetch FetchFunc, notify NotifyFunc) (*Subscription, []byte, error) {
	r.mu.Lock()
	e, ok := r.entries[key]
	if !ok {
		e = &entry{
			key:         key,
			subscribers: make(map[int64]NotifyFunc),
		}
		r.entries[key] = e
	}
	// Latest fetch wins; re-fetches triggered by invalidation reuse it.
	e.fetch = fetch
	if e.evict != nil {
		e.evict.Stop()
		e.evict = nil
	}
	needsFetch := !e.hasData || e.stale
	r.mu.Unlock()

	if needsFetch {
		data, tags, err := fetch(ctx)
		if err != nil {
			return nil, nil, err
		}
		r.store(e, data, tags)
	}

	r.mu.Lock()
	r.nextSub++
	id := r.nextSub
	e.subscribers[id] = notify
	data := e.data
	r.mu.Unlock()

	return &Subscription{reg: r, key: key, id: id}, data, nil
}

// Invalidate publishes a mutation's invalidated tag set. Every entry whose
// provided tags intersect it is marked stale; entries with live subscribers
// are re-fetched right away and their subscribers notified if the payload
// actually changed.
func (r *Registry) Invalidate(ctx context.Context, tags []Tag) {
	r.mu.Lock()
	var refetch []*entry
	for _, e := range r.entries {
		if !e.tags.Intersects(tags) {
			continue
		}
		e.stale = true
		if len(e.subscribers) > 0 {
			refetch = append(refetch, e)
		}
	}
	r.mu.Unlock()

	for _, e := range refetch {
		r.refetch(ctx, e)
	}
}

// Snapshot returns the cached payload and staleness for key, if present.
func (r *Registry) Snapshot(key string) (data []byte, stale bool, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok || !e.hasData {
		return nil, false, false
	}
	return e.data, e.stale, true
}

// Len reports the number of live cache entries.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

func (r *Registry) refetch(ctx context.Context, e *entry) {
	r.mu.Lock()
	fetch := e.fetch
	r.mu.Unlock()

	data, tags, err := fetch(ctx)
	if err != nil {
		// Entry stays stale; the next Subscribe retries.
		r.logger.Printf("refetch %s failed: %v", e.key, err)
		return
	}

	changed, notifies := r.storeAndCollect(e, data, tags)
	if !changed {
		return
	}
	for _, notify := range notifies {
		if notify != nil {
			notify(data)
		}
	}
}

func (r *Registry) store(e *entry, data []byte, tags []Tag) {
	r.storeAndCollect(e, data, tags)
}

func (r *Registry) storeAndCollect(e *entry, data []byte, tags []Tag) (bool, []NotifyFunc) {
	sum := xxhash.Sum64(data)
	r.mu.Lock()
	changed := !e.hasData || sum != e.sum
	e.data = data
	e.sum = sum
	e.hasData = true
	e.stale = false
	e.tags = NewSet(tags...)
	notifies := make([]NotifyFunc, 0, len(e.subscribers))
	for _, n := range e.subscribers {
		notifies = append(notifies, n)
	}
	r.mu.Unlock()
	return changed, notifies
}

func (r *Registry) unsubscribe(key string, id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		return
	}
	delete(e.subscribers, id)
	if len(e.subscribers) > 0 {
		return
	}
	if r.retention <= 0 {
		delete(r.entries, key)
		return
	}
	if e.evict != nil {
		e.evict.Stop()
	}
	e.evict = time.AfterFunc(r.retention, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		cur, ok := r.entries[key]
		if ok && cur == e && len(cur.subscribers) == 0 {
			delete(r.entries, key)
		}
	})
}
