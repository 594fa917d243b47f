package cache

import (
	"context"
	"errors"
	"io"
	"log"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

type countingFetch struct {
	calls atomic.Int64
	data  atomic.Value
	tags  []Tag
	err   error
}

func newCountingFetch(data string, tags ...Tag) *countingFetch {
	f := &countingFetch{tags: tags}
	f.data.Store(data)
	return f
}

func (f *countingFetch) fn(context.Context) ([]byte, []Tag, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, nil, f.err
	}
	return []byte(f.data.Load().(string)), f.tags, nil
}

func TestSubscribeFetchesOnceAndReusesCache(t *testing.T) {
	reg := NewRegistry(time.Minute, testLogger())
	fetch := newCountingFetch(`{"v":1}`, Sentinel("Product", IDList))

	sub1, data, err := reg.Subscribe(context.Background(), "products", fetch.fn, nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"v":1}`, string(data))
	defer sub1.Cancel()

	sub2, data, err := reg.Subscribe(context.Background(), "products", fetch.fn, nil)
	require.NoError(t, err)
	require.JSONEq(t, `{"v":1}`, string(data))
	defer sub2.Cancel()

	require.EqualValues(t, 1, fetch.calls.Load())
}

func TestInvalidateRefetchesSubscribedEntries(t *testing.T) {
	reg := NewRegistry(time.Minute, testLogger())
	fetch := newCountingFetch(`{"v":1}`, Sentinel("Category", IDTree), Entity("Category", 1))

	var notified atomic.Int64
	sub, _, err := reg.Subscribe(context.Background(), "categories/tree", fetch.fn, func([]byte) {
		notified.Add(1)
	})
	require.NoError(t, err)
	defer sub.Cancel()

	fetch.data.Store(`{"v":2}`)
	reg.Invalidate(context.Background(), []Tag{Entity("Category", 1)})

	require.EqualValues(t, 2, fetch.calls.Load())
	require.EqualValues(t, 1, notified.Load())

	data, stale, ok := reg.Snapshot("categories/tree")
	require.True(t, ok)
	require.False(t, stale)
	require.JSONEq(t, `{"v":2}`, string(data))
}

func TestInvalidateIgnoresDisjointTags(t *testing.T) {
	reg := NewRegistry(time.Minute, testLogger())
	fetch := newCountingFetch(`[]`, Sentinel("Banner", IDList))

	sub, _, err := reg.Subscribe(context.Background(), "banners", fetch.fn, nil)
	require.NoError(t, err)
	defer sub.Cancel()

	reg.Invalidate(context.Background(), []Tag{Sentinel("Product", IDList)})
	require.EqualValues(t, 1, fetch.calls.Load())
}

func TestNotifySuppressedWhenPayloadUnchanged(t *testing.T) {
	reg := NewRegistry(time.Minute, testLogger())
	fetch := newCountingFetch(`{"v":1}`, Sentinel("Order", IDList))

	var notified atomic.Int64
	sub, _, err := reg.Subscribe(context.Background(), "orders", fetch.fn, func([]byte) {
		notified.Add(1)
	})
	require.NoError(t, err)
	defer sub.Cancel()

	// Same payload again: the entry re-fetches but subscribers stay quiet.
	reg.Invalidate(context.Background(), []Tag{Sentinel("Order", IDList)})

	require.EqualValues(t, 2, fetch.calls.Load())
	require.EqualValues(t, 0, notified.Load())
}

func TestStaleEntryWithoutSubscribersRefetchesLazily(t *testing.T) {
	reg := NewRegistry(time.Minute, testLogger())
	fetch := newCountingFetch(`{"v":1}`, Sentinel("Product", IDList))

	sub, _, err := reg.Subscribe(context.Background(), "products", fetch.fn, nil)
	require.NoError(t, err)
	sub.Cancel()

	reg.Invalidate(context.Background(), []Tag{Sentinel("Product", IDList)})
	// No subscribers: marked stale, not re-fetched.
	require.EqualValues(t, 1, fetch.calls.Load())
	_, stale, ok := reg.Snapshot("products")
	require.True(t, ok)
	require.True(t, stale)

	fetch.data.Store(`{"v":2}`)
	sub2, data, err := reg.Subscribe(context.Background(), "products", fetch.fn, nil)
	require.NoError(t, err)
	defer sub2.Cancel()

	require.EqualValues(t, 2, fetch.calls.Load())
	require.JSONEq(t, `{"v":2}`, string(data))
}

func TestFailedRefetchLeavesEntryStale(t *testing.T) {
	reg := NewRegistry(time.Minute, testLogger())
	fetch := newCountingFetch(`{"v":1}`, Sentinel("Product", IDList))

	var notified atomic.Int64
	sub, _, err := reg.Subscribe(context.Background(), "products", fetch.fn, func([]byte) {
		notified.Add(1)
	})
	require.NoError(t, err)
	defer sub.Cancel()

	fetch.err = errors.New("boom")
	reg.Invalidate(context.Background(), []Tag{Sentinel("Product", IDList)})

	require.EqualValues(t, 0, notified.Load())
	_, stale, ok := reg.Snapshot("products")
	require.True(t, ok)
	require.True(t, stale)
}

func TestEntryEvictedAfterRetention(t *testing.T) {
	reg := NewRegistry(20*time.Millisecond, testLogger())
	fetch := newCountingFetch(`[]`, Sentinel("User", IDList))

	sub, _, err := reg.Subscribe(context.Background(), "users", fetch.fn, nil)
	require.NoError(t, err)
	require.Equal(t, 1, reg.Len())

	sub.Cancel()
	require.Eventually(t, func() bool { return reg.Len() == 0 }, time.Second, 5*time.Millisecond)
}

func TestResubscribeCancelsEviction(t *testing.T) {
	reg := NewRegistry(30*time.Millisecond, testLogger())
	fetch := newCountingFetch(`[]`, Sentinel("User", IDList))

	sub, _, err := reg.Subscribe(context.Background(), "users", fetch.fn, nil)
	require.NoError(t, err)
	sub.Cancel()

	// Remount inside the retention window keeps the entry (and the cached
	// payload) alive.
	sub2, _, err := reg.Subscribe(context.Background(), "users", fetch.fn, nil)
	require.NoError(t, err)
	defer sub2.Cancel()
	require.EqualValues(t, 1, fetch.calls.Load())

	time.Sleep(60 * time.Millisecond)
	require.Equal(t, 1, reg.Len())
}
