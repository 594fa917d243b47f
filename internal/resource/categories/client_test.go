package categories

import (
	"context"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"admindash-sync/internal/cache"
	"admindash-sync/internal/transport"
)

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func newTestSetup(t *testing.T, handler http.Handler) (*Client, *cache.Registry) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	httpClient, err := transport.New(transport.Options{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil, discardLogger())
	if err != nil {
		t.Fatalf("new transport: %v", err)
	}
	t.Cleanup(func() { _ = httpClient.Close() })

	reg := cache.NewRegistry(time.Minute, discardLogger())
	return New(httpClient, reg, discardLogger()), reg
}

func hasTag(tags []cache.Tag, want cache.Tag) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}

func TestMutationTagsAlwaysCoverCollectionSentinels(t *testing.T) {
	for _, parent := range []*int64{nil, ptr(int64(7))} {
		tags := MutationTags(parent)
		for _, want := range []cache.Tag{
			cache.Sentinel(TagType, cache.IDList),
			cache.Sentinel(TagType, cache.IDSummary),
			cache.Sentinel(TagType, cache.IDTree),
			cache.Sentinel(TagType, cache.IDActive),
			cache.Sentinel("Dashboard", cache.IDSummary),
		} {
			if !hasTag(tags, want) {
				t.Fatalf("parent=%v: missing %v in %v", parent, want, tags)
			}
		}
	}
}

func TestMutationTagsIncludeParentSliceWhenKnown(t *testing.T) {
	parent := int64(3)
	tags := MutationTags(&parent)

	if !hasTag(tags, cache.Entity(TagType, 3)) {
		t.Fatalf("missing parent entity tag in %v", tags)
	}
	if !hasTag(tags, cache.ChildrenOf(TagType, 3)) {
		t.Fatalf("missing CHILDREN_3 tag in %v", tags)
	}

	if noParent := MutationTags(nil); hasTag(noParent, cache.ChildrenOf(TagType, 3)) {
		t.Fatalf("unexpected parent tag without parent id: %v", noParent)
	}
}

func TestDeleteInvalidatesParentFromResponse(t *testing.T) {
	mux := http.NewServeMux()
	treeFetches := 0
	childFetches := 0
	mux.HandleFunc("GET /categories/tree", func(w http.ResponseWriter, r *http.Request) {
		treeFetches++
		w.Write([]byte(`[{"id":3,"name":"Electronics","children":[]}]`))
	})
	mux.HandleFunc("GET /categories/3/children", func(w http.ResponseWriter, r *http.Request) {
		childFetches++
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("DELETE /categories/5", func(w http.ResponseWriter, r *http.Request) {
		// Server echoes the deleted category, parent id included.
		w.Write([]byte(`{"id":5,"name":"Phones","parentId":3}`))
	})

	client, _ := newTestSetup(t, mux)
	ctx := context.Background()

	treeSub, _, err := client.SubscribeTree(ctx, nil)
	if err != nil {
		t.Fatalf("subscribe tree: %v", err)
	}
	defer treeSub.Cancel()
	childSub, _, err := client.SubscribeChildren(ctx, 3, nil)
	if err != nil {
		t.Fatalf("subscribe children: %v", err)
	}
	defer childSub.Cancel()

	if err := client.Delete(ctx, 5); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if treeFetches != 2 {
		t.Fatalf("tree fetched %d times, want 2", treeFetches)
	}
	if childFetches != 2 {
		t.Fatalf("children fetched %d times, want 2", childFetches)
	}
}

func TestDeleteFallsBackToCoarseInvalidation(t *testing.T) {
	mux := http.NewServeMux()
	treeFetches := 0
	childFetches := 0
	mux.HandleFunc("GET /categories/tree", func(w http.ResponseWriter, r *http.Request) {
		treeFetches++
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("GET /categories/3/children", func(w http.ResponseWriter, r *http.Request) {
		childFetches++
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("DELETE /categories/5", func(w http.ResponseWriter, r *http.Request) {
		// No parent id in the response.
		w.WriteHeader(http.StatusNoContent)
	})

	client, _ := newTestSetup(t, mux)
	ctx := context.Background()

	treeSub, _, err := client.SubscribeTree(ctx, nil)
	if err != nil {
		t.Fatalf("subscribe tree: %v", err)
	}
	defer treeSub.Cancel()
	childSub, _, err := client.SubscribeChildren(ctx, 3, nil)
	if err != nil {
		t.Fatalf("subscribe children: %v", err)
	}
	defer childSub.Cancel()

	if err := client.Delete(ctx, 5); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Coarse fallback: the TREE sentinel still goes stale...
	if treeFetches != 2 {
		t.Fatalf("tree fetched %d times, want 2", treeFetches)
	}
	// ...but the per-parent slice is not touched.
	if childFetches != 1 {
		t.Fatalf("children fetched %d times, want 1", childFetches)
	}
}

func TestCreateSendsMultipartAndInvalidatesParent(t *testing.T) {
	mux := http.NewServeMux()
	var gotName, gotParent string
	summaryFetches := 0
	mux.HandleFunc("GET /categories/summary", func(w http.ResponseWriter, r *http.Request) {
		summaryFetches++
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("POST /categories", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		gotName = r.FormValue("Name")
		gotParent = r.FormValue("ParentId")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":9,"name":"Phones","parentId":3}`))
	})

	client, _ := newTestSetup(t, mux)
	ctx := context.Background()

	sub, _, err := client.SubscribeSummary(ctx, nil)
	if err != nil {
		t.Fatalf("subscribe summary: %v", err)
	}
	defer sub.Cancel()

	created, err := client.Create(ctx, CreateInput{Name: "Phones", ParentID: ptr(int64(3)), IsActive: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != 9 {
		t.Fatalf("created id = %d", created.ID)
	}
	if gotName != "Phones" || gotParent != "3" {
		t.Fatalf("form fields Name=%q ParentId=%q", gotName, gotParent)
	}
	if summaryFetches != 2 {
		t.Fatalf("summary fetched %d times, want 2", summaryFetches)
	}
}

func TestToggleStatusDerivesParentFromResponse(t *testing.T) {
	mux := http.NewServeMux()
	childFetches := 0
	mux.HandleFunc("GET /categories/4/children", func(w http.ResponseWriter, r *http.Request) {
		childFetches++
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("PUT /categories/8/toggle-status", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":8,"name":"Phones","isActive":false,"parentId":4}`))
	})

	client, _ := newTestSetup(t, mux)
	ctx := context.Background()

	sub, _, err := client.SubscribeChildren(ctx, 4, nil)
	if err != nil {
		t.Fatalf("subscribe children: %v", err)
	}
	defer sub.Cancel()

	updated, err := client.ToggleStatus(ctx, 8)
	if err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if updated.IsActive {
		t.Fatal("expected toggled off")
	}
	if childFetches != 2 {
		t.Fatalf("children fetched %d times, want 2", childFetches)
	}
}

func ptr[T any](v T) *T { return &v }
