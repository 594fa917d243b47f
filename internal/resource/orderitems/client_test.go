package orderitems

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"admindash-sync/internal/cache"
	"admindash-sync/internal/domain"
	"admindash-sync/internal/transport"

	"github.com/shopspring/decimal"
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
	return New(httpClient, reg), reg
}

func hasTag(tags []cache.Tag, want cache.Tag) bool {
	for _, tag := range tags {
		if tag == want {
			return true
		}
	}
	return false
}

// Every item mutation's invalidation set must carry the owning order and the
// order list: totals are server-recomputed and have to be re-read.
func TestMutationTagsAlwaysIncludeOwningOrder(t *testing.T) {
	itemID := int64(200)
	for _, tags := range [][]cache.Tag{
		MutationTags(100, nil),
		MutationTags(100, &itemID),
	} {
		if !hasTag(tags, cache.Entity("Order", 100)) {
			t.Fatalf("missing owning order tag in %v", tags)
		}
		if !hasTag(tags, cache.Sentinel("Order", cache.IDList)) {
			t.Fatalf("missing order list tag in %v", tags)
		}
		if !hasTag(tags, cache.Sentinel(TagType, cache.IDList)) {
			t.Fatalf("missing item list tag in %v", tags)
		}
	}
	if !hasTag(MutationTags(100, &itemID), cache.Entity(TagType, 200)) {
		t.Fatal("missing item entity tag")
	}
}

func TestSetQuantityBelowFloorIssuesNoRequest(t *testing.T) {
	calls := 0
	client, _ := newTestSetup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{}`))
	}))

	item := domain.OrderItem{ID: 200, OrderID: 100, Quantity: 1, UnitPrice: decimal.NewFromInt(5)}
	_, err := client.SetQuantity(context.Background(), item, 0)
	if err != domain.ErrQuantityFloor {
		t.Fatalf("err = %v, want ErrQuantityFloor", err)
	}
	if calls != 0 {
		t.Fatalf("network called %d times, want 0", calls)
	}
}

func TestDecrementAtFloorIsNoOp(t *testing.T) {
	calls := 0
	client, _ := newTestSetup(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{}`))
	}))

	item := domain.OrderItem{ID: 200, OrderID: 100, Quantity: 1, UnitPrice: decimal.NewFromInt(5)}
	got, err := client.Decrement(context.Background(), item)
	if err != nil {
		t.Fatalf("decrement: %v", err)
	}
	if got.Quantity != 1 {
		t.Fatalf("quantity = %d, want unchanged 1", got.Quantity)
	}
	if calls != 0 {
		t.Fatalf("network called %d times, want 0", calls)
	}
}

func TestSetQuantityMarksOwningOrderStale(t *testing.T) {
	mux := http.NewServeMux()
	orderFetches := 0
	mux.HandleFunc("GET /orders/100", func(w http.ResponseWriter, r *http.Request) {
		orderFetches++
		w.Write([]byte(`{"id":100,"orderNumber":"ORD-100","subtotal":"10","tax":"0","shipping":"0","discount":"0","total":"10","shippingStatus":"Pending","paymentStatus":"Pending","userId":"u1"}`))
	})
	mux.HandleFunc("PUT /orderitems/200", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id":200,"orderId":100,"productId":10,"quantity":3,"unitPrice":"5","totalPrice":"15"}`))
	})

	client, reg := newTestSetup(t, mux)
	ctx := context.Background()

	// Subscribe the owning order the way a detail view would. The entry
	// provides the order's entity tag, so the item mutation below re-fetches
	// it.
	sub, _, err := subscribeOrder(ctx, client, reg)
	if err != nil {
		t.Fatalf("subscribe order: %v", err)
	}
	defer sub.Cancel()

	item := domain.OrderItem{ID: 200, OrderID: 100, Quantity: 2, UnitPrice: decimal.NewFromInt(5)}
	updated, err := client.SetQuantity(ctx, item, 3)
	if err != nil {
		t.Fatalf("set quantity: %v", err)
	}
	if updated.Quantity != 3 {
		t.Fatalf("quantity = %d", updated.Quantity)
	}
	if orderFetches != 2 {
		t.Fatalf("order fetched %d times, want 2 (initial + after invalidation)", orderFetches)
	}
}

// subscribeOrder registers a cached order query providing the order's entity
// tag, standing in for the orders client in this package's tests.
func subscribeOrder(ctx context.Context, c *Client, reg *cache.Registry) (*cache.Subscription, []byte, error) {
	fetch := func(ctx context.Context) ([]byte, []cache.Tag, error) {
		var raw json.RawMessage
		if err := c.http.Get(ctx, "orders/100", &raw); err != nil {
			return nil, nil, err
		}
		tags := []cache.Tag{cache.Entity("Order", 100), cache.Sentinel("Order", cache.IDList)}
		return raw, tags, nil
	}
	return reg.Subscribe(ctx, "orders/100", fetch, nil)
}
