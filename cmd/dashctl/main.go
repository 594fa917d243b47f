// dashctl is a small console harness around the sync layer: it logs in,
// subscribes to a few queries, performs a mutation and prints what the
// invalidation-driven re-fetches deliver. Useful against the stub server for
// eyeballing the whole loop.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"admindash-sync/internal/cache"
	"admindash-sync/internal/config"
	"admindash-sync/internal/domain"
	"admindash-sync/internal/resource/auth"
	"admindash-sync/internal/resource/categories"
	"admindash-sync/internal/resource/dashboard"
	"admindash-sync/internal/resource/orders"
	"admindash-sync/internal/resource/products"
	"admindash-sync/internal/session"
	"admindash-sync/internal/transport"
	"admindash-sync/internal/view"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[dashctl] ", log.LstdFlags|log.LUTC)

	if err := run(cfg, logger); err != nil {
		logger.Fatalf("%v", err)
	}
}

func run(cfg config.Config, logger *log.Logger) error {
	sess := session.NewManager(session.NewFileStore(cfg.TokenStorePath), logger)
	if err := sess.Restore(); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	client, err := transport.New(transport.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
	}, sess, logger)
	if err != nil {
		return err
	}
	defer client.Close()

	registry := cache.NewRegistry(cfg.CacheRetention, logger)
	ctx := context.Background()

	authClient := auth.New(client, sess, logger)
	if !sess.Authenticated() {
		email := envOr("ADMIN_EMAIL", "admin@example.com")
		password := envOr("ADMIN_PASSWORD", "admin123")
		user, err := authClient.Login(ctx, auth.Credentials{Email: email, Password: password})
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		logger.Printf("logged in as %s", user.Email)
	} else if _, err := authClient.Profile(ctx); err != nil {
		return fmt.Errorf("profile: %w", err)
	}
	if exp, ok := sess.TokenExpiry(); ok {
		logger.Printf("access token expires %s", exp.Format("2006-01-02 15:04:05"))
	}

	catClient := categories.New(client, registry, logger)
	treeSub, tree, err := catClient.SubscribeTree(ctx, func(updated []domain.Category) {
		logger.Printf("category tree refreshed (%d roots)", len(updated))
		printTree(updated)
	})
	if err != nil {
		return fmt.Errorf("subscribe category tree: %w", err)
	}
	defer treeSub.Cancel()
	printTree(tree)

	prodClient := products.New(client, registry)
	listSub, prods, err := prodClient.SubscribeList(ctx, products.ListPage{Page: 1, PageSize: 10}, nil)
	if err != nil {
		return fmt.Errorf("subscribe products: %w", err)
	}
	defer listSub.Cancel()
	for _, p := range prods {
		fmt.Printf("product %d  %-20s %s\n", p.ID, p.Name, p.Price.StringFixed(2))
	}

	statsSub, stats, err := dashboard.New(client, registry).SubscribeStats(ctx, func(s domain.DashboardStats) {
		logger.Printf("stats refreshed: %d products, %d categories", s.TotalProducts, s.TotalCategories)
	})
	if err != nil {
		return fmt.Errorf("subscribe stats: %w", err)
	}
	defer statsSub.Cancel()
	logger.Printf("stats: %d products, %d categories, %d orders", stats.TotalProducts, stats.TotalCategories, stats.TotalOrders)

	// A category create; the tree and stats subscriptions above pick up the
	// change through invalidation.
	created, err := catClient.Create(ctx, categories.CreateInput{
		Name:     "Accessories",
		IsActive: true,
	})
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	logger.Printf("created category %d %q", created.ID, created.Name)

	// And an order-status update; the list subscription refreshes with the
	// new status.
	ordClient := orders.New(client, registry)
	ordSub, ordList, err := ordClient.SubscribeList(ctx, 1, 5, func(updated []domain.Order) {
		logger.Printf("orders refreshed (%d rows)", len(updated))
	})
	if err != nil {
		return fmt.Errorf("subscribe orders: %w", err)
	}
	defer ordSub.Cancel()
	if len(ordList) > 0 {
		next := domain.ShippingProcessing
		updated, err := ordClient.UpdateStatus(ctx, orders.StatusInput{
			ID:             ordList[0].ID,
			ShippingStatus: &next,
		})
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		logger.Printf("order %s now %s (total %s)", updated.OrderNumber, updated.ShippingStatus, updated.Total.StringFixed(2))
	}

	return nil
}

func printTree(tree []domain.Category) {
	for _, row := range view.FlattenCategoryTree(tree) {
		indent := ""
		for i := 0; i < row.Depth; i++ {
			indent += "  "
		}
		parent := row.ParentName
		if parent == "" {
			parent = "-"
		}
		fmt.Printf("%s%d %s (parent: %s, products: %d)\n", indent, row.ID, row.Name, parent, row.ProductCount)
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
