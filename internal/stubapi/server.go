// Package stubapi is an in-memory stand-in for the remote admin API. It
// serves the same endpoint surface the resource clients talk to, so the whole
// fetch/invalidate/re-fetch loop can be exercised locally and in integration
// tests without the real backend.
package stubapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// New builds a Server around a seeded store.
func New(addr string, logger *log.Logger, store *Store, jwtSecret []byte) *Server {
	router := buildRouter(logger, store, jwtSecret)
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Handler exposes the router for httptest-based integration tests.
func Handler(logger *log.Logger, store *Store, jwtSecret []byte) http.Handler {
	return buildRouter(logger, store, jwtSecret)
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func buildRouter(logger *log.Logger, store *Store, jwtSecret []byte) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	// The dashboard SPA runs on a different origin in development.
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-Id")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := &handlers{store: store, logger: logger, jwtSecret: jwtSecret}

	api := router.Group("/api")
	{
		api.POST("/Auth/login", h.login)
		api.POST("/Auth/register", h.register)
		api.GET("/Auth/profile", h.authorized, h.profile)
		api.POST("/Auth/logout", h.authorized, h.logout)
	}

	authed := router.Group("/api", h.authorized)
	{
		authed.GET("/products", h.listProducts)
		authed.POST("/products", h.createProduct)
		authed.GET("/products/:id", h.getProduct)
		authed.PUT("/products/:id", h.updateProduct)
		authed.DELETE("/products/:id", h.deleteProduct)
		authed.POST("/products/:id/images", h.uploadProductImage)
		authed.GET("/products/:id/variants", h.listVariants)

		authed.POST("/variants", h.createVariant)
		authed.PUT("/variants/:id", h.updateVariant)
		authed.DELETE("/variants/:id", h.deleteVariant)

		authed.GET("/categories", h.listCategories)
		authed.GET("/categories/tree", h.categoryTree)
		authed.GET("/categories/summary", h.categorySummary)
		authed.GET("/categories/active", h.activeCategories)
		authed.GET("/categories/:id", h.getCategory)
		authed.GET("/categories/:id/children", h.categoryChildren)
		authed.POST("/categories", h.createCategory)
		authed.PUT("/categories/:id", h.updateCategory)
		authed.PUT("/categories/:id/toggle-status", h.toggleCategoryStatus)
		authed.DELETE("/categories/:id", h.deleteCategory)

		authed.GET("/orders", h.listOrders)
		authed.GET("/orders/:id", h.getOrder)
		authed.PUT("/orders/:id/status", h.updateOrderStatus)
		authed.DELETE("/orders/:id", h.deleteOrder)

		authed.POST("/orderitems", h.createOrderItem)
		authed.GET("/orderitems/:id", h.getOrderItem)
		authed.PUT("/orderitems/:id", h.updateOrderItem)
		authed.DELETE("/orderitems/:id", h.deleteOrderItem)
		authed.GET("/orderitems/order/:orderId", h.orderItemsByOrder)

		authed.GET("/banners", h.listBanners)
		authed.GET("/banners/:id", h.getBanner)
		authed.POST("/banners", h.createBanner)
		authed.PUT("/banners/:id", h.updateBanner)
		authed.DELETE("/banners/:id", h.deleteBanner)

		authed.GET("/users", h.listUsers)
		authed.GET("/users/:id", h.getUser)
		authed.DELETE("/users/:id", h.deleteUser)
		authed.POST("/users/:id/roles", h.assignRoles)

		authed.GET("/dashboard/stats", h.dashboardStats)
	}

	return router
}
