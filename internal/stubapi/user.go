package stubapi

import (
	"net/http"

	"admindash-sync/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listUsers(c *gin.Context) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	out := []domain.ApplicationUser{}
	for _, u := range h.store.users {
		out = append(out, *u)
	}
	sortSlice(out, func(a, b domain.ApplicationUser) bool { return a.Email < b.Email })
	c.JSON(http.StatusOK, out)
}

func (h *handlers) getUser(c *gin.Context) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	u, ok := h.store.users[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	c.JSON(http.StatusOK, *u)
}

func (h *handlers) deleteUser(c *gin.Context) {
	id := c.Param("id")

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	u, ok := h.store.users[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	if id == c.GetString("userID") {
		c.JSON(http.StatusConflict, gin.H{"message": "cannot delete the signed-in user"})
		return
	}
	delete(h.store.users, id)
	delete(h.store.passwords, u.Email)
	c.Status(http.StatusNoContent)
}

type assignRolesRequest struct {
	Roles []string `json:"roles" binding:"required"`
}

func (h *handlers) assignRoles(c *gin.Context) {
	var req assignRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "roles are required"})
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	u, ok := h.store.users[c.Param("id")]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "user not found"})
		return
	}
	u.Roles = req.Roles
	c.JSON(http.StatusOK, *u)
}

func (h *handlers) dashboardStats(c *gin.Context) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	stats := domain.DashboardStats{
		TotalProducts:   len(h.store.products),
		TotalCategories: len(h.store.categories),
		TotalOrders:     len(h.store.orders),
		TotalUsers:      len(h.store.users),
	}
	for _, o := range h.store.orders {
		if o.ShippingStatus == domain.ShippingPending {
			stats.PendingOrders++
		}
	}
	for _, b := range h.store.banners {
		if b.IsActive {
			stats.ActiveBanners++
		}
	}
	c.JSON(http.StatusOK, stats)
}
