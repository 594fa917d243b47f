package stubapi

import (
	"net/http"
	"strconv"
	"time"

	"admindash-sync/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listBanners(c *gin.Context) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	out := []domain.Banner{}
	for _, b := range h.store.banners {
		out = append(out, *b)
	}
	sortSlice(out, func(a, b domain.Banner) bool {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.ID < b.ID
	})
	c.JSON(http.StatusOK, out)
}

func (h *handlers) getBanner(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	b, ok := h.store.banners[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "banner not found"})
		return
	}
	c.JSON(http.StatusOK, *b)
}

func bannerFromForm(c *gin.Context) (domain.Banner, bool) {
	title := c.PostForm("Title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Title is required"})
		return domain.Banner{}, false
	}
	position := domain.BannerPosition(c.PostForm("Position"))
	switch position {
	case domain.PositionHomepageTop, domain.PositionHomepageMiddle, domain.PositionFooter:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid Position"})
		return domain.Banner{}, false
	}
	sortOrder, _ := strconv.Atoi(c.PostForm("SortOrder"))
	isActive, _ := strconv.ParseBool(c.PostForm("IsActive"))

	b := domain.Banner{
		Title:       title,
		Description: c.PostForm("Description"),
		LinkURL:     c.PostForm("LinkUrl"),
		ButtonText:  c.PostForm("ButtonText"),
		Position:    position,
		IsActive:    isActive,
		SortOrder:   sortOrder,
	}
	if raw := c.PostForm("StartDate"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			b.StartDate = &t
		}
	}
	if raw := c.PostForm("EndDate"); raw != "" {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			b.EndDate = &t
		}
	}
	if file, err := c.FormFile("Image"); err == nil {
		b.ImageURL = "/uploads/banners/" + file.Filename
	}
	return b, true
}

func (h *handlers) createBanner(c *gin.Context) {
	b, ok := bannerFromForm(c)
	if !ok {
		return
	}
	if b.ImageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Image file is required"})
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	b.ID = h.store.id()
	h.store.banners[b.ID] = &b
	c.JSON(http.StatusCreated, b)
}

func (h *handlers) updateBanner(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	b, ok := bannerFromForm(c)
	if !ok {
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	existing, found := h.store.banners[id]
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"message": "banner not found"})
		return
	}
	b.ID = id
	if b.ImageURL == "" {
		b.ImageURL = existing.ImageURL
	}
	h.store.banners[id] = &b
	c.JSON(http.StatusOK, b)
}

func (h *handlers) deleteBanner(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	if _, ok := h.store.banners[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "banner not found"})
		return
	}
	delete(h.store.banners, id)
	c.Status(http.StatusNoContent)
}
