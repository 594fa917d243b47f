package stubapi

import (
	"net/http"
	"strconv"
	"time"

	"admindash-sync/internal/domain"

	"github.com/gin-gonic/gin"
)

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid id"})
		return 0, false
	}
	return id, true
}

func (h *handlers) listCategories(c *gin.Context) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	out := []domain.Category{}
	for _, cat := range h.store.categories {
		cc := *cat
		cc.ProductCount = h.store.productCountLocked(cat.ID)
		out = append(out, cc)
	}
	sortCategories(out)
	c.JSON(http.StatusOK, out)
}

func (h *handlers) categoryTree(c *gin.Context) {
	h.store.mu.Lock()
	tree := h.store.treeLocked(nil)
	h.store.mu.Unlock()
	c.JSON(http.StatusOK, tree)
}

func (h *handlers) categorySummary(c *gin.Context) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	out := []domain.CategorySummary{}
	for _, cat := range h.store.categories {
		out = append(out, domain.CategorySummary{
			ID:       cat.ID,
			Name:     cat.Name,
			ParentID: cat.ParentID,
			IsActive: cat.IsActive,
		})
	}
	sortSummaries(out)
	c.JSON(http.StatusOK, out)
}

func (h *handlers) activeCategories(c *gin.Context) {
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	out := []domain.Category{}
	for _, cat := range h.store.categories {
		if cat.IsActive {
			out = append(out, *cat)
		}
	}
	sortCategories(out)
	c.JSON(http.StatusOK, out)
}

func (h *handlers) getCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	cat, ok := h.store.categories[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
		return
	}
	cc := *cat
	cc.ProductCount = h.store.productCountLocked(id)
	cc.Children = h.store.childrenLocked(&id)
	c.JSON(http.StatusOK, cc)
}

func (h *handlers) categoryChildren(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.store.mu.Lock()
	children := h.store.childrenLocked(&id)
	h.store.mu.Unlock()
	c.JSON(http.StatusOK, children)
}

// createCategory accepts multipart form data because the form may carry
// image files. Field names match the client's keys.
func (h *handlers) createCategory(c *gin.Context) {
	name := c.PostForm("Name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name is required"})
		return
	}
	sortOrder, _ := strconv.Atoi(c.PostForm("SortOrder"))
	isActive, _ := strconv.ParseBool(c.PostForm("IsActive"))

	var parentID *int64
	if raw := c.PostForm("ParentId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid ParentId"})
			return
		}
		parentID = &id
	}

	var imageURLs []string
	if form, err := c.MultipartForm(); err == nil {
		for _, file := range form.File["Images"] {
			imageURLs = append(imageURLs, "/uploads/categories/"+file.Filename)
		}
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	if parentID != nil {
		if _, ok := h.store.categories[*parentID]; !ok {
			c.JSON(http.StatusBadRequest, gin.H{"message": "parent category not found"})
			return
		}
	}
	cat := &domain.Category{
		ID:          h.store.id(),
		Name:        name,
		Description: c.PostForm("Description"),
		ImageURLs:   imageURLs,
		IsActive:    isActive,
		SortOrder:   sortOrder,
		ParentID:    parentID,
		CreatedAt:   time.Now(),
	}
	h.store.categories[cat.ID] = cat
	c.JSON(http.StatusCreated, cat)
}

type categoryUpdateRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	ParentID    *int64   `json:"parentId"`
	SortOrder   int      `json:"sortOrder"`
	IsActive    bool     `json:"isActive"`
	ImageURLs   []string `json:"imageUrls"`
}

func (h *handlers) updateCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req categoryUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name is required"})
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	cat, ok := h.store.categories[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
		return
	}
	if req.ParentID != nil && *req.ParentID == id {
		c.JSON(http.StatusBadRequest, gin.H{"message": "category cannot be its own parent"})
		return
	}
	cat.Name = req.Name
	cat.Description = req.Description
	cat.ParentID = req.ParentID
	cat.SortOrder = req.SortOrder
	cat.IsActive = req.IsActive
	if req.ImageURLs != nil {
		cat.ImageURLs = req.ImageURLs
	}
	c.JSON(http.StatusOK, cat)
}

func (h *handlers) toggleCategoryStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	cat, ok := h.store.categories[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
		return
	}
	cat.IsActive = !cat.IsActive
	c.JSON(http.StatusOK, cat)
}

// deleteCategory refuses to delete a category that still has children and
// echoes the deleted entity so the client can invalidate the parent's slice.
func (h *handlers) deleteCategory(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	cat, ok := h.store.categories[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "category not found"})
		return
	}
	if h.store.hasChildrenLocked(id) {
		c.JSON(http.StatusConflict, gin.H{"message": "category has child categories"})
		return
	}
	deleted := *cat
	delete(h.store.categories, id)
	c.JSON(http.StatusOK, deleted)
}

func sortCategories(cats []domain.Category) {
	sortSlice(cats, func(a, b domain.Category) bool {
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Name < b.Name
	})
}

func sortSummaries(sums []domain.CategorySummary) {
	sortSlice(sums, func(a, b domain.CategorySummary) bool { return a.Name < b.Name })
}
