package stubapi

import (
	"net/http"
	"strconv"
	"time"

	"admindash-sync/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (h *handlers) listProducts(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	all := []domain.Product{}
	for _, p := range h.store.products {
		all = append(all, *p)
	}
	sortSlice(all, func(a, b domain.Product) bool { return a.ID < b.ID })

	start := (page - 1) * pageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	c.JSON(http.StatusOK, all[start:end])
}

func (h *handlers) getProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	p, ok := h.store.products[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	pp := *p
	for _, v := range h.store.variants {
		if v.ProductID == id {
			pp.Variants = append(pp.Variants, *v)
		}
	}
	sortSlice(pp.Variants, func(a, b domain.Variant) bool { return a.ID < b.ID })
	if pp.CategoryID != nil {
		if cat, ok := h.store.categories[*pp.CategoryID]; ok {
			cc := *cat
			pp.Category = &cc
		}
	}
	c.JSON(http.StatusOK, pp)
}

type productRequest struct {
	Name          string           `json:"name" binding:"required"`
	SKU           string           `json:"sku" binding:"required"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	ComparePrice  *decimal.Decimal `json:"comparePrice"`
	StockQuantity int              `json:"stockQuantity"`
	TrackQuantity bool             `json:"trackQuantity"`
	IsActive      bool             `json:"isActive"`
	IsFeatured    bool             `json:"isFeatured"`
	Weight        string           `json:"weight"`
	Dimensions    string           `json:"dimensions"`
	Tags          string           `json:"tags"`
	CategoryID    *int64           `json:"categoryId"`
	RemovedImages []int64          `json:"removedImageIds"`
}

func (h *handlers) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name and sku are required"})
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	p := &domain.Product{
		ID:            h.store.id(),
		Name:          req.Name,
		SKU:           req.SKU,
		Description:   req.Description,
		Price:         req.Price,
		ComparePrice:  req.ComparePrice,
		StockQuantity: req.StockQuantity,
		TrackQuantity: req.TrackQuantity,
		IsActive:      req.IsActive,
		IsFeatured:    req.IsFeatured,
		Weight:        req.Weight,
		Dimensions:    req.Dimensions,
		Tags:          req.Tags,
		CategoryID:    req.CategoryID,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	}
	h.store.products[p.ID] = p
	c.JSON(http.StatusCreated, p)
}

func (h *handlers) updateProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name and sku are required"})
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	p, ok := h.store.products[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	p.Name = req.Name
	p.SKU = req.SKU
	p.Description = req.Description
	p.Price = req.Price
	p.ComparePrice = req.ComparePrice
	p.StockQuantity = req.StockQuantity
	p.TrackQuantity = req.TrackQuantity
	p.IsActive = req.IsActive
	p.IsFeatured = req.IsFeatured
	p.Weight = req.Weight
	p.Dimensions = req.Dimensions
	p.Tags = req.Tags
	p.CategoryID = req.CategoryID
	p.UpdatedAt = time.Now()
	if len(req.RemovedImages) > 0 {
		removed := map[int64]bool{}
		for _, imgID := range req.RemovedImages {
			removed[imgID] = true
		}
		kept := p.Images[:0]
		for _, img := range p.Images {
			if !removed[img.ID] {
				kept = append(kept, img)
			}
		}
		p.Images = kept
	}
	c.JSON(http.StatusOK, p)
}

func (h *handlers) deleteProduct(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	if _, ok := h.store.products[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	delete(h.store.products, id)
	c.Status(http.StatusNoContent)
}

// uploadProductImage accepts multipart form data with the file under Image.
// A newly uploaded primary image demotes the previous one so the single-
// primary invariant holds.
func (h *handlers) uploadProductImage(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	file, err := c.FormFile("Image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Image file is required"})
		return
	}
	primary, _ := strconv.ParseBool(c.PostForm("IsPrimary"))

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	p, ok := h.store.products[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	if primary {
		for i := range p.Images {
			p.Images[i].IsPrimary = false
		}
	}
	p.Images = append(p.Images, domain.ProductImage{
		ID:        h.store.id(),
		URL:       "/uploads/products/" + file.Filename,
		AltText:   c.PostForm("AltText"),
		IsPrimary: primary || len(p.Images) == 0,
		SortOrder: len(p.Images),
	})
	c.JSON(http.StatusOK, p)
}

func (h *handlers) listVariants(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	out := []domain.Variant{}
	for _, v := range h.store.variants {
		if v.ProductID == id {
			out = append(out, *v)
		}
	}
	sortSlice(out, func(a, b domain.Variant) bool { return a.ID < b.ID })
	c.JSON(http.StatusOK, out)
}

type variantRequest struct {
	ProductID     int64            `json:"productId" binding:"required"`
	SKU           string           `json:"sku" binding:"required"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity int              `json:"stockQuantity"`
	IsActive      bool             `json:"isActive"`
	Color         string           `json:"color"`
	Size          string           `json:"size"`
}

func (h *handlers) createVariant(c *gin.Context) {
	var req variantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "productId and sku are required"})
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	if _, ok := h.store.products[req.ProductID]; !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "product not found"})
		return
	}
	v := &domain.Variant{
		ID:            h.store.id(),
		ProductID:     req.ProductID,
		SKU:           req.SKU,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		IsActive:      req.IsActive,
		Color:         req.Color,
		Size:          req.Size,
	}
	h.store.variants[v.ID] = v
	c.JSON(http.StatusCreated, v)
}

func (h *handlers) updateVariant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req variantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "productId and sku are required"})
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	v, ok := h.store.variants[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "variant not found"})
		return
	}
	v.SKU = req.SKU
	v.Price = req.Price
	v.StockQuantity = req.StockQuantity
	v.IsActive = req.IsActive
	v.Color = req.Color
	v.Size = req.Size
	c.JSON(http.StatusOK, v)
}

func (h *handlers) deleteVariant(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	if _, ok := h.store.variants[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "variant not found"})
		return
	}
	delete(h.store.variants, id)
	c.Status(http.StatusNoContent)
}
