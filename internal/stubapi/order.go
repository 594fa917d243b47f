package stubapi

import (
	"net/http"
	"strconv"

	"admindash-sync/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *handlers) listOrders(c *gin.Context) {
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

	all := []domain.Order{}
	for _, o := range h.store.orders {
		all = append(all, *o)
	}
	sortSlice(all, func(a, b domain.Order) bool { return a.ID < b.ID })

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

func (h *handlers) getOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	o, ok := h.store.orders[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}
	c.JSON(http.StatusOK, *o)
}

type orderStatusRequest struct {
	ShippingStatus *domain.ShippingStatus `json:"shippingStatus"`
	PaymentStatus  *domain.PaymentStatus  `json:"paymentStatus"`
}

func (h *handlers) updateOrderStatus(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid status payload"})
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	o, ok := h.store.orders[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}
	if req.ShippingStatus != nil {
		o.ShippingStatus = *req.ShippingStatus
	}
	if req.PaymentStatus != nil {
		o.PaymentStatus = *req.PaymentStatus
	}
	c.JSON(http.StatusOK, *o)
}

func (h *handlers) deleteOrder(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	if _, ok := h.store.orders[id]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}
	delete(h.store.orders, id)
	for itemID, it := range h.store.items {
		if it.OrderID == id {
			delete(h.store.items, itemID)
		}
	}
	c.Status(http.StatusNoContent)
}

type orderItemCreateRequest struct {
	OrderID   int64  `json:"orderId" binding:"required"`
	ProductID int64  `json:"productId" binding:"required"`
	VariantID *int64 `json:"variantId"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

func (h *handlers) createOrderItem(c *gin.Context) {
	var req orderItemCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "orderId, productId and quantity >= 1 are required"})
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	if _, ok := h.store.orders[req.OrderID]; !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "order not found"})
		return
	}
	p, ok := h.store.products[req.ProductID]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "product not found"})
		return
	}
	unit := p.Price
	if req.VariantID != nil {
		v, ok := h.store.variants[*req.VariantID]
		if !ok || v.ProductID != req.ProductID {
			c.JSON(http.StatusBadRequest, gin.H{"message": "variant not found"})
			return
		}
		if v.Price != nil {
			unit = *v.Price
		}
	}
	item := &domain.OrderItem{
		ID:        h.store.id(),
		OrderID:   req.OrderID,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
		UnitPrice: unit,
	}
	h.store.items[item.ID] = item
	h.store.recomputeOrderLocked(req.OrderID)
	c.JSON(http.StatusCreated, *item)
}

func (h *handlers) getOrderItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	it, ok := h.store.items[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "order item not found"})
		return
	}
	c.JSON(http.StatusOK, *it)
}

type orderItemUpdateRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

func (h *handlers) updateOrderItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req orderItemUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "quantity >= 1 is required"})
		return
	}

	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	it, ok := h.store.items[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "order item not found"})
		return
	}
	it.Quantity = req.Quantity
	h.store.recomputeOrderLocked(it.OrderID)
	c.JSON(http.StatusOK, *it)
}

func (h *handlers) deleteOrderItem(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	it, ok := h.store.items[id]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"message": "order item not found"})
		return
	}
	delete(h.store.items, id)
	h.store.recomputeOrderLocked(it.OrderID)
	c.Status(http.StatusNoContent)
}

func (h *handlers) orderItemsByOrder(c *gin.Context) {
	orderID, ok := paramID(c, "orderId")
	if !ok {
		return
	}
	h.store.mu.Lock()
	defer h.store.mu.Unlock()

	out := []domain.OrderItem{}
	for _, it := range h.store.items {
		if it.OrderID == orderID {
			out = append(out, *it)
		}
	}
	sortSlice(out, func(a, b domain.OrderItem) bool { return a.ID < b.ID })
	c.JSON(http.StatusOK, out)
}
