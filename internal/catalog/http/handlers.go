package http

import (
	"errors"
	"net/http"
	"strconv"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"github.com/aurashop/marketplace-backend/internal/auth"
	"github.com/aurashop/marketplace-backend/internal/catalog/domain"
	"github.com/aurashop/marketplace-backend/internal/catalog/repository"
	storedomain "github.com/aurashop/marketplace-backend/internal/stores/domain"
	storerepo "github.com/aurashop/marketplace-backend/internal/stores/repository"
)

type Handler struct {
	products *repository.ProductRepository
	orders   *repository.OrderRepository
	stores   *storerepo.StoreRepository
}

func NewHandler(products *repository.ProductRepository, orders *repository.OrderRepository, stores *storerepo.StoreRepository) *Handler {
	return &Handler{products: products, orders: orders, stores: stores}
}

func (h *Handler) listProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	var (
		items []domain.Product
		err   error
	)
	if storeID := c.Query("store_id"); storeID != "" {
		items, err = h.products.ListByStore(c.Request.Context(), storeID)
	} else {
		items, err = h.products.List(c.Request.Context(), limit)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "products": items})
}

func (h *Handler) getProduct(c *gin.Context) {
	p, err := h.products.Get(c.Request.Context(), c.Param("productId"))
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "product not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "product": p})
}

type productReq struct {
	StoreID     string   `json:"store_id"`
	Name        string   `json:"name"`
	Brand       string   `json:"brand"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Images      []string `json:"images"`
}

func (h *Handler) createProduct(c *gin.Context) {
	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" || req.StoreID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if !h.ownsStore(c, req.StoreID) {
		return
	}

	p := &domain.Product{
		StoreID:     req.StoreID,
		Name:        req.Name,
		Brand:       req.Brand,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		Images:      req.Images,
	}
	id, err := h.products.Create(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	p.ID = id
	c.JSON(http.StatusCreated, gin.H{"ok": true, "product": p})
}

func (h *Handler) updateProduct(c *gin.Context) {
	existing, err := h.products.Get(c.Request.Context(), c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "product not found"})
		return
	}
	if !h.ownsStore(c, existing.StoreID) {
		return
	}

	var req productReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	updates := []firestore.Update{
		{Path: "name", Value: req.Name},
		{Path: "brand", Value: req.Brand},
		{Path: "description", Value: req.Description},
		{Path: "category", Value: req.Category},
		{Path: "price", Value: req.Price},
		{Path: "stock", Value: req.Stock},
		{Path: "images", Value: req.Images},
	}
	if err := h.products.Update(c.Request.Context(), existing.ID, updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) deleteProduct(c *gin.Context) {
	existing, err := h.products.Get(c.Request.Context(), c.Param("productId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "product not found"})
		return
	}
	if !h.ownsStore(c, existing.StoreID) {
		return
	}
	if err := h.products.Delete(c.Request.Context(), existing.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type orderReq struct {
	StoreID string             `json:"store_id"`
	Items   []domain.OrderItem `json:"items"`
}

func (h *Handler) createOrder(c *gin.Context) {
	var req orderReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Items) == 0 || req.StoreID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	total := 0.0
	for _, it := range req.Items {
		if it.Quantity <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid quantity"})
			return
		}
		total += it.Price * float64(it.Quantity)
	}

	o := &domain.Order{
		UserID:  auth.UserUID(c),
		StoreID: req.StoreID,
		Items:   req.Items,
		Total:   total,
		Status:  "placed",
	}
	id, err := h.orders.Create(c.Request.Context(), o)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	o.ID = id
	c.JSON(http.StatusCreated, gin.H{"ok": true, "order": o})
}

func (h *Handler) listMyOrders(c *gin.Context) {
	orders, err := h.orders.ListByUser(c.Request.Context(), auth.UserUID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "orders": orders})
}

func (h *Handler) listStoreOrders(c *gin.Context) {
	storeID := c.Param("storeId")
	if !h.ownsStore(c, storeID) {
		return
	}
	orders, err := h.orders.ListByStore(c.Request.Context(), storeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "orders": orders})
}

// ownsStore writes the error response itself when the check fails.
func (h *Handler) ownsStore(c *gin.Context, storeID string) bool {
	s, err := h.stores.Get(c.Request.Context(), storeID)
	if err != nil {
		if errors.Is(err, storedomain.ErrStoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "store not found"})
			return false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return false
	}
	if s.OwnerID != auth.UserUID(c) {
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "not your store"})
		return false
	}
	return true
}

// RegisterPublic attaches the unauthenticated catalog routes.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.GET("/products", h.listProducts)
	rg.GET("/products/:productId", h.getProduct)
}

// RegisterCustomer attaches the authenticated shopping routes.
func (h *Handler) RegisterCustomer(rg *gin.RouterGroup) {
	rg.POST("/orders", h.createOrder)
	rg.GET("/orders", h.listMyOrders)
}

// RegisterVendor attaches the store-management routes.
func (h *Handler) RegisterVendor(rg *gin.RouterGroup) {
	rg.POST("/products", h.createProduct)
	rg.PUT("/products/:productId", h.updateProduct)
	rg.DELETE("/products/:productId", h.deleteProduct)
	rg.GET("/stores/:storeId/orders", h.listStoreOrders)
}
