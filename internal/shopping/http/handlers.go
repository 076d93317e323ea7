package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aurashop/marketplace-backend/internal/auth"
	"github.com/aurashop/marketplace-backend/internal/shopping/repository"
	trackdomain "github.com/aurashop/marketplace-backend/internal/tracking/domain"
	trackservice "github.com/aurashop/marketplace-backend/internal/tracking/service"
)

// sessionHeader carries the client's tracking session id, when it has one.
const sessionHeader = "X-Tracking-Session"

type Handler struct {
	cart      *repository.CartRepository
	wishlist  *repository.WishlistRepository
	collector *trackservice.Collector
}

func NewHandler(cart *repository.CartRepository, wishlist *repository.WishlistRepository, collector *trackservice.Collector) *Handler {
	return &Handler{cart: cart, wishlist: wishlist, collector: collector}
}

type cartAddReq struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Brand     string  `json:"brand"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Quantity  int     `json:"quantity"`
}

func (h *Handler) addToCart(c *gin.Context) {
	var req cartAddReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}
	uid := auth.UserUID(c)
	err := h.cart.Add(c.Request.Context(), uid, repository.CartItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		Brand:     req.Brand,
		Price:     req.Price,
		Image:     req.Image,
		Quantity:  req.Quantity,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	h.publishCommerce(c, uid)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) removeFromCart(c *gin.Context) {
	uid := auth.UserUID(c)
	if err := h.cart.Remove(c.Request.Context(), uid, c.Param("productId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	h.publishCommerce(c, uid)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) listCart(c *gin.Context) {
	items, err := h.cart.List(c.Request.Context(), auth.UserUID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "items": items})
}

func (h *Handler) clearCart(c *gin.Context) {
	uid := auth.UserUID(c)
	if err := h.cart.Clear(c.Request.Context(), uid); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	h.publishCommerce(c, uid)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type wishlistAddReq struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
}

func (h *Handler) addToWishlist(c *gin.Context) {
	var req wishlistAddReq
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	uid := auth.UserUID(c)
	err := h.wishlist.Add(c.Request.Context(), uid, repository.WishlistItem{
		ProductID: req.ProductID,
		Name:      req.Name,
		Price:     req.Price,
		Image:     req.Image,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	h.publishCommerce(c, uid)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) removeFromWishlist(c *gin.Context) {
	uid := auth.UserUID(c)
	if err := h.wishlist.Remove(c.Request.Context(), uid, c.Param("productId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	h.publishCommerce(c, uid)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) listWishlist(c *gin.Context) {
	items, err := h.wishlist.List(c.Request.Context(), auth.UserUID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "items": items})
}

// publishCommerce feeds the behavior collector the fresh cart and wishlist
// counters, when the client sent a session id. Best effort only.
func (h *Handler) publishCommerce(c *gin.Context, uid string) {
	if h.collector == nil {
		return
	}
	sessionID := c.GetHeader(sessionHeader)
	if sessionID == "" {
		return
	}
	count, total, err := h.cart.Summary(c.Request.Context(), uid)
	if err != nil {
		return
	}
	wishCount, err := h.wishlist.Count(c.Request.Context(), uid)
	if err != nil {
		wishCount = 0
	}
	h.collector.Publish(trackdomain.Event{
		Kind:      trackdomain.EventCommerce,
		UserID:    uid,
		SessionID: sessionID,
		Ecommerce: &trackdomain.Ecommerce{
			CartItemCount: count,
			CartTotal:     total,
			WishlistCount: wishCount,
			AbandonedCart: count > 0,
		},
	})
}

// Register attaches the cart and wishlist routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/cart", h.listCart)
	rg.POST("/cart", h.addToCart)
	rg.DELETE("/cart/:productId", h.removeFromCart)
	rg.DELETE("/cart", h.clearCart)

	rg.GET("/wishlist", h.listWishlist)
	rg.POST("/wishlist", h.addToWishlist)
	rg.DELETE("/wishlist/:productId", h.removeFromWishlist)
}
