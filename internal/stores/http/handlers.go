package http

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aurashop/marketplace-backend/internal/cache"
	"github.com/aurashop/marketplace-backend/internal/stores/domain"
	"github.com/aurashop/marketplace-backend/internal/stores/repository"
)

// activeStoresKey caches the public storefront listing; it is also mirrored
// to Redis so a restart starts warm.
const (
	activeStoresKey = "storefront:active_stores"
	listingTTL      = 5 * time.Minute
)

// Handler serves the public storefront's store surface. Listings go through
// the two-phase cache so the hot path never waits on Firestore.
type Handler struct {
	repo   *repository.StoreRepository
	cache  *cache.Cache
	mirror *cache.Mirror
}

func NewHandler(repo *repository.StoreRepository, c *cache.Cache, mirror *cache.Mirror) *Handler {
	return &Handler{repo: repo, cache: c, mirror: mirror}
}

func (h *Handler) listActive(c *gin.Context) {
	v, err := h.cache.GetOrRefresh(c.Request.Context(), activeStoresKey, listingTTL, h.fetchActive)
	if err != nil {
		// Degrade to an empty listing rather than failing the page.
		log.Printf("[stores] active listing unavailable err=%v", err)
		c.JSON(http.StatusOK, gin.H{"ok": true, "stores": []domain.Store{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stores": v})
}

// fetchActive is the cache's fetch hook: load visible active stores and keep
// the Redis mirror fresh as a side effect.
func (h *Handler) fetchActive(ctx context.Context) (any, error) {
	stores, err := h.repo.ListByKYCStatus(ctx, domain.KYCVerified)
	if err != nil {
		if h.mirror != nil {
			var cached []domain.Store
			if mErr := h.mirror.Load(ctx, activeStoresKey, &cached); mErr == nil {
				log.Printf("[stores] serving mirrored listing after fetch error err=%v", err)
				return cached, nil
			}
		}
		return nil, err
	}

	visible := stores[:0]
	for _, s := range stores {
		if s.IsVisible && s.Status == domain.StatusActive {
			visible = append(visible, s)
		}
	}
	if h.mirror != nil {
		if err := h.mirror.Persist(ctx, activeStoresKey, visible, listingTTL); err != nil {
			log.Printf("[stores] mirror persist failed err=%v", err)
		}
	}
	return visible, nil
}

func (h *Handler) get(c *gin.Context) {
	s, err := h.repo.Get(c.Request.Context(), c.Param("storeId"))
	if err != nil {
		if errors.Is(err, domain.ErrStoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "store not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if s.Status != domain.StatusActive || !s.IsVisible {
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "store not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "store": s})
}

func (h *Handler) search(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	if q == "" {
		c.JSON(http.StatusOK, gin.H{"ok": true, "stores": []domain.Store{}})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	stores, err := h.repo.SearchByNamePrefix(c.Request.Context(), q, limit)
	if err != nil {
		log.Printf("[stores] search failed q=%q err=%v", q, err)
		c.JSON(http.StatusOK, gin.H{"ok": true, "stores": []domain.Store{}})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stores": stores})
}

// Register attaches the public storefront routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.listActive)
	rg.GET("/search", h.search)
	rg.GET("/:storeId", h.get)
}
