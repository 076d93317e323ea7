package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/aurashop/marketplace-backend/internal/auth"
	"github.com/aurashop/marketplace-backend/internal/notifications/repository"
)

// Handler serves the caller's own notification feed. Everything is scoped to
// the authenticated uid; there is no way to read or mutate another feed.
type Handler struct {
	repo *repository.NotificationRepository
}

func NewHandler(repo *repository.NotificationRepository) *Handler {
	return &Handler{repo: repo}
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := h.repo.List(c.Request.Context(), auth.UserUID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "notifications": items})
}

func (h *Handler) markRead(c *gin.Context) {
	if err := h.repo.MarkRead(c.Request.Context(), auth.UserUID(c), c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) markAllRead(c *gin.Context) {
	n, err := h.repo.MarkAllRead(c.Request.Context(), auth.UserUID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "updated": n})
}

// Register attaches the feed routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("", h.list)
	rg.POST("/:id/read", h.markRead)
	rg.POST("/read-all", h.markAllRead)
}
