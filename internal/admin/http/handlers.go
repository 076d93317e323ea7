package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	admindomain "github.com/aurashop/marketplace-backend/internal/admin/domain"
	"github.com/aurashop/marketplace-backend/internal/admin/repository"
	"github.com/aurashop/marketplace-backend/internal/admin/service"
	"github.com/aurashop/marketplace-backend/internal/auth"
	notifdomain "github.com/aurashop/marketplace-backend/internal/notifications/domain"
	notifrepo "github.com/aurashop/marketplace-backend/internal/notifications/repository"
	notifservice "github.com/aurashop/marketplace-backend/internal/notifications/service"
	storedomain "github.com/aurashop/marketplace-backend/internal/stores/domain"
)

type Handler struct {
	review *service.Review
	stats  *repository.StatsRepository
	fanout *notifservice.Fanout
	audit  *notifrepo.AuditRepository
}

func NewHandler(review *service.Review, stats *repository.StatsRepository, fanout *notifservice.Fanout, audit *notifrepo.AuditRepository) *Handler {
	return &Handler{review: review, stats: stats, fanout: fanout, audit: audit}
}

func (h *Handler) dashboard(c *gin.Context) {
	stats, err := h.stats.Dashboard(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stats": stats})
}

func (h *Handler) pendingKYC(c *gin.Context) {
	stores, err := h.review.PendingKYC(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stores": stores})
}

func (h *Handler) checklist(c *gin.Context) {
	items := make([]gin.H, 0, len(admindomain.RequiredFields))
	for _, f := range admindomain.RequiredFields {
		items = append(items, gin.H{"id": f, "label": admindomain.FieldLabel(f)})
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "checklist": items})
}

type approveReq struct {
	Verified      map[string]bool `json:"verified"`
	CustomMessage string          `json:"custom_message"`
}

func (h *Handler) approveKYC(c *gin.Context) {
	var req approveReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	err := h.review.ApproveKYC(c.Request.Context(), c.Param("storeId"), req.Verified, req.CustomMessage)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case errors.Is(err, admindomain.ErrChecklistIncomplete):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, storedomain.ErrStoreNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "store not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}

type rejectReq struct {
	Verified      map[string]bool `json:"verified"`
	AdminNote     string          `json:"admin_note"`
	CustomMessage string          `json:"custom_message"`
}

func (h *Handler) rejectKYC(c *gin.Context) {
	var req rejectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	err := h.review.RejectKYC(c.Request.Context(), c.Param("storeId"), req.Verified, req.AdminNote, req.CustomMessage)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case errors.Is(err, storedomain.ErrStoreNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "store not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}

type commissionReq struct {
	Rate float64 `json:"rate"`
}

func (h *Handler) setCommission(c *gin.Context) {
	var req commissionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if err := h.review.SetCommissionRate(c.Request.Context(), c.Param("storeId"), req.Rate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type visibilityReq struct {
	Visible bool `json:"visible"`
}

func (h *Handler) setVisibility(c *gin.Context) {
	var req visibilityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if err := h.review.SetStoreVisibility(c.Request.Context(), c.Param("storeId"), req.Visible); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) suspendStore(c *gin.Context) {
	if err := h.review.SuspendStore(c.Request.Context(), c.Param("storeId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) reinstateStore(c *gin.Context) {
	if err := h.review.ReinstateStore(c.Request.Context(), c.Param("storeId")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type rolesReq struct {
	Roles []string `json:"roles"`
}

func (h *Handler) setRoles(c *gin.Context) {
	var req rolesReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.Roles) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if err := h.review.SetUserRoles(c.Request.Context(), c.Param("uid"), req.Roles); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type banReq struct {
	Banned bool `json:"banned"`
}

func (h *Handler) setBanned(c *gin.Context) {
	var req banReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if err := h.review.SetUserBanned(c.Request.Context(), c.Param("uid"), req.Banned); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) searchStores(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	stores, err := h.review.SearchStores(c.Request.Context(), q, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "stores": stores})
}

func (h *Handler) searchUsers(c *gin.Context) {
	q := strings.TrimSpace(c.Query("q"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	users, err := h.review.SearchUsers(c.Request.Context(), q, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "users": users})
}

type broadcastReq struct {
	Target  string   `json:"target"`
	UserIDs []string `json:"user_ids"`
	Title   string   `json:"title"`
	Message string   `json:"message"`
	Type    string   `json:"type"`
	Link    string   `json:"link"`
}

func (h *Handler) broadcast(c *gin.Context) {
	var req broadcastReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if req.Type == "" {
		req.Type = notifdomain.TypeInfo
	}
	count, err := h.fanout.SendBulk(c.Request.Context(), auth.UserUID(c), req.Target, notifdomain.Payload{
		Title:   req.Title,
		Message: req.Message,
		Type:    req.Type,
		Link:    req.Link,
	}, req.UserIDs)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "recipients": count})
}

func (h *Handler) broadcastLog(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.audit.ListRecent(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "log": entries})
}
