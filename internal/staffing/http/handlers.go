package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aurashop/marketplace-backend/internal/auth"
	"github.com/aurashop/marketplace-backend/internal/staffing/domain"
	"github.com/aurashop/marketplace-backend/internal/staffing/service"
	storedomain "github.com/aurashop/marketplace-backend/internal/stores/domain"
)

type Handler struct {
	staffing *service.Staffing
}

func NewHandler(staffing *service.Staffing) *Handler {
	return &Handler{staffing: staffing}
}

type createInviteReq struct {
	Role string `json:"role"`
}

func (h *Handler) createInvite(c *gin.Context) {
	var req createInviteReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Role) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	inv, url, err := h.staffing.CreateInviteLink(c.Request.Context(), auth.UserUID(c), c.Param("storeId"), strings.TrimSpace(req.Role))
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "invite": inv, "url": url})
}

func (h *Handler) listForStore(c *gin.Context) {
	invites, err := h.staffing.InvitesForStore(c.Request.Context(), auth.UserUID(c), c.Param("storeId"))
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "invites": invites})
}

func (h *Handler) preview(c *gin.Context) {
	inv, err := h.staffing.Preview(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.respond(c, err)
		return
	}
	// The public careers page only needs the position, not applicant data.
	c.JSON(http.StatusOK, gin.H{"ok": true, "invite": gin.H{
		"store_id":   inv.StoreID,
		"role":       inv.Role,
		"expires_at": inv.ExpiresAt,
	}})
}

type applyReq struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Note  string `json:"note"`
}

func (h *Handler) apply(c *gin.Context) {
	var req applyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	inv, err := h.staffing.ApplyForPosition(c.Request.Context(), c.Param("token"), domain.Applicant{
		UID:   auth.UserUID(c),
		Name:  req.Name,
		Email: req.Email,
		Note:  req.Note,
	})
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "invite": inv})
}

func (h *Handler) approve(c *gin.Context) {
	inv, err := h.staffing.ApproveApplication(c.Request.Context(), auth.UserUID(c), c.Param("token"))
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "invite": inv})
}

func (h *Handler) finalize(c *gin.Context) {
	inv, err := h.staffing.FinalizeStaffApproval(c.Request.Context(), c.Param("token"))
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "invite": inv})
}

type rejectReq struct {
	Reason string `json:"reason"`
}

func (h *Handler) reject(c *gin.Context) {
	var req rejectReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if err := h.staffing.RejectApplication(c.Request.Context(), auth.UserUID(c), c.Param("token"), req.Reason, auth.IsAdmin(c)); err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) adminQueue(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	invites, err := h.staffing.AdminQueue(c.Request.Context(), limit)
	if err != nil {
		h.respond(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "invites": invites})
}

func (h *Handler) respond(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInviteNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "invite not found"})
	case errors.Is(err, domain.ErrInviteExpired):
		c.JSON(http.StatusGone, gin.H{"ok": false, "error": "invite link has expired"})
	case errors.Is(err, domain.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
	case errors.Is(err, storedomain.ErrStoreNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "store not found"})
	case errors.Is(err, storedomain.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "not your store"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}
