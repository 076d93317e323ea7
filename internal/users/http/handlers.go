package http

import (
	"errors"
	"net/http"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aurashop/marketplace-backend/internal/auth"
	"github.com/aurashop/marketplace-backend/internal/users/domain"
	"github.com/aurashop/marketplace-backend/internal/users/repository"
)

// Handler serves the authenticated user's own profile.
type Handler struct {
	repo *repository.UserRepository
}

func NewHandler(repo *repository.UserRepository) *Handler {
	return &Handler{repo: repo}
}

// me returns the profile, creating the default customer record on first
// sign-in.
func (h *Handler) me(c *gin.Context) {
	u, err := h.repo.GetOrCreate(c.Request.Context(), domain.User{
		UID:   auth.UserUID(c),
		Email: auth.UserEmail(c),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "user": u})
}

type updateProfileReq struct {
	DisplayName *string `json:"display_name"`
	PhotoURL    *string `json:"photo_url"`
	PhoneNumber *string `json:"phone_number"`
}

func (h *Handler) updateProfile(c *gin.Context) {
	var req updateProfileReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	var updates []firestore.Update
	if req.DisplayName != nil {
		updates = append(updates, firestore.Update{Path: "displayName", Value: strings.TrimSpace(*req.DisplayName)})
	}
	if req.PhotoURL != nil {
		updates = append(updates, firestore.Update{Path: "photoURL", Value: *req.PhotoURL})
	}
	if req.PhoneNumber != nil {
		updates = append(updates, firestore.Update{Path: "phoneNumber", Value: *req.PhoneNumber})
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "nothing to update"})
		return
	}

	if err := h.repo.UpdateProfile(c.Request.Context(), auth.UserUID(c), updates); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type addressReq struct {
	Label       string `json:"label"`
	AddressLine string `json:"address_line"`
	PhoneNumber string `json:"phone_number"`
}

func (h *Handler) addAddress(c *gin.Context) {
	var req addressReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.AddressLine) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	addr := domain.Address{
		ID:          uuid.NewString(),
		Label:       req.Label,
		AddressLine: req.AddressLine,
		PhoneNumber: req.PhoneNumber,
	}
	if err := h.repo.AddAddress(c.Request.Context(), auth.UserUID(c), addr); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "address": addr})
}

func (h *Handler) removeAddress(c *gin.Context) {
	err := h.repo.RemoveAddress(c.Request.Context(), auth.UserUID(c), c.Param("addressId"))
	if err != nil {
		if errors.Is(err, domain.ErrAddressNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "address not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

type addRoleReq struct {
	Role string `json:"role" binding:"required"`
}

// addRole lets a signed-in customer apply for an additional role; the role
// lands with a pending profile stub that the relevant workflow later
// activates.
func (h *Handler) addRole(c *gin.Context) {
	var req addRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "role is required"})
		return
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if !domain.SelfAssignable(role) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "error": "role cannot be self-assigned"})
		return
	}
	if err := h.repo.AddRole(c.Request.Context(), auth.UserUID(c), role); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "role": role})
}

// Register attaches the profile routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
	rg.PATCH("/me", h.updateProfile)
	rg.POST("/me/roles", h.addRole)
	rg.POST("/me/addresses", h.addAddress)
	rg.DELETE("/me/addresses/:addressId", h.removeAddress)
}
