package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aurashop/marketplace-backend/internal/auth"
	storedomain "github.com/aurashop/marketplace-backend/internal/stores/domain"
	"github.com/aurashop/marketplace-backend/internal/vendorpkg/domain"
	"github.com/aurashop/marketplace-backend/internal/vendorpkg/service"
	"github.com/aurashop/marketplace-backend/internal/vendorpkg/taxonomy"
)

// maxUploadBytes caps any single wizard upload read into memory.
const maxUploadBytes = 32 << 20

type Handler struct {
	onboarding *service.Onboarding
}

func NewHandler(onboarding *service.Onboarding) *Handler {
	return &Handler{onboarding: onboarding}
}

type basicsReq struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

func (h *Handler) startOrUpdateBasics(c *gin.Context) {
	var req basicsReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	s, err := h.onboarding.StartOrUpdateBasics(c.Request.Context(), auth.UserUID(c), strings.TrimSpace(req.Name), strings.TrimSpace(req.Phone))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "store": s})
}

func (h *Handler) application(c *gin.Context) {
	s, err := h.onboarding.Application(c.Request.Context(), auth.UserUID(c))
	if err != nil {
		if errors.Is(err, storedomain.ErrStoreNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "no application in progress"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "store": s})
}

func (h *Handler) steps(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "steps": domain.Steps()})
}

func (h *Handler) categories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "categories": taxonomy.Options()})
}

func (h *Handler) reusableKYC(c *gin.Context) {
	docs, err := h.onboarding.ResolveReusableKYC(c.Request.Context(), auth.UserUID(c))
	if err != nil {
		if errors.Is(err, domain.ErrNoReusableKYC) {
			c.JSON(http.StatusOK, gin.H{"ok": true, "reusable": false})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "reusable": true, "kyc": docs})
}

// submitIdentity accepts a multipart form with the liveness video, the
// identity document, and the client-measured video duration in seconds.
func (h *Handler) submitIdentity(c *gin.Context) {
	storeID := c.Param("storeId")

	videoData, videoName, videoMIME, err := formFile(c, "video")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "video file is required"})
		return
	}
	docData, docName, docMIME, err := formFile(c, "doc")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "document file is required"})
		return
	}

	durationSec, err := strconv.ParseFloat(c.PostForm("video_duration"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "video_duration is required"})
		return
	}

	err = h.onboarding.SubmitIdentity(c.Request.Context(), auth.UserUID(c), storeID, service.IdentitySubmission{
		VideoData:     videoData,
		VideoDuration: time.Duration(durationSec * float64(time.Second)),
		VideoFilename: videoName,
		VideoMIME:     videoMIME,
		DocData:       docData,
		DocFilename:   docName,
		DocMIME:       docMIME,
	})
	h.respondStep(c, err)
}

func (h *Handler) reuseIdentity(c *gin.Context) {
	err := h.onboarding.ReuseIdentity(c.Request.Context(), auth.UserUID(c), c.Param("storeId"))
	if errors.Is(err, domain.ErrNoReusableKYC) {
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": "no reusable identity media"})
		return
	}
	h.respondStep(c, err)
}

type categoryReq struct {
	Category string `json:"category"`
}

func (h *Handler) setCategory(c *gin.Context) {
	var req categoryReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	err := h.onboarding.SetCategory(c.Request.Context(), auth.UserUID(c), c.Param("storeId"), req.Category)
	if errors.Is(err, domain.ErrCategoryRequired) || errors.Is(err, domain.ErrInvalidCategory) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	h.respondStep(c, err)
}

type locationReq struct {
	Address string `json:"address"`
	City    string `json:"city"`
	Hours   string `json:"hours"`
}

func (h *Handler) setLocation(c *gin.Context) {
	var req locationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	err := h.onboarding.SetLocation(c.Request.Context(), auth.UserUID(c), c.Param("storeId"), req.Address, req.City, req.Hours)
	h.respondStep(c, err)
}

type bankingReq struct {
	Name    string `json:"name"`
	Account string `json:"account"`
	IFSC    string `json:"ifsc"`
}

func (h *Handler) setBanking(c *gin.Context) {
	var req bankingReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	err := h.onboarding.SetBanking(c.Request.Context(), auth.UserUID(c), c.Param("storeId"), storedomain.BankDetails{
		Name:    req.Name,
		Account: req.Account,
		IFSC:    req.IFSC,
	})
	h.respondStep(c, err)
}

func (h *Handler) setBranding(c *gin.Context) {
	b := service.Branding{Description: c.PostForm("description")}
	if data, name, mime, err := formFile(c, "logo"); err == nil {
		b.LogoData, b.LogoFilename, b.LogoMIME = data, name, mime
	}
	if data, name, mime, err := formFile(c, "banner"); err == nil {
		b.BannerData, b.BannerFilename, b.BannerMIME = data, name, mime
	}
	err := h.onboarding.SetBranding(c.Request.Context(), auth.UserUID(c), c.Param("storeId"), b)
	h.respondStep(c, err)
}

func (h *Handler) submitForReview(c *gin.Context) {
	err := h.onboarding.SubmitForReview(c.Request.Context(), auth.UserUID(c), c.Param("storeId"))
	if errors.Is(err, domain.ErrAlreadySubmitted) {
		c.JSON(http.StatusConflict, gin.H{"ok": false, "error": err.Error()})
		return
	}
	if errors.Is(err, domain.ErrCategoryRequired) {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": err.Error()})
		return
	}
	h.respondStep(c, err)
}

// respondStep maps the wizard's error taxonomy onto status codes.
func (h *Handler) respondStep(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case errors.Is(err, storedomain.ErrStoreNotFound):
		c.JSON(http.StatusNotFound, gin.H{"ok": false, "error": "store not found"})
	case errors.Is(err, storedomain.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "not your store"})
	case errors.Is(err, domain.ErrPhoneNotVerified):
		c.JSON(http.StatusPreconditionFailed, gin.H{"ok": false, "error": err.Error()})
	default:
		var fe *domain.FieldError
		if errors.As(err, &fe) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"ok": false, "field": fe.Field, "error": fe.Reason})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
	}
}

func formFile(c *gin.Context, field string) (data []byte, filename, mime string, err error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return nil, "", "", err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, "", "", err
	}
	defer f.Close()

	data, err = io.ReadAll(io.LimitReader(f, maxUploadBytes))
	if err != nil {
		return nil, "", "", err
	}
	return data, fh.Filename, fh.Header.Get("Content-Type"), nil
}
