package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aurashop/marketplace-backend/internal/auth"
	"github.com/aurashop/marketplace-backend/internal/tracking/domain"
	"github.com/aurashop/marketplace-backend/internal/tracking/service"
)

type Handler struct {
	collector *service.Collector
}

func NewHandler(collector *service.Collector) *Handler {
	return &Handler{collector: collector}
}

type initReq struct {
	SessionID   string             `json:"session_id"`
	Device      domain.DeviceInfo  `json:"device"`
	Preferences domain.Preferences `json:"preferences"`
	Ecommerce   domain.Ecommerce   `json:"ecommerce"`
	Referrer    string             `json:"referrer"`
}

// initSession creates or resumes a session. A missing session id gets one
// minted server side so the client can persist it.
func (h *Handler) initSession(c *gin.Context) {
	var req initReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.NewString()
	}

	err := h.collector.InitSession(c.Request.Context(), auth.UserUID(c), domain.SessionInit{
		SessionID:   req.SessionID,
		Device:      req.Device,
		Preferences: req.Preferences,
		Ecommerce:   req.Ecommerce,
		Referrer:    req.Referrer,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session_id": req.SessionID})
}

type eventReq struct {
	SessionID   string              `json:"session_id"`
	Kind        string              `json:"kind"`
	Visit       domain.PageVisit    `json:"visit"`
	Name        string              `json:"name"`
	Data        map[string]any      `json:"data"`
	Preferences *domain.Preferences `json:"preferences"`
	Ecommerce   *domain.Ecommerce   `json:"ecommerce"`
}

// publish accepts one behavior event. The write is asynchronous; acceptance
// only means the event entered the pipeline.
func (h *Handler) publish(c *gin.Context) {
	var req eventReq
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" || req.Kind == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	switch req.Kind {
	case domain.EventPageView, domain.EventCustom, domain.EventTheme, domain.EventCommerce, domain.EventCheckout:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "unknown event kind"})
		return
	}

	h.collector.Publish(domain.Event{
		Kind:        req.Kind,
		UserID:      auth.UserUID(c),
		SessionID:   req.SessionID,
		At:          time.Now(),
		Visit:       req.Visit,
		Name:        req.Name,
		Data:        req.Data,
		Preferences: req.Preferences,
		Ecommerce:   req.Ecommerce,
	})
	c.JSON(http.StatusAccepted, gin.H{"ok": true})
}

// Register attaches the collector routes.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.POST("/session", h.initSession)
	rg.POST("/events", h.publish)
}
