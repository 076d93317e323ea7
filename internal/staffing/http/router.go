package http

import "github.com/gin-gonic/gin"

// RegisterVendor attaches the store-owner routes.
func (h *Handler) RegisterVendor(rg *gin.RouterGroup) {
	rg.POST("/stores/:storeId/invites", h.createInvite)
	rg.GET("/stores/:storeId/invites", h.listForStore)
	rg.POST("/invites/:token/approve", h.approve)
	rg.POST("/invites/:token/reject", h.reject)
}

// RegisterApplicant attaches the authenticated candidate routes.
func (h *Handler) RegisterApplicant(rg *gin.RouterGroup) {
	rg.GET("/invites/:token", h.preview)
	rg.POST("/invites/:token/apply", h.apply)
}

// RegisterAdmin attaches the platform finalization routes.
func (h *Handler) RegisterAdmin(rg *gin.RouterGroup) {
	rg.GET("/invites/queue", h.adminQueue)
	rg.POST("/invites/:token/finalize", h.finalize)
	rg.POST("/invites/:token/reject", h.reject)
}
