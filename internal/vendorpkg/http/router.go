package http

import "github.com/gin-gonic/gin"

// Register attaches the onboarding wizard routes to the given group.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/steps", h.steps)
	rg.GET("/categories", h.categories)
	rg.GET("/application", h.application)
	rg.GET("/kyc/reusable", h.reusableKYC)

	rg.POST("/basics", h.startOrUpdateBasics)
	rg.POST("/:storeId/identity", h.submitIdentity)
	rg.POST("/:storeId/identity/reuse", h.reuseIdentity)
	rg.PUT("/:storeId/category", h.setCategory)
	rg.PUT("/:storeId/location", h.setLocation)
	rg.PUT("/:storeId/banking", h.setBanking)
	rg.PUT("/:storeId/branding", h.setBranding)
	rg.POST("/:storeId/submit", h.submitForReview)
}
