package http

import "github.com/gin-gonic/gin"

// Register attaches the admin console routes. The group is expected to carry
// the admin-only middleware already.
func (h *Handler) Register(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.dashboard)

	rg.GET("/kyc/pending", h.pendingKYC)
	rg.GET("/kyc/checklist", h.checklist)
	rg.POST("/kyc/:storeId/approve", h.approveKYC)
	rg.POST("/kyc/:storeId/reject", h.rejectKYC)

	rg.PUT("/stores/:storeId/commission", h.setCommission)
	rg.PUT("/stores/:storeId/visibility", h.setVisibility)
	rg.POST("/stores/:storeId/suspend", h.suspendStore)
	rg.POST("/stores/:storeId/reinstate", h.reinstateStore)
	rg.GET("/stores/search", h.searchStores)

	rg.PUT("/users/:uid/roles", h.setRoles)
	rg.PUT("/users/:uid/ban", h.setBanned)
	rg.GET("/users/search", h.searchUsers)

	rg.POST("/notifications/broadcast", h.broadcast)
	rg.GET("/notifications/log", h.broadcastLog)
}
