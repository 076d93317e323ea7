package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxFirebaseUID = "firebase_uid"
	CtxEmail       = "email"
	CtxIsAdmin     = "is_admin"
)

// UserUID extracts the Firebase UID set by Middleware.
func UserUID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxFirebaseUID))
}

func UserEmail(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxEmail))
}

// IsAdmin reports whether the authenticated identity carries the admin claim
// (or matched the dev allow-list outside production).
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(CtxIsAdmin)
}
