package middleware

import (
	"net/http"
	"strings"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"

	"github.com/aurashop/marketplace-backend/internal/auth"
)

// Options tune how identities are resolved.
type Options struct {
	// DevAdmins is an email allow-list granting admin outside production.
	DevAdmins []string
	// Production disables the DevAdmins fallback entirely.
	Production bool
}

// FirebaseAuth validates Firebase ID tokens and stores the caller's uid,
// email and admin flag on the request context.
func FirebaseAuth(authClient *fbauth.Client, opts Options) gin.HandlerFunc {
	devAdmins := make(map[string]struct{}, len(opts.DevAdmins))
	if !opts.Production {
		for _, e := range opts.DevAdmins {
			devAdmins[strings.ToLower(e)] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			c.Abort()
			return
		}

		decoded, err := authClient.VerifyIDToken(c.Request.Context(), token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		c.Set(auth.CtxFirebaseUID, decoded.UID)

		email := ""
		if v, ok := decoded.Claims["email"].(string); ok {
			email = v
			c.Set(auth.CtxEmail, v)
		}

		isAdmin, _ := decoded.Claims["admin"].(bool)
		if !isAdmin && email != "" {
			_, isAdmin = devAdmins[strings.ToLower(email)]
		}
		c.Set(auth.CtxIsAdmin, isAdmin)

		c.Next()
	}
}

// AdminOnly short-circuits before any write when the caller lacks the admin
// claim. Admin-gated routes answer 403 rather than failing silently.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !auth.IsAdmin(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not authorized"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return bearerToken[7:]
	}
	return ""
}
