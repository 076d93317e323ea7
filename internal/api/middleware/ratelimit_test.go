package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/aurashop/marketplace-backend/internal/auth"
)

// setUID stands in for the auth middleware, reading the uid from a header so
// tests can act as different users from the same address.
func setUID() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := c.GetHeader("X-Test-UID"); uid != "" {
			c.Set(auth.CtxFirebaseUID, uid)
		}
		c.Next()
	}
}

func doReq(r *gin.Engine, uid string) int {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	if uid != "" {
		req.Header.Set("X-Test-UID", uid)
	}
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitBucketsPerUID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// Zero sustained rate with burst 1: each bucket allows exactly one
	// request. The limiter runs after the uid is on the context, matching
	// how it sits behind the auth middleware on authenticated groups.
	r.Use(setUID(), RateLimit(0, 1))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	// Two users behind the same IP each get their own bucket.
	assert.Equal(t, http.StatusOK, doReq(r, "alice"))
	assert.Equal(t, http.StatusOK, doReq(r, "bob"))

	// A repeat from the same user is throttled.
	assert.Equal(t, http.StatusTooManyRequests, doReq(r, "alice"))
}

func TestRateLimitFallsBackToIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(setUID(), RateLimit(0, 1))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	assert.Equal(t, http.StatusOK, doReq(r, ""))
	assert.Equal(t, http.StatusTooManyRequests, doReq(r, ""))
}
