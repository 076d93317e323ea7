package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// postRole exercises the role-application route. The guarded failure paths
// never reach the repository, so no backing store is needed.
func postRole(t *testing.T, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(nil)
	h.Register(r.Group("/users"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/users/me/roles", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAddRoleRejectsAdmin(t *testing.T) {
	w := postRole(t, `{"role": "admin"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "cannot be self-assigned")
}

func TestAddRoleRejectsUnknown(t *testing.T) {
	w := postRole(t, `{"role": "superuser"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAddRoleRequiresBody(t *testing.T) {
	w := postRole(t, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
