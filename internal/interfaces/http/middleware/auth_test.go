package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthDisabledInjectsLocalOwner(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var ownerID string
	r := gin.New()
	r.Use(Auth(AuthConfig{Enabled: false}))
	r.GET("/v1/examples", func(c *gin.Context) {
		ownerID = c.GetString("owner_id")
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/examples", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, LocalOwnerID, ownerID)

	// owner_id 列是 uuid 类型，本地所有者必须能被解析为 UUID
	_, err := uuid.Parse(ownerID)
	require.NoError(t, err)
}

func TestAuthEnabledRejectsMissingHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(Auth(AuthConfig{Enabled: true, Secret: "test-secret", Issuer: "test"}))
	r.GET("/v1/examples", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/v1/examples", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
