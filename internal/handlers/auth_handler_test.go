package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"uptask/internal/middleware"
	"uptask/internal/repositories/inmemory"
	"uptask/internal/services"
)

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := inmemory.NewStorage()
	authSvc := services.NewAuthService("test-secret", time.Hour)
	userSvc := services.NewUserService(store, authSvc, nil)
	h := NewAuthHandler(userSvc, authSvc)

	r := gin.New()
	r.POST("/api/auth/register", h.Register)
	r.POST("/api/auth/login", h.Login)
	r.GET("/api/auth/me", middleware.AuthMiddleware(authSvc.Secret()), h.Me)
	return r
}

func postJSON(r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_RegisterReturnsToken(t *testing.T) {
	r := newAuthRouter(t)

	w := postJSON(r, "/api/auth/register", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["id"])
	assert.Equal(t, "Alice", resp["name"])
	assert.Equal(t, "alice@example.com", resp["email"])
	assert.NotEmpty(t, resp["token"])
	assert.NotContains(t, resp, "password")
	assert.NotContains(t, w.Body.String(), "secret123")
}

func TestAuthHandler_RegisterValidation(t *testing.T) {
	r := newAuthRouter(t)

	w := postJSON(r, "/api/auth/register", map[string]string{"name": "Alice"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(r, "/api/auth/register", map[string]string{
		"name": "Alice", "email": "not-an-email", "password": "secret123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_RegisterDuplicate(t *testing.T) {
	r := newAuthRouter(t)

	w := postJSON(r, "/api/auth/register", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/api/auth/register", map[string]string{
		"name": "Clone", "email": "alice@example.com", "password": "other456",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "email already registered")
}

func TestAuthHandler_LoginFlow(t *testing.T) {
	r := newAuthRouter(t)

	w := postJSON(r, "/api/auth/register", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	token, _ := resp["token"].(string)
	require.NotEmpty(t, token)

	// the issued token works against a protected route
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	me := httptest.NewRecorder()
	r.ServeHTTP(me, req)
	require.Equal(t, http.StatusOK, me.Code)
	assert.Contains(t, me.Body.String(), "alice@example.com")
}

func TestAuthHandler_LoginRejectsBadCredentials(t *testing.T) {
	r := newAuthRouter(t)

	w := postJSON(r, "/api/auth/register", map[string]string{
		"name": "Alice", "email": "alice@example.com", "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(r, "/api/auth/login", map[string]string{
		"email": "alice@example.com", "password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "invalid email or password")

	w = postJSON(r, "/api/auth/login", map[string]string{
		"email": "ghost@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
