package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/opyryanova/foodgram/internal/auth"
)

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := New(Deps{Tokens: auth.NewTokenManager("test-secret", time.Hour)})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := New(Deps{Tokens: auth.NewTokenManager("test-secret", time.Hour)})

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/recipes"},
		{http.MethodPatch, "/api/recipes/1"},
		{http.MethodDelete, "/api/recipes/1"},
		{http.MethodPost, "/api/recipes/1/favorite"},
		{http.MethodPost, "/api/recipes/1/shopping_cart"},
		{http.MethodPatch, "/api/recipes/1/shopping_cart"},
		{http.MethodGet, "/api/recipes/download_shopping_cart"},
		{http.MethodGet, "/api/users/me"},
		{http.MethodGet, "/api/users/subscriptions"},
		{http.MethodPut, "/api/users/me/avatar"},
		{http.MethodPost, "/api/users/1/subscribe"},
	}

	for _, route := range protected {
		req := httptest.NewRequest(route.method, route.path, nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected status 401, got %d", route.method, route.path, w.Code)
		}
	}
}
