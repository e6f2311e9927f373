package routes

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"storefront-app/config"
	"storefront-app/internal/domain/users"
	"storefront-app/internal/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRoutes(t *testing.T) {
	cfg := config.Defaults()
	cfg.Auth.JWTSecret = "test-secret"
	db := testdb.New(t)
	r := New(Deps{Config: cfg, DB: db, Log: zap.NewNop()})

	_, err := users.UpsertLocal(db, "Ada", "ada@shop.test", "password1", users.RoleAdmin)
	require.NoError(t, err)
	_, err = users.UpsertLocal(db, "Bob", "bob@shop.test", "password1", users.RoleEditor)
	require.NoError(t, err)

	do := func(method, path, token string, body any) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
		req := httptest.NewRequest(method, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}
	login := func(email string) string {
		w := do(http.MethodPost, "/auth/login", "", map[string]string{"email": email, "password": "password1"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return resp.Token
	}

	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/store/products", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, do(http.MethodGet, "/admin/products", "", nil).Code)

	editor := login("bob@shop.test")
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/admin/products", editor, nil).Code)
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/admin/products/low-stock", editor, nil).Code)
	assert.Equal(t, http.StatusForbidden, do(http.MethodGet, "/admin/dashboard", editor, nil).Code)
	assert.Equal(t, http.StatusForbidden, do(http.MethodGet, "/admin/orders", editor, nil).Code)

	admin := login("ada@shop.test")
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/admin/dashboard", admin, nil).Code)
	assert.Equal(t, http.StatusOK, do(http.MethodGet, "/admin/orders", admin, nil).Code)

	w := do(http.MethodGet, "/me", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@shop.test")

	// payments are not configured
	assert.Equal(t, http.StatusServiceUnavailable,
		do(http.MethodPost, "/webhooks/stripe", "", map[string]string{}).Code)
}
