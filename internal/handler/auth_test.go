package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sahil13082003/ecommerce-api/internal/domain/auth"
)

type mockAPIKeyRepo struct {
	byHash map[string]*auth.APIKeyInfo
}

func (m *mockAPIKeyRepo) FindByHash(_ context.Context, hash string) (*auth.APIKeyInfo, error) {
	info, ok := m.byHash[hash]
	if !ok {
		return nil, auth.ErrUnauthorized
	}
	return info, nil
}

func hashKey(key string, pepper []byte) string {
	mac := hmac.New(sha256.New, pepper)
	mac.Write([]byte(key))
	return hex.EncodeToString(mac.Sum(nil))
}

func newTestAuthenticator(pepper []byte, keys map[string]auth.Actor) *Authenticator {
	byHash := make(map[string]*auth.APIKeyInfo, len(keys))
	for key, a := range keys {
		h := hashKey(key, pepper)
		byHash[h] = &auth.APIKeyInfo{
			ID:      "key-" + a.UserID,
			KeyHash: h,
			UserID:  a.UserID,
			Role:    a.Role,
		}
	}
	return NewAuthenticator(&mockAPIKeyRepo{byHash: byHash}, pepper)
}

func TestRequireAPIKey(t *testing.T) {
	pepper := []byte("test-pepper")
	authn := newTestAuthenticator(pepper, map[string]auth.Actor{
		"alice-key": {UserID: "user-alice", Role: auth.RoleUser},
	})

	var gotActor auth.Actor
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotActor, _ = actor(r)
		called = true
		w.WriteHeader(http.StatusNoContent)
	})
	protected := authn.RequireAPIKey(next)

	t.Run("valid key resolves actor", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.Header.Set(apiKeyHeader, "alice-key")
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		require.True(t, called)
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "user-alice", gotActor.UserID)
		assert.Equal(t, auth.RoleUser, gotActor.Role)
	})

	t.Run("missing key", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("unknown key", func(t *testing.T) {
		called = false
		req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
		req.Header.Set(apiKeyHeader, "bogus-key")
		w := httptest.NewRecorder()

		protected.ServeHTTP(w, req)

		assert.False(t, called)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestRequireCapability(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	guarded := RequireCapability(auth.CapManageOrders)(next)

	serve := func(a *auth.Actor) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/orders/o1/approve", nil)
		if a != nil {
			req = req.WithContext(auth.WithActor(req.Context(), *a))
		}
		w := httptest.NewRecorder()
		guarded.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil).Code)
	assert.Equal(t, http.StatusForbidden, serve(&auth.Actor{UserID: "u1", Role: auth.RoleUser}).Code)
	assert.Equal(t, http.StatusNoContent, serve(&auth.Actor{UserID: "a1", Role: auth.RoleAdmin}).Code)
	assert.Equal(t, http.StatusNoContent, serve(&auth.Actor{UserID: "s1", Role: auth.RoleSuperAdmin}).Code)
}
