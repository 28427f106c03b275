package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mostafayousef44200444-rgb/backend/internal/auth"
	"github.com/mostafayousef44200444-rgb/backend/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*called = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth(t *testing.T) {
	logger := zerolog.Nop()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	validToken, err := tokens.Generate("64a1f0c2e5b4a90012345678", model.RoleUser)
	require.NoError(t, err)

	otherTokens := auth.NewTokenManager("other-secret", time.Hour)
	foreignToken, err := otherTokens.Generate("64a1f0c2e5b4a90012345678", model.RoleUser)
	require.NoError(t, err)

	expiredTokens := auth.NewTokenManager("test-secret", -time.Minute)
	expiredToken, err := expiredTokens.Generate("64a1f0c2e5b4a90012345678", model.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "Valid token",
			authHeader: "Bearer " + validToken,
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "Missing header",
			authHeader: "",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Not a bearer scheme",
			authHeader: "Basic dXNlcjpwYXNz",
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Wrong signing secret",
			authHeader: "Bearer " + foreignToken,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "Expired token",
			authHeader: "Bearer " + expiredToken,
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := RequireAuth(tokens, logger)(okHandler(&called))

			req := httptest.NewRequest(http.MethodGet, "/api/orders/my", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, called)
		})
	}
}

func TestRequireAuth_AttachesIdentity(t *testing.T) {
	logger := zerolog.Nop()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	token, err := tokens.Generate("64a1f0c2e5b4a90012345678", model.RoleAdmin)
	require.NoError(t, err)

	var got *auth.Claims
	handler := RequireAuth(tokens, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := IdentityFrom(r.Context())
		require.True(t, ok)
		got = claims
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got)
	assert.Equal(t, "64a1f0c2e5b4a90012345678", got.UserID)
	assert.Equal(t, model.RoleAdmin, got.Role)
}

func TestRequireAdmin(t *testing.T) {
	logger := zerolog.Nop()
	tokens := auth.NewTokenManager("test-secret", time.Hour)

	adminToken, err := tokens.Generate("64a1f0c2e5b4a90012345678", model.RoleAdmin)
	require.NoError(t, err)
	userToken, err := tokens.Generate("64a1f0c2e5b4a90012345679", model.RoleUser)
	require.NoError(t, err)

	tests := []struct {
		name       string
		token      string
		wantStatus int
		wantNext   bool
	}{
		{
			name:       "Admin passes",
			token:      adminToken,
			wantStatus: http.StatusOK,
			wantNext:   true,
		},
		{
			name:       "Non-admin forbidden",
			token:      userToken,
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := RequireAuth(tokens, logger)(RequireAdmin(logger)(okHandler(&called)))

			req := httptest.NewRequest(http.MethodGet, "/api/orders", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantNext, called)
		})
	}
}

func TestRequireAdmin_WithoutAuth(t *testing.T) {
	called := false
	handler := RequireAdmin(zerolog.Nop())(okHandler(&called))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestRecovery(t *testing.T) {
	handler := Recovery(zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestRateLimiter(t *testing.T) {
	called := 0
	rl := NewRateLimiter(1, 2, zerolog.Nop())
	handler := rl.Limit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called++
	}))

	makeReq := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	// Burst of 2 allowed, third request throttled.
	assert.Equal(t, http.StatusOK, makeReq("10.0.0.1:1234"))
	assert.Equal(t, http.StatusOK, makeReq("10.0.0.1:1234"))
	assert.Equal(t, http.StatusTooManyRequests, makeReq("10.0.0.1:1234"))

	// Other clients are unaffected.
	assert.Equal(t, http.StatusOK, makeReq("10.0.0.2:1234"))

	assert.Equal(t, 3, called)
}
