package middleware_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/api/middleware"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJwtKey = []byte("test-secret-key-123456789012345")

func createTestToken(t *testing.T, claims *models.Claims, duration time.Duration, key []byte, method jwt.SigningMethod) string {
	t.Helper()

	claims.RegisteredClaims = jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(duration)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}

	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)

	return "Bearer " + token
}

func TestAuthMiddleware(t *testing.T) {
	// Arrange
	authMiddleware := middleware.NewAuthMiddleware(testJwtKey)
	userID := uuid.New()
	orgID := uuid.New()

	valid := func() *models.Claims {
		return &models.Claims{UserID: userID, Email: "dana@example.com", Role: models.RoleClient, OrganizationID: orgID}
	}

	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		viewer, ok := middleware.ViewerFromContext(r.Context())
		require.True(t, ok, "viewer should be in context")
		assert.Equal(t, models.Viewer{UserID: userID, Role: models.RoleClient, OrganizationID: orgID}, viewer)

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"success": true}`))
	})

	unauthorized := func(message string) string {
		return `{"success": false, "error": {"code": "UNAUTHORIZED", "message": "` + message + `"}}`
	}

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "Success - Valid Token",
			authHeader:     createTestToken(t, valid(), time.Hour, testJwtKey, jwt.SigningMethodHS256),
			expectedStatus: http.StatusOK,
			expectedBody:   `{"success": true}`,
		},
		{
			name:           "Fail - Missing Authorization Header",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   unauthorized("Authorization header is required"),
		},
		{
			name:           "Fail - No Bearer prefix",
			authHeader:     "InvalidTokenFormat",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   unauthorized("Invalid authorization format"),
		},
		{
			name:           "Fail - Malformed token",
			authHeader:     "Bearer not.a.valid.token",
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   unauthorized("Invalid or expired token"),
		},
		{
			name:           "Fail - Wrong signing key",
			authHeader:     createTestToken(t, valid(), time.Hour, []byte("different-secret-key-0987654321"), jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   unauthorized("Invalid or expired token"),
		},
		{
			name:           "Fail - Unexpected signing method",
			authHeader:     createTestToken(t, valid(), time.Hour, testJwtKey, jwt.SigningMethodHS512),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   unauthorized("Invalid or expired token"),
		},
		{
			name:           "Fail - Expired token",
			authHeader:     createTestToken(t, valid(), -time.Hour, testJwtKey, jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   unauthorized("Invalid or expired token"),
		},
		{
			name:           "Fail - Token without role",
			authHeader:     createTestToken(t, &models.Claims{UserID: userID}, time.Hour, testJwtKey, jwt.SigningMethodHS256),
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   unauthorized("Token carries no role"),
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}

			req = req.WithContext(middleware.WithLogger(req.Context(), slog.New(slog.NewTextHandler(io.Discard, nil))))
			rr := httptest.NewRecorder()

			// Act
			authMiddleware.Authenticate(nextHandler).ServeHTTP(rr, req)

			// Assert
			assert.Equal(t, tc.expectedStatus, rr.Code)
			assert.JSONEq(t, tc.expectedBody, rr.Body.String())
		})
	}
}

func TestRequireRole(t *testing.T) {
	adminOnly := middleware.RequireRole(models.RoleAdmin)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name   string
		claims *models.Claims
		want   int
	}{
		{"Admin passes", &models.Claims{UserID: uuid.New(), Role: models.RoleAdmin}, http.StatusNoContent},
		{"Client is forbidden", &models.Claims{UserID: uuid.New(), Role: models.RoleClient}, http.StatusForbidden},
		{"Anonymous is unauthorized", nil, http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/purchase-requests/x/approve", nil)
			if tt.claims != nil {
				req = req.WithContext(context.WithValue(req.Context(), middleware.UserContextKey, tt.claims))
			}

			rr := httptest.NewRecorder()
			adminOnly.ServeHTTP(rr, req)

			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestLogging(t *testing.T) {
	var seen string

	handler := middleware.Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = w.Header().Get("X-Request-ID")
		require.NotNil(t, middleware.LoggerFromContext(r.Context()))

		_, flushable := w.(http.Flusher)
		assert.True(t, flushable)

		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("Keeps the caller's correlation id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, req)

		assert.Equal(t, "abc-123", seen)
		assert.Equal(t, http.StatusTeapot, rr.Code)
	})

	t.Run("Generates a correlation id", func(t *testing.T) {
		rr := httptest.NewRecorder()

		handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

		_, err := uuid.Parse(rr.Header().Get("X-Request-ID"))
		assert.NoError(t, err)
	})
}
