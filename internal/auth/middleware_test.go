package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"formfitness/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddlewareHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := session.NewMemoryStore(time.Hour)

	tests := []struct {
		name           string
		authHeader     string
		expectedStatus int
	}{
		{"Empty header", "", http.StatusUnauthorized},
		{"Invalid format", "Token abc", http.StatusUnauthorized},
		{"Empty token", "Bearer ", http.StatusUnauthorized},
		{"Garbage token", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			req := httptest.NewRequest("GET", "/", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			c.Request = req

			AuthMiddleware(testSecret, store)(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, c.IsAborted())
		})
	}
}

func TestAuthMiddlewareSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	store := session.NewMemoryStore(time.Hour)

	sess, err := store.Create(ctx, 5, "user", "member")
	require.NoError(t, err)

	newRouter := func() *gin.Engine {
		r := gin.New()
		r.GET("/me", AuthMiddleware(testSecret, store), func(c *gin.Context) {
			id, _ := GetUserID(c)
			s, ok := GetSession(c)
			require.True(t, ok)
			c.JSON(http.StatusOK, gin.H{"user_id": id, "session": s.ID})
		})
		return r
	}

	t.Run("Live session passes", func(t *testing.T) {
		token, err := GenerateAccessToken(5, "user", "member", sess.ID, testSecret)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), sess.ID)
	})

	t.Run("Refresh token is rejected", func(t *testing.T) {
		token, err := GenerateRefreshToken(5, "user", "member", sess.ID, testSecret)
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Ended session is rejected", func(t *testing.T) {
		token, err := GenerateAccessToken(5, "user", "member", sess.ID, testSecret)
		require.NoError(t, err)
		require.NoError(t, store.Delete(ctx, sess.ID))

		w := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		newRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Session ended")
	})
}

func TestRequireRole(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		userRole       any
		allowed        []string
		expectedStatus int
	}{
		{"Correct role", "admin", []string{"admin"}, http.StatusOK},
		{"One of several roles", "staff", []string{"staff", "admin"}, http.StatusOK},
		{"Missing role", nil, []string{"admin"}, http.StatusUnauthorized},
		{"Wrong role type", 123, []string{"admin"}, http.StatusUnauthorized},
		{"Insufficient role", "member", []string{"staff", "admin"}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			if tt.userRole != nil {
				c.Set("user_role", tt.userRole)
			}
			c.Request = httptest.NewRequest("GET", "/", nil)

			RequireRole(tt.allowed...)(c)
			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		userID   any
		expected int
		ok       bool
	}{
		{"Valid ID", 42, 42, true},
		{"Missing ID", nil, 0, false},
		{"Wrong type", "abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			if tt.userID != nil {
				c.Set("user_id", tt.userID)
			}
			c.Request = httptest.NewRequest("GET", "/", nil)

			id, ok := GetUserID(c)
			assert.Equal(t, tt.expected, id)
			assert.Equal(t, tt.ok, ok)
		})
	}
}
