package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-onboarding/internal/access"
	"go-onboarding/internal/middleware"
	"go-onboarding/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func principalEcho(captured *access.Principal) gin.HandlerFunc {
	return func(c *gin.Context) {
		*captured = middleware.GetPrincipal(c)
		c.Status(http.StatusNoContent)
	}
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestPrincipal_FromHeaders(t *testing.T) {
	var got access.Principal
	r := newRouter()
	r.GET("/weeks", middleware.Principal(testSecret), principalEcho(&got))

	req := httptest.NewRequest(http.MethodGet, "/weeks", nil)
	req.Header.Set(access.HeaderUserRole, "Manager")
	req.Header.Set(access.HeaderUserID, "10")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, access.RoleManager, got.Role)
	assert.True(t, got.Is(10))
}

func TestPrincipal_DefaultsToAnonymousUser(t *testing.T) {
	var got access.Principal
	r := newRouter()
	r.GET("/weeks", middleware.Principal(testSecret), principalEcho(&got))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/weeks", nil))

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, access.RoleUser, got.Role)
	assert.Nil(t, got.UserID)
}

func TestPrincipal_BearerTokenWins(t *testing.T) {
	var got access.Principal
	r := newRouter()
	r.GET("/weeks", middleware.Principal(testSecret), principalEcho(&got))

	token := signToken(t, jwt.MapClaims{
		"user_id": 3,
		"role":    "admin",
		"exp":     time.Now().Add(time.Minute).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/weeks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(access.HeaderUserRole, "user")
	req.Header.Set(access.HeaderUserID, "99")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, access.RoleAdmin, got.Role)
	assert.True(t, got.Is(3))
}

func TestPrincipal_RejectsBadTokens(t *testing.T) {
	r := newRouter()
	r.GET("/weeks", middleware.Principal(testSecret), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	expired := signToken(t, jwt.MapClaims{
		"user_id": 3,
		"role":    "admin",
		"exp":     time.Now().Add(-time.Minute).Unix(),
	})
	wrongKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"user_id": 3}).SignedString([]byte("other"))
	require.NoError(t, err)
	noUser := signToken(t, jwt.MapClaims{"role": "admin"})

	for name, token := range map[string]string{"expired": expired, "wrong key": wrongKey, "no user": noUser, "garbage": "abc.def"} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/weeks", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestAuthMiddleware_RequiresToken(t *testing.T) {
	var got access.Principal
	r := newRouter()
	r.GET("/auth/me", middleware.AuthMiddleware(testSecret), principalEcho(&got))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, jwt.MapClaims{"user_id": "5", "role": "builder"})})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, access.RoleBuilder, got.Role)
	assert.True(t, got.Is(5))
}

type fakeResolver struct {
	ResolveFn func(ctx context.Context, email string) (access.Principal, error)
}

func (f *fakeResolver) ResolveCurrentUser(ctx context.Context, email string) (access.Principal, error) {
	return f.ResolveFn(ctx, email)
}

func TestCurrentUser(t *testing.T) {
	var seenEmail string
	resolver := &fakeResolver{
		ResolveFn: func(ctx context.Context, email string) (access.Principal, error) {
			seenEmail = email
			switch email {
			case "", "admin@example.com":
				return access.NewPrincipal(1, "admin"), nil
			case "manager@example.com":
				return access.NewPrincipal(2, "manager"), nil
			default:
				return access.Principal{}, apperror.ErrNotFound
			}
		},
	}

	var got access.Principal
	r := newRouter()
	r.GET("/api/my-plan", middleware.CurrentUser(resolver), principalEcho(&got))

	t.Run("header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/my-plan", nil)
		req.Header.Set(access.HeaderUserEmail, "manager@example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "manager@example.com", seenEmail)
		assert.Equal(t, access.RoleManager, got.Role)
	})

	t.Run("query parameter", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/my-plan?as_user=admin@example.com", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "admin@example.com", seenEmail)
		assert.True(t, got.IsAdmin())
	})

	t.Run("first user fallback", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/my-plan", nil))

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "", seenEmail)
	})

	t.Run("unknown email", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/my-plan", nil)
		req.Header.Set(access.HeaderUserEmail, "ghost@example.com")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestRequireRole(t *testing.T) {
	r := newRouter()
	r.GET("/api/manager/reports",
		middleware.Principal(testSecret),
		middleware.RequireRole(access.RoleManager, access.RoleAdmin),
		func(c *gin.Context) { c.Status(http.StatusNoContent) },
	)

	for role, want := range map[string]int{
		"manager": http.StatusNoContent,
		"admin":   http.StatusNoContent,
		"user":    http.StatusForbidden,
		"builder": http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/manager/reports", nil)
		req.Header.Set(access.HeaderUserRole, role)
		req.Header.Set(access.HeaderUserID, "1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Code, role)
	}
}
