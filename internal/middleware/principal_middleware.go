package middleware

import (
	"context"
	"strings"

	"go-onboarding/internal/access"
	autherrors "go-onboarding/internal/auth/errors"
	"go-onboarding/internal/shared/apperror"
	"go-onboarding/internal/shared/contextutil"
	"go-onboarding/internal/shared/response"

	"github.com/gin-gonic/gin"
)

const ContextPrincipal = "principal"

// Principal resolves the caller. A bearer token wins when present; an
// invalid one is rejected with 401. Otherwise the X-User-Role and
// X-User-Id headers are used as-is.
func Principal(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := access.ResolvePrincipal(c.GetHeader(access.HeaderUserRole), c.GetHeader(access.HeaderUserID))

		if raw, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer "); found && raw != "" {
			tokenPrincipal, err := ParseAccessToken(jwtSecret, raw)
			if err != nil {
				abortWithError(c, err)
				return
			}
			p = tokenPrincipal
		}

		setPrincipal(c, p)
		c.Next()
	}
}

// AuthMiddleware requires a valid bearer token (or access_token cookie).
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, found := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !found {
			tokenString = ""
		}
		if tokenString == "" {
			if cookie, err := c.Cookie("access_token"); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			abortWithError(c, autherrors.ErrTokenNotFound)
			return
		}

		p, err := ParseAccessToken(jwtSecret, tokenString)
		if err != nil {
			abortWithError(c, err)
			return
		}

		setPrincipal(c, p)
		c.Next()
	}
}

// CurrentUserResolver finds the "current user" for endpoints that act on
// behalf of one person: by email when given, else the first user.
type CurrentUserResolver interface {
	ResolveCurrentUser(ctx context.Context, email string) (access.Principal, error)
}

// CurrentUser replaces the principal with the one resolved from the
// X-User-Email header, the as_user query parameter, or the first user.
func CurrentUser(resolver CurrentUserResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := strings.TrimSpace(c.GetHeader(access.HeaderUserEmail))
		if email == "" {
			email = strings.TrimSpace(c.Query(access.QueryAsUser))
		}

		p, err := resolver.ResolveCurrentUser(c.Request.Context(), email)
		if err != nil {
			abortWithError(c, err)
			return
		}

		setPrincipal(c, p)
		c.Next()
	}
}

// RequireRole lets only the listed roles through.
func RequireRole(roles ...access.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)
		for _, r := range roles {
			if p.Role == r {
				c.Next()
				return
			}
		}
		abortWithError(c, apperror.ErrForbidden)
	}
}

func GetPrincipal(c *gin.Context) access.Principal {
	if v, ok := c.Get(ContextPrincipal); ok {
		if p, ok := v.(access.Principal); ok {
			return p
		}
	}
	return access.FromContext(c.Request.Context())
}

func setPrincipal(c *gin.Context, p access.Principal) {
	c.Set(ContextPrincipal, p)
	c.Set("user_id", p.IDString())
	c.Set("role", string(p.Role))

	ctx := access.WithPrincipal(c.Request.Context(), p)
	ctx = contextutil.WithUserID(ctx, p.IDString())
	c.Request = c.Request.WithContext(ctx)
}

func abortWithError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
	c.Abort()
}
