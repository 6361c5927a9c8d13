package middleware

import (
	"net/http"

	"go-onboarding/internal/rbac"
	"go-onboarding/internal/shared/apperror"
	"go-onboarding/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RBACService is the slice of the rbac service the route guard needs.
type RBACService interface {
	Enforce(req rbac.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := GetPrincipal(c)

		allowed, err := service.Enforce(rbac.EnforceRequest{
			Role:     string(p.Role),
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			abortWithError(c, err)
			return
		}

		if !allowed {
			response.Error(c, http.StatusForbidden, apperror.CodeForbidden, apperror.ErrForbidden.Message, gin.H{
				"required": resource + ":" + action,
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
