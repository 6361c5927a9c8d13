package rbac_http

import (
	"go-onboarding/internal/middleware"
	"go-onboarding/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *rbac.Handler, service rbac.Service) {
	group := r.Group("/rbac")
	{
		group.POST("/enforce", handler.Enforce)
		group.GET("/roles/:role/permissions", middleware.RBACAuthorize(service, "user", "read"), handler.Permissions)
	}
}
