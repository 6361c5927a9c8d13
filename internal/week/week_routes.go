package week

import (
	"go-onboarding/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts /weeks. Reads are filtered by the week access
// policy alone, so an unknown role sees an empty list rather than a 403.
func RegisterRoutes(r gin.IRouter, handler *Handler, rbacService middleware.RBACService) {
	weeks := r.Group("/weeks")
	weeks.Use(middleware.RateLimitByPrincipal(5, 20))
	{
		weeks.GET("", handler.List)
		weeks.GET("/:id", handler.Get)
		weeks.POST("", middleware.RBACAuthorize(rbacService, "week", "write"), handler.Create)
		weeks.DELETE("/:id", middleware.RBACAuthorize(rbacService, "week", "write"), handler.Delete)
	}
}
