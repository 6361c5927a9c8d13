package notification

import (
	"go-onboarding/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	notifications := r.Group("/v1/notifications")
	notifications.Use(middleware.RBACAuthorize(rbacService, "notification", "read"))
	{
		notifications.GET("", handler.List)
		notifications.POST("/:id/read", handler.MarkRead)
	}
}
