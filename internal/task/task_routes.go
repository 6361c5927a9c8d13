package task

import (
	"go-onboarding/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts task routes. Every operation is authorized
// through the owning week, so no RBAC guard sits in front of them.
func RegisterRoutes(r gin.IRouter, handler *Handler) {
	r.POST("/weeks/:id/tasks", middleware.RateLimitByPrincipal(5, 20), handler.Create)

	tasks := r.Group("/tasks")
	tasks.Use(middleware.RateLimitByPrincipal(5, 20))
	{
		tasks.GET("/:id", handler.Get)
		tasks.POST("/:id/notes", handler.UpdateNotes)
		tasks.POST("/:id/due-date", handler.UpdateDueDate)
		tasks.POST("/:id/status", handler.UpdateStatus)
		tasks.DELETE("/:id", handler.Delete)
	}
}
