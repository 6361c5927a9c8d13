package template

import (
	"go-onboarding/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService) {
	read := middleware.RBACAuthorize(rbacService, "template", "read")
	write := middleware.RBACAuthorize(rbacService, "template", "write")

	templates := r.Group("/templates")
	{
		templates.GET("", read, handler.List)
		templates.GET("/:id", read, handler.Get)
		templates.POST("", write, handler.Create)
		templates.PATCH("/:id", write, handler.Update)
		templates.DELETE("/:id", write, handler.Delete)
		templates.POST("/:id/publish", write, handler.Publish)
		templates.POST("/:id/retire", write, handler.Retire)

		templates.POST("/:id/sections", write, handler.AddSection)
		templates.PATCH("/:id/sections/:sectionId", write, handler.UpdateSection)
		templates.DELETE("/:id/sections/:sectionId", write, handler.DeleteSection)

		templates.POST("/:id/sections/:sectionId/tasks", write, handler.AddTask)
		templates.PATCH("/:id/sections/:sectionId/tasks/:taskId", write, handler.UpdateTask)
		templates.DELETE("/:id/sections/:sectionId/tasks/:taskId", write, handler.DeleteTask)
	}
}
