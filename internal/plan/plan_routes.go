package plan

import (
	"go-onboarding/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the plan API. currentUser resolves the acting
// user for my-plan and the admin overview.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	currentUser gin.HandlerFunc,
) {
	r.GET("/my-plan",
		currentUser,
		middleware.RBACAuthorize(rbacService, "plan", "read-own"),
		handler.MyPlan,
	)

	r.GET("/admin/overview",
		currentUser,
		middleware.RBACAuthorize(rbacService, "admin", "overview"),
		handler.Overview,
	)

	plans := r.Group("/v1/plans")
	{
		plans.GET("", middleware.RBACAuthorize(rbacService, "plan", "read"), handler.List)
		plans.GET("/:id", middleware.RBACAuthorize(rbacService, "plan", "read"), handler.Get)
		plans.DELETE("/:id", middleware.RBACAuthorize(rbacService, "plan", "delete"), handler.Delete)
	}
}
