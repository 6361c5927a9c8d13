package user

import (
	"go-onboarding/internal/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the admin user API under /v1/users and the
// manager reports view. currentUser resolves the acting user for the
// latter.
func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService middleware.RBACService,
	currentUser gin.HandlerFunc,
) {
	users := r.Group("/v1/users")
	{
		users.GET("",
			middleware.RateLimitByPrincipal(3, 10),
			middleware.RBACAuthorize(rbacService, "user", "read"),
			handler.GetAll,
		)

		users.GET("/:id",
			middleware.RateLimitByPrincipal(3, 10),
			middleware.RBACAuthorize(rbacService, "user", "read"),
			handler.GetByID,
		)

		users.POST("",
			middleware.RateLimitByPrincipal(1, 5),
			middleware.RBACAuthorize(rbacService, "user", "write"),
			handler.Create,
		)

		users.PUT("/:id",
			middleware.RateLimitByPrincipal(1, 5),
			middleware.RBACAuthorize(rbacService, "user", "write"),
			handler.Update,
		)

		users.DELETE("/:id",
			middleware.RateLimitByPrincipal(1, 5),
			middleware.RBACAuthorize(rbacService, "user", "write"),
			handler.Delete,
		)
	}

	r.GET("/manager/reports",
		currentUser,
		middleware.RBACAuthorize(rbacService, "report", "read"),
		handler.Reports,
	)
}
