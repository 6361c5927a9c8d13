package assignment

import (
	"go-onboarding/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

// RegisterRoutes mounts POST /v1/assignments. With rdb set, a repeated
// Idempotency-Key replays the first response instead of creating a
// second plan.
func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService middleware.RBACService, rdb *redis.Client) {
	r.POST("/v1/assignments",
		middleware.RateLimitByPrincipal(1, 5),
		middleware.RBACAuthorize(rbacService, "template", "assign"),
		middleware.Idempotency(rdb),
		handler.Assign,
	)
}
