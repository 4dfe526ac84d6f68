package payrate

import (
	"go-tutorhub/internal/middleware"
	"go-tutorhub/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	jwtSecret string,
) {
	rates := r.Group("/pay-rates")
	rates.Use(middleware.AuthMiddleware(jwtSecret))
	{
		rates.GET("/:userId",
			middleware.RateLimitByUser(2, 5),
			middleware.RBACAuthorize(rbacService, "pay_rate", "read"),
			handler.ListForUser,
		)
		rates.POST("",
			middleware.RateLimitByUser(0.1, 1),
			middleware.RBACAuthorize(rbacService, "pay_rate", "update"),
			handler.Create,
		)
	}
}
