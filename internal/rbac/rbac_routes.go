package rbac

import (
	"go-tutorhub/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, jwtSecret string) {
	group := r.Group("/rbac")
	group.Use(middleware.AuthMiddleware(jwtSecret))
	{
		group.POST("/enforce",
			middleware.RateLimitByUser(5, 20),
			handler.Enforce,
		)
	}
}
