package payslip

import (
	"go-tutorhub/internal/middleware"
	"go-tutorhub/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
	jwtSecret string,
	logger *zap.Logger,
) {
	payslips := r.Group("/payslips")
	payslips.Use(middleware.AuthMiddleware(jwtSecret))
	payslips.Use(middleware.ContextLogger(logger))

	read := middleware.RBACAuthorize(rbacService, "payslip", "read")
	update := middleware.RBACAuthorize(rbacService, "payslip", "update")
	admin := middleware.RBACAuthorize(rbacService, "payslip", "admin")
	{
		payslips.GET("",
			middleware.RateLimitByUser(3, 10),
			admin,
			handler.List,
		)
		payslips.GET("/export",
			middleware.RateLimitByUser(0.2, 2),
			admin,
			handler.Export,
		)
		payslips.GET("/me",
			middleware.RateLimitByUser(3, 10),
			read,
			handler.GetMine,
		)
		payslips.GET("/my-history",
			middleware.RateLimitByUser(3, 10),
			read,
			handler.ListMine,
		)
		payslips.POST("/generate",
			middleware.RateLimitByUser(0.1, 2),
			update,
			middleware.Idempotency(rdb),
			handler.Generate,
		)

		payslips.GET("/:id",
			middleware.RateLimitByUser(3, 10),
			read,
			handler.GetByID,
		)
		payslips.GET("/:id/history",
			middleware.RateLimitByUser(3, 10),
			read,
			handler.History,
		)

		payslips.PUT("/:id/status",
			middleware.RateLimitByUser(1, 3),
			update,
			handler.UpdateStatus,
		)
		for path, trigger := range map[string]Trigger{
			"/:id/submit":       TriggerSubmitForApproval,
			"/:id/flag-query":   TriggerFlagQuery,
			"/:id/mark-handled": TriggerMarkQueryHandled,
			"/:id/approve":      TriggerApprove,
			"/:id/reject":       TriggerReject,
			"/:id/mark-paid":    TriggerMarkPaid,
		} {
			payslips.POST(path,
				middleware.RateLimitByUser(1, 3),
				update,
				handler.Transition(trigger),
			)
		}

		payslips.POST("/:id/query",
			middleware.RateLimitByUser(1, 5),
			update,
			handler.AddQuery,
		)
		payslips.PUT("/:id/query/:queryId",
			middleware.RateLimitByUser(1, 5),
			update,
			handler.UpdateQuery,
		)
		payslips.DELETE("/:id/query/:queryId",
			middleware.RateLimitByUser(1, 5),
			update,
			handler.DeleteQuery,
		)
		payslips.POST("/:id/query/:queryId/resolve",
			middleware.RateLimitByUser(1, 5),
			update,
			handler.ResolveQuery,
		)

		payslips.POST("/:id/:kind",
			middleware.RateLimitByUser(2, 10),
			update,
			handler.AddLineItem,
		)
		payslips.PUT("/:id/:kind/:itemId",
			middleware.RateLimitByUser(2, 10),
			update,
			handler.UpdateLineItem,
		)
		payslips.DELETE("/:id/:kind/:itemId",
			middleware.RateLimitByUser(2, 10),
			update,
			handler.RemoveLineItem,
		)
	}
}
