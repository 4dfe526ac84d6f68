package middleware

import (
	"net/http"

	"go-tutorhub/internal/domain"
	"go-tutorhub/internal/shared/apperror"

	"github.com/gin-gonic/gin"
)

// RBACService is satisfied by anything that can answer an EnforceRequest.
type RBACService interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

func RBACAuthorize(service RBACService, resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, errorEnvelope(apperror.CodeUnauthorized, "missing auth context", nil))
			return
		}

		allowed, err := service.Enforce(domain.EnforceRequest{
			UserID:   userID,
			Resource: resource,
			Action:   action,
		})
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, errorEnvelope(apperror.CodeInternalError, "authorization check failed", nil))
			return
		}

		if !allowed {
			c.AbortWithStatusJSON(http.StatusForbidden, errorEnvelope(
				apperror.CodeForbidden,
				"You do not have permission to access this resource",
				gin.H{"required": resource + ":" + action},
			))
			return
		}
		c.Next()
	}
}
