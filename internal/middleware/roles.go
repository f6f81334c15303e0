package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-api/internal/auth"
	apierrors "github.com/yukikurage/task-api/internal/errors"
	"github.com/yukikurage/task-api/internal/logger"
	"github.com/yukikurage/task-api/internal/models"
	"go.uber.org/zap"
)

// RequireRoles admits the authenticated user when they hold any of required.
// It must run after RequireAuth.
func RequireRoles(log *zap.Logger, required ...models.Role) gin.HandlerFunc {
	security := logger.OrNop(log).Named(logger.NameSecurity)

	return func(c *gin.Context) {
		user, ok := GetUser(c)
		if !ok {
			apierrors.Unauthorized(c, "User not found in request")
			return
		}

		if err := auth.Authorize(user.Roles, required); err != nil {
			var forbidden *auth.ForbiddenError
			if errors.As(err, &forbidden) {
				security.Warn("Role check failed",
					zap.Uint64("user_id", user.ID),
					zap.String("path", c.FullPath()),
					zap.Any("roles", user.Roles),
					zap.Any("required", forbidden.Required),
				)
			}
			apierrors.Forbidden(c, err.Error())
			return
		}

		c.Next()
	}
}
