package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vantahire/internal/domain"
	"vantahire/pkg/access"
)

// RequireRole runs the shared access decision for API routes. A redirect to
// the sign in page becomes 401, any other redirect becomes 403.
func RequireRole(roles ...domain.Role) gin.HandlerFunc {
	required := make([]access.Role, len(roles))
	for i, r := range roles {
		required[i] = access.Role(r)
	}

	return func(c *gin.Context) {
		state := access.SessionState{}
		if info, ok := CurrentUser(c); ok {
			state.Principal = &access.Principal{ID: info.UserID, Role: access.Role(info.Role)}
		}

		decision := access.Decide(state, c.FullPath(), required)
		switch {
		case decision.Kind == access.Render:
			c.Next()
		case decision.Target == access.AuthPath:
			abortJSON(c, http.StatusUnauthorized, "Authentication required", "MISSING_AUTH")
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":    "Insufficient permissions",
				"code":     "FORBIDDEN",
				"redirect": decision.Target,
			})
		}
	}
}
