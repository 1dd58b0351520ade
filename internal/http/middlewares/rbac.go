package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireDecider admits managers and admins. Anonymous requests go to the login
// page, other roles back to their dashboard.
func (m *AuthMiddleware) RequireDecider() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := IdentityFromContext(c)

		if !id.Authenticated() {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		if !id.Role.CanDecide() {
			m.log.InfoContext(c.Request.Context(), "decision refused",
				"user_id", id.UserID,
				"role", id.Role.String(),
				"path", c.Request.URL.Path,
			)
			c.Redirect(http.StatusFound, "/dashboard")
			c.Abort()
			return
		}
		c.Next()
	}
}
