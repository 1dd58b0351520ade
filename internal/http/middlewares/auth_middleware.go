package middlewares

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/leavetrack/internal/domain/user"
	"github.com/geocoder89/leavetrack/internal/session"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type SessionLoader interface {
	Load(c *gin.Context) (user.Identity, error)
}

type AuthMiddleware struct {
	sessions SessionLoader
	log      *slog.Logger
}

func NewAuthMiddleware(sessions SessionLoader, log *slog.Logger) *AuthMiddleware {
	if log == nil {
		log = slog.Default()
	}
	return &AuthMiddleware{sessions: sessions, log: log}
}

// LoadIdentity resolves the session cookie for every request. Failures leave the
// request anonymous; the guards below decide what an anonymous request may do.
func (m *AuthMiddleware) LoadIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := m.sessions.Load(c)
		if err != nil {
			if !errors.Is(err, session.ErrNoSession) {
				m.log.WarnContext(c.Request.Context(), "session lookup failed", "err", err)
			}
			c.Next()
			return
		}

		c.Set(CtxIdentity, id)
		c.Next()
	}
}

// RequireSession sends anonymous visitors back to the login page.
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IdentityFromContext(c).Authenticated() {
			c.Redirect(http.StatusFound, "/")
			c.Abort()
			return
		}
		c.Next()
	}
}

// Optional helpers so handlers don’t need to know the magic keys.

func IdentityFromContext(c *gin.Context) user.Identity {
	v, ok := c.Get(CtxIdentity)
	if !ok {
		return user.Identity{}
	}
	id, _ := v.(user.Identity)
	return id
}
