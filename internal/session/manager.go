package session

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/geocoder89/leavetrack/internal/domain/user"
	"github.com/gin-gonic/gin"
)

const (
	DefaultCookieName = "leavetrack_session"
	flashCookieName   = "leavetrack_flash"
	flashMaxAge       = 60
)

type ManagerConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager binds a Store to the request's cookies.
type Manager struct {
	store  Store
	cookie string
	ttl    time.Duration
	secure bool
}

func NewManager(store Store, cfg ManagerConfig) *Manager {
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = 12 * time.Hour
	}

	return &Manager{
		store:  store,
		cookie: cfg.CookieName,
		ttl:    cfg.TTL,
		secure: cfg.Secure,
	}
}

// Start replaces any session the client already holds with a fresh one for id.
func (m *Manager) Start(c *gin.Context, id user.Identity) error {
	if raw, err := c.Cookie(m.cookie); err == nil && raw != "" {
		_ = m.store.Destroy(c.Request.Context(), raw)
	}

	token, err := m.store.Create(c.Request.Context(), id)
	if err != nil {
		return err
	}

	m.setCookie(c, m.cookie, token, int(m.ttl.Seconds()))
	return nil
}

// Load resolves the session cookie. A stale or forged cookie is cleared and reported as anonymous.
func (m *Manager) Load(c *gin.Context) (user.Identity, error) {
	raw, err := c.Cookie(m.cookie)
	if err != nil || raw == "" {
		return user.Identity{}, ErrNoSession
	}

	id, err := m.store.Get(c.Request.Context(), raw)
	if err != nil {
		if errors.Is(err, ErrNoSession) {
			m.setCookie(c, m.cookie, "", -1)
		}
		return user.Identity{}, err
	}

	return id, nil
}

// Destroy ends the session if there is one. It is safe to call without a session.
func (m *Manager) Destroy(c *gin.Context) error {
	raw, err := c.Cookie(m.cookie)

	m.setCookie(c, m.cookie, "", -1)

	if err != nil || raw == "" {
		return nil
	}

	return m.store.Destroy(c.Request.Context(), raw)
}

func (m *Manager) SetFlash(c *gin.Context, msg string) {
	m.setCookie(c, flashCookieName, base64.RawURLEncoding.EncodeToString([]byte(msg)), flashMaxAge)
}

// PopFlash returns the pending flash message, if any, and clears it.
func (m *Manager) PopFlash(c *gin.Context) string {
	raw, err := c.Cookie(flashCookieName)
	if err != nil || raw == "" {
		return ""
	}

	m.setCookie(c, flashCookieName, "", -1)

	msg, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return ""
	}
	return string(msg)
}

func (m *Manager) Ping(ctx context.Context) error {
	return m.store.Ping(ctx)
}

func (m *Manager) setCookie(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", "", m.secure, true)
}
