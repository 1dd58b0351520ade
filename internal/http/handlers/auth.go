package handlers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/geocoder89/leavetrack/internal/auth"
	"github.com/geocoder89/leavetrack/internal/domain/user"
	"github.com/geocoder89/leavetrack/internal/http/views"
	"github.com/geocoder89/leavetrack/internal/observability"
	"github.com/gin-gonic/gin"
)

const flashInvalidCredentials = "Invalid credentials"

type Authenticator interface {
	Login(ctx context.Context, username, password string) (user.Identity, error)
}

type Sessions interface {
	Start(c *gin.Context, id user.Identity) error
	Destroy(c *gin.Context) error
	SetFlash(c *gin.Context, msg string)
	PopFlash(c *gin.Context) string
}

type AuthHandler struct {
	auth     Authenticator
	sessions Sessions
	prom     *observability.Prom
	log      *slog.Logger
}

func NewAuthHandler(authenticator Authenticator, sessions Sessions, prom *observability.Prom, log *slog.Logger) *AuthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &AuthHandler{
		auth:     authenticator,
		sessions: sessions,
		prom:     prom,
		log:      log,
	}
}

type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// Index shows the login form together with any pending flash message.
func (h *AuthHandler) Index(ctx *gin.Context) {
	RespondPage(ctx, 200, views.Login, views.LoginPage{Flash: h.sessions.PopFlash(ctx)})
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if fields := BindForm(ctx, &req); fields != nil {
		h.prom.ObserveLogin("invalid")
		h.sessions.SetFlash(ctx, flashInvalidCredentials)
		redirect(ctx, "/")
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), 3*time.Second)
	defer cancel()

	id, err := h.auth.Login(cctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.prom.ObserveLogin("invalid")
			h.log.InfoContext(ctx.Request.Context(), "login rejected", "username", req.Username)
			h.sessions.SetFlash(ctx, flashInvalidCredentials)
			redirect(ctx, "/")
			return
		}

		h.prom.ObserveLogin("error")
		RespondInternal(ctx, h.log, err)
		return
	}

	if err := h.sessions.Start(ctx, id); err != nil {
		h.prom.ObserveLogin("error")
		RespondInternal(ctx, h.log, err)
		return
	}

	h.prom.ObserveLogin("success")
	h.log.InfoContext(ctx.Request.Context(), "login", "user_id", id.UserID, "role", id.Role.String())

	redirect(ctx, "/dashboard")
}

// Logout works with or without a session.
func (h *AuthHandler) Logout(ctx *gin.Context) {
	if err := h.sessions.Destroy(ctx); err != nil {
		h.log.WarnContext(ctx.Request.Context(), "session destroy failed", "err", err)
	}
	redirect(ctx, "/")
}
