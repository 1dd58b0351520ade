package http

import (
	"github.com/geocoder89/leavetrack/internal/app"
	"github.com/geocoder89/leavetrack/internal/http/handlers"
	"github.com/geocoder89/leavetrack/internal/http/middlewares"
	"github.com/geocoder89/leavetrack/internal/http/views"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const (
	serviceName  = "leavetrack"
	maxFormBytes = 64 << 10
)

func NewRouter(a *app.App) *gin.Engine {
	if a.Config.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.SetHTMLTemplate(views.Templates())

	// middleware

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(otelgin.Middleware(serviceName))
	r.Use(a.Prom.GinHandleMiddleware())
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.MaxBodyBytes(maxFormBytes))

	authMW := middlewares.NewAuthMiddleware(a.Sessions, a.Log)
	r.Use(authMW.LoadIdentity())
	r.Use(middlewares.RequestLogger(a.Log))

	// health
	h := handlers.NewHealthHandler(map[string]handlers.Check{
		"store":    a.StorePing,
		"sessions": a.SessionPing,
	}, a.ShuttingDown)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(a.Registry, promhttp.HandlerOpts{})))

	// Wire up handlers
	authHandler := handlers.NewAuthHandler(a.Auth, a.Sessions, a.Prom, a.Log)
	leavesHandler := handlers.NewLeavesHandler(a.Leaves, a.Users, a.Log)

	loginLimiter := middlewares.NewRateLimiter(a.Config.LoginRateLimit, a.Config.LoginRateWindow)

	r.GET("/", authHandler.Index)
	r.POST("/login", loginLimiter.RateLimiterMiddleware(middlewares.KeyByIP), authHandler.Login)
	r.GET("/logout", authHandler.Logout)

	session := r.Group("/", authMW.RequireSession())
	session.GET("/dashboard", leavesHandler.Dashboard)
	session.GET("/create_leave", leavesHandler.CreateLeaveForm)
	session.POST("/create_leave", leavesHandler.CreateLeave)

	deciders := session.Group("/", authMW.RequireDecider())
	deciders.GET("/approve_leave/:id", leavesHandler.Approve)
	deciders.GET("/reject_leave/:id", leavesHandler.Reject)

	return r
}
