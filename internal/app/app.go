package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/geocoder89/leavetrack/internal/auth"
	"github.com/geocoder89/leavetrack/internal/config"
	"github.com/geocoder89/leavetrack/internal/db"
	"github.com/geocoder89/leavetrack/internal/domain/leave"
	"github.com/geocoder89/leavetrack/internal/domain/user"
	"github.com/geocoder89/leavetrack/internal/leaves"
	"github.com/geocoder89/leavetrack/internal/notifications"
	"github.com/geocoder89/leavetrack/internal/observability"
	"github.com/geocoder89/leavetrack/internal/repo/memory"
	"github.com/geocoder89/leavetrack/internal/repo/postgres"
	"github.com/geocoder89/leavetrack/internal/repo/sqlite"
	"github.com/geocoder89/leavetrack/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type UserStore interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
	GetByID(ctx context.Context, id int64) (user.User, error)
	Create(ctx context.Context, username, passwordHash string, role user.Role) (user.User, error)
}

type LeaveStore interface {
	leaves.Repo
	GetByID(ctx context.Context, id int64) (leave.LeaveRequest, error)
}

// App is everything a request handler may need. It is built once in main and
// handed to the router; nothing here is package-global.
type App struct {
	Config   config.Config
	Log      *slog.Logger
	Registry *prometheus.Registry
	Prom     *observability.Prom

	Users       UserStore
	LeaveStore  LeaveStore
	Leaves      *leaves.Service
	Auth        *auth.Authenticator
	Sessions    *session.Manager
	StorePing   func(ctx context.Context) error
	SessionPing func(ctx context.Context) error

	closers  []func() error
	draining atomic.Bool
}

// New opens the configured store and session backend, creates the schema and
// seeds the bootstrap admin account.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	a := &App{
		Config:   cfg,
		Log:      log,
		Registry: reg,
		Prom:     observability.NewProm(reg),
	}

	if err := a.openStore(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}

	if err := a.openSessions(); err != nil {
		_ = a.Close()
		return nil, err
	}

	created, err := db.EnsureAdminUser(ctx, a.Users, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		_ = a.Close()
		return nil, fmt.Errorf("seed admin: %w", err)
	}
	if created {
		log.Info("admin user created", "username", cfg.AdminUsername)
	}

	notifier := notifications.NewProtectedNotifier(
		notifications.NewLogNotifier(log),
		notifications.ProtectedNotifierConfig{},
	)

	a.Leaves = leaves.NewService(a.LeaveStore,
		leaves.WithNotifier(notifier),
		leaves.WithMetrics(a.Prom),
		leaves.WithLogger(log),
	)
	a.Auth = auth.NewAuthenticator(a.Users)

	return a, nil
}

func (a *App) openStore(ctx context.Context) error {
	switch a.Config.StoreDriver {
	case config.StoreSQLite:
		conn, err := sqlite.Open(ctx, a.Config.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite %s: %w", a.Config.SQLitePath, err)
		}
		a.closers = append(a.closers, conn.Close)
		a.Users = sqlite.NewUsersRepo(conn, a.Prom)
		a.LeaveStore = sqlite.NewLeaveRequestsRepo(conn, a.Prom)
		a.StorePing = conn.PingContext

	case config.StorePostgres:
		pool, err := db.NewPool(a.Config.DBURL)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		a.Users = postgres.NewUsersRepo(pool, a.Prom)
		a.LeaveStore = postgres.NewLeaveRequestsRepo(pool, a.Prom)
		a.StorePing = pool.Ping

	case config.StoreMemory:
		store := memory.NewStore()
		a.Users = store.Users()
		a.LeaveStore = store.LeaveRequests()
		a.StorePing = func(context.Context) error { return nil }

	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", a.Config.StoreDriver)
	}

	a.Log.Info("store ready", "driver", a.Config.StoreDriver)
	return nil
}

func (a *App) openSessions() error {
	var store session.Store

	switch a.Config.SessionBackend {
	case config.SessionMemory:
		store = session.NewMemoryStore(a.Config.SessionTTL)

	case config.SessionRedis:
		rs := session.NewRedisStore(session.NewRedisClient(session.RedisConfig{
			Addr:     a.Config.RedisAddr,
			Password: a.Config.RedisPassword,
			DB:       a.Config.RedisDB,
		}), a.Config.SessionTTL)
		a.closers = append(a.closers, rs.Close)
		store = rs

	case config.SessionCookie:
		if a.Config.Env != "dev" && (a.Config.SessionSecret == "" || a.Config.SessionSecret == config.DefaultSessionSecret) {
			return errors.New("SESSION_SECRET must be set to a non-default value for the cookie session backend")
		}
		store = session.NewTokenStore(auth.NewManager(a.Config.SessionSecret, a.Config.SessionTTL))

	default:
		return fmt.Errorf("unknown SESSION_BACKEND %q", a.Config.SessionBackend)
	}

	a.Sessions = session.NewManager(store, session.ManagerConfig{
		TTL:    a.Config.SessionTTL,
		Secure: a.Config.SecureCookies(),
	})
	a.SessionPing = a.Sessions.Ping

	a.Log.Info("sessions ready", "backend", a.Config.SessionBackend)
	return nil
}

// BeginShutdown flips readiness to failing while in-flight requests drain.
func (a *App) BeginShutdown() {
	a.draining.Store(true)
}

func (a *App) ShuttingDown() bool {
	return a.draining.Load()
}

// Close releases the store and session backend in reverse order of opening.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
