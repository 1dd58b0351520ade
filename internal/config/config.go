package config

import (
	"context"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"

	SessionMemory = "memory"
	SessionRedis  = "redis"
	SessionCookie = "cookie"

	// DefaultSessionSecret is only acceptable for local development.
	DefaultSessionSecret = "change-me-in-prod"
)

type Config struct {
	Env  string
	Port int

	StoreDriver string
	SQLitePath  string
	DBURL       string

	SessionBackend string
	SessionSecret  string
	SessionTTL     time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	AdminUsername string
	AdminPassword string

	OTELEndpoint string

	LoginRateLimit  int
	LoginRateWindow time.Duration
}

func Load() Config {
	// a missing .env is fine, the process environment wins anyway
	_ = godotenv.Load()

	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		StoreDriver: getEnv("STORE_DRIVER", StoreSQLite),
		SQLitePath:  getEnv("SQLITE_PATH", "leave_management.db"),
		DBURL:       buildDBURL(),

		SessionBackend: getEnv("SESSION_BACKEND", SessionMemory),
		SessionSecret:  getEnv("SESSION_SECRET", DefaultSessionSecret),
		SessionTTL:     getEnvDuration("SESSION_TTL", 12*time.Hour),

		RedisAddr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", "admin123"),

		OTELEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),

		LoginRateLimit:  getEnvInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindow: getEnvDuration("LOGIN_RATE_WINDOW", time.Minute),
	}
}

func (c Config) SecureCookies() bool {
	return c.Env == "prod"
}

func buildDBURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "leavetrack")
	pass := getEnv("DB_PASSWORD", "leavetrack")
	name := getEnv("DB_NAME", "leavetrack")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			slog.Warn("invalid integer env var, using default", "key", key, "value", v)
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			slog.Warn("invalid duration env var, using default", "key", key, "value", v)
			return fallback
		}

		return d
	}
	return fallback
}
