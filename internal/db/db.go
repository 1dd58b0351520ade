package db

import (
	"context"
	"time"

	"github.com/geocoder89/leavetrack/internal/repo/postgres"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool connects to Postgres and creates the tables if they are missing.
func NewPool(dbURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dbURL)

	if err != nil {
		return nil, err
	}

	cfg.MaxConns = 5

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)

	if err != nil {
		return nil, err
	}

	err = pool.Ping(ctx)

	if err != nil {
		pool.Close()
		return nil, err
	}

	err = postgres.EnsureSchema(ctx, pool)

	if err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
