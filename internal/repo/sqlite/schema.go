package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Open opens (creating if needed) the database file and makes sure the schema exists.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", "file:"+path+"?_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	// sqlite serialises writers; a single connection also keeps ":memory:" databases coherent
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return db, nil
}

func EnsureSchema(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS "user" (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			username VARCHAR(50)  NOT NULL UNIQUE,
			password VARCHAR(255) NOT NULL,
			role     VARCHAR(20)  NOT NULL
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS leave_request (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			start_date   VARCHAR(10)  NOT NULL,
			end_date     VARCHAR(10)  NOT NULL,
			reason       VARCHAR(255) NOT NULL,
			status       VARCHAR(20)  NOT NULL DEFAULT 'Inprogress',
			user_id      INTEGER NOT NULL REFERENCES "user"(id),
			processed_by INTEGER NULL REFERENCES "user"(id)
		)
	`)
	if err != nil {
		return err
	}

	_, err = db.ExecContext(ctx, `
		CREATE INDEX IF NOT EXISTS leave_request_user_id_idx ON leave_request (user_id)
	`)
	return err
}
