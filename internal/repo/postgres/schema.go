package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS "user" (
	id       BIGSERIAL PRIMARY KEY,
	username VARCHAR(50)  NOT NULL UNIQUE,
	password VARCHAR(255) NOT NULL,
	role     VARCHAR(20)  NOT NULL
);

CREATE TABLE IF NOT EXISTS leave_request (
	id           BIGSERIAL PRIMARY KEY,
	start_date   VARCHAR(10)  NOT NULL,
	end_date     VARCHAR(10)  NOT NULL,
	reason       VARCHAR(255) NOT NULL,
	status       VARCHAR(20)  NOT NULL DEFAULT 'Inprogress',
	user_id      BIGINT NOT NULL REFERENCES "user"(id),
	processed_by BIGINT NULL REFERENCES "user"(id)
);

CREATE INDEX IF NOT EXISTS leave_request_user_id_idx ON leave_request (user_id);
`

// EnsureSchema creates both tables when they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, schemaSQL)
	return err
}
