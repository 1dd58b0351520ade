package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/geocoder89/leavetrack/internal/domain/user"
	"github.com/geocoder89/leavetrack/internal/observability"
	"github.com/mattn/go-sqlite3"
)

type UsersRepo struct {
	db   *sql.DB
	prom *observability.Prom
}

func NewUsersRepo(db *sql.DB, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{db: db, prom: prom}
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return r.getOne(ctx, "users.get_by_username",
		`SELECT id, username, password, role FROM "user" WHERE username = ?`, username)
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	return r.getOne(ctx, "users.get_by_id",
		`SELECT id, username, password, role FROM "user" WHERE id = ?`, id)
}

func (r *UsersRepo) getOne(ctx context.Context, op, q string, arg any) (user.User, error) {
	var (
		u    user.User
		role string
	)

	err := r.prom.ObserveDB(op, func() error {
		return r.db.QueryRowContext(ctx, q, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &role)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}

	u.Role, err = user.ParseRole(role)
	if err != nil {
		return user.User{}, fmt.Errorf("user %d: %w", u.ID, err)
	}

	return u, nil
}

func (r *UsersRepo) Create(ctx context.Context, username, passwordHash string, role user.Role) (user.User, error) {
	var res sql.Result

	err := r.prom.ObserveDB("users.create", func() error {
		var e error
		res, e = r.db.ExecContext(ctx,
			`INSERT INTO "user" (username, password, role) VALUES (?, ?, ?)`,
			username, passwordHash, role.String(),
		)
		return e
	})
	if err != nil {
		var liteErr sqlite3.Error
		if errors.As(err, &liteErr) && liteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return user.User{}, user.ErrUsernameTaken
		}
		return user.User{}, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return user.User{}, err
	}

	return user.User{ID: id, Username: username, PasswordHash: passwordHash, Role: role}, nil
}
