package db

import (
	"context"
	"errors"

	"github.com/geocoder89/leavetrack/internal/domain/user"
	"github.com/geocoder89/leavetrack/internal/security"
)

type AdminStore interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
	Create(ctx context.Context, username, passwordHash string, role user.Role) (user.User, error)
}

// EnsureAdminUser creates the bootstrap admin account unless that username already exists.
// It returns true when an account was created.
func EnsureAdminUser(ctx context.Context, users AdminStore, username, password string) (bool, error) {
	if username == "" || password == "" {
		return false, nil
	}

	_, err := users.GetByUsername(ctx, username)

	if err == nil {
		return false, nil
	}

	if !errors.Is(err, user.ErrNotFound) {
		return false, err
	}

	hash, err := security.HashPassword(password)

	if err != nil {
		return false, err
	}

	_, err = users.Create(ctx, username, hash, user.RoleAdmin)

	// another instance may have seeded between the lookup and the insert
	if errors.Is(err, user.ErrUsernameTaken) {
		return false, nil
	}

	if err != nil {
		return false, err
	}

	return true, nil
}
