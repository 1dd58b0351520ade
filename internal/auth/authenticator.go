package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/geocoder89/leavetrack/internal/domain/user"
	"github.com/geocoder89/leavetrack/internal/security"
)

// ErrInvalidCredentials deliberately covers both an unknown username and a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

type UserReader interface {
	GetByUsername(ctx context.Context, username string) (user.User, error)
}

type Authenticator struct {
	users UserReader
}

func NewAuthenticator(users UserReader) *Authenticator {
	return &Authenticator{users: users}
}

func (a *Authenticator) Login(ctx context.Context, username, password string) (user.Identity, error) {
	u, err := a.users.GetByUsername(ctx, username)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			_ = security.BurnCompare(password)
			return user.Identity{}, ErrInvalidCredentials
		}
		return user.Identity{}, fmt.Errorf("lookup user: %w", err)
	}

	if err := security.CheckPassword(u.PasswordHash, password); err != nil {
		return user.Identity{}, ErrInvalidCredentials
	}

	return user.Identity{UserID: u.ID, Role: u.Role}, nil
}
