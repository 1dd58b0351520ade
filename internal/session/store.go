package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/geocoder89/leavetrack/internal/domain/user"
)

var ErrNoSession = errors.New("session not found")

// Store maps an opaque client-held token to a session identity.
type Store interface {
	Create(ctx context.Context, id user.Identity) (token string, err error)
	Get(ctx context.Context, token string) (user.Identity, error)
	Destroy(ctx context.Context, token string) error
	Ping(ctx context.Context) error
}

func encodeIdentity(id user.Identity) string {
	return strconv.FormatInt(id.UserID, 10) + ":" + id.Role.String()
}

func decodeIdentity(raw string) (user.Identity, error) {
	idPart, rolePart, ok := strings.Cut(raw, ":")
	if !ok {
		return user.Identity{}, fmt.Errorf("malformed session value %q", raw)
	}

	userID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return user.Identity{}, fmt.Errorf("malformed session user id: %w", err)
	}

	role, err := user.ParseRole(rolePart)
	if err != nil {
		return user.Identity{}, err
	}

	return user.Identity{UserID: userID, Role: role}, nil
}
