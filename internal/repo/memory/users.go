package memory

import (
	"context"

	"github.com/geocoder89/leavetrack/internal/domain/user"
)

type UsersRepo struct {
	s *Store
}

func (r *UsersRepo) GetByUsername(ctx context.Context, username string) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) GetByID(ctx context.Context, id int64) (user.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return user.User{}, user.ErrNotFound
}

func (r *UsersRepo) Create(ctx context.Context, username, passwordHash string, role user.Role) (user.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return user.User{}, user.ErrUsernameTaken
		}
	}

	u := user.User{
		ID:           int64(len(r.s.users) + 1),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
	}
	r.s.users = append(r.s.users, u)

	return u, nil
}
