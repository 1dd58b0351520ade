package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/geocoder89/leavetrack/internal/auth"
	"github.com/geocoder89/leavetrack/internal/db"
	"github.com/geocoder89/leavetrack/internal/domain/user"
	"github.com/geocoder89/leavetrack/internal/repo/memory"
	"github.com/geocoder89/leavetrack/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	getFn func(ctx context.Context, username string) (user.User, error)
}

func (f *fakeUsers) GetByUsername(ctx context.Context, username string) (user.User, error) {
	return f.getFn(ctx, username)
}

func TestAuthenticator_Login(t *testing.T) {
	ctx := context.Background()
	users := memory.NewStore().Users()

	hash, err := security.HashPassword("s3cret")
	require.NoError(t, err)
	mgr, err := users.Create(ctx, "maria", hash, user.RoleManager)
	require.NoError(t, err)

	a := auth.NewAuthenticator(users)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  error
		wantID   user.Identity
	}{
		{name: "success", username: "maria", password: "s3cret", wantID: user.Identity{UserID: mgr.ID, Role: user.RoleManager}},
		{name: "wrong_password", username: "maria", password: "s3cret!", wantErr: auth.ErrInvalidCredentials},
		{name: "unknown_user", username: "mario", password: "s3cret", wantErr: auth.ErrInvalidCredentials},
		{name: "username_is_case_sensitive", username: "Maria", password: "s3cret", wantErr: auth.ErrInvalidCredentials},
		{name: "empty_password", username: "maria", password: "", wantErr: auth.ErrInvalidCredentials},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			id, err := a.Login(ctx, tt.username, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.False(t, id.Authenticated(), "no identity on failure")
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestAuthenticator_SeededAdmin(t *testing.T) {
	ctx := context.Background()
	users := memory.NewStore().Users()

	_, err := db.EnsureAdminUser(ctx, users, "admin", "admin123")
	require.NoError(t, err)

	id, err := auth.NewAuthenticator(users).Login(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, id.Role)
	assert.True(t, id.Authenticated())
}

func TestAuthenticator_StoreFailureIsNotInvalidCredentials(t *testing.T) {
	boom := errors.New("db down")
	a := auth.NewAuthenticator(&fakeUsers{getFn: func(ctx context.Context, username string) (user.User, error) {
		return user.User{}, boom
	}})

	_, err := a.Login(context.Background(), "x", "y")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, auth.ErrInvalidCredentials)
}

func TestManager_SessionTokenRoundTrip(t *testing.T) {
	m := auth.NewManager("test-secret", time.Hour)
	in := user.Identity{UserID: 42, Role: user.RoleEmployee}

	raw, err := m.GenerateSessionToken(in)
	require.NoError(t, err)

	out, err := m.VerifySessionToken(raw)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestManager_RejectsForeignOrExpiredTokens(t *testing.T) {
	id := user.Identity{UserID: 7, Role: user.RoleAdmin}

	raw, err := auth.NewManager("other-secret", time.Hour).GenerateSessionToken(id)
	require.NoError(t, err)

	_, err = auth.NewManager("test-secret", time.Hour).VerifySessionToken(raw)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	expired, err := auth.NewManager("test-secret", -time.Minute).GenerateSessionToken(id)
	require.NoError(t, err)

	_, err = auth.NewManager("test-secret", time.Hour).VerifySessionToken(expired)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = auth.NewManager("test-secret", time.Hour).VerifySessionToken("not-a-jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}
