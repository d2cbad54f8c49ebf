package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/stockfeed/config"
	"github.com/d60-Lab/stockfeed/internal/repository"
)

func TestUserRegisterLogin(t *testing.T) {
	db := setupFeedDB(t)
	ctx := context.Background()
	svc := NewUserService(repository.NewUserRepository(db), config.JWTConfig{Secret: "test-secret", Expire: time.Hour})

	u, err := svc.Register(ctx, "alice", "alice@example.com", "hunter2hunter2")
	require.NoError(t, err)
	assert.NotEqual(t, "hunter2hunter2", u.Password, "password must be hashed")

	t.Run("duplicate username rejected", func(t *testing.T) {
		_, err := svc.Register(ctx, "alice", "other@example.com", "hunter2hunter2")
		assert.ErrorIs(t, err, ErrUsernameTaken)
	})

	t.Run("login issues token", func(t *testing.T) {
		token, got, err := svc.Login(ctx, "alice", "hunter2hunter2")
		require.NoError(t, err)
		assert.NotEmpty(t, token)
		assert.Equal(t, u.ID, got.ID)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		_, _, err := svc.Login(ctx, "nobody", "whatever")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}
