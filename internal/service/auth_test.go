package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/tuanvumaihuynh/shelflife/internal/apperr"
	"github.com/tuanvumaihuynh/shelflife/internal/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAuthConfig() config.Auth {
	return config.Auth{
		JWTSecret:  "test-secret",
		TokenTTL:   time.Hour,
		Issuer:     "shelflife-test",
		BcryptCost: bcrypt.MinCost,
	}
}

func TestAuthService(t *testing.T) {
	store := newMemStore()
	now := testToday
	clock := func() time.Time { return now }
	svc := NewAuthService(testAuthConfig(), userRepo{store}, clock)
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterParams{Username: "alice", Password: "s3cret!"})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret!", user.PasswordHash)

	_, err = svc.Register(ctx, RegisterParams{Username: "alice", Password: "other"})
	assert.ErrorIs(t, err, apperr.UsernameTakenErr)

	t.Run("Should reject wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginParams{Username: "alice", Password: "nope"})
		assert.ErrorIs(t, err, apperr.InvalidCredentialsErr)
	})

	t.Run("Should reject unknown user", func(t *testing.T) {
		_, err := svc.Login(ctx, LoginParams{Username: "bob", Password: "s3cret!"})
		assert.ErrorIs(t, err, apperr.InvalidCredentialsErr)
	})

	res, err := svc.Login(ctx, LoginParams{Username: "alice", Password: "s3cret!"})
	require.NoError(t, err)
	assert.Equal(t, testToday.Add(time.Hour), res.ExpiresAt)

	userID, err := svc.Authenticate(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	t.Run("Should reject token signed with another secret", func(t *testing.T) {
		cfg := testAuthConfig()
		cfg.JWTSecret = "other"
		other := NewAuthService(cfg, userRepo{store}, clock)
		_, err := other.Authenticate(ctx, res.AccessToken)
		assert.ErrorIs(t, err, apperr.UnauthorizedErr)
	})

	t.Run("Should reject garbage", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "not-a-jwt")
		assert.ErrorIs(t, err, apperr.UnauthorizedErr)
	})

	t.Run("Should reject expired token", func(t *testing.T) {
		now = testToday.Add(2 * time.Hour)
		defer func() { now = testToday }()

		_, err := svc.Authenticate(ctx, res.AccessToken)
		assert.ErrorIs(t, err, apperr.UnauthorizedErr)
	})

	t.Run("Should reset password", func(t *testing.T) {
		require.NoError(t, svc.SetPassword(ctx, RegisterParams{Username: "alice", Password: "new-pass"}))

		res, err := svc.Login(ctx, LoginParams{Username: "alice", Password: "new-pass"})
		require.NoError(t, err)
		id, err := svc.Authenticate(ctx, res.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, id)
		assert.NotEqual(t, uuid.Nil, id)
	})
}
