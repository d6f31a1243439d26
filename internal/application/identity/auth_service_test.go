package identity

import (
	"context"
	"testing"
	"time"

	"github.com/bahikhata/backend/internal/infrastructure/auth"
	"github.com/bahikhata/backend/internal/infrastructure/config"
	"github.com/bahikhata/backend/internal/infrastructure/persistence"
	"github.com/bahikhata/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newAuthTestService(t *testing.T) *AuthService {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserModel{}))

	jwtSvc := auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-that-is-long-enough",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "bahikhata-test",
	})

	return NewAuthService(
		persistence.NewGormUserRepository(db),
		jwtSvc,
		auth.NewInMemoryTokenBlacklist(),
		nil,
	)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := newAuthTestService(t)

	_, err := svc.Register(ctx, "shopkeeper", "s3cret-pass")
	require.NoError(t, err)

	t.Run("valid credentials issue a token pair", func(t *testing.T) {
		pair, err := svc.Login(ctx, "shopkeeper", "s3cret-pass")
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		_, err := svc.Login(ctx, "shopkeeper", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown user rejected with the same error", func(t *testing.T) {
		_, err := svc.Login(ctx, "nobody", "s3cret-pass")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestRefresh(t *testing.T) {
	ctx := context.Background()
	svc := newAuthTestService(t)
	_, err := svc.Register(ctx, "shopkeeper", "s3cret-pass")
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "shopkeeper", "s3cret-pass")
	require.NoError(t, err)

	t.Run("refresh rotates the pair and burns the old token", func(t *testing.T) {
		fresh, err := svc.Refresh(ctx, pair.RefreshToken)
		require.NoError(t, err)
		assert.NotEqual(t, pair.AccessToken, fresh.AccessToken)

		// Replaying the consumed refresh token fails.
		_, err = svc.Refresh(ctx, pair.RefreshToken)
		assert.ErrorIs(t, err, auth.ErrTokenBlacklisted)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		_, err := svc.Refresh(ctx, pair.AccessToken)
		assert.ErrorIs(t, err, auth.ErrInvalidTokenType)
	})
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	svc := newAuthTestService(t)
	_, err := svc.Register(ctx, "shopkeeper", "s3cret-pass")
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "shopkeeper", "s3cret-pass")
	require.NoError(t, err)

	// Valid before logout.
	_, err = svc.VerifyAccessToken(ctx, pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, pair.AccessToken))

	_, err = svc.VerifyAccessToken(ctx, pair.AccessToken)
	assert.ErrorIs(t, err, auth.ErrTokenBlacklisted)

	// Logging out twice, or with garbage, is quietly accepted.
	assert.NoError(t, svc.Logout(ctx, pair.AccessToken))
	assert.NoError(t, svc.Logout(ctx, "not-a-token"))
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := newAuthTestService(t)

	user, err := svc.Register(ctx, "shopkeeper", "s3cret-pass")
	require.NoError(t, err)
	assert.True(t, user.CheckPassword("s3cret-pass"))

	_, err = svc.Register(ctx, "shopkeeper", "another-pass")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "other", "short")
	assert.Error(t, err)
}
