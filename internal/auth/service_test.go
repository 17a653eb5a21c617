package auth_test

import (
	"context"
	"io"
	"testing"

	"expense-api/internal/apperr"
	"expense-api/internal/auth"
	"expense-api/internal/log"
	"expense-api/internal/testutils"
	"expense-api/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthService(t *testing.T) (*auth.AuthService, *models.User, func()) {
	t.Helper()
	factory, cleanup := testutils.SetupTestRepositoryFactory(t)

	users := factory.NewUserRepository()
	user := testutils.CreateTestUser(t, users, "alice")

	logger := log.New(log.Config{Output: io.Discard})
	issuer := auth.NewTokenIssuer(testutils.GetTestConfig())
	service := auth.NewAuthService(users, factory.NewTokenRepository(), issuer, logger)
	return service, user, cleanup
}

func assertTokenNotValid(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	appErr := apperr.As(err)
	assert.Equal(t, apperr.KindAuthentication, appErr.Kind)
	assert.Equal(t, auth.CodeTokenNotValid, appErr.Code)
}

func TestAuthService_Login(t *testing.T) {
	service, user, cleanup := setupAuthService(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		pair, err := service.Login(ctx, "alice", testutils.TestPassword)
		require.NoError(t, err)

		claims, err := service.Issuer.Parse(pair.Access, auth.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("wrong password and unknown user look the same", func(t *testing.T) {
		_, errBad := service.Login(ctx, "alice", "wrong")
		_, errUnknown := service.Login(ctx, "nobody", "wrong")

		for _, err := range []error{errBad, errUnknown} {
			appErr := apperr.As(err)
			assert.Equal(t, apperr.KindAuthentication, appErr.Kind)
			assert.Equal(t, auth.MsgNoActiveAccount, appErr.Detail)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := service.Login(ctx, "", "")
		appErr := apperr.As(err)
		assert.Equal(t, apperr.KindValidation, appErr.Kind)
		assert.Contains(t, appErr.Fields, "username")
		assert.Contains(t, appErr.Fields, "password")
	})
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	service, user, cleanup := setupAuthService(t)
	defer cleanup()
	ctx := context.Background()

	pair, err := service.Login(ctx, "alice", testutils.TestPassword)
	require.NoError(t, err)

	t.Run("refresh issues access token", func(t *testing.T) {
		access, err := service.Refresh(ctx, pair.Refresh)
		require.NoError(t, err)

		claims, err := service.Issuer.Parse(access, auth.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
	})

	t.Run("access token cannot refresh", func(t *testing.T) {
		_, err := service.Refresh(ctx, pair.Access)
		assertTokenNotValid(t, err)
	})

	t.Run("missing refresh", func(t *testing.T) {
		_, err := service.Refresh(ctx, "")
		assert.True(t, apperr.IsKind(err, apperr.KindValidation))
	})

	t.Run("logout with another user's token", func(t *testing.T) {
		err := service.Logout(ctx, &models.User{ID: user.ID + 100}, pair.Refresh)
		assertTokenNotValid(t, err)

		_, err = service.Refresh(ctx, pair.Refresh)
		require.NoError(t, err)
	})

	t.Run("revoked token cannot refresh", func(t *testing.T) {
		require.NoError(t, service.Logout(ctx, user, pair.Refresh))

		_, err := service.Refresh(ctx, pair.Refresh)
		assertTokenNotValid(t, err)

		err = service.Logout(ctx, user, pair.Refresh)
		assertTokenNotValid(t, err)
	})

	t.Run("purge keeps live revocations", func(t *testing.T) {
		n, err := service.PurgeRevoked(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)

		_, err = service.Refresh(ctx, pair.Refresh)
		assertTokenNotValid(t, err)
	})
}
