package user_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"expense-api/internal/apperr"
	"expense-api/internal/auth"
	"expense-api/internal/log"
	"expense-api/internal/testutils"
	"expense-api/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string { return &s }

func setupUserService(t *testing.T) (*user.UserService, func()) {
	t.Helper()
	factory, cleanup := testutils.SetupTestRepositoryFactory(t)
	logger := log.New(log.Config{Output: io.Discard})
	return user.NewUserService(factory.NewUserRepository(), logger), cleanup
}

func TestUserService_Register(t *testing.T) {
	service, cleanup := setupUserService(t)
	defer cleanup()
	ctx := context.Background()

	t.Run("success hashes password", func(t *testing.T) {
		created, err := service.Register(ctx, user.RegisterRequest{
			Username: str("alice"),
			Email:    str("alice@example.com"),
			Password: str("pw-123456"),
		})
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.Equal(t, "alice", created.Username)
		assert.Equal(t, "alice@example.com", created.Email)

		stored, err := service.Users.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.NotEqual(t, "pw-123456", stored.PasswordHash)
		assert.NotContains(t, stored.PasswordHash, "pw-123456")
		assert.True(t, auth.CheckPassword(stored.PasswordHash, "pw-123456"))
	})

	t.Run("email is optional", func(t *testing.T) {
		created, err := service.Register(ctx, user.RegisterRequest{
			Username: str("bob.smith+x@home"),
			Password: str("pw"),
		})
		require.NoError(t, err)
		assert.Equal(t, "", created.Email)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := service.Register(ctx, user.RegisterRequest{Username: str("alice"), Password: str("other")})
		appErr := apperr.As(err)
		assert.Equal(t, apperr.KindValidation, appErr.Kind)
		assert.Equal(t, []string{user.MsgUsernameTaken}, appErr.Fields["username"])
	})

	tests := []struct {
		name  string
		req   user.RegisterRequest
		field string
		msg   string
	}{
		{"missing username", user.RegisterRequest{Password: str("pw")}, "username", user.MsgRequired},
		{"blank username", user.RegisterRequest{Username: str(""), Password: str("pw")}, "username", user.MsgBlank},
		{"bad characters", user.RegisterRequest{Username: str("al ice"), Password: str("pw")}, "username", user.MsgUsernameInvalid},
		{"too long", user.RegisterRequest{Username: str(strings.Repeat("a", 151)), Password: str("pw")}, "username", user.MsgUsernameTooLong},
		{"bad email", user.RegisterRequest{Username: str("carol"), Email: str("carol-at-home"), Password: str("pw")}, "email", user.MsgEmailInvalid},
		{"display name email", user.RegisterRequest{Username: str("carol"), Email: str("Carol <c@x.io>"), Password: str("pw")}, "email", user.MsgEmailInvalid},
		{"missing password", user.RegisterRequest{Username: str("carol")}, "password", user.MsgRequired},
		{"blank password", user.RegisterRequest{Username: str("carol"), Password: str("   ")}, "password", user.MsgBlank},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Register(ctx, tt.req)
			appErr := apperr.As(err)
			require.Equal(t, apperr.KindValidation, appErr.Kind)
			assert.Contains(t, appErr.Fields[tt.field], tt.msg)
		})
	}

	t.Run("150 characters is allowed", func(t *testing.T) {
		_, err := service.Register(ctx, user.RegisterRequest{Username: str(strings.Repeat("u", 150)), Password: str("pw")})
		assert.NoError(t, err)
	})
}
