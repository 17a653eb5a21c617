package auth

import (
	"context"
	"testing"

	"expense-api/models"

	"github.com/stretchr/testify/assert"
)

func TestUserContext(t *testing.T) {
	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithUser(context.Background(), &models.User{ID: 3, Username: "carol"})
	user, ok := UserFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(3), user.ID)

	_, ok = UserFromContext(WithUser(context.Background(), nil))
	assert.False(t, ok)
}
