package category_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"expense-api/internal/apperr"
	"expense-api/internal/category"
	"expense-api/internal/log"
	"expense-api/internal/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryService(t *testing.T) {
	factory, cleanup := testutils.SetupTestRepositoryFactory(t)
	defer cleanup()

	service := category.NewCategoryService(factory.NewCategoryRepository(), log.New(log.Config{Output: io.Discard}))
	ctx := context.Background()

	t.Run("empty catalog", func(t *testing.T) {
		categories, err := service.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, categories)
		assert.Empty(t, categories)
	})

	t.Run("create and list in id order", func(t *testing.T) {
		food, err := service.Create(ctx, "  Food ")
		require.NoError(t, err)
		assert.Equal(t, "Food", food.Name)

		_, err = service.Create(ctx, "Travel")
		require.NoError(t, err)

		categories, err := service.List(ctx)
		require.NoError(t, err)
		require.Len(t, categories, 2)
		assert.Equal(t, "Food", categories[0].Name)
		assert.Equal(t, "Travel", categories[1].Name)
	})

	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"duplicate", "Food", category.MsgNameTaken},
		{"blank", "   ", category.MsgNameBlank},
		{"too long", strings.Repeat("x", 101), category.MsgNameTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.Create(ctx, tt.input)
			appErr := apperr.As(err)
			require.Equal(t, apperr.KindValidation, appErr.Kind)
			assert.Equal(t, []string{tt.msg}, appErr.Fields["name"])
		})
	}
}
