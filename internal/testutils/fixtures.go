package testutils

import (
	"context"
	"testing"

	"expense-api/db"
	"expense-api/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// TestPassword is the plaintext password of every fixture user.
const TestPassword = "correct-horse-battery"

// CreateTestUser stores a user with TestPassword. An empty username gets a random one.
func CreateTestUser(t *testing.T, repo db.UserRepository, username string) *models.User {
	t.Helper()
	if username == "" {
		username = "user_" + uuid.NewString()[:8]
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	require.NoError(t, err)

	user, err := repo.Create(context.Background(), &models.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
	})
	require.NoError(t, err)
	return user
}

func CreateTestCategory(t *testing.T, repo db.CategoryRepository, name string) *models.ExpenseCategory {
	t.Helper()
	category, err := repo.Create(context.Background(), name)
	require.NoError(t, err)
	return category
}

// CreateTestExpense stores an expense for owner. date is YYYY-MM-DD and amount a decimal string.
func CreateTestExpense(t *testing.T, repo db.ExpenseRepository, owner *models.User, category *models.ExpenseCategory, amount, date string) *models.Expense {
	t.Helper()
	d, err := models.ParseDate(date)
	require.NoError(t, err)

	expense, err := repo.Create(context.Background(), &models.Expense{
		UserID:      owner.ID,
		CategoryID:  category.ID,
		Amount:      decimal.RequireFromString(amount),
		Description: "test expense",
		Date:        d,
	})
	require.NoError(t, err)
	return expense
}
