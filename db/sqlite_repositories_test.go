package db_test

import (
	"context"
	"testing"
	"time"

	"expense-api/db"
	"expense-api/internal/testutils"
	"expense-api/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expenseIDs(expenses []*models.Expense) []int64 {
	ids := make([]int64, 0, len(expenses))
	for _, e := range expenses {
		ids = append(ids, e.ID)
	}
	return ids
}

func TestSQLiteUserRepository(t *testing.T) {
	factory, cleanup := testutils.SetupTestRepositoryFactory(t)
	defer cleanup()

	repo := factory.NewUserRepository()
	ctx := context.Background()

	t.Run("create and find", func(t *testing.T) {
		user := testutils.CreateTestUser(t, repo, "alice")
		assert.NotZero(t, user.ID)
		assert.Equal(t, "alice@example.com", user.Email)
		assert.False(t, user.DateJoined.IsZero())

		byName, err := repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byName.ID)
		assert.Equal(t, user.PasswordHash, byName.PasswordHash)

		byID, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", byID.Username)
	})

	t.Run("duplicate username", func(t *testing.T) {
		_, err := repo.Create(ctx, &models.User{Username: "alice", PasswordHash: "x"})
		assert.ErrorIs(t, err, db.ErrDuplicate)
	})

	t.Run("username is case sensitive", func(t *testing.T) {
		_, err := repo.FindByUsername(ctx, "ALICE")
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.FindByID(ctx, 9999)
		assert.ErrorIs(t, err, db.ErrNotFound)
	})
}

func TestSQLiteCategoryRepository(t *testing.T) {
	factory, cleanup := testutils.SetupTestRepositoryFactory(t)
	defer cleanup()

	repo := factory.NewCategoryRepository()
	ctx := context.Background()

	food := testutils.CreateTestCategory(t, repo, "Food")
	travel := testutils.CreateTestCategory(t, repo, "Travel")

	_, err := repo.Create(ctx, "Food")
	assert.ErrorIs(t, err, db.ErrDuplicate)

	found, err := repo.FindByID(ctx, travel.ID)
	require.NoError(t, err)
	assert.Equal(t, "Travel", found.Name)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, food.ID, all[0].ID)
	assert.Equal(t, travel.ID, all[1].ID)

	_, err = repo.FindByID(ctx, 9999)
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestSQLiteExpenseRepository(t *testing.T) {
	factory, cleanup := testutils.SetupTestRepositoryFactory(t)
	defer cleanup()

	users := factory.NewUserRepository()
	categories := factory.NewCategoryRepository()
	repo := factory.NewExpenseRepository()
	ctx := context.Background()

	alice := testutils.CreateTestUser(t, users, "alice")
	bob := testutils.CreateTestUser(t, users, "bob")
	food := testutils.CreateTestCategory(t, categories, "Food")
	travel := testutils.CreateTestCategory(t, categories, "Travel")

	e1 := testutils.CreateTestExpense(t, repo, alice, food, "12.50", "2024-03-05")
	e2 := testutils.CreateTestExpense(t, repo, alice, travel, "300.00", "2024-03-20")
	e3 := testutils.CreateTestExpense(t, repo, alice, food, "8.00", "2024-04-01")
	e4 := testutils.CreateTestExpense(t, repo, alice, food, "3.10", "2024-03-05")
	b1 := testutils.CreateTestExpense(t, repo, bob, food, "99.99", "2024-03-10")

	t.Run("amount and date round trip exactly", func(t *testing.T) {
		got, err := repo.FindByID(ctx, e1.ID)
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("12.50").Equal(got.Amount))
		assert.Equal(t, "12.5", got.Amount.String())
		assert.Equal(t, "2024-03-05", got.Date.String())
		assert.Equal(t, alice.ID, got.UserID)
		assert.Equal(t, food.ID, got.CategoryID)
	})

	t.Run("owner isolation and ordering", func(t *testing.T) {
		got, err := repo.FindAll(ctx, db.ExpenseFilter{OwnerID: alice.ID})
		require.NoError(t, err)
		// newest date first, ties by id ascending
		assert.Equal(t, []int64{e3.ID, e2.ID, e1.ID, e4.ID}, expenseIDs(got))

		got, err = repo.FindAll(ctx, db.ExpenseFilter{OwnerID: bob.ID})
		require.NoError(t, err)
		assert.Equal(t, []int64{b1.ID}, expenseIDs(got))
	})

	t.Run("category filter", func(t *testing.T) {
		got, err := repo.FindAll(ctx, db.ExpenseFilter{OwnerID: alice.ID, Category: "Travel"})
		require.NoError(t, err)
		assert.Equal(t, []int64{e2.ID}, expenseIDs(got))

		got, err = repo.FindAll(ctx, db.ExpenseFilter{OwnerID: alice.ID, Category: "food"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("month filter", func(t *testing.T) {
		got, err := repo.FindAll(ctx, db.ExpenseFilter{OwnerID: alice.ID, Month: "2024-03"})
		require.NoError(t, err)
		assert.Equal(t, []int64{e2.ID, e1.ID, e4.ID}, expenseIDs(got))

		got, err = repo.FindAll(ctx, db.ExpenseFilter{OwnerID: alice.ID, Month: "2023-03"})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("invalid month is no filter", func(t *testing.T) {
		got, err := repo.FindAll(ctx, db.ExpenseFilter{OwnerID: alice.ID, Month: "March"})
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("both filters intersect", func(t *testing.T) {
		got, err := repo.FindAll(ctx, db.ExpenseFilter{OwnerID: alice.ID, Category: "Food", Month: "2024-03"})
		require.NoError(t, err)
		assert.Equal(t, []int64{e1.ID, e4.ID}, expenseIDs(got))
	})

	t.Run("update keeps owner", func(t *testing.T) {
		changed := *e4
		changed.UserID = bob.ID
		changed.CategoryID = travel.ID
		changed.Amount = decimal.RequireFromString("4.25")
		changed.Description = "taxi"

		got, err := repo.Update(ctx, &changed)
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.UserID)
		assert.Equal(t, travel.ID, got.CategoryID)
		assert.Equal(t, "4.25", got.Amount.String())
		assert.Equal(t, "taxi", got.Description)
	})

	t.Run("update missing", func(t *testing.T) {
		_, err := repo.Update(ctx, &models.Expense{ID: 9999, CategoryID: food.ID, Date: e1.Date})
		assert.ErrorIs(t, err, db.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.DeleteByID(ctx, e3.ID))
		_, err := repo.FindByID(ctx, e3.ID)
		assert.ErrorIs(t, err, db.ErrNotFound)
		assert.ErrorIs(t, repo.DeleteByID(ctx, e3.ID), db.ErrNotFound)
	})

	t.Run("category in use cannot be removed", func(t *testing.T) {
		_, err := factory.SQLiteDB.ExecContext(ctx, `DELETE FROM expense_categories WHERE id = ?`, food.ID)
		assert.Error(t, err)
	})

	t.Run("unknown category is rejected", func(t *testing.T) {
		_, err := repo.Create(ctx, &models.Expense{
			UserID:     alice.ID,
			CategoryID: 9999,
			Amount:     decimal.NewFromInt(1),
			Date:       e1.Date,
		})
		assert.Error(t, err)
	})
}

func TestSQLiteTokenRepository(t *testing.T) {
	factory, cleanup := testutils.SetupTestRepositoryFactory(t)
	defer cleanup()

	user := testutils.CreateTestUser(t, factory.NewUserRepository(), "")
	repo := factory.NewTokenRepository()
	ctx := context.Background()
	now := time.Now()

	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.Revoke(ctx, "jti-1", user.ID, now.Add(time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "jti-1", user.ID, now.Add(time.Hour)))
	require.NoError(t, repo.Revoke(ctx, "jti-2", user.ID, now.Add(-time.Minute)))

	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	n, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	revoked, err = repo.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}
