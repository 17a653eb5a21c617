package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"expense-api/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines the interface for user account operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
}

// CategoryRepository defines the interface for the shared category catalog
type CategoryRepository interface {
	Create(ctx context.Context, name string) (*models.ExpenseCategory, error)
	FindByID(ctx context.Context, id int64) (*models.ExpenseCategory, error)
	FindAll(ctx context.Context) ([]*models.ExpenseCategory, error)
}

// ExpenseRepository defines the interface for expense record operations.
// FindAll always scopes results to ExpenseFilter.OwnerID.
type ExpenseRepository interface {
	Create(ctx context.Context, expense *models.Expense) (*models.Expense, error)
	FindByID(ctx context.Context, id int64) (*models.Expense, error)
	FindAll(ctx context.Context, filter ExpenseFilter) ([]*models.Expense, error)
	Update(ctx context.Context, expense *models.Expense) (*models.Expense, error)
	DeleteByID(ctx context.Context, id int64) error
}

// TokenRepository stores refresh tokens that were revoked before expiry
type TokenRepository interface {
	Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// RepositoryFactory creates repositories backed by one SQLite handle
type RepositoryFactory struct {
	SQLiteDB *sql.DB
}

// NewRepositoryFactory creates a new repository factory
func NewRepositoryFactory(sqliteDB *sql.DB) *RepositoryFactory {
	return &RepositoryFactory{SQLiteDB: sqliteDB}
}

func (f *RepositoryFactory) NewUserRepository() UserRepository {
	return NewSQLiteUserRepository(f.SQLiteDB)
}

func (f *RepositoryFactory) NewCategoryRepository() CategoryRepository {
	return NewSQLiteCategoryRepository(f.SQLiteDB)
}

func (f *RepositoryFactory) NewExpenseRepository() ExpenseRepository {
	return NewSQLiteExpenseRepository(f.SQLiteDB)
}

func (f *RepositoryFactory) NewTokenRepository() TokenRepository {
	return NewSQLiteTokenRepository(f.SQLiteDB)
}

// Close closes the shared database handle
func (f *RepositoryFactory) Close() error {
	return f.SQLiteDB.Close()
}
