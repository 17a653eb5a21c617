package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"expense-api/models"

	"github.com/mattn/go-sqlite3"
)

// SQLiteUserRepository implements the UserRepository interface for SQLite
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository creates a new SQLiteUserRepository
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// Create inserts a user. A taken username yields ErrDuplicate.
func (r *SQLiteUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	if user.DateJoined.IsZero() {
		user.DateJoined = time.Now().UTC()
	}

	query := `INSERT INTO users (username, email, password_hash, date_joined) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query, user.Username, user.Email, user.PasswordHash, user.DateJoined)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("error inserting user: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error reading user id: %w", err)
	}
	return r.FindByID(ctx, id)
}

// FindByID finds a user by ID
func (r *SQLiteUserRepository) FindByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT id, username, email, password_hash, date_joined FROM users WHERE id = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

// FindByUsername finds a user by exact username
func (r *SQLiteUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT id, username, email, password_hash, date_joined FROM users WHERE username = ?`
	return scanUser(r.db.QueryRowContext(ctx, query, username))
}

func scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	var dateJoined sql.NullTime

	err := row.Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &dateJoined)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error scanning user: %w", err)
	}
	if dateJoined.Valid {
		user.DateJoined = dateJoined.Time
	}
	return &user, nil
}

// SQLiteCategoryRepository implements the CategoryRepository interface for SQLite
type SQLiteCategoryRepository struct {
	db *sql.DB
}

// NewSQLiteCategoryRepository creates a new SQLiteCategoryRepository
func NewSQLiteCategoryRepository(db *sql.DB) *SQLiteCategoryRepository {
	return &SQLiteCategoryRepository{db: db}
}

// Create inserts a category. A taken name yields ErrDuplicate.
func (r *SQLiteCategoryRepository) Create(ctx context.Context, name string) (*models.ExpenseCategory, error) {
	result, err := r.db.ExecContext(ctx, `INSERT INTO expense_categories (name) VALUES (?)`, name)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, fmt.Errorf("error inserting category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error reading category id: %w", err)
	}
	return &models.ExpenseCategory{ID: id, Name: name}, nil
}

// FindByID finds a category by ID
func (r *SQLiteCategoryRepository) FindByID(ctx context.Context, id int64) (*models.ExpenseCategory, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name FROM expense_categories WHERE id = ?`, id)

	var category models.ExpenseCategory
	if err := row.Scan(&category.ID, &category.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error scanning category: %w", err)
	}
	return &category, nil
}

// FindAll returns every category ordered by ID
func (r *SQLiteCategoryRepository) FindAll(ctx context.Context) ([]*models.ExpenseCategory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM expense_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error querying categories: %w", err)
	}
	defer rows.Close()

	categories := []*models.ExpenseCategory{}
	for rows.Next() {
		var category models.ExpenseCategory
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("error scanning category: %w", err)
		}
		categories = append(categories, &category)
	}
	return categories, rows.Err()
}

// SQLiteExpenseRepository implements the ExpenseRepository interface for SQLite
type SQLiteExpenseRepository struct {
	db *sql.DB
}

// NewSQLiteExpenseRepository creates a new SQLiteExpenseRepository
func NewSQLiteExpenseRepository(db *sql.DB) *SQLiteExpenseRepository {
	return &SQLiteExpenseRepository{db: db}
}

// Create inserts an expense and returns it with its new ID
func (r *SQLiteExpenseRepository) Create(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	query := `INSERT INTO expenses (user_id, category_id, amount, description, date) VALUES (?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, query,
		expense.UserID, expense.CategoryID, expense.Amount.String(), expense.Description, expense.Date)
	if err != nil {
		return nil, fmt.Errorf("error inserting expense: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("error reading expense id: %w", err)
	}

	created := *expense
	created.ID = id
	return &created, nil
}

// FindByID finds an expense by ID regardless of owner. Callers gate access.
func (r *SQLiteExpenseRepository) FindByID(ctx context.Context, id int64) (*models.Expense, error) {
	query := `SELECT id, user_id, category_id, amount, description, date FROM expenses WHERE id = ?`
	row := r.db.QueryRowContext(ctx, query, id)

	expense, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("error scanning expense: %w", err)
	}
	return expense, nil
}

// FindAll returns the owner's expenses matching filter, newest first
func (r *SQLiteExpenseRepository) FindAll(ctx context.Context, filter ExpenseFilter) ([]*models.Expense, error) {
	query, args := BuildExpenseQuery(filter)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*models.Expense{}
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// Update rewrites the mutable columns of an expense. The owner column is
// never written.
func (r *SQLiteExpenseRepository) Update(ctx context.Context, expense *models.Expense) (*models.Expense, error) {
	query := `UPDATE expenses SET category_id = ?, amount = ?, description = ?, date = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, query,
		expense.CategoryID, expense.Amount.String(), expense.Description, expense.Date, expense.ID)
	if err != nil {
		return nil, fmt.Errorf("error updating expense: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return r.FindByID(ctx, expense.ID)
}

// DeleteByID permanently removes an expense
func (r *SQLiteExpenseRepository) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("error deleting expense: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row rowScanner) (*models.Expense, error) {
	var expense models.Expense
	err := row.Scan(&expense.ID, &expense.UserID, &expense.CategoryID, &expense.Amount, &expense.Description, &expense.Date)
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// SQLiteTokenRepository implements the TokenRepository interface for SQLite
type SQLiteTokenRepository struct {
	db *sql.DB
}

// NewSQLiteTokenRepository creates a new SQLiteTokenRepository
func NewSQLiteTokenRepository(db *sql.DB) *SQLiteTokenRepository {
	return &SQLiteTokenRepository{db: db}
}

// Revoke records jti as revoked. Revoking twice is not an error.
func (r *SQLiteTokenRepository) Revoke(ctx context.Context, jti string, userID int64, expiresAt time.Time) error {
	query := `INSERT OR IGNORE INTO revoked_tokens (jti, user_id, expires_at) VALUES (?, ?, ?)`
	if _, err := r.db.ExecContext(ctx, query, jti, userID, expiresAt.UTC()); err != nil {
		return fmt.Errorf("error revoking token: %w", err)
	}
	return nil
}

// IsRevoked reports whether jti was revoked
func (r *SQLiteTokenRepository) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var exists int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM revoked_tokens WHERE jti = ?`, jti).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("error checking revoked token: %w", err)
	}
	return true, nil
}

// DeleteExpired drops revocation entries whose token has expired anyway
func (r *SQLiteTokenRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM revoked_tokens WHERE expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("error deleting expired tokens: %w", err)
	}
	return result.RowsAffected()
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique ||
			sqliteErr.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}
