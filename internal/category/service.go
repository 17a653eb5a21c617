package category

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"expense-api/db"
	"expense-api/internal/apperr"
	"expense-api/internal/log"
	"expense-api/models"
)

const (
	MsgNameBlank   = "This field may not be blank."
	MsgNameTooLong = "Ensure this field has no more than 100 characters."
	MsgNameTaken   = "expense category with this name already exists."
)

type CategoryService struct {
	Repo   db.CategoryRepository
	logger *log.Logger
}

func NewCategoryService(repo db.CategoryRepository, logger *log.Logger) *CategoryService {
	return &CategoryService{Repo: repo, logger: logger.WithComponent(log.ComponentCategory)}
}

func (s *CategoryService) List(ctx context.Context) ([]*models.ExpenseCategory, error) {
	categories, err := s.Repo.FindAll(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return categories, nil
}

// Create adds a category to the shared catalog. Only administrative tooling calls it.
func (s *CategoryService) Create(ctx context.Context, name string) (*models.ExpenseCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Field("name", MsgNameBlank)
	}
	if utf8.RuneCountInString(name) > models.MaxCategoryNameLength {
		return nil, apperr.Field("name", MsgNameTooLong)
	}

	category, err := s.Repo.Create(ctx, name)
	if errors.Is(err, db.ErrDuplicate) {
		return nil, apperr.Field("name", MsgNameTaken)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger.ForContext(ctx).InfoContext(ctx, "Category created", log.FieldOperation, log.OpCreate, log.FieldCategoryID, category.ID)
	return category, nil
}
