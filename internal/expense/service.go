package expense

import (
	"context"
	"errors"
	"fmt"

	"expense-api/db"
	"expense-api/internal/access"
	"expense-api/internal/apperr"
	"expense-api/internal/events"
	"expense-api/internal/log"
	"expense-api/models"
)

type ExpenseService struct {
	Repo       db.ExpenseRepository
	Categories db.CategoryRepository
	Events     events.Publisher
	logger     *log.Logger
}

func NewExpenseService(repo db.ExpenseRepository, categories db.CategoryRepository, publisher events.Publisher, logger *log.Logger) *ExpenseService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &ExpenseService{
		Repo:       repo,
		Categories: categories,
		Events:     publisher,
		logger:     logger.WithComponent(log.ComponentExpense),
	}
}

// List returns owner's expenses, optionally narrowed by exact category name
// and YYYY-MM month. A malformed month is ignored.
func (s *ExpenseService) List(ctx context.Context, owner *models.User, category, month string) ([]*models.Expense, error) {
	if month != "" {
		if _, ok := db.ParseMonth(month); !ok {
			s.logger.ForContext(ctx).DebugContext(ctx, "Ignoring malformed month filter", "month", month, log.FieldUserID, owner.ID)
		}
	}

	expenses, err := s.Repo.FindAll(ctx, db.ExpenseFilter{
		OwnerID:  owner.ID,
		Category: category,
		Month:    month,
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return expenses, nil
}

// Create stores a new expense owned by owner. Every field is required.
func (s *ExpenseService) Create(ctx context.Context, owner *models.User, in ExpenseInput) (*models.Expense, error) {
	if err := s.validate(ctx, in, false); err != nil {
		return nil, err
	}

	expense := &models.Expense{UserID: owner.ID}
	apply(expense, in)

	created, err := s.Repo.Create(ctx, expense)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger.ForContext(ctx).InfoContext(ctx, "Expense created",
		log.NewFields().WithOperation(log.OpCreate).WithUser(owner.ID).WithExpense(created.ID, created.CategoryID).ToSlice()...)
	s.publish(ctx, events.ExpenseCreated, created)
	return created, nil
}

// Get loads an expense the requester owns. Unknown ids are not found;
// someone else's record is forbidden.
func (s *ExpenseService) Get(ctx context.Context, requester *models.User, id int64) (*models.Expense, error) {
	expense, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.NotFound()
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := access.CheckOwner(requester, expense); err != nil {
		s.logger.ForContext(ctx).WarnContext(ctx, "Expense access denied", log.FieldUserID, requester.ID, log.FieldExpenseID, id)
		return nil, err
	}
	return expense, nil
}

// Update replaces the writable fields of an expense. With partial set only
// the supplied fields change.
func (s *ExpenseService) Update(ctx context.Context, requester *models.User, id int64, in ExpenseInput, partial bool) (*models.Expense, error) {
	expense, err := s.Get(ctx, requester, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, in, partial); err != nil {
		return nil, err
	}

	apply(expense, in)
	updated, err := s.Repo.Update(ctx, expense)
	if errors.Is(err, db.ErrNotFound) {
		return nil, apperr.NotFound()
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}

	s.logger.ForContext(ctx).InfoContext(ctx, "Expense updated",
		log.NewFields().WithOperation(log.OpUpdate).WithUser(requester.ID).WithExpense(updated.ID, updated.CategoryID).ToSlice()...)
	s.publish(ctx, events.ExpenseUpdated, updated)
	return updated, nil
}

// Delete permanently removes an expense the requester owns
func (s *ExpenseService) Delete(ctx context.Context, requester *models.User, id int64) error {
	expense, err := s.Get(ctx, requester, id)
	if err != nil {
		return err
	}

	err = s.Repo.DeleteByID(ctx, id)
	if errors.Is(err, db.ErrNotFound) {
		return apperr.NotFound()
	}
	if err != nil {
		return apperr.Internal(err)
	}

	s.logger.ForContext(ctx).InfoContext(ctx, "Expense deleted",
		log.NewFields().WithOperation(log.OpDelete).WithUser(requester.ID).WithExpense(expense.ID, expense.CategoryID).ToSlice()...)
	s.publish(ctx, events.ExpenseDeleted, expense)
	return nil
}

func (s *ExpenseService) validate(ctx context.Context, in ExpenseInput, partial bool) error {
	fields := apperr.FieldErrors{}
	for field, msgs := range in.errs {
		fields[field] = append([]string(nil), msgs...)
	}

	if !partial {
		required := map[string]bool{
			"category":    in.Category != nil,
			"amount":      in.Amount != nil,
			"description": in.Description != nil,
			"date":        in.Date != nil,
		}
		for field, present := range required {
			if !present && len(fields[field]) == 0 {
				fields.Add(field, MsgRequired)
			}
		}
	}

	if in.Category != nil {
		_, err := s.Categories.FindByID(ctx, *in.Category)
		if errors.Is(err, db.ErrNotFound) {
			fields.Add("category", fmt.Sprintf(MsgCategoryMissing, *in.Category))
		} else if err != nil {
			return apperr.Internal(err)
		}
	}

	return fields.Err()
}

func apply(expense *models.Expense, in ExpenseInput) {
	if in.Category != nil {
		expense.CategoryID = *in.Category
	}
	if in.Amount != nil {
		expense.Amount = *in.Amount
	}
	if in.Description != nil {
		expense.Description = *in.Description
	}
	if in.Date != nil {
		expense.Date = *in.Date
	}
}

// publish never fails the request; the write has already committed.
func (s *ExpenseService) publish(ctx context.Context, t events.Type, expense *models.Expense) {
	if err := s.Events.Publish(ctx, events.NewExpenseEvent(t, expense)); err != nil {
		s.logger.ForContext(ctx).WarnContext(ctx, "Failed to publish expense event",
			log.FieldEventType, t,
			log.FieldExpenseID, expense.ID,
			log.FieldError, err)
	}
}
