// Package access holds record-level permission checks.
package access

import (
	"expense-api/internal/apperr"
	"expense-api/models"
)

// CheckOwner permits requester to act on expense only when they own it.
func CheckOwner(requester *models.User, expense *models.Expense) error {
	if requester == nil || expense == nil || expense.UserID != requester.ID {
		return apperr.Forbidden()
	}
	return nil
}
