// Package events publishes expense lifecycle notifications.
package events

import (
	"context"
	"encoding/json"
	"time"

	"expense-api/models"
)

type Type string

const (
	ExpenseCreated Type = "expense.created"
	ExpenseUpdated Type = "expense.updated"
	ExpenseDeleted Type = "expense.deleted"
)

type Event struct {
	Type       Type      `json:"type"`
	ExpenseID  int64     `json:"expense_id"`
	UserID     int64     `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewExpenseEvent stamps an event for expense with the current time
func NewExpenseEvent(t Type, expense *models.Expense) Event {
	return Event{
		Type:       t,
		ExpenseID:  expense.ID,
		UserID:     expense.UserID,
		OccurredAt: time.Now().UTC(),
	}
}

func (e Event) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// NopPublisher drops every event
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

func (NopPublisher) Close() error { return nil }
