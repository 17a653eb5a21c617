package db

import (
	"strings"
	"time"

	"expense-api/models"
)

const monthLayout = "2006-01"

// ExpenseFilter narrows an owner's expenses. OwnerID is mandatory and comes
// from the authenticated identity; Category and Month come from the request.
type ExpenseFilter struct {
	OwnerID  int64
	Category string
	Month    string
}

// MonthRange is the half-open interval [Start, End) covering one calendar month.
type MonthRange struct {
	Start models.Date
	End   models.Date
}

// ParseMonth parses s strictly as YYYY-MM. ok is false for anything else,
// including out-of-range months.
func ParseMonth(s string) (MonthRange, bool) {
	if len(s) != len(monthLayout) {
		return MonthRange{}, false
	}
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return MonthRange{}, false
	}
	start := models.NewDate(t.Year(), t.Month(), 1)
	return MonthRange{
		Start: start,
		End:   models.Date{Time: start.AddDate(0, 1, 0)},
	}, true
}

// BuildExpenseQuery turns f into a SELECT over expenses and its arguments.
// The owner predicate is always present. An unparseable Month is dropped as
// if it had not been supplied.
func BuildExpenseQuery(f ExpenseFilter) (string, []interface{}) {
	var b strings.Builder
	b.WriteString(`SELECT e.id, e.user_id, e.category_id, e.amount, e.description, e.date
	FROM expenses e
	JOIN expense_categories c ON c.id = e.category_id
	WHERE e.user_id = ?`)
	args := []interface{}{f.OwnerID}

	if f.Category != "" {
		b.WriteString(` AND c.name = ?`)
		args = append(args, f.Category)
	}

	if f.Month != "" {
		if month, ok := ParseMonth(f.Month); ok {
			b.WriteString(` AND e.date >= ? AND e.date < ?`)
			args = append(args, month.Start.String(), month.End.String())
		}
	}

	b.WriteString(` ORDER BY e.date DESC, e.id ASC`)
	return b.String(), args
}
