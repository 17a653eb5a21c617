package models

// ExpenseCategory is a shared classification label. Categories have no owner
// and are only created through administrative tooling.
type ExpenseCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// MaxCategoryNameLength bounds ExpenseCategory.Name.
const MaxCategoryNameLength = 100
