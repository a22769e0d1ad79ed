package models

import "github.com/shopspring/decimal"

// Expense is a positive amount spent within a budget period, optionally grouped.
type Expense struct {
	Base
	BudgetPeriodID string          `gorm:"type:uuid;not null;index" json:"budgetPeriodId"`
	CategoryID     string          `gorm:"type:uuid;not null;index" json:"categoryId"`
	ExpenseGroupID *string         `gorm:"type:uuid;index" json:"expenseGroupId"`
	Name           string          `gorm:"not null" json:"name"`
	Description    *string         `json:"description"`
	Amount         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

// CategoryName returns the name of the loaded category, or "Uncategorized" when it was not loaded.
func (e Expense) CategoryName() string {
	if e.Category == nil || e.Category.Name == "" {
		return "Uncategorized"
	}
	return e.Category.Name
}
