package models

// ExpenseGroup is a named bucket of expenses inside a single budget period.
type ExpenseGroup struct {
	Base
	BudgetPeriodID string    `gorm:"type:uuid;not null;index" json:"budgetPeriodId"`
	Name           string    `gorm:"not null" json:"name"`
	Description    *string   `json:"description"`
	Expenses       []Expense `gorm:"foreignKey:ExpenseGroupID" json:"expenses,omitempty"`
}
