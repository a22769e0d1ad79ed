package models

import (
	"time"

	"gorm.io/gorm"
)

// BudgetPeriod is a user-defined date range that owns incomes, expenses and expense groups.
// StartDate is always strictly before EndDate.
type BudgetPeriod struct {
	Base
	UserID        string         `gorm:"type:uuid;not null;index" json:"userId"`
	Name          *string        `json:"name"`
	StartDate     time.Time      `gorm:"not null;index" json:"startDate"`
	EndDate       time.Time      `gorm:"not null;index" json:"endDate"`
	Incomes       []Income       `gorm:"foreignKey:BudgetPeriodID" json:"incomes,omitempty"`
	Expenses      []Expense      `gorm:"foreignKey:BudgetPeriodID" json:"expenses,omitempty"`
	ExpenseGroups []ExpenseGroup `gorm:"foreignKey:BudgetPeriodID" json:"expenseGroups,omitempty"`
}

// BeforeSave stores period bounds in UTC so range comparisons are consistent across drivers.
func (p *BudgetPeriod) BeforeSave(tx *gorm.DB) error {
	p.StartDate = p.StartDate.UTC()
	p.EndDate = p.EndDate.UTC()
	return nil
}
