package models

import "github.com/shopspring/decimal"

// Income is a positive amount earned within a budget period.
type Income struct {
	Base
	BudgetPeriodID string          `gorm:"type:uuid;not null;index" json:"budgetPeriodId"`
	Name           string          `gorm:"not null" json:"name"`
	Description    *string         `json:"description"`
	Amount         decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
}
