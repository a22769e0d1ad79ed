package models

import "github.com/shopspring/decimal"

// PersonalBudget is a free-standing planning list, independent of budget periods.
type PersonalBudget struct {
	Base
	UserID      string               `gorm:"type:uuid;not null;index" json:"userId"`
	Name        string               `gorm:"not null" json:"name"`
	Description *string              `json:"description"`
	Items       []PersonalBudgetItem `gorm:"foreignKey:PersonalBudgetID" json:"items,omitempty"`
}

// PersonalBudgetItem is a single planned amount in a personal budget.
type PersonalBudgetItem struct {
	Base
	PersonalBudgetID string          `gorm:"type:uuid;not null;index" json:"personalBudgetId"`
	Name             string          `gorm:"not null" json:"name"`
	Description      *string         `json:"description"`
	Amount           decimal.Decimal `gorm:"type:numeric(14,2);not null" json:"amount"`
}
