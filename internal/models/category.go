package models

// DefaultCategory identifies one of the categories seeded for every user.
type DefaultCategory string

const (
	DefaultCategoryBills         DefaultCategory = "BILLS"
	DefaultCategoryFood          DefaultCategory = "FOOD"
	DefaultCategoryTransport     DefaultCategory = "TRANSPORT"
	DefaultCategorySavings       DefaultCategory = "SAVINGS"
	DefaultCategoryEntertainment DefaultCategory = "ENTERTAINMENT"
)

// DefaultCategories lists the seeded categories in display order.
var DefaultCategories = []DefaultCategory{
	DefaultCategoryBills,
	DefaultCategoryFood,
	DefaultCategoryTransport,
	DefaultCategorySavings,
	DefaultCategoryEntertainment,
}

// DisplayName returns the human-readable category name, e.g. "Bills".
func (d DefaultCategory) DisplayName() string {
	switch d {
	case DefaultCategoryBills:
		return "Bills"
	case DefaultCategoryFood:
		return "Food"
	case DefaultCategoryTransport:
		return "Transport"
	case DefaultCategorySavings:
		return "Savings"
	case DefaultCategoryEntertainment:
		return "Entertainment"
	}
	return string(d)
}

// Category groups expenses. Names are unique per user, soft-deleted rows included.
type Category struct {
	Base
	UserID          string           `gorm:"type:uuid;not null;uniqueIndex:idx_categories_user_name" json:"userId"`
	Name            string           `gorm:"not null;uniqueIndex:idx_categories_user_name" json:"name"`
	Description     *string          `json:"description"`
	IsDefault       bool             `gorm:"not null;default:false" json:"isDefault"`
	DefaultCategory *DefaultCategory `gorm:"size:20" json:"defaultCategory"`
}
