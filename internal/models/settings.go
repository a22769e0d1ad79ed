package models

// Currency is the display currency a user has selected.
type Currency string

const (
	CurrencyPHP Currency = "PHP"
	CurrencyUSD Currency = "USD"
)

// DefaultCurrency is assigned to every new account.
const DefaultCurrency = CurrencyPHP

// IsValid reports whether c is a supported currency.
func (c Currency) IsValid() bool {
	switch c {
	case CurrencyPHP, CurrencyUSD:
		return true
	}
	return false
}

// Settings holds per-user preferences. Each user has exactly one row.
type Settings struct {
	Base
	UserID   string   `gorm:"type:uuid;uniqueIndex;not null" json:"userId"`
	Currency Currency `gorm:"size:3;not null;default:PHP" json:"currency"`
}
