package metrics

import (
	"budgeteer/internal/models"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// CategoryTotal is the rolled-up spend for one category name.
type CategoryTotal struct {
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}

// CategoryBreakdown maps a category name to its rolled-up spend.
type CategoryBreakdown map[string]CategoryTotal

// PeriodIncome sums the amounts of the period's live incomes.
func PeriodIncome(p models.BudgetPeriod) decimal.Decimal {
	total := decimal.Zero
	for _, inc := range p.Incomes {
		if inc.IsDeleted() {
			continue
		}
		total = total.Add(inc.Amount)
	}
	return total
}

// PeriodExpenses sums the amounts of the period's live expenses.
func PeriodExpenses(p models.BudgetPeriod) decimal.Decimal {
	total := decimal.Zero
	for _, exp := range liveExpenses(p) {
		total = total.Add(exp.Amount)
	}
	return total
}

// ByCategory groups the live expenses of every live period by category name.
// The result is never nil.
func ByCategory(periods []models.BudgetPeriod) CategoryBreakdown {
	out := CategoryBreakdown{}
	for _, p := range livePeriods(periods) {
		for _, exp := range liveExpenses(p) {
			name := exp.CategoryName()
			entry := out[name]
			entry.Total = entry.Total.Add(exp.Amount)
			entry.Count++
			out[name] = entry
		}
	}
	return out
}

// SavingsRate returns savings as a percentage of income, or zero when income is zero.
func SavingsRate(income, savings decimal.Decimal) decimal.Decimal {
	if income.IsZero() {
		return decimal.Zero
	}
	return savings.Div(income).Mul(hundred)
}

// totals holds the figures shared by every scope.
type totals struct {
	income   decimal.Decimal
	expenses decimal.Decimal
}

func sumPeriods(periods []models.BudgetPeriod) totals {
	t := totals{income: decimal.Zero, expenses: decimal.Zero}
	for _, p := range periods {
		t.income = t.income.Add(PeriodIncome(p))
		t.expenses = t.expenses.Add(PeriodExpenses(p))
	}
	return t
}

func livePeriods(periods []models.BudgetPeriod) []models.BudgetPeriod {
	out := make([]models.BudgetPeriod, 0, len(periods))
	for _, p := range periods {
		if !p.IsDeleted() {
			out = append(out, p)
		}
	}
	return out
}

func liveExpenses(p models.BudgetPeriod) []models.Expense {
	out := make([]models.Expense, 0, len(p.Expenses))
	for _, exp := range p.Expenses {
		if !exp.IsDeleted() {
			out = append(out, exp)
		}
	}
	return out
}
