package metrics

import (
	"time"

	"budgeteer/internal/models"

	"github.com/shopspring/decimal"
)

// MonthBucket holds the income and expenses attributed to one calendar month.
type MonthBucket struct {
	Month    int             `json:"month"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
}

// MonthlyBreakdown returns twelve buckets (January first) for year.
//
// Each period's income is split evenly across the months of year it overlaps;
// a period overlapping none of them contributes nothing. All of a period's
// expenses land in the month its start date falls in, and only when that start
// date is in year. Expense dates are not consulted.
func MonthlyBreakdown(periods []models.BudgetPeriod, year int, loc *time.Location) []MonthBucket {
	loc = location(loc)
	buckets := emptyMonths()

	for _, p := range livePeriods(periods) {
		var overlapping []int
		for m := time.January; m <= time.December; m++ {
			w := monthWindow(year, m, loc)
			if !p.StartDate.After(w.End) && !p.EndDate.Before(w.Start) {
				overlapping = append(overlapping, int(m)-1)
			}
		}
		if len(overlapping) > 0 {
			perMonth := PeriodIncome(p).Div(decimal.NewFromInt(int64(len(overlapping))))
			for _, idx := range overlapping {
				buckets[idx].Income = buckets[idx].Income.Add(perMonth)
			}
		}

		start := p.StartDate.In(loc)
		if start.Year() == year {
			idx := int(start.Month()) - 1
			buckets[idx].Expenses = buckets[idx].Expenses.Add(PeriodExpenses(p))
		}
	}
	return buckets
}

func emptyMonths() []MonthBucket {
	buckets := make([]MonthBucket, 12)
	for i := range buckets {
		buckets[i] = MonthBucket{Month: i + 1, Income: decimal.Zero, Expenses: decimal.Zero}
	}
	return buckets
}
