package metrics

import (
	"time"

	"budgeteer/internal/models"

	"github.com/shopspring/decimal"
)

// Yearly is the aggregate for a single calendar year.
type Yearly struct {
	Year               int               `json:"year"`
	TotalIncome        decimal.Decimal   `json:"totalIncome"`
	TotalExpenses      decimal.Decimal   `json:"totalExpenses"`
	Savings            decimal.Decimal   `json:"savings"`
	SavingsRate        decimal.Decimal   `json:"savingsRate"`
	ExpensesByCategory CategoryBreakdown `json:"expensesByCategory"`
	MonthlyBreakdown   []MonthBucket     `json:"monthlyBreakdown"`
	BudgetPeriodsCount int               `json:"budgetPeriodsCount"`
}

// Overall is the lifetime aggregate across every period.
type Overall struct {
	TotalIncome        decimal.Decimal   `json:"totalIncome"`
	TotalExpenses      decimal.Decimal   `json:"totalExpenses"`
	Savings            decimal.Decimal   `json:"savings"`
	SavingsRate        decimal.Decimal   `json:"savingsRate"`
	ExpensesByCategory CategoryBreakdown `json:"expensesByCategory"`
	BudgetPeriodsCount int               `json:"budgetPeriodsCount"`
}

// YearSummary is one entry of a year-range breakdown.
type YearSummary struct {
	Year             int             `json:"year"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpenses    decimal.Decimal `json:"totalExpenses"`
	Savings          decimal.Decimal `json:"savings"`
	MonthlyBreakdown []MonthBucket   `json:"monthlyBreakdown"`
}

// YearRange is the aggregate over [startYear, endYear] with a per-year breakdown.
type YearRange struct {
	StartYear          int               `json:"startYear"`
	EndYear            int               `json:"endYear"`
	TotalIncome        decimal.Decimal   `json:"totalIncome"`
	TotalExpenses      decimal.Decimal   `json:"totalExpenses"`
	Savings            decimal.Decimal   `json:"savings"`
	SavingsRate        decimal.Decimal   `json:"savingsRate"`
	ExpensesByCategory CategoryBreakdown `json:"expensesByCategory"`
	YearlyBreakdown    []YearSummary     `json:"yearlyBreakdown"`
	BudgetPeriodsCount int               `json:"budgetPeriodsCount"`
}

// Summary is the aggregate for exactly one period.
type Summary struct {
	Income             decimal.Decimal   `json:"income"`
	TotalExpenses      decimal.Decimal   `json:"totalExpenses"`
	Remaining          decimal.Decimal   `json:"remaining"`
	ExpensesByCategory CategoryBreakdown `json:"expensesByCategory"`
}

// InScope returns the live periods overlapping w, preserving order.
func InScope(periods []models.BudgetPeriod, w Window) []models.BudgetPeriod {
	out := make([]models.BudgetPeriod, 0, len(periods))
	for _, p := range livePeriods(periods) {
		if Overlaps(p.StartDate, p.EndDate, w) {
			out = append(out, p)
		}
	}
	return out
}

// ComputeYearly aggregates the periods overlapping year. Totals are the full
// income and expenses of every overlapping period; only the monthly breakdown
// is pro-rated.
func ComputeYearly(periods []models.BudgetPeriod, year int, loc *time.Location) Yearly {
	scoped := InScope(periods, YearWindow(year, loc))
	t := sumPeriods(scoped)
	savings := t.income.Sub(t.expenses)

	return Yearly{
		Year:               year,
		TotalIncome:        t.income,
		TotalExpenses:      t.expenses,
		Savings:            savings,
		SavingsRate:        SavingsRate(t.income, savings),
		ExpensesByCategory: ByCategory(scoped),
		MonthlyBreakdown:   MonthlyBreakdown(scoped, year, loc),
		BudgetPeriodsCount: len(scoped),
	}
}

// ComputeOverall aggregates every live period.
func ComputeOverall(periods []models.BudgetPeriod) Overall {
	scoped := livePeriods(periods)
	t := sumPeriods(scoped)
	savings := t.income.Sub(t.expenses)

	return Overall{
		TotalIncome:        t.income,
		TotalExpenses:      t.expenses,
		Savings:            savings,
		SavingsRate:        SavingsRate(t.income, savings),
		ExpensesByCategory: ByCategory(scoped),
		BudgetPeriodsCount: len(scoped),
	}
}

// ComputeYearRange aggregates the periods overlapping [startYear, endYear] and
// breaks them down per year. Each year is computed independently, so a period
// spanning several years contributes its pro-rated income to each of them.
// Callers must ensure startYear <= endYear; otherwise the breakdown is empty.
func ComputeYearRange(periods []models.BudgetPeriod, startYear, endYear int, loc *time.Location) YearRange {
	scoped := InScope(periods, RangeWindow(startYear, endYear, loc))
	t := sumPeriods(scoped)
	savings := t.income.Sub(t.expenses)

	breakdown := make([]YearSummary, 0, max(endYear-startYear+1, 0))
	for year := startYear; year <= endYear; year++ {
		months := MonthlyBreakdown(scoped, year, loc)
		income, expenses := decimal.Zero, decimal.Zero
		for _, b := range months {
			income = income.Add(b.Income)
			expenses = expenses.Add(b.Expenses)
		}
		breakdown = append(breakdown, YearSummary{
			Year:             year,
			TotalIncome:      income,
			TotalExpenses:    expenses,
			Savings:          income.Sub(expenses),
			MonthlyBreakdown: months,
		})
	}

	return YearRange{
		StartYear:          startYear,
		EndYear:            endYear,
		TotalIncome:        t.income,
		TotalExpenses:      t.expenses,
		Savings:            savings,
		SavingsRate:        SavingsRate(t.income, savings),
		ExpensesByCategory: ByCategory(scoped),
		YearlyBreakdown:    breakdown,
		BudgetPeriodsCount: len(scoped),
	}
}

// Summarize aggregates a single period: its income, its expenses, what remains
// and the per-category spend.
func Summarize(p models.BudgetPeriod) Summary {
	income := PeriodIncome(p)
	expenses := PeriodExpenses(p)
	return Summary{
		Income:             income,
		TotalExpenses:      expenses,
		Remaining:          income.Sub(expenses),
		ExpensesByCategory: ByCategory([]models.BudgetPeriod{p}),
	}
}
