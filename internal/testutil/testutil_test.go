package testutil_test

import (
	"testing"

	"budgeteer/internal/errors"
	"budgeteer/internal/models"
	"budgeteer/internal/testutil"
)

func TestSetupTestDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	// Verify all tables exist by doing a simple count query on each model.
	var count int64
	for _, table := range []string{"users", "settings", "categories", "budget_periods", "incomes", "expense_groups", "expenses", "personal_budgets", "personal_budget_items", "audit_logs"} {
		if err := db.Table(table).Count(&count).Error; err != nil {
			t.Errorf("table %q should exist after migration: %v", table, err)
		}
	}
}

func TestSetupTestDB_Isolated(t *testing.T) {
	first := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, first)
	testutil.CreateTestUser(t, first)

	second := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, second)

	var count int64
	if err := second.Model(&models.User{}).Count(&count).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if count != 0 {
		t.Errorf("expected a fresh database, found %d users", count)
	}
}

func TestFixtures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)

	user := testutil.CreateTestUser(t, db)
	if user.ID == "" {
		t.Fatal("user should have an ID")
	}
	if user.Settings == nil || user.Settings.Currency != models.DefaultCurrency {
		t.Errorf("expected default settings, got %+v", user.Settings)
	}

	category := testutil.CreateTestCategory(t, db, user.ID)
	if category.IsDefault {
		t.Error("fixture category should not be a default category")
	}

	period := testutil.CreateTestBudgetPeriod(t, db, user.ID, testutil.Date(2024, 1, 1), testutil.Date(2024, 1, 31))
	if !period.StartDate.Before(period.EndDate) {
		t.Errorf("expected start before end, got %v..%v", period.StartDate, period.EndDate)
	}

	income := testutil.CreateTestIncome(t, db, period.ID, "1500.50")
	if income.Amount.String() != "1500.5" {
		t.Errorf("expected amount 1500.5, got %s", income.Amount)
	}

	group := testutil.CreateTestExpenseGroup(t, db, period.ID)
	expense := testutil.CreateTestExpense(t, db, period.ID, category.ID, "20")
	if expense.ExpenseGroupID != nil {
		t.Error("fixture expense should be ungrouped")
	}
	if group.BudgetPeriodID != period.ID {
		t.Errorf("expected group in period %s, got %s", period.ID, group.BudgetPeriodID)
	}

	budget := testutil.CreateTestPersonalBudget(t, db, user.ID)
	if budget.UserID != user.ID {
		t.Errorf("expected budget owned by %s, got %s", user.ID, budget.UserID)
	}
}

func TestAssertAppError(t *testing.T) {
	err := errors.WithMessage(errors.ErrBudgetPeriodNotFound, "custom message")
	testutil.AssertAppError(t, err, "BUDGET_PERIOD_NOT_FOUND")
}

func TestAssertNoError(t *testing.T) {
	testutil.AssertNoError(t, nil)
}
