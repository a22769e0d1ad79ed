package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"budgeteer/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// TestPassword is the plain-text password of every fixture user.
const TestPassword = "Passw0rd!"

// counter provides unique values across fixtures within a test run.
var counter atomic.Int64

func nextID() int64 {
	return counter.Add(1)
}

// Date returns midnight UTC of the given day.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// CreateTestUser creates a user with a hashed password, unique email and username,
// and a settings row.
func CreateTestUser(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	n := nextID()
	return CreateTestUserWithEmail(t, db, fmt.Sprintf("user%d@test.com", n), fmt.Sprintf("user%d", n))
}

// CreateTestUserWithEmail creates a user with the given email and username.
func CreateTestUserWithEmail(t *testing.T, db *gorm.DB, email, username string) *models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Email:    email,
		Username: username,
		Name:     "Test User",
		Password: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	settings := &models.Settings{UserID: user.ID, Currency: models.DefaultCurrency}
	if err := db.Create(settings).Error; err != nil {
		t.Fatalf("failed to create test settings: %v", err)
	}
	user.Settings = settings
	return user
}

// CreateTestCategory creates a non-default category with a unique name.
func CreateTestCategory(t *testing.T, db *gorm.DB, userID string) *models.Category {
	t.Helper()
	return CreateTestCategoryNamed(t, db, userID, fmt.Sprintf("Test Category %d", nextID()))
}

// CreateTestCategoryNamed creates a non-default category with the given name.
func CreateTestCategoryNamed(t *testing.T, db *gorm.DB, userID, name string) *models.Category {
	t.Helper()

	category := &models.Category{UserID: userID, Name: name}
	if err := db.Create(category).Error; err != nil {
		t.Fatalf("failed to create test category: %v", err)
	}
	return category
}

// CreateTestBudgetPeriod creates a period spanning [start, end].
func CreateTestBudgetPeriod(t *testing.T, db *gorm.DB, userID string, start, end time.Time) *models.BudgetPeriod {
	t.Helper()

	name := fmt.Sprintf("Test Period %d", nextID())
	period := &models.BudgetPeriod{
		UserID:    userID,
		Name:      &name,
		StartDate: start,
		EndDate:   end,
	}
	if err := db.Create(period).Error; err != nil {
		t.Fatalf("failed to create test budget period: %v", err)
	}
	return period
}

// CreateTestIncome adds an income of amount to the period.
func CreateTestIncome(t *testing.T, db *gorm.DB, periodID string, amount string) *models.Income {
	t.Helper()

	income := &models.Income{
		BudgetPeriodID: periodID,
		Name:           fmt.Sprintf("Test Income %d", nextID()),
		Amount:         decimal.RequireFromString(amount),
	}
	if err := db.Create(income).Error; err != nil {
		t.Fatalf("failed to create test income: %v", err)
	}
	return income
}

// CreateTestExpense adds an ungrouped expense of amount to the period.
func CreateTestExpense(t *testing.T, db *gorm.DB, periodID, categoryID string, amount string) *models.Expense {
	t.Helper()

	expense := &models.Expense{
		BudgetPeriodID: periodID,
		CategoryID:     categoryID,
		Name:           fmt.Sprintf("Test Expense %d", nextID()),
		Amount:         decimal.RequireFromString(amount),
	}
	if err := db.Create(expense).Error; err != nil {
		t.Fatalf("failed to create test expense: %v", err)
	}
	return expense
}

// CreateTestExpenseGroup creates an empty group in the period.
func CreateTestExpenseGroup(t *testing.T, db *gorm.DB, periodID string) *models.ExpenseGroup {
	t.Helper()

	group := &models.ExpenseGroup{
		BudgetPeriodID: periodID,
		Name:           fmt.Sprintf("Test Group %d", nextID()),
	}
	if err := db.Create(group).Error; err != nil {
		t.Fatalf("failed to create test expense group: %v", err)
	}
	return group
}

// CreateTestPersonalBudget creates an empty personal budget.
func CreateTestPersonalBudget(t *testing.T, db *gorm.DB, userID string) *models.PersonalBudget {
	t.Helper()

	budget := &models.PersonalBudget{
		UserID: userID,
		Name:   fmt.Sprintf("Test Budget %d", nextID()),
	}
	if err := db.Create(budget).Error; err != nil {
		t.Fatalf("failed to create test personal budget: %v", err)
	}
	return budget
}
