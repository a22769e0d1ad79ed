package services

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"budgeteer/internal/metrics"
	"budgeteer/internal/models"
	"budgeteer/internal/pagination"
)

// RegisterInput holds the fields needed to create an account.
type RegisterInput struct {
	Email    string
	Username string
	Name     string
	Password string
	Currency models.Currency
}

// UserServicer defines the contract for user-related business logic.
type UserServicer interface {
	Register(input RegisterInput) (*models.User, error)
	Login(identifier, password string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	UpdateProfile(userID string, name, username *string) (*models.User, error)
	ChangePassword(userID, currentPassword, newPassword string) error
}

// SettingsServicer defines the contract for per-user preferences.
type SettingsServicer interface {
	GetSettings(userID string) (*models.Settings, error)
	UpdateSettings(userID string, currency models.Currency) (*models.Settings, error)
}

// CategoryServicer defines the contract for category-related business logic.
type CategoryServicer interface {
	SeedDefaultCategories(tx *gorm.DB, userID string) error
	CreateCategory(userID, name string, description *string) (*models.Category, error)
	GetUserCategories(userID string) ([]models.Category, error)
	GetCategoryByID(userID, categoryID string) (*models.Category, error)
	UpdateCategory(userID, categoryID string, name, description *string) (*models.Category, error)
	DeleteCategory(userID, categoryID string) error
}

// IncomeItem is a single income line supplied on create.
type IncomeItem struct {
	Name        string
	Description *string
	Amount      decimal.Decimal
}

// CreateBudgetPeriodInput holds the fields for a new budget period.
type CreateBudgetPeriodInput struct {
	Name      *string
	StartDate time.Time
	EndDate   time.Time
	Incomes   []IncomeItem
}

// UpdateBudgetPeriodInput holds optional budget period changes; nil fields are left untouched.
type UpdateBudgetPeriodInput struct {
	Name      *string
	StartDate *time.Time
	EndDate   *time.Time
}

// DuplicateBudgetPeriodInput holds the dates for the copy and an optional new name.
type DuplicateBudgetPeriodInput struct {
	Name      *string
	StartDate time.Time
	EndDate   time.Time
}

// BudgetPeriodServicer defines the contract for budget period CRUD.
type BudgetPeriodServicer interface {
	CreateBudgetPeriod(userID string, input CreateBudgetPeriodInput) (*models.BudgetPeriod, error)
	GetUserBudgetPeriods(userID string) ([]models.BudgetPeriod, error)
	GetBudgetPeriodByID(userID, periodID string) (*models.BudgetPeriod, error)
	UpdateBudgetPeriod(userID, periodID string, input UpdateBudgetPeriodInput) (*models.BudgetPeriod, error)
	DeleteBudgetPeriod(userID, periodID string) error
	DuplicateBudgetPeriod(userID, periodID string, input DuplicateBudgetPeriodInput) (*models.BudgetPeriod, error)
}

// MetricsServicer defines the read-only aggregate queries over a user's budget periods.
type MetricsServicer interface {
	GetYearlyMetrics(userID string, year int) (*metrics.Yearly, error)
	GetOverallMetrics(userID string) (*metrics.Overall, error)
	GetYearRangeMetrics(userID string, startYear, endYear int) (*metrics.YearRange, error)
	GetSummary(userID, periodID string) (*metrics.Summary, error)
}

// UpdateIncomeInput holds optional income changes.
type UpdateIncomeInput struct {
	Name        *string
	Description *string
	Amount      *decimal.Decimal
}

// IncomeServicer defines the contract for income-related business logic.
type IncomeServicer interface {
	CreateIncome(userID, periodID string, item IncomeItem) (*models.Income, error)
	GetPeriodIncomes(userID, periodID string) ([]models.Income, error)
	GetIncomeByID(userID, incomeID string) (*models.Income, error)
	UpdateIncome(userID, incomeID string, input UpdateIncomeInput) (*models.Income, error)
	DeleteIncome(userID, incomeID string) error
}

// ExpenseInput holds the fields for a new expense.
type ExpenseInput struct {
	BudgetPeriodID string
	CategoryID     string
	ExpenseGroupID *string
	Name           string
	Description    *string
	Amount         decimal.Decimal
}

// UpdateExpenseInput holds optional expense changes.
type UpdateExpenseInput struct {
	Name           *string
	Description    *string
	Amount         *decimal.Decimal
	CategoryID     *string
	ExpenseGroupID *string
}

// ExpenseFilter holds optional filter parameters for listing expenses.
type ExpenseFilter struct {
	BudgetPeriodID *string
	CategoryID     *string
	ExpenseGroupID *string
}

// ExpenseServicer defines the contract for expense-related business logic.
type ExpenseServicer interface {
	CreateExpense(userID string, input ExpenseInput) (*models.Expense, error)
	CreateExpenses(userID string, inputs []ExpenseInput) ([]models.Expense, error)
	GetUserExpenses(userID string, filter ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error)
	GetExpenseByID(userID, expenseID string) (*models.Expense, error)
	UpdateExpense(userID, expenseID string, input UpdateExpenseInput) (*models.Expense, error)
	DeleteExpense(userID, expenseID string) error
}

// MoveResult reports how many expenses a move touched.
type MoveResult struct {
	MovedCount    int     `json:"movedCount"`
	TargetGroupID *string `json:"targetGroupId"`
}

// ExpenseGroupServicer defines the contract for grouping expenses within a period.
type ExpenseGroupServicer interface {
	CreateExpenseGroup(userID, periodID, name string, description *string) (*models.ExpenseGroup, error)
	GetPeriodExpenseGroups(userID, periodID string) ([]models.ExpenseGroup, error)
	GetExpenseGroupByID(userID, groupID string) (*models.ExpenseGroup, error)
	UpdateExpenseGroup(userID, groupID string, name, description *string) (*models.ExpenseGroup, error)
	DeleteExpenseGroup(userID, groupID string) error
	AddExpensesToGroup(userID, groupID string, expenseIDs []string) (*models.ExpenseGroup, error)
	MoveExpenses(userID string, expenseIDs []string, targetGroupID *string) (*MoveResult, error)
	RemoveExpenseFromGroup(userID, expenseID string) (*models.Expense, error)
}

// PersonalBudgetItemInput holds the fields for a personal budget line.
type PersonalBudgetItemInput struct {
	Name        string
	Description *string
	Amount      decimal.Decimal
}

// UpdatePersonalBudgetItemInput holds optional personal budget line changes.
type UpdatePersonalBudgetItemInput struct {
	Name        *string
	Description *string
	Amount      *decimal.Decimal
}

// PersonalBudgetSummary totals a personal budget's live items.
type PersonalBudgetSummary struct {
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// PersonalBudgetServicer defines the contract for period-independent budgets.
type PersonalBudgetServicer interface {
	CreatePersonalBudget(userID, name string, description *string, items []PersonalBudgetItemInput) (*models.PersonalBudget, error)
	GetUserPersonalBudgets(userID string) ([]models.PersonalBudget, error)
	GetPersonalBudgetByID(userID, budgetID string) (*models.PersonalBudget, error)
	UpdatePersonalBudget(userID, budgetID string, name, description *string) (*models.PersonalBudget, error)
	DeletePersonalBudget(userID, budgetID string) error
	AddItem(userID, budgetID string, item PersonalBudgetItemInput) (*models.PersonalBudgetItem, error)
	UpdateItem(userID, budgetID, itemID string, input UpdatePersonalBudgetItemInput) (*models.PersonalBudgetItem, error)
	DeleteItem(userID, budgetID, itemID string) error
	GetSummary(userID, budgetID string) (*PersonalBudgetSummary, error)
}

// AuditServicer defines the contract for audit logging.
type AuditServicer interface {
	Log(userID, action, resourceType, resourceID, ipAddress string, changes map[string]interface{})
}
