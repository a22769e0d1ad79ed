package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/metrics"
	"budgeteer/internal/models"
)

// overlapClause selects periods that start inside, end inside, or span [?, ?].
const overlapClause = "((start_date BETWEEN ? AND ?) OR (end_date BETWEEN ? AND ?) OR (start_date <= ? AND end_date >= ?))"

// withPeriodChildren preloads live incomes and expenses. The expense category is
// loaded even if it was soft-deleted so its name still resolves.
func withPeriodChildren(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Incomes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Expenses", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Expenses.Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}

// findPeriodsOverlapping returns the user's periods overlapping w, oldest first.
func findPeriodsOverlapping(db *gorm.DB, userID string, w metrics.Window) ([]models.BudgetPeriod, error) {
	start, end := w.Start.UTC(), w.End.UTC()

	var periods []models.BudgetPeriod
	err := db.Scopes(withPeriodChildren).
		Where("user_id = ?", userID).
		Where(overlapClause, start, end, start, end, start, end).
		Order("start_date asc").
		Find(&periods).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return periods, nil
}

// findAllPeriods returns every live period of the user, oldest first.
func findAllPeriods(db *gorm.DB, userID string) ([]models.BudgetPeriod, error) {
	var periods []models.BudgetPeriod
	err := db.Scopes(withPeriodChildren).
		Where("user_id = ?", userID).
		Order("start_date asc").
		Find(&periods).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return periods, nil
}

// findOnePeriod returns a single owned period with its children.
func findOnePeriod(db *gorm.DB, userID, periodID string) (*models.BudgetPeriod, error) {
	var period models.BudgetPeriod
	err := db.Scopes(withPeriodChildren).
		Preload("ExpenseGroups", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Where("id = ? AND user_id = ?", periodID, userID).
		First(&period).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetPeriodNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &period, nil
}

// findOwnedPeriod loads just the period row, verifying ownership.
func findOwnedPeriod(db *gorm.DB, userID, periodID string) (*models.BudgetPeriod, error) {
	var period models.BudgetPeriod
	if err := db.Where("id = ? AND user_id = ?", periodID, userID).First(&period).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrBudgetPeriodNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &period, nil
}

// findOwnedCategory verifies a live category belongs to the user.
func findOwnedCategory(db *gorm.DB, userID, categoryID string) (*models.Category, error) {
	var category models.Category
	if err := db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// ownedByUser restricts a query on table to rows whose live budget period belongs to userID.
func ownedByUser(table, userID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		periods := db.Session(&gorm.Session{NewDB: true}).
			Model(&models.BudgetPeriod{}).
			Select("id").
			Where("user_id = ?", userID)
		return db.Where(table+".budget_period_id IN (?)", periods)
	}
}

// findOwnedGroup loads a live expense group whose period belongs to the user.
func findOwnedGroup(db *gorm.DB, userID, groupID string) (*models.ExpenseGroup, error) {
	var group models.ExpenseGroup
	err := db.Scopes(ownedByUser("expense_groups", userID)).
		Where("expense_groups.id = ?", groupID).
		First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseGroupNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &group, nil
}

// findOwnedExpenses loads the live expenses among ids that belong to the user.
func findOwnedExpenses(db *gorm.DB, userID string, ids []string) ([]models.Expense, error) {
	var expenses []models.Expense
	err := db.Scopes(ownedByUser("expenses", userID)).
		Where("expenses.id IN ?", ids).
		Find(&expenses).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return expenses, nil
}

// uniqueStrings returns ids with duplicates removed, keeping first occurrences.
func uniqueStrings(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
