package services

import (
	"strings"

	"gorm.io/gorm"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/models"
)

// expenseGroupService handles expense group business logic.
type expenseGroupService struct {
	db *gorm.DB
}

// NewExpenseGroupService creates a new ExpenseGroupServicer.
func NewExpenseGroupService(db *gorm.DB) ExpenseGroupServicer {
	return &expenseGroupService{db: db}
}

func withGroupExpenses(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Expenses", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		Preload("Expenses.Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}

// CreateExpenseGroup adds an empty group to an owned period.
func (s *expenseGroupService) CreateExpenseGroup(userID, periodID, name string, description *string) (*models.ExpenseGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "group name is required")
	}
	if _, err := findOwnedPeriod(s.db, userID, periodID); err != nil {
		return nil, err
	}

	group := &models.ExpenseGroup{
		BudgetPeriodID: periodID,
		Name:           name,
		Description:    description,
	}
	if err := s.db.Create(group).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	group.Expenses = []models.Expense{}
	return group, nil
}

// GetPeriodExpenseGroups lists an owned period's groups with their expenses.
func (s *expenseGroupService) GetPeriodExpenseGroups(userID, periodID string) ([]models.ExpenseGroup, error) {
	if _, err := findOwnedPeriod(s.db, userID, periodID); err != nil {
		return nil, err
	}

	var groups []models.ExpenseGroup
	if err := s.db.Scopes(withGroupExpenses).
		Where("budget_period_id = ?", periodID).
		Order("created_at desc").
		Find(&groups).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return groups, nil
}

// GetExpenseGroupByID retrieves an owned group with its expenses.
func (s *expenseGroupService) GetExpenseGroupByID(userID, groupID string) (*models.ExpenseGroup, error) {
	return findOwnedGroup(s.db.Scopes(withGroupExpenses), userID, groupID)
}

// UpdateExpenseGroup renames or re-describes a group.
func (s *expenseGroupService) UpdateExpenseGroup(userID, groupID string, name, description *string) (*models.ExpenseGroup, error) {
	group, err := findOwnedGroup(s.db, userID, groupID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "group name is required")
		}
		updates["name"] = trimmed
	}
	if description != nil {
		updates["description"] = *description
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.ExpenseGroup{}).Where("id = ?", group.ID).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetExpenseGroupByID(userID, groupID)
}

// DeleteExpenseGroup ungroups the group's expenses, then soft-deletes the group.
// The expenses themselves are kept.
func (s *expenseGroupService) DeleteExpenseGroup(userID, groupID string) error {
	group, err := findOwnedGroup(s.db, userID, groupID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Expense{}).
			Where("expense_group_id = ?", group.ID).
			Update("expense_group_id", nil).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&models.ExpenseGroup{}, "id = ?", group.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// loadMovable resolves ids to the user's live expenses. Every id must resolve.
func (s *expenseGroupService) loadMovable(userID string, expenseIDs []string) ([]models.Expense, error) {
	ids := uniqueStrings(expenseIDs)
	if len(ids) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one expense id is required")
	}

	expenses, err := findOwnedExpenses(s.db, userID, ids)
	if err != nil {
		return nil, err
	}
	if len(expenses) != len(ids) {
		return nil, apperrors.ErrExpenseNotFound
	}
	return expenses, nil
}

// assign sets expense_group_id on every expense in one statement.
func (s *expenseGroupService) assign(expenses []models.Expense, groupID *string) error {
	ids := make([]string, 0, len(expenses))
	for _, e := range expenses {
		ids = append(ids, e.ID)
	}

	var value interface{}
	if groupID != nil {
		value = *groupID
	}
	if err := s.db.Model(&models.Expense{}).
		Where("id IN ?", ids).
		Update("expense_group_id", value).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// AddExpensesToGroup puts the given expenses into groupID. All of them must be in
// the group's period.
func (s *expenseGroupService) AddExpensesToGroup(userID, groupID string, expenseIDs []string) (*models.ExpenseGroup, error) {
	group, err := findOwnedGroup(s.db, userID, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.loadMovable(userID, expenseIDs)
	if err != nil {
		return nil, err
	}
	for _, e := range expenses {
		if e.BudgetPeriodID != group.BudgetPeriodID {
			return nil, apperrors.ErrExpenseGroupMismatch
		}
	}

	if err := s.assign(expenses, &group.ID); err != nil {
		return nil, err
	}
	return s.GetExpenseGroupByID(userID, groupID)
}

// MoveExpenses moves expenses into targetGroupID, or out of any group when it is nil.
func (s *expenseGroupService) MoveExpenses(userID string, expenseIDs []string, targetGroupID *string) (*MoveResult, error) {
	expenses, err := s.loadMovable(userID, expenseIDs)
	if err != nil {
		return nil, err
	}

	if targetGroupID != nil {
		group, err := findOwnedGroup(s.db, userID, *targetGroupID)
		if err != nil {
			return nil, err
		}
		for _, e := range expenses {
			if e.BudgetPeriodID != group.BudgetPeriodID {
				return nil, apperrors.ErrExpenseGroupMismatch
			}
		}
	}

	if err := s.assign(expenses, targetGroupID); err != nil {
		return nil, err
	}
	return &MoveResult{MovedCount: len(expenses), TargetGroupID: targetGroupID}, nil
}

// RemoveExpenseFromGroup ungroups a single expense.
func (s *expenseGroupService) RemoveExpenseFromGroup(userID, expenseID string) (*models.Expense, error) {
	expenses, err := s.loadMovable(userID, []string{expenseID})
	if err != nil {
		return nil, err
	}
	if err := s.assign(expenses, nil); err != nil {
		return nil, err
	}

	expense := expenses[0]
	expense.ExpenseGroupID = nil
	return &expense, nil
}
