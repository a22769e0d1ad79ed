package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/models"
	"budgeteer/internal/pagination"
)

// expenseService handles expense business logic.
type expenseService struct {
	db *gorm.DB
}

// NewExpenseService creates a new ExpenseServicer.
func NewExpenseService(db *gorm.DB) ExpenseServicer {
	return &expenseService{db: db}
}

func withCategory(db *gorm.DB) *gorm.DB {
	return db.Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}

// checkExpenseRefs verifies the period, category and optional group all belong
// to the user and that the group lives in the same period.
func (s *expenseService) checkExpenseRefs(userID, periodID, categoryID string, groupID *string) error {
	if _, err := findOwnedPeriod(s.db, userID, periodID); err != nil {
		return err
	}
	if _, err := findOwnedCategory(s.db, userID, categoryID); err != nil {
		return err
	}
	if groupID != nil {
		group, err := findOwnedGroup(s.db, userID, *groupID)
		if err != nil {
			return err
		}
		if group.BudgetPeriodID != periodID {
			return apperrors.ErrExpenseGroupMismatch
		}
	}
	return nil
}

func validateExpenseInput(input ExpenseInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "expense name is required")
	}
	return validateAmount(input.Amount)
}

func newExpense(input ExpenseInput) models.Expense {
	return models.Expense{
		BudgetPeriodID: input.BudgetPeriodID,
		CategoryID:     input.CategoryID,
		ExpenseGroupID: input.ExpenseGroupID,
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		Amount:         input.Amount,
	}
}

// CreateExpense records a single expense.
func (s *expenseService) CreateExpense(userID string, input ExpenseInput) (*models.Expense, error) {
	if err := validateExpenseInput(input); err != nil {
		return nil, err
	}
	if err := s.checkExpenseRefs(userID, input.BudgetPeriodID, input.CategoryID, input.ExpenseGroupID); err != nil {
		return nil, err
	}

	expense := newExpense(input)
	if err := s.db.Create(&expense).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return s.GetExpenseByID(userID, expense.ID)
}

// CreateExpenses records several expenses atomically. Every input is validated
// before anything is written.
func (s *expenseService) CreateExpenses(userID string, inputs []ExpenseInput) ([]models.Expense, error) {
	if len(inputs) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "at least one expense is required")
	}

	checked := make(map[string]bool)
	for _, input := range inputs {
		if err := validateExpenseInput(input); err != nil {
			return nil, err
		}
		key := input.BudgetPeriodID + "|" + input.CategoryID
		if input.ExpenseGroupID != nil {
			key += "|" + *input.ExpenseGroupID
		}
		if checked[key] {
			continue
		}
		if err := s.checkExpenseRefs(userID, input.BudgetPeriodID, input.CategoryID, input.ExpenseGroupID); err != nil {
			return nil, err
		}
		checked[key] = true
	}

	expenses := make([]models.Expense, 0, len(inputs))
	for _, input := range inputs {
		expenses = append(expenses, newExpense(input))
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&expenses).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return expenses, nil
}

func applyExpenseFilters(q *gorm.DB, f ExpenseFilter) *gorm.DB {
	if f.BudgetPeriodID != nil {
		q = q.Where("expenses.budget_period_id = ?", *f.BudgetPeriodID)
	}
	if f.CategoryID != nil {
		q = q.Where("expenses.category_id = ?", *f.CategoryID)
	}
	if f.ExpenseGroupID != nil {
		q = q.Where("expenses.expense_group_id = ?", *f.ExpenseGroupID)
	}
	return q
}

// GetUserExpenses lists the user's expenses, newest first, one page at a time.
func (s *expenseService) GetUserExpenses(userID string, filter ExpenseFilter, page pagination.PageRequest) (*pagination.PageResponse[models.Expense], error) {
	page.Defaults()

	base := func() *gorm.DB {
		q := s.db.Model(&models.Expense{}).Scopes(ownedByUser("expenses", userID))
		return applyExpenseFilters(q, filter)
	}

	var totalItems int64
	if err := base().Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var expenses []models.Expense
	if err := base().Scopes(withCategory, pagination.Paginate(page)).
		Order("expenses.created_at DESC").
		Find(&expenses).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(expenses, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetExpenseByID retrieves an expense whose period belongs to the user.
func (s *expenseService) GetExpenseByID(userID, expenseID string) (*models.Expense, error) {
	var expense models.Expense
	err := s.db.Scopes(ownedByUser("expenses", userID), withCategory).
		Where("expenses.id = ?", expenseID).
		First(&expense).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrExpenseNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &expense, nil
}

// UpdateExpense applies the non-nil fields. A new category or group must belong
// to the user, and the group must live in the expense's period. An empty group
// id ungroups the expense.
func (s *expenseService) UpdateExpense(userID, expenseID string, input UpdateExpenseInput) (*models.Expense, error) {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "expense name is required")
		}
		updates["name"] = name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Amount != nil {
		if err := validateAmount(*input.Amount); err != nil {
			return nil, err
		}
		updates["amount"] = *input.Amount
	}
	if input.CategoryID != nil && *input.CategoryID != expense.CategoryID {
		if _, err := findOwnedCategory(s.db, userID, *input.CategoryID); err != nil {
			return nil, err
		}
		updates["category_id"] = *input.CategoryID
	}
	if input.ExpenseGroupID != nil {
		if *input.ExpenseGroupID == "" {
			updates["expense_group_id"] = nil
		} else {
			group, err := findOwnedGroup(s.db, userID, *input.ExpenseGroupID)
			if err != nil {
				return nil, err
			}
			if group.BudgetPeriodID != expense.BudgetPeriodID {
				return nil, apperrors.ErrExpenseGroupMismatch
			}
			updates["expense_group_id"] = group.ID
		}
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.Expense{}).Where("id = ?", expense.ID).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetExpenseByID(userID, expenseID)
}

// DeleteExpense soft-deletes an expense.
func (s *expenseService) DeleteExpense(userID, expenseID string) error {
	expense, err := s.GetExpenseByID(userID, expenseID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(&models.Expense{}, "id = ?", expense.ID).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
