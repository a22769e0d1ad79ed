package services

import (
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/models"
)

// budgetPeriodService handles budget period business logic.
type budgetPeriodService struct {
	db *gorm.DB
}

// NewBudgetPeriodService creates a new BudgetPeriodServicer.
func NewBudgetPeriodService(db *gorm.DB) BudgetPeriodServicer {
	return &budgetPeriodService{db: db}
}

func validateDateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() || !start.Before(end) {
		return apperrors.ErrInvalidDateRange
	}
	return nil
}

func trimmedName(name *string) *string {
	if name == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// CreateBudgetPeriod creates a period and its initial incomes in a single transaction.
func (s *budgetPeriodService) CreateBudgetPeriod(userID string, input CreateBudgetPeriodInput) (*models.BudgetPeriod, error) {
	if err := validateDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	for _, item := range input.Incomes {
		if err := validateIncomeItem(item); err != nil {
			return nil, err
		}
	}

	period := &models.BudgetPeriod{
		UserID:    userID,
		Name:      trimmedName(input.Name),
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(period).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		if len(input.Incomes) == 0 {
			return nil
		}
		incomes := make([]models.Income, 0, len(input.Incomes))
		for _, item := range input.Incomes {
			incomes = append(incomes, models.Income{
				BudgetPeriodID: period.ID,
				Name:           strings.TrimSpace(item.Name),
				Description:    item.Description,
				Amount:         item.Amount,
			})
		}
		if err := tx.Create(&incomes).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return findOnePeriod(s.db, userID, period.ID)
}

// GetUserBudgetPeriods lists the user's periods, newest first, with incomes and expenses.
func (s *budgetPeriodService) GetUserBudgetPeriods(userID string) ([]models.BudgetPeriod, error) {
	var periods []models.BudgetPeriod
	if err := s.db.Scopes(withPeriodChildren).
		Where("user_id = ?", userID).
		Order("start_date desc").
		Find(&periods).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return periods, nil
}

// GetBudgetPeriodByID retrieves one period with incomes, expenses and groups.
func (s *budgetPeriodService) GetBudgetPeriodByID(userID, periodID string) (*models.BudgetPeriod, error) {
	return findOnePeriod(s.db, userID, periodID)
}

// UpdateBudgetPeriod applies the non-nil fields. The resulting range must still be valid.
func (s *budgetPeriodService) UpdateBudgetPeriod(userID, periodID string, input UpdateBudgetPeriodInput) (*models.BudgetPeriod, error) {
	period, err := findOwnedPeriod(s.db, userID, periodID)
	if err != nil {
		return nil, err
	}

	start, end := period.StartDate, period.EndDate
	if input.StartDate != nil {
		start = *input.StartDate
	}
	if input.EndDate != nil {
		end = *input.EndDate
	}
	if err := validateDateRange(start, end); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		updates["name"] = trimmedName(input.Name)
	}
	if input.StartDate != nil {
		updates["start_date"] = start.UTC()
	}
	if input.EndDate != nil {
		updates["end_date"] = end.UTC()
	}

	if len(updates) > 0 {
		if err := s.db.Model(period).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return findOnePeriod(s.db, userID, periodID)
}

// DeleteBudgetPeriod soft-deletes a period. Its children stay in place but are
// no longer reachable through the owner checks.
func (s *budgetPeriodService) DeleteBudgetPeriod(userID, periodID string) error {
	period, err := findOwnedPeriod(s.db, userID, periodID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(period).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// DuplicateBudgetPeriod copies a period's incomes, expense groups and expenses
// into a new period with the given dates. Group membership is preserved.
func (s *budgetPeriodService) DuplicateBudgetPeriod(userID, periodID string, input DuplicateBudgetPeriodInput) (*models.BudgetPeriod, error) {
	if err := validateDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	source, err := findOnePeriod(s.db, userID, periodID)
	if err != nil {
		return nil, err
	}

	name := trimmedName(input.Name)
	if name == nil {
		name = source.Name
	}

	copyPeriod := &models.BudgetPeriod{
		UserID:    userID,
		Name:      name,
		StartDate: input.StartDate,
		EndDate:   input.EndDate,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(copyPeriod).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		groupIDs := make(map[string]string, len(source.ExpenseGroups))
		for _, g := range source.ExpenseGroups {
			group := models.ExpenseGroup{
				BudgetPeriodID: copyPeriod.ID,
				Name:           g.Name,
				Description:    g.Description,
			}
			if err := tx.Create(&group).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			groupIDs[g.ID] = group.ID
		}

		if len(source.Incomes) > 0 {
			incomes := make([]models.Income, 0, len(source.Incomes))
			for _, in := range source.Incomes {
				incomes = append(incomes, models.Income{
					BudgetPeriodID: copyPeriod.ID,
					Name:           in.Name,
					Description:    in.Description,
					Amount:         in.Amount,
				})
			}
			if err := tx.Create(&incomes).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}

		if len(source.Expenses) > 0 {
			expenses := make([]models.Expense, 0, len(source.Expenses))
			for _, e := range source.Expenses {
				var groupID *string
				if e.ExpenseGroupID != nil {
					if mapped, ok := groupIDs[*e.ExpenseGroupID]; ok {
						groupID = &mapped
					}
				}
				expenses = append(expenses, models.Expense{
					BudgetPeriodID: copyPeriod.ID,
					CategoryID:     e.CategoryID,
					ExpenseGroupID: groupID,
					Name:           e.Name,
					Description:    e.Description,
					Amount:         e.Amount,
				})
			}
			if err := tx.Create(&expenses).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return findOnePeriod(s.db, userID, copyPeriod.ID)
}
