package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/models"
)

// incomeService handles income business logic.
type incomeService struct {
	db *gorm.DB
}

// NewIncomeService creates a new IncomeServicer.
func NewIncomeService(db *gorm.DB) IncomeServicer {
	return &incomeService{db: db}
}

func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must be greater than zero")
	}
	return nil
}

func validateIncomeItem(item IncomeItem) error {
	if strings.TrimSpace(item.Name) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "income name is required")
	}
	return validateAmount(item.Amount)
}

// CreateIncome adds an income line to an owned period.
func (s *incomeService) CreateIncome(userID, periodID string, item IncomeItem) (*models.Income, error) {
	if err := validateIncomeItem(item); err != nil {
		return nil, err
	}
	if _, err := findOwnedPeriod(s.db, userID, periodID); err != nil {
		return nil, err
	}

	income := &models.Income{
		BudgetPeriodID: periodID,
		Name:           strings.TrimSpace(item.Name),
		Description:    item.Description,
		Amount:         item.Amount,
	}
	if err := s.db.Create(income).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return income, nil
}

// GetPeriodIncomes lists an owned period's incomes, newest first.
func (s *incomeService) GetPeriodIncomes(userID, periodID string) ([]models.Income, error) {
	if _, err := findOwnedPeriod(s.db, userID, periodID); err != nil {
		return nil, err
	}

	var incomes []models.Income
	if err := s.db.Where("budget_period_id = ?", periodID).
		Order("created_at desc").
		Find(&incomes).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return incomes, nil
}

// GetIncomeByID retrieves an income whose period belongs to the user.
func (s *incomeService) GetIncomeByID(userID, incomeID string) (*models.Income, error) {
	var income models.Income
	err := s.db.Scopes(ownedByUser("incomes", userID)).
		Where("incomes.id = ?", incomeID).
		First(&income).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrIncomeNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &income, nil
}

// UpdateIncome applies the non-nil fields.
func (s *incomeService) UpdateIncome(userID, incomeID string, input UpdateIncomeInput) (*models.Income, error) {
	income, err := s.GetIncomeByID(userID, incomeID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "income name is required")
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

	if len(updates) > 0 {
		if err := s.db.Model(income).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return income, nil
}

// DeleteIncome soft-deletes an income.
func (s *incomeService) DeleteIncome(userID, incomeID string) error {
	income, err := s.GetIncomeByID(userID, incomeID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(income).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
