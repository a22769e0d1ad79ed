package services

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/models"
)

// personalBudgetService handles personal budget business logic.
type personalBudgetService struct {
	db *gorm.DB
}

// NewPersonalBudgetService creates a new PersonalBudgetServicer.
func NewPersonalBudgetService(db *gorm.DB) PersonalBudgetServicer {
	return &personalBudgetService{db: db}
}

func withItems(db *gorm.DB) *gorm.DB {
	return db.Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") })
}

func validateItem(name string, amount decimal.Decimal) error {
	if strings.TrimSpace(name) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "item name is required")
	}
	return validateAmount(amount)
}

// CreatePersonalBudget creates a budget and its initial items in one transaction.
func (s *personalBudgetService) CreatePersonalBudget(userID, name string, description *string, items []PersonalBudgetItemInput) (*models.PersonalBudget, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
	}
	for _, item := range items {
		if err := validateItem(item.Name, item.Amount); err != nil {
			return nil, err
		}
	}

	budget := &models.PersonalBudget{
		UserID:      userID,
		Name:        name,
		Description: description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(budget).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if len(items) == 0 {
			return nil
		}

		rows := make([]models.PersonalBudgetItem, 0, len(items))
		for _, item := range items {
			rows = append(rows, models.PersonalBudgetItem{
				PersonalBudgetID: budget.ID,
				Name:             strings.TrimSpace(item.Name),
				Description:      item.Description,
				Amount:           item.Amount,
			})
		}
		if err := tx.Create(&rows).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetPersonalBudgetByID(userID, budget.ID)
}

// GetUserPersonalBudgets lists the user's budgets, newest first, with items.
func (s *personalBudgetService) GetUserPersonalBudgets(userID string) ([]models.PersonalBudget, error) {
	var budgets []models.PersonalBudget
	if err := s.db.Scopes(withItems).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&budgets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return budgets, nil
}

// GetPersonalBudgetByID retrieves an owned budget with its items.
func (s *personalBudgetService) GetPersonalBudgetByID(userID, budgetID string) (*models.PersonalBudget, error) {
	var budget models.PersonalBudget
	if err := s.db.Scopes(withItems).
		Where("id = ? AND user_id = ?", budgetID, userID).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPersonalBudgetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &budget, nil
}

// UpdatePersonalBudget renames or re-describes a budget.
func (s *personalBudgetService) UpdatePersonalBudget(userID, budgetID string, name, description *string) (*models.PersonalBudget, error) {
	budget, err := s.GetPersonalBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "budget name is required")
		}
		updates["name"] = trimmed
	}
	if description != nil {
		updates["description"] = *description
	}

	if len(updates) > 0 {
		if err := s.db.Model(&models.PersonalBudget{}).Where("id = ?", budget.ID).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return s.GetPersonalBudgetByID(userID, budgetID)
}

// DeletePersonalBudget soft-deletes a budget together with its items.
func (s *personalBudgetService) DeletePersonalBudget(userID, budgetID string) error {
	budget, err := s.GetPersonalBudgetByID(userID, budgetID)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("personal_budget_id = ?", budget.ID).Delete(&models.PersonalBudgetItem{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&models.PersonalBudget{}, "id = ?", budget.ID).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// AddItem appends an item to an owned budget.
func (s *personalBudgetService) AddItem(userID, budgetID string, input PersonalBudgetItemInput) (*models.PersonalBudgetItem, error) {
	if err := validateItem(input.Name, input.Amount); err != nil {
		return nil, err
	}
	if _, err := s.GetPersonalBudgetByID(userID, budgetID); err != nil {
		return nil, err
	}

	item := &models.PersonalBudgetItem{
		PersonalBudgetID: budgetID,
		Name:             strings.TrimSpace(input.Name),
		Description:      input.Description,
		Amount:           input.Amount,
	}
	if err := s.db.Create(item).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return item, nil
}

func (s *personalBudgetService) findItem(userID, budgetID, itemID string) (*models.PersonalBudgetItem, error) {
	if _, err := s.GetPersonalBudgetByID(userID, budgetID); err != nil {
		return nil, err
	}

	var item models.PersonalBudgetItem
	if err := s.db.Where("id = ? AND personal_budget_id = ?", itemID, budgetID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPersonalBudgetItemNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &item, nil
}

// UpdateItem applies the non-nil fields to an item of an owned budget.
func (s *personalBudgetService) UpdateItem(userID, budgetID, itemID string, input UpdatePersonalBudgetItemInput) (*models.PersonalBudgetItem, error) {
	item, err := s.findItem(userID, budgetID, itemID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "item name is required")
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
		if err := s.db.Model(item).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return item, nil
}

// DeleteItem soft-deletes an item of an owned budget.
func (s *personalBudgetService) DeleteItem(userID, budgetID, itemID string) error {
	item, err := s.findItem(userID, budgetID, itemID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(item).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// GetSummary totals the live items of an owned budget.
func (s *personalBudgetService) GetSummary(userID, budgetID string) (*PersonalBudgetSummary, error) {
	budget, err := s.GetPersonalBudgetByID(userID, budgetID)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, item := range budget.Items {
		total = total.Add(item.Amount)
	}
	return &PersonalBudgetSummary{Total: total, ItemCount: len(budget.Items)}, nil
}
