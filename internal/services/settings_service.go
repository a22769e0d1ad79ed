package services

import (
	"errors"

	"gorm.io/gorm"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/models"
)

// settingsService handles per-user preferences.
type settingsService struct {
	db *gorm.DB
}

// NewSettingsService creates a new SettingsServicer.
func NewSettingsService(db *gorm.DB) SettingsServicer {
	return &settingsService{db: db}
}

// GetSettings returns the user's settings row.
func (s *settingsService) GetSettings(userID string) (*models.Settings, error) {
	var settings models.Settings
	if err := s.db.Where("user_id = ?", userID).First(&settings).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrSettingsNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &settings, nil
}

// UpdateSettings changes the display currency.
func (s *settingsService) UpdateSettings(userID string, currency models.Currency) (*models.Settings, error) {
	if !currency.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported currency")
	}

	settings, err := s.GetSettings(userID)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(settings).Update("currency", currency).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return settings, nil
}
