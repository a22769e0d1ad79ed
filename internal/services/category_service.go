package services

import (
	"strings"

	"gorm.io/gorm"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// SeedDefaultCategories creates one category per default tag for a new user.
// It runs on tx so registration stays atomic.
func (s *categoryService) SeedDefaultCategories(tx *gorm.DB, userID string) error {
	categories := make([]models.Category, 0, len(models.DefaultCategories))
	for _, tag := range models.DefaultCategories {
		tag := tag
		categories = append(categories, models.Category{
			UserID:          userID,
			Name:            tag.DisplayName(),
			IsDefault:       true,
			DefaultCategory: &tag,
		})
	}
	if err := tx.Create(&categories).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// nameTaken reports whether the user already has a category called name.
// Soft-deleted categories still hold their name.
func (s *categoryService) nameTaken(userID, name, exceptID string) (bool, error) {
	q := s.db.Unscoped().Model(&models.Category{}).Where("user_id = ? AND name = ?", userID, name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

// CreateCategory creates a new category
func (s *categoryService) CreateCategory(userID, name string, description *string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	taken, err := s.nameTaken(userID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateCategory
	}

	category := &models.Category{
		UserID:      userID,
		Name:        name,
		Description: description,
	}
	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return category, nil
}

// GetUserCategories lists the user's categories, defaults first, then by name.
func (s *categoryService) GetUserCategories(userID string) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).
		Order("is_default desc").Order("name asc").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID retrieves a category by ID for a specific user
func (s *categoryService) GetCategoryByID(userID, categoryID string) (*models.Category, error) {
	return findOwnedCategory(s.db, userID, categoryID)
}

// UpdateCategory renames or re-describes a category. Default categories keep their name.
func (s *categoryService) UpdateCategory(userID, categoryID string, name, description *string) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != nil {
		newName := strings.TrimSpace(*name)
		if newName == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
		}
		if newName != category.Name {
			if category.IsDefault {
				return nil, apperrors.ErrDefaultCategoryImmutable
			}
			taken, err := s.nameTaken(userID, newName, category.ID)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, apperrors.ErrDuplicateCategory
			}
			updates["name"] = newName
		}
	}
	if description != nil {
		updates["description"] = *description
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return category, nil
}

// DeleteCategory soft-deletes a user category. Default categories cannot be deleted.
func (s *categoryService) DeleteCategory(userID, categoryID string) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}
	if category.IsDefault {
		return apperrors.ErrDefaultCategoryImmutable
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
