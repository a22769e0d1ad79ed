package services

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	apperrors "budgeteer/internal/errors"
	"budgeteer/internal/models"
)

// userService handles user-related business logic.
type userService struct {
	db         *gorm.DB
	categories CategoryServicer
	bcryptCost int
}

// NewUserService creates a new UserServicer. A bcryptCost outside bcrypt's
// accepted range falls back to bcrypt.DefaultCost.
func NewUserService(db *gorm.DB, categories CategoryServicer, bcryptCost int) UserServicer {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &userService{db: db, categories: categories, bcryptCost: bcryptCost}
}

// Register creates the user, their settings row and the default categories atomically.
func (s *userService) Register(input RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	username := strings.TrimSpace(input.Username)
	if email == "" || username == "" || input.Password == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "email, username and password are required")
	}

	currency := input.Currency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	if !currency.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported currency")
	}

	if err := s.ensureUnique(email, username, ""); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	user := &models.User{
		Email:    email,
		Username: username,
		Name:     strings.TrimSpace(input.Name),
		Password: string(hashedPassword),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		settings := &models.Settings{UserID: user.ID, Currency: currency}
		if err := tx.Create(settings).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		user.Settings = settings

		return s.categories.SeedDefaultCategories(tx, user.ID)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// ensureUnique rejects an email or username already held by another account,
// soft-deleted accounts included.
func (s *userService) ensureUnique(email, username, exceptID string) error {
	check := func(column, value string, conflict *apperrors.AppError) error {
		if value == "" {
			return nil
		}
		q := s.db.Unscoped().Model(&models.User{}).Where(column+" = ?", value)
		if exceptID != "" {
			q = q.Where("id <> ?", exceptID)
		}
		var count int64
		if err := q.Count(&count).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return conflict
		}
		return nil
	}

	if err := check("email", email, apperrors.ErrDuplicateEmail); err != nil {
		return err
	}
	return check("username", username, apperrors.ErrDuplicateUsername)
}

// Login authenticates by email (when identifier contains "@") or username.
func (s *userService) Login(identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, apperrors.ErrInvalidCredentials
	}

	q := s.db.Preload("Settings")
	if strings.Contains(identifier, "@") {
		q = q.Where("email = ?", strings.ToLower(identifier))
	} else {
		q = q.Where("username = ?", identifier)
	}

	var user models.User
	if err := q.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &user, nil
}

// GetUserByID retrieves a user by ID with their settings.
func (s *userService) GetUserByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.Preload("Settings").Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &user, nil
}

// UpdateProfile changes the display name and/or username.
func (s *userService) UpdateProfile(userID string, name, username *string) (*models.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != nil {
		updates["name"] = strings.TrimSpace(*name)
	}
	if username != nil && strings.TrimSpace(*username) != user.Username {
		newUsername := strings.TrimSpace(*username)
		if err := s.ensureUnique("", newUsername, user.ID); err != nil {
			return nil, err
		}
		updates["username"] = newUsername
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return user, nil
}

// ChangePassword replaces the password after verifying the current one.
func (s *userService) ChangePassword(userID, currentPassword, newPassword string) error {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(currentPassword)); err != nil {
		return apperrors.ErrIncorrectPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if err := s.db.Model(user).Update("password", string(hashed)).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
