package services

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/charlesng35/weddingrsvp/internal/models"
)

// ProfileService exposes the account details shown on the settings page.
type ProfileService struct {
	db *gorm.DB
}

// NewProfileService constructs a profile service.
func NewProfileService(db *gorm.DB) (*ProfileService, error) {
	if db == nil {
		return nil, errors.New("profile service: db is required")
	}
	return &ProfileService{db: db}, nil
}

// Get loads the user record.
func (s *ProfileService) Get(ctx context.Context, userID string) (*models.User, error) {
	ctx = ensuredContext(ctx)

	var user models.User
	if err := s.db.WithContext(ctx).Take(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("profile service: load user: %w", err)
	}
	return &user, nil
}

// UpdateFullName changes the display name. The email address cannot be changed.
func (s *ProfileService) UpdateFullName(ctx context.Context, userID string, form ProfileForm) (*models.User, error) {
	ctx = ensuredContext(ctx)
	form.Normalize()

	result := s.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("full_name", form.FullName)
	if result.Error != nil {
		return nil, fmt.Errorf("profile service: update full name: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return s.Get(ctx, userID)
}
