package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/charlesng35/weddingrsvp/internal/database"
	"github.com/charlesng35/weddingrsvp/internal/models"
)

// WeddingService manages the single wedding a user owns.
type WeddingService struct {
	db *gorm.DB
}

// NewWeddingService constructs a wedding service once a database handle is supplied.
func NewWeddingService(db *gorm.DB) (*WeddingService, error) {
	if db == nil {
		return nil, errors.New("wedding service: db is required")
	}
	return &WeddingService{db: db}, nil
}

// Current returns the caller's wedding or ErrWeddingRequired.
func (s *WeddingService) Current(ctx context.Context, userID string) (*models.Wedding, error) {
	return weddingForUser(ensuredContext(ctx), s.db, userID)
}

// Save creates the caller's wedding on first use and updates it afterwards.
func (s *WeddingService) Save(ctx context.Context, userID string, form WeddingForm) (*models.Wedding, error) {
	ctx = ensuredContext(ctx)
	form.Normalize()

	date, err := time.Parse(dateLayout, form.Date)
	if err != nil {
		return nil, fmt.Errorf("wedding service: parse date: %w", err)
	}

	wedding, err := weddingForUser(ctx, s.db, userID)
	switch {
	case errors.Is(err, ErrWeddingRequired):
		wedding = &models.Wedding{UserID: userID}
	case err != nil:
		return nil, fmt.Errorf("wedding service: %w", err)
	}

	wedding.Title = form.Title
	wedding.Date = datatypes.Date(date)
	wedding.Location = form.Location
	wedding.Description = optionalString(form.Description)

	if wedding.ID == "" {
		if err := s.db.WithContext(ctx).Create(wedding).Error; err != nil {
			if !database.IsUniqueViolation(err) {
				return nil, fmt.Errorf("wedding service: create wedding: %w", err)
			}
			// A concurrent request created it first.
			existing, loadErr := weddingForUser(ctx, s.db, userID)
			if loadErr != nil {
				return nil, fmt.Errorf("wedding service: %w", loadErr)
			}
			wedding.ID = existing.ID
			wedding.CreatedAt = existing.CreatedAt
		} else {
			return wedding, nil
		}
	}

	if err := s.db.WithContext(ctx).Save(wedding).Error; err != nil {
		return nil, fmt.Errorf("wedding service: update wedding: %w", err)
	}
	return wedding, nil
}
