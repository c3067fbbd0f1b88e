package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/charlesng35/weddingrsvp/internal/models"
)

// EventService manages the schedule of the caller's wedding.
type EventService struct {
	db *gorm.DB
}

// NewEventService constructs an event service.
func NewEventService(db *gorm.DB) (*EventService, error) {
	if db == nil {
		return nil, errors.New("event service: db is required")
	}
	return &EventService{db: db}, nil
}

// List returns the caller's events in chronological order.
func (s *EventService) List(ctx context.Context, userID string) ([]models.Event, error) {
	ctx = ensuredContext(ctx)

	wedding, err := weddingForUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}
	return listEvents(ctx, s.db, wedding.ID)
}

func listEvents(ctx context.Context, db *gorm.DB, weddingID string) ([]models.Event, error) {
	var events []models.Event
	err := db.WithContext(ctx).
		Where("wedding_id = ?", weddingID).
		Order("date ASC").
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("event service: list events: %w", err)
	}
	return events, nil
}

// Create schedules an event. The start time defaults to midnight, an end time
// without an end date falls on the start date.
func (s *EventService) Create(ctx context.Context, userID string, form EventForm) (*models.Event, error) {
	ctx = ensuredContext(ctx)
	form.Normalize()

	start, err := mergeDateTime(form.Date, form.Time)
	if err != nil {
		return nil, fmt.Errorf("event service: %w", err)
	}

	var end *time.Time
	if form.EndDate != "" || form.EndTime != "" {
		endDate := form.EndDate
		if endDate == "" {
			endDate = form.Date
		}
		value, err := mergeDateTime(endDate, form.EndTime)
		if err != nil {
			return nil, fmt.Errorf("event service: %w", err)
		}
		if value.Before(start) {
			return nil, ErrInvalidEventTime
		}
		end = &value
	}

	wedding, err := weddingForUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		WeddingID:   wedding.ID,
		Name:        form.Name,
		Date:        start,
		EndDate:     end,
		Location:    form.Location,
		Description: optionalString(form.Description),
	}
	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return nil, fmt.Errorf("event service: create event: %w", err)
	}
	return event, nil
}

// Delete removes an event of the caller's wedding.
func (s *EventService) Delete(ctx context.Context, userID, eventID string) error {
	ctx = ensuredContext(ctx)
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return ErrEventNotFound
	}

	wedding, err := weddingForUser(ctx, s.db, userID)
	if err != nil {
		return err
	}

	result := s.db.WithContext(ctx).
		Where("id = ? AND wedding_id = ?", eventID, wedding.ID).
		Delete(&models.Event{})
	if result.Error != nil {
		return fmt.Errorf("event service: delete event: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}
	return nil
}

// mergeDateTime combines a YYYY-MM-DD date and an optional HH:MM time into a
// UTC wall-clock timestamp.
func mergeDateTime(date, clock string) (time.Time, error) {
	if clock == "" {
		clock = "00:00"
	}
	value, err := time.ParseInLocation(dateLayout+" "+timeLayout, date+" "+clock, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date and time: %w", err)
	}
	return value, nil
}
