package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gorm.io/gorm"

	"github.com/charlesng35/weddingrsvp/internal/models"
)

// DashboardOverview is the landing view of the workspace. When the caller has
// no wedding yet only WeddingRequired is set.
type DashboardOverview struct {
	Wedding         *models.Wedding `json:"wedding,omitempty"`
	WeddingRequired bool            `json:"wedding_required"`
	ShareURL        string          `json:"share_url,omitempty"`
	TotalGuests     int             `json:"total_guests"`
	Confirmed       int             `json:"confirmed"`
	Declined        int             `json:"declined"`
	Pending         int             `json:"pending"`
	DaysUntil       int             `json:"days_until"`
}

// DashboardOption customises DashboardService.
type DashboardOption func(*DashboardService)

// WithDashboardClock injects a custom clock primarily for testing.
func WithDashboardClock(clock func() time.Time) DashboardOption {
	return func(s *DashboardService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// DashboardService composes the workspace overview.
type DashboardService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDashboardService constructs a dashboard service.
func NewDashboardService(db *gorm.DB, opts ...DashboardOption) (*DashboardService, error) {
	if db == nil {
		return nil, errors.New("dashboard service: db is required")
	}
	svc := &DashboardService{db: db, now: time.Now}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// Overview returns the dashboard for userID.
func (s *DashboardService) Overview(ctx context.Context, userID, origin string) (*DashboardOverview, error) {
	ctx = ensuredContext(ctx)

	wedding, err := weddingForUser(ctx, s.db, userID)
	if errors.Is(err, ErrWeddingRequired) {
		return &DashboardOverview{WeddingRequired: true}, nil
	}
	if err != nil {
		return nil, err
	}

	stats, err := guestStats(ctx, s.db, wedding.ID)
	if err != nil {
		return nil, err
	}

	overview := &DashboardOverview{
		Wedding:     wedding,
		TotalGuests: stats.Total,
		Confirmed:   stats.Attending,
		Declined:    stats.Declined,
		Pending:     stats.Pending,
		DaysUntil:   DaysUntil(time.Time(wedding.Date), s.now()),
	}

	var invitations []models.Invitation
	if err := s.db.WithContext(ctx).Select("slug").Where("wedding_id = ?", wedding.ID).Limit(1).Find(&invitations).Error; err != nil {
		return nil, fmt.Errorf("dashboard service: load invitation: %w", err)
	}
	if len(invitations) > 0 {
		overview.ShareURL = absoluteURL(origin, InvitationPath(invitations[0].Slug))
	}

	return overview, nil
}

// DaysUntil counts whole days from now to date, rounding up. It turns negative
// once the date has passed.
func DaysUntil(date, now time.Time) int {
	return int(math.Ceil(date.Sub(now).Hours() / 24))
}
