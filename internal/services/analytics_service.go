package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/weddingrsvp/internal/models"
)

// MealCount is one bar of the meal histogram.
type MealCount struct {
	Meal  string `json:"meal"`
	Count int    `json:"count"`
}

// TimelinePoint counts responses received on one UTC day.
type TimelinePoint struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// AnalyticsSummary is the derived view over a wedding's guests and responses.
// Anomaly is set when there are more responses than guests; Pending and
// ResponseRate are then clamped to 0 and 100.
type AnalyticsSummary struct {
	TotalGuests   int             `json:"total_guests"`
	TotalRSVPs    int             `json:"total_rsvps"`
	Attending     int             `json:"attending"`
	NotAttending  int             `json:"not_attending"`
	Pending       int             `json:"pending"`
	Anomaly       bool            `json:"anomaly"`
	ResponseRate  int             `json:"response_rate"`
	AttendingRate int             `json:"attending_rate"`
	DecliningRate int             `json:"declining_rate"`
	Meals         []MealCount     `json:"meals"`
	Timeline      []TimelinePoint `json:"timeline"`
}

// Percent returns round(part/whole*100), or 0 when whole is not positive.
func Percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// Summarize derives the analytics view from the guest count and the responses.
func Summarize(totalGuests int, rsvps []models.RSVP) AnalyticsSummary {
	summary := AnalyticsSummary{
		TotalGuests: totalGuests,
		TotalRSVPs:  len(rsvps),
		Meals:       []MealCount{},
		Timeline:    []TimelinePoint{},
	}

	meals := make(map[string]int)
	days := make(map[string]int)
	for _, rsvp := range rsvps {
		if rsvp.Attending != nil {
			if *rsvp.Attending {
				summary.Attending++
			} else {
				summary.NotAttending++
			}
		}
		if meal := mealName(rsvp.MealChoice); meal != "" {
			meals[meal]++
		}
		if meal := mealName(rsvp.PlusOneMealChoice); meal != "" {
			meals[meal]++
		}
		days[rsvp.CreatedAt.UTC().Format(dateLayout)]++
	}

	summary.Pending = totalGuests - summary.TotalRSVPs
	if summary.Pending < 0 {
		summary.Pending = 0
		summary.Anomaly = true
	}

	summary.ResponseRate = Percent(summary.TotalRSVPs, totalGuests)
	if summary.ResponseRate > 100 {
		summary.ResponseRate = 100
	}
	summary.AttendingRate = Percent(summary.Attending, summary.TotalRSVPs)
	summary.DecliningRate = Percent(summary.NotAttending, summary.TotalRSVPs)

	for meal, count := range meals {
		summary.Meals = append(summary.Meals, MealCount{Meal: meal, Count: count})
	}
	sort.Slice(summary.Meals, func(i, j int) bool {
		if summary.Meals[i].Count != summary.Meals[j].Count {
			return summary.Meals[i].Count > summary.Meals[j].Count
		}
		return summary.Meals[i].Meal < summary.Meals[j].Meal
	})

	for day, count := range days {
		summary.Timeline = append(summary.Timeline, TimelinePoint{Date: day, Count: count})
	}
	sort.Slice(summary.Timeline, func(i, j int) bool {
		return summary.Timeline[i].Date < summary.Timeline[j].Date
	})

	return summary
}

// mealName is the display form of a stored meal choice: first letter upper-cased.
func mealName(choice *string) string {
	value := strings.TrimSpace(stringValue(choice))
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + value[1:]
}

// AnalyticsService aggregates responses for the caller's wedding.
type AnalyticsService struct {
	db *gorm.DB
}

// NewAnalyticsService constructs an analytics service.
func NewAnalyticsService(db *gorm.DB) (*AnalyticsService, error) {
	if db == nil {
		return nil, errors.New("analytics service: db is required")
	}
	return &AnalyticsService{db: db}, nil
}

// Overview summarises the caller's wedding. Responses are read with a single
// query joined through guests and scoped to the wedding.
func (s *AnalyticsService) Overview(ctx context.Context, userID string) (AnalyticsSummary, error) {
	ctx = ensuredContext(ctx)

	wedding, err := weddingForUser(ctx, s.db, userID)
	if err != nil {
		return AnalyticsSummary{}, err
	}

	var totalGuests int64
	if err := s.db.WithContext(ctx).Model(&models.Guest{}).Where("wedding_id = ?", wedding.ID).Count(&totalGuests).Error; err != nil {
		return AnalyticsSummary{}, fmt.Errorf("analytics service: count guests: %w", err)
	}

	var rsvps []models.RSVP
	err = s.db.WithContext(ctx).
		Model(&models.RSVP{}).
		Select("rsvps.*").
		Joins("JOIN guests ON guests.id = rsvps.guest_id").
		Where("guests.wedding_id = ?", wedding.ID).
		Order("rsvps.created_at ASC").
		Find(&rsvps).Error
	if err != nil {
		return AnalyticsSummary{}, fmt.Errorf("analytics service: load rsvps: %w", err)
	}

	return Summarize(int(totalGuests), rsvps), nil
}
