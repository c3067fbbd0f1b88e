package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"github.com/charlesng35/weddingrsvp/internal/models"
	"github.com/charlesng35/weddingrsvp/pkg/crypto"
)

const rsvpTokenBytes = 32

// GuestView is a guest row as displayed in the workspace, with its RSVP and personal link.
type GuestView struct {
	models.Guest
	InvitationLink string `json:"invitation_link,omitempty"`
}

// GuestStats summarises responses across the whole guest list.
type GuestStats struct {
	Total     int `json:"total"`
	Attending int `json:"attending"`
	Declined  int `json:"declined"`
	Pending   int `json:"pending"`
}

// GuestService manages the guest list of the caller's wedding.
type GuestService struct {
	db *gorm.DB
}

// NewGuestService constructs a guest service.
func NewGuestService(db *gorm.DB) (*GuestService, error) {
	if db == nil {
		return nil, errors.New("guest service: db is required")
	}
	return &GuestService{db: db}, nil
}

// List returns the caller's guests ordered by name. A non-empty query keeps
// guests whose name or email contains it, ignoring case.
func (s *GuestService) List(ctx context.Context, userID, query, origin string) ([]GuestView, error) {
	ctx = ensuredContext(ctx)

	wedding, err := weddingForUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).
		Model(&models.Guest{}).
		Preload("RSVP").
		Where("wedding_id = ?", wedding.ID)

	if pattern := likePattern(query); pattern != "" {
		q = q.Where("(LOWER(name) LIKE ? ESCAPE '!' OR LOWER(COALESCE(email, '')) LIKE ? ESCAPE '!')", pattern, pattern)
	}

	var guests []models.Guest
	if err := q.Order("LOWER(name)").Order("created_at").Find(&guests).Error; err != nil {
		return nil, fmt.Errorf("guest service: list guests: %w", err)
	}

	slug, err := s.invitationSlug(ctx, wedding.ID)
	if err != nil {
		return nil, err
	}

	views := make([]GuestView, 0, len(guests))
	for _, guest := range guests {
		view := GuestView{Guest: guest}
		if slug != "" {
			view.InvitationLink = GuestInvitationURL(origin, slug, guest.RSVPToken)
		}
		views = append(views, view)
	}
	return views, nil
}

// Stats counts the caller's guests by response state. Guests without an answer are pending.
func (s *GuestService) Stats(ctx context.Context, userID string) (GuestStats, error) {
	ctx = ensuredContext(ctx)

	wedding, err := weddingForUser(ctx, s.db, userID)
	if err != nil {
		return GuestStats{}, err
	}
	return guestStats(ctx, s.db, wedding.ID)
}

func guestStats(ctx context.Context, db *gorm.DB, weddingID string) (GuestStats, error) {
	var rows []struct {
		Attending *bool
	}
	err := db.WithContext(ctx).
		Table("guests").
		Select("rsvps.attending AS attending").
		Joins("LEFT JOIN rsvps ON rsvps.guest_id = guests.id").
		Where("guests.wedding_id = ?", weddingID).
		Scan(&rows).Error
	if err != nil {
		return GuestStats{}, fmt.Errorf("guest service: count guests: %w", err)
	}

	stats := GuestStats{Total: len(rows)}
	for _, row := range rows {
		switch {
		case row.Attending == nil:
			stats.Pending++
		case *row.Attending:
			stats.Attending++
		default:
			stats.Declined++
		}
	}
	return stats, nil
}

// Create adds a guest and issues its personal RSVP token.
func (s *GuestService) Create(ctx context.Context, userID string, form GuestForm) (*models.Guest, error) {
	ctx = ensuredContext(ctx)
	form.Normalize()
	if form.Name == "" {
		return nil, errors.New("guest service: name is required")
	}

	wedding, err := weddingForUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	token, err := crypto.GenerateToken(rsvpTokenBytes)
	if err != nil {
		return nil, fmt.Errorf("guest service: generate rsvp token: %w", err)
	}

	guest := &models.Guest{
		WeddingID:      wedding.ID,
		Name:           form.Name,
		Email:          optionalString(form.Email),
		Phone:          optionalString(form.Phone),
		PlusOneAllowed: form.PlusOneAllowed,
		GroupID:        optionalString(form.GroupID),
		RSVPToken:      token,
	}
	if err := s.db.WithContext(ctx).Create(guest).Error; err != nil {
		return nil, fmt.Errorf("guest service: create guest: %w", err)
	}
	return guest, nil
}

// Delete removes a guest of the caller's wedding together with its RSVP.
func (s *GuestService) Delete(ctx context.Context, userID, guestID string) error {
	ctx = ensuredContext(ctx)
	guestID = strings.TrimSpace(guestID)
	if guestID == "" {
		return ErrGuestNotFound
	}

	wedding, err := weddingForUser(ctx, s.db, userID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var guest models.Guest
		if err := tx.Where("id = ? AND wedding_id = ?", guestID, wedding.ID).Take(&guest).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrGuestNotFound
			}
			return fmt.Errorf("guest service: load guest: %w", err)
		}

		if err := tx.Where("guest_id = ?", guest.ID).Delete(&models.RSVP{}).Error; err != nil {
			return fmt.Errorf("guest service: delete rsvp: %w", err)
		}
		if err := tx.Delete(&guest).Error; err != nil {
			return fmt.Errorf("guest service: delete guest: %w", err)
		}
		return nil
	})
}

// MarkInvitationsSent flags the given guests of the caller's wedding as invited.
// Ids outside the wedding are ignored. It returns the number of guests updated.
func (s *GuestService) MarkInvitationsSent(ctx context.Context, userID string, guestIDs []string) (int64, error) {
	ctx = ensuredContext(ctx)

	ids := normaliseIDs(guestIDs)
	if len(ids) == 0 {
		return 0, nil
	}

	wedding, err := weddingForUser(ctx, s.db, userID)
	if err != nil {
		return 0, err
	}

	result := s.db.WithContext(ctx).
		Model(&models.Guest{}).
		Where("wedding_id = ? AND id IN ?", wedding.ID, ids).
		Update("invitation_sent", true)
	if result.Error != nil {
		return 0, fmt.Errorf("guest service: mark invitations sent: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *GuestService) invitationSlug(ctx context.Context, weddingID string) (string, error) {
	var invitations []models.Invitation
	err := s.db.WithContext(ctx).
		Select("slug").
		Where("wedding_id = ?", weddingID).
		Limit(1).
		Find(&invitations).Error
	if err != nil {
		return "", fmt.Errorf("guest service: load invitation: %w", err)
	}
	if len(invitations) == 0 {
		return "", nil
	}
	return invitations[0].Slug, nil
}

// GuestInvitationURL is the personal invitation link of a guest.
func GuestInvitationURL(origin, slug, token string) string {
	return absoluteURL(origin, InvitationPath(slug)+"?guest="+url.QueryEscape(token))
}

// likePattern lowercases the search term and escapes LIKE wildcards with '!'.
func likePattern(query string) string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return ""
	}
	replacer := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + replacer.Replace(query) + "%"
}
