package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/charlesng35/weddingrsvp/internal/models"
	"github.com/charlesng35/weddingrsvp/pkg/logger"
	"github.com/charlesng35/weddingrsvp/pkg/metrics"
)

// PublicInvitation is everything the public invitation page renders.
// Guest is nil when the link carries no token or an unknown one.
type PublicInvitation struct {
	Invitation  models.Invitation `json:"invitation"`
	Wedding     PublicWedding     `json:"wedding"`
	Events      []models.Event    `json:"events"`
	Guest       *PublicGuest      `json:"guest,omitempty"`
	MealChoices []string          `json:"meal_choices"`
}

// PublicWedding is the wedding as shown to guests. The owning account is not exposed.
type PublicWedding struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Date        datatypes.Date `json:"date"`
	Location    string         `json:"location"`
	Description *string        `json:"description"`
}

func newPublicWedding(w models.Wedding) PublicWedding {
	return PublicWedding{
		ID:          w.ID,
		Title:       w.Title,
		Date:        w.Date,
		Location:    w.Location,
		Description: w.Description,
	}
}

// PublicGuest is the subset of a guest exposed to the invitation page.
type PublicGuest struct {
	Name           string       `json:"name"`
	PlusOneAllowed bool         `json:"plus_one_allowed"`
	RSVP           *models.RSVP `json:"rsvp,omitempty"`
}

// RSVPService resolves public invitations and records guest responses.
type RSVPService struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewRSVPService constructs an RSVP service.
func NewRSVPService(db *gorm.DB) (*RSVPService, error) {
	if db == nil {
		return nil, errors.New("rsvp service: db is required")
	}
	return &RSVPService{db: db, log: logger.WithModule("rsvp")}, nil
}

// Resolve composes the invitation page for slug. The guest is looked up by
// token within the invitation's wedding only.
func (s *RSVPService) Resolve(ctx context.Context, slug, guestToken string) (*PublicInvitation, error) {
	ctx = ensuredContext(ctx)

	page, err := s.resolve(ctx, slug, guestToken)
	if err != nil {
		if errors.Is(err, ErrInvitationNotFound) {
			metrics.InvitationViews.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}
	metrics.InvitationViews.WithLabelValues("found").Inc()
	return page, nil
}

func (s *RSVPService) resolve(ctx context.Context, slug, guestToken string) (*PublicInvitation, error) {
	invitation, err := s.invitationBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	var wedding models.Wedding
	if err := s.db.WithContext(ctx).Take(&wedding, "id = ?", invitation.WeddingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("rsvp service: load wedding: %w", err)
	}

	events, err := listEvents(ctx, s.db, wedding.ID)
	if err != nil {
		return nil, err
	}

	page := &PublicInvitation{
		Invitation:  *invitation,
		Wedding:     newPublicWedding(wedding),
		Events:      events,
		MealChoices: models.MealChoices,
	}

	guest, err := s.guestByToken(ctx, wedding.ID, guestToken, true)
	switch {
	case err == nil:
		page.Guest = &PublicGuest{
			Name:           guest.Name,
			PlusOneAllowed: guest.PlusOneAllowed,
			RSVP:           guest.RSVP,
		}
	case errors.Is(err, ErrGuestNotFound):
	default:
		return nil, err
	}
	return page, nil
}

// Submit records the guest's answer, replacing any earlier one.
func (s *RSVPService) Submit(ctx context.Context, slug string, form RSVPForm) (*models.RSVP, error) {
	ctx = ensuredContext(ctx)
	form.Normalize()

	if form.Attending == nil {
		return nil, ErrAttendanceRequired
	}

	invitation, err := s.invitationBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	guest, err := s.guestByToken(ctx, invitation.WeddingID, form.Guest, false)
	if err != nil {
		return nil, err
	}
	if !guest.PlusOneAllowed && form.hasPlusOne() {
		return nil, ErrPlusOneNotAllowed
	}

	rsvp := &models.RSVP{
		GuestID:           guest.ID,
		Attending:         form.Attending,
		MealChoice:        optionalString(form.MealChoice),
		PlusOneName:       optionalString(form.PlusOneName),
		PlusOneMealChoice: optionalString(form.PlusOneMealChoice),
		Notes:             optionalString(form.Notes),
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "guest_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"attending",
			"meal_choice",
			"plus_one_name",
			"plus_one_meal_choice",
			"notes",
			"updated_at",
		}),
	}).Create(rsvp).Error
	if err != nil {
		return nil, fmt.Errorf("rsvp service: upsert rsvp: %w", err)
	}

	var stored models.RSVP
	if err := s.db.WithContext(ctx).Where("guest_id = ?", guest.ID).Take(&stored).Error; err != nil {
		return nil, fmt.Errorf("rsvp service: reload rsvp: %w", err)
	}

	label := "no"
	if *form.Attending {
		label = "yes"
	}
	metrics.RSVPSubmissions.WithLabelValues(label).Inc()
	s.log.Info("rsvp recorded",
		zap.String("invitation_id", invitation.ID),
		zap.String("guest_id", guest.ID),
		zap.Bool("attending", *form.Attending),
	)

	return &stored, nil
}

func (s *RSVPService) invitationBySlug(ctx context.Context, slug string) (*models.Invitation, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrInvitationNotFound
	}

	var invitation models.Invitation
	err := s.db.WithContext(ctx).
		Preload("Template").
		Where("slug = ?", strings.ToLower(slug)).
		Take(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("rsvp service: load invitation: %w", err)
	}
	return &invitation, nil
}

func (s *RSVPService) guestByToken(ctx context.Context, weddingID, token string, withRSVP bool) (*models.Guest, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrGuestNotFound
	}

	q := s.db.WithContext(ctx).Where("wedding_id = ? AND rsvp_token = ?", weddingID, token)
	if withRSVP {
		q = q.Preload("RSVP")
	}

	var guest models.Guest
	if err := q.Take(&guest).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGuestNotFound
		}
		return nil, fmt.Errorf("rsvp service: load guest: %w", err)
	}
	return &guest, nil
}
