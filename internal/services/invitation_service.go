package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/gosimple/slug"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/charlesng35/weddingrsvp/internal/database"
	"github.com/charlesng35/weddingrsvp/internal/models"
	"github.com/charlesng35/weddingrsvp/pkg/crypto"
)

const (
	slugAlphabet      = "abcdefghijklmnopqrstuvwxyz0123456789"
	generatedSlugSize = 8
	minSlugLength     = 3
	maxSlugLength     = 64

	defaultQRCodeSize = 256
)

// InvitationDesign is the state of the invitation editor: the template catalog
// and either the saved invitation or an unsaved draft.
type InvitationDesign struct {
	Templates   []models.InvitationTemplate `json:"templates"`
	Invitation  models.Invitation           `json:"invitation"`
	Saved       bool                        `json:"saved"`
	PreviewPath string                      `json:"preview_path"`
	ShareURL    string                      `json:"share_url"`
}

// SlugPreview describes a freshly generated, unsaved slug.
type SlugPreview struct {
	Slug        string `json:"slug"`
	PreviewPath string `json:"preview_path"`
	ShareURL    string `json:"share_url"`
}

// InvitationService manages the invitation design of the caller's wedding.
type InvitationService struct {
	db *gorm.DB
}

// NewInvitationService constructs an invitation service.
func NewInvitationService(db *gorm.DB) (*InvitationService, error) {
	if db == nil {
		return nil, errors.New("invitation service: db is required")
	}
	return &InvitationService{db: db}, nil
}

// Templates lists the template catalog, free designs first.
func (s *InvitationService) Templates(ctx context.Context) ([]models.InvitationTemplate, error) {
	ctx = ensuredContext(ctx)

	var templates []models.InvitationTemplate
	if err := s.db.WithContext(ctx).Order("is_premium ASC").Order("name ASC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("invitation service: list templates: %w", err)
	}
	return templates, nil
}

// Design returns the editor state. Without a saved invitation a draft with the
// default styling, the first template and a random slug is returned.
func (s *InvitationService) Design(ctx context.Context, userID, origin string) (*InvitationDesign, error) {
	ctx = ensuredContext(ctx)

	wedding, err := weddingForUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	templates, err := s.Templates(ctx)
	if err != nil {
		return nil, err
	}

	design := &InvitationDesign{Templates: templates}

	invitation, err := s.findByWedding(ctx, wedding.ID)
	switch {
	case err == nil:
		design.Invitation = *invitation
		design.Saved = true
	case errors.Is(err, ErrInvitationNotFound):
		generated, genErr := GenerateSlug()
		if genErr != nil {
			return nil, genErr
		}
		design.Invitation = models.Invitation{
			WeddingID:   wedding.ID,
			AccentColor: models.DefaultAccentColor,
			FontChoice:  models.DefaultFontChoice,
			Slug:        generated,
		}
		if len(templates) > 0 {
			design.Invitation.TemplateID = templates[0].ID
		}
	default:
		return nil, err
	}

	design.PreviewPath = InvitationPath(design.Invitation.Slug)
	design.ShareURL = absoluteURL(origin, design.PreviewPath)
	return design, nil
}

// RegenerateSlug draws a new random slug. Nothing is persisted until Save.
func (s *InvitationService) RegenerateSlug(origin string) (SlugPreview, error) {
	generated, err := GenerateSlug()
	if err != nil {
		return SlugPreview{}, err
	}
	path := InvitationPath(generated)
	return SlugPreview{
		Slug:        generated,
		PreviewPath: path,
		ShareURL:    absoluteURL(origin, path),
	}, nil
}

// Save creates the wedding's invitation or updates it in place. Changing the
// slug invalidates previously shared links.
func (s *InvitationService) Save(ctx context.Context, userID string, form InvitationForm) (*models.Invitation, error) {
	ctx = ensuredContext(ctx)
	form.Normalize()

	normalised, err := NormalizeSlug(form.Slug)
	if err != nil {
		return nil, err
	}

	wedding, err := weddingForUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	var template models.InvitationTemplate
	if err := s.db.WithContext(ctx).Take(&template, "id = ?", form.TemplateID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, fmt.Errorf("invitation service: load template: %w", err)
	}

	invitation, err := s.findByWedding(ctx, wedding.ID)
	switch {
	case errors.Is(err, ErrInvitationNotFound):
		invitation = &models.Invitation{WeddingID: wedding.ID}
	case err != nil:
		return nil, err
	}

	invitation.TemplateID = template.ID
	invitation.Template = nil
	invitation.CustomMessage = optionalString(form.CustomMessage)
	invitation.AccentColor = form.AccentColor
	invitation.FontChoice = form.FontChoice
	invitation.Slug = normalised

	if invitation.ID == "" {
		err = s.db.WithContext(ctx).Create(invitation).Error
	} else {
		err = s.db.WithContext(ctx).Save(invitation).Error
	}
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("invitation service: save invitation: %w", err)
	}

	invitation.Template = &template
	return invitation, nil
}

// QRCode renders the share link of the saved invitation as a PNG image.
func (s *InvitationService) QRCode(ctx context.Context, userID, origin string, size int) ([]byte, error) {
	ctx = ensuredContext(ctx)
	if size <= 0 {
		size = defaultQRCodeSize
	}

	wedding, err := weddingForUser(ctx, s.db, userID)
	if err != nil {
		return nil, err
	}

	invitation, err := s.findByWedding(ctx, wedding.ID)
	if err != nil {
		return nil, err
	}

	png, err := qrcode.Encode(absoluteURL(origin, InvitationPath(invitation.Slug)), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("invitation service: encode qr code: %w", err)
	}
	return png, nil
}

func (s *InvitationService) findByWedding(ctx context.Context, weddingID string) (*models.Invitation, error) {
	var invitation models.Invitation
	err := s.db.WithContext(ctx).
		Preload("Template").
		Where("wedding_id = ?", weddingID).
		Take(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvitationNotFound
		}
		return nil, fmt.Errorf("invitation service: load invitation: %w", err)
	}
	return &invitation, nil
}

// GenerateSlug returns an 8 character lowercase alphanumeric slug.
func GenerateSlug() (string, error) {
	value, err := crypto.RandomString(generatedSlugSize, slugAlphabet)
	if err != nil {
		return "", fmt.Errorf("generate slug: %w", err)
	}
	return value, nil
}

// NormalizeSlug turns a hand-edited slug into its URL form and rejects values
// that are empty or out of bounds after normalisation.
func NormalizeSlug(value string) (string, error) {
	normalised := slug.Make(value)
	if len(normalised) < minSlugLength || len(normalised) > maxSlugLength || !slug.IsSlug(normalised) {
		return "", ErrInvalidSlug
	}
	return normalised, nil
}

// InvitationPath is the public path of an invitation.
func InvitationPath(value string) string {
	return "/invitation/" + url.PathEscape(value)
}
