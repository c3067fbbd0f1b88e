package services

import (
	"bytes"
	"context"
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/weddingrsvp/internal/database"
	"github.com/charlesng35/weddingrsvp/internal/models"
)

var generatedSlugPattern = regexp.MustCompile(`^[a-z0-9]{8}$`)

func TestInvitationService_DesignDraftDefaults(t *testing.T) {
	db := openServiceDB(t)
	user, wedding := createCouple(t, db, "couple@example.com")

	svc, err := NewInvitationService(db)
	require.NoError(t, err)

	design, err := svc.Design(context.Background(), user.ID, "https://rsvp.example.com")
	require.NoError(t, err)
	require.False(t, design.Saved)
	require.Len(t, design.Templates, len(database.DefaultTemplates()))
	require.False(t, design.Templates[0].IsPremium)
	require.Equal(t, wedding.ID, design.Invitation.WeddingID)
	require.Equal(t, models.DefaultAccentColor, design.Invitation.AccentColor)
	require.Equal(t, models.DefaultFontChoice, design.Invitation.FontChoice)
	require.Regexp(t, generatedSlugPattern, design.Invitation.Slug)
	require.Equal(t, "/invitation/"+design.Invitation.Slug, design.PreviewPath)
	require.Equal(t, "https://rsvp.example.com/invitation/"+design.Invitation.Slug, design.ShareURL)

	var count int64
	require.NoError(t, db.Model(&models.Invitation{}).Count(&count).Error)
	require.Zero(t, count, "a draft is never persisted")
}

func TestInvitationService_SaveCreatesThenUpdates(t *testing.T) {
	db := openServiceDB(t)
	user, _ := createCouple(t, db, "couple@example.com")

	svc, err := NewInvitationService(db)
	require.NoError(t, err)
	ctx := context.Background()

	created, err := svc.Save(ctx, user.ID, InvitationForm{
		TemplateID:    database.TemplateModernID,
		CustomMessage: "Join us!",
		AccentColor:   "#112233",
		FontChoice:    "Great Vibes",
		Slug:          "  Alex & Sam 2027 ",
	})
	require.NoError(t, err)
	require.Equal(t, "alex-and-sam-2027", created.Slug)
	require.NotNil(t, created.Template)
	require.Equal(t, "Modern Minimal", created.Template.Name)

	updated, err := svc.Save(ctx, user.ID, InvitationForm{
		TemplateID: database.TemplateBotanicalID,
		Slug:       "alex-sam",
	})
	require.NoError(t, err)
	require.Equal(t, created.ID, updated.ID)
	require.Equal(t, models.DefaultAccentColor, updated.AccentColor)
	require.Equal(t, models.DefaultFontChoice, updated.FontChoice)
	require.Nil(t, updated.CustomMessage)

	design, err := svc.Design(ctx, user.ID, "")
	require.NoError(t, err)
	require.True(t, design.Saved)
	require.Equal(t, "alex-sam", design.Invitation.Slug)
	require.Equal(t, "/invitation/alex-sam", design.ShareURL)
}

func TestInvitationService_SaveRejectsTakenSlug(t *testing.T) {
	db := openServiceDB(t)
	owner, _ := createCouple(t, db, "owner@example.com")
	other, _ := createCouple(t, db, "other@example.com")

	saveInvitation(t, db, owner.ID, "our-day")

	svc, err := NewInvitationService(db)
	require.NoError(t, err)

	_, err = svc.Save(context.Background(), other.ID, InvitationForm{
		TemplateID: database.TemplateClassicID,
		Slug:       "Our Day",
	})
	require.ErrorIs(t, err, ErrSlugTaken)
}

func TestInvitationService_SaveValidatesTemplateAndSlug(t *testing.T) {
	db := openServiceDB(t)
	user, _ := createCouple(t, db, "couple@example.com")

	svc, err := NewInvitationService(db)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.Save(ctx, user.ID, InvitationForm{TemplateID: "missing", Slug: "valid-slug"})
	require.ErrorIs(t, err, ErrTemplateNotFound)

	_, err = svc.Save(ctx, user.ID, InvitationForm{TemplateID: database.TemplateClassicID, Slug: "!!"})
	require.ErrorIs(t, err, ErrInvalidSlug)
}

func TestInvitationService_RegenerateSlugDoesNotPersist(t *testing.T) {
	db := openServiceDB(t)
	user, _ := createCouple(t, db, "couple@example.com")
	saved := saveInvitation(t, db, user.ID, "first-slug")

	svc, err := NewInvitationService(db)
	require.NoError(t, err)

	preview, err := svc.RegenerateSlug("https://rsvp.example.com")
	require.NoError(t, err)
	require.Regexp(t, generatedSlugPattern, preview.Slug)
	require.NotEqual(t, "/invitation/first-slug", preview.PreviewPath)
	require.Equal(t, "/invitation/"+preview.Slug, preview.PreviewPath)
	require.Equal(t, "https://rsvp.example.com"+preview.PreviewPath, preview.ShareURL)

	var stored models.Invitation
	require.NoError(t, db.Take(&stored, "id = ?", saved.ID).Error)
	require.Equal(t, "first-slug", stored.Slug)
}

func TestInvitationService_QRCode(t *testing.T) {
	db := openServiceDB(t)
	user, _ := createCouple(t, db, "couple@example.com")

	svc, err := NewInvitationService(db)
	require.NoError(t, err)
	ctx := context.Background()

	_, err = svc.QRCode(ctx, user.ID, "https://rsvp.example.com", 0)
	require.ErrorIs(t, err, ErrInvitationNotFound)

	saveInvitation(t, db, user.ID, "our-day")
	png, err := svc.QRCode(ctx, user.ID, "https://rsvp.example.com", 128)
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))
}

func TestNormalizeSlug(t *testing.T) {
	value, err := NormalizeSlug("Hello World")
	require.NoError(t, err)
	require.Equal(t, "hello-world", value)

	_, err = NormalizeSlug("ab")
	require.ErrorIs(t, err, ErrInvalidSlug)
}
