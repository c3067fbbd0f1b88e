package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/weddingrsvp/internal/database"
	"github.com/charlesng35/weddingrsvp/internal/database/testutil"
	"github.com/charlesng35/weddingrsvp/internal/models"
)

func boolPtr(v bool) *bool { return &v }

func openServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	return testutil.MustOpenTestDB(t, testutil.WithAutoMigrate(), testutil.WithSeedData())
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	user := &models.User{Email: email, Password: "hash", FullName: "Test Couple"}
	require.NoError(t, db.Create(user).Error)
	return user
}

// createCouple creates a user that owns a wedding.
func createCouple(t *testing.T, db *gorm.DB, email string) (*models.User, *models.Wedding) {
	t.Helper()
	user := createUser(t, db, email)

	svc, err := NewWeddingService(db)
	require.NoError(t, err)
	wedding, err := svc.Save(context.Background(), user.ID, WeddingForm{
		Title:    "Alex & Sam",
		Date:     "2027-06-12",
		Location: "Lakeside Hall",
	})
	require.NoError(t, err)
	return user, wedding
}

func addGuest(t *testing.T, db *gorm.DB, userID string, form GuestForm) *models.Guest {
	t.Helper()
	svc, err := NewGuestService(db)
	require.NoError(t, err)
	guest, err := svc.Create(context.Background(), userID, form)
	require.NoError(t, err)
	return guest
}

func saveInvitation(t *testing.T, db *gorm.DB, userID, slug string) *models.Invitation {
	t.Helper()
	svc, err := NewInvitationService(db)
	require.NoError(t, err)
	invitation, err := svc.Save(context.Background(), userID, InvitationForm{
		TemplateID: database.TemplateClassicID,
		Slug:       slug,
	})
	require.NoError(t, err)
	return invitation
}
