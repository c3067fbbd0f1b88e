package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/weddingrsvp/internal/models"
)

func TestDashboardService_WithoutWedding(t *testing.T) {
	db := openServiceDB(t)
	user := createUser(t, db, "solo@example.com")

	svc, err := NewDashboardService(db)
	require.NoError(t, err)

	overview, err := svc.Overview(context.Background(), user.ID, "")
	require.NoError(t, err)
	require.True(t, overview.WeddingRequired)
	require.Nil(t, overview.Wedding)
}

func TestDashboardService_Overview(t *testing.T) {
	db := openServiceDB(t)
	user, wedding := createCouple(t, db, "couple@example.com")

	for _, name := range []string{"A", "B", "C"} {
		addGuest(t, db, user.ID, GuestForm{Name: name})
	}

	now := time.Date(2027, 6, 1, 12, 0, 0, 0, time.UTC)
	svc, err := NewDashboardService(db, WithDashboardClock(func() time.Time { return now }))
	require.NoError(t, err)
	ctx := context.Background()

	overview, err := svc.Overview(ctx, user.ID, "https://rsvp.example.com")
	require.NoError(t, err)
	require.False(t, overview.WeddingRequired)
	require.Equal(t, wedding.ID, overview.Wedding.ID)
	require.Equal(t, 3, overview.TotalGuests)
	require.Zero(t, overview.Confirmed)
	require.Equal(t, 3, overview.Pending)
	require.Equal(t, 11, overview.DaysUntil)
	require.Empty(t, overview.ShareURL)

	saveInvitation(t, db, user.ID, "alex-and-sam")
	var guest models.Guest
	require.NoError(t, db.Where("name = ?", "A").Take(&guest).Error)
	require.NoError(t, db.Create(&models.RSVP{GuestID: guest.ID, Attending: boolPtr(true)}).Error)

	overview, err = svc.Overview(ctx, user.ID, "https://rsvp.example.com")
	require.NoError(t, err)
	require.Equal(t, 1, overview.Confirmed)
	require.Equal(t, 2, overview.Pending)
	require.Equal(t, "https://rsvp.example.com/invitation/alex-and-sam", overview.ShareURL)
}

func TestDaysUntil(t *testing.T) {
	wedding := time.Date(2027, 6, 12, 0, 0, 0, 0, time.UTC)
	require.Equal(t, 1, DaysUntil(wedding, wedding.Add(-time.Hour)))
	require.Equal(t, 0, DaysUntil(wedding, wedding))
	require.Equal(t, -1, DaysUntil(wedding, wedding.Add(36*time.Hour)))
}
