package handlers_test

import (
	"bytes"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/charlesng35/weddingrsvp/internal/handlers/testutil"
)

type guestPayload struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	RSVPToken      string `json:"rsvp_token"`
	InvitationSent bool   `json:"invitation_sent"`
	InvitationLink string `json:"invitation_link"`
}

func createGuest(t *testing.T, env *testutil.Env, token string, body map[string]any) guestPayload {
	t.Helper()
	w := env.Request(http.MethodPost, "/api/guests", body, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var guest guestPayload
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &guest)
	require.NotEmpty(t, guest.ID)
	require.NotEmpty(t, guest.RSVPToken)
	return guest
}

func firstTemplateID(t *testing.T, env *testutil.Env, token string) string {
	t.Helper()
	w := env.Request(http.MethodGet, "/api/templates", nil, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var templates []struct {
		ID string `json:"id"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &templates)
	require.NotEmpty(t, templates)
	return templates[0].ID
}

func saveInvitation(t *testing.T, env *testutil.Env, token, slug string) *httptestResult {
	t.Helper()
	w := env.Request(http.MethodPut, "/api/invitation", map[string]string{
		"template_id":    firstTemplateID(t, env, token),
		"custom_message": "Join us by the sea",
		"accent_color":   "#8a5a44",
		"slug":           slug,
	}, token)
	return &httptestResult{Code: w.Code, Body: w.Body.String(), Response: testutil.DecodeResponse(t, w)}
}

type httptestResult struct {
	Code     int
	Body     string
	Response testutil.APIResponse
}

func TestWorkspace_RequiresWedding(t *testing.T) {
	env := testutil.NewEnv(t)
	account := env.Register()

	for _, path := range []string{"/api/guests", "/api/events", "/api/analytics", "/api/invitation"} {
		w := env.Request(http.MethodGet, path, nil, account.AccessToken)
		require.Equal(t, http.StatusNotFound, w.Code, path)
		require.Equal(t, "WEDDING_REQUIRED", testutil.DecodeResponse(t, w).Error.Code, path)
	}

	w := env.Request(http.MethodGet, "/api/dashboard", nil, account.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var overview struct {
		WeddingRequired bool `json:"wedding_required"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &overview)
	require.True(t, overview.WeddingRequired)
}

func TestWorkspace_RequiresAuthentication(t *testing.T) {
	env := testutil.NewEnv(t)

	w := env.Request(http.MethodGet, "/api/guests", nil, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.Request(http.MethodGet, "/api/guests", nil, "not-a-token")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWorkspace_WeddingAndProfileSettings(t *testing.T) {
	env := testutil.NewEnv(t)
	account := env.RegisterWithWedding()

	w := env.Request(http.MethodGet, "/api/wedding", nil, account.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "Lisbon")

	w = env.Request(http.MethodPut, "/api/wedding", map[string]string{
		"title":    "Ana & Ben",
		"date":     "15/06/2030",
		"location": "Lisbon",
	}, account.AccessToken)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Request(http.MethodPatch, "/api/profile", map[string]string{"full_name": "  Ana Silva  "}, account.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), `"full_name":"Ana Silva"`)
}

func TestWorkspace_GuestLifecycle(t *testing.T) {
	env := testutil.NewEnv(t)
	account := env.RegisterWithWedding()

	alice := createGuest(t, env, account.AccessToken, map[string]any{"name": "Alice Smith", "email": "Alice@Example.com", "plus_one_allowed": true})
	createGuest(t, env, account.AccessToken, map[string]any{"name": "Bob Jones"})
	createGuest(t, env, account.AccessToken, map[string]any{"name": "Carla Reyes"})

	w := env.Request(http.MethodPost, "/api/guests", map[string]any{"name": "  "}, account.AccessToken)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Request(http.MethodGet, "/api/guests?q=ALICE", nil, account.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var found []guestPayload
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &found)
	require.Len(t, found, 1)
	require.Equal(t, alice.ID, found[0].ID)
	require.Empty(t, found[0].InvitationLink, "no link before the invitation is saved")

	w = env.Request(http.MethodGet, "/api/guests?q=example.com", nil, account.AccessToken)
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &found)
	require.Len(t, found, 1)

	w = env.Request(http.MethodGet, "/api/guests", nil, account.AccessToken)
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &found)
	require.Len(t, found, 3)
	require.Equal(t, "Alice Smith", found[0].Name)
	require.Equal(t, "Carla Reyes", found[2].Name)

	w = env.Request(http.MethodPost, "/api/guests/mark-sent", map[string]any{"guest_ids": []string{alice.ID, "unknown"}}, account.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var marked struct {
		Updated int `json:"updated"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &marked)
	require.Equal(t, 1, marked.Updated)

	require.Equal(t, http.StatusOK, saveInvitation(t, env, account.AccessToken, "ana-and-ben").Code)

	w = env.Request(http.MethodGet, "/api/guests?q=alice", nil, account.AccessToken)
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &found)
	require.Len(t, found, 1)
	require.True(t, found[0].InvitationSent)
	require.Equal(t, "http://rsvp.test/invitation/ana-and-ben?guest="+alice.RSVPToken, found[0].InvitationLink)

	w = env.Request(http.MethodDelete, "/api/guests/"+alice.ID, nil, account.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.Request(http.MethodDelete, "/api/guests/"+alice.ID, nil, account.AccessToken)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkspace_GuestPageIncludesStats(t *testing.T) {
	env := testutil.NewEnv(t)
	account := env.RegisterWithWedding()
	createGuest(t, env, account.AccessToken, map[string]any{"name": "Alice"})

	req, err := http.NewRequest(http.MethodGet, "/dashboard/guests?q=ali", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+account.AccessToken)

	w := env.Do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var page struct {
		Query  string         `json:"query"`
		Guests []guestPayload `json:"guests"`
		Stats  struct {
			Total   int `json:"total"`
			Pending int `json:"pending"`
		} `json:"stats"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &page)
	require.Equal(t, "ali", page.Query)
	require.Len(t, page.Guests, 1)
	require.Equal(t, 1, page.Stats.Total)
	require.Equal(t, 1, page.Stats.Pending)
}

func TestWorkspace_OwnershipIsEnforced(t *testing.T) {
	env := testutil.NewEnv(t)
	owner := env.RegisterWithWedding()
	intruder := env.RegisterWithWedding()

	guest := createGuest(t, env, owner.AccessToken, map[string]any{"name": "Alice"})

	w := env.Request(http.MethodDelete, "/api/guests/"+guest.ID, nil, intruder.AccessToken)
	require.Equal(t, http.StatusNotFound, w.Code)

	w = env.Request(http.MethodGet, "/api/guests", nil, intruder.AccessToken)
	var guests []guestPayload
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &guests)
	require.Empty(t, guests)

	w = env.Request(http.MethodGet, "/api/guests", nil, owner.AccessToken)
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &guests)
	require.Len(t, guests, 1)
}

func TestWorkspace_Events(t *testing.T) {
	env := testutil.NewEnv(t)
	account := env.RegisterWithWedding()

	w := env.Request(http.MethodPost, "/api/events", map[string]string{
		"name":     "Ceremony",
		"date":     "2030-06-15",
		"time":     "15:00",
		"end_date": "2030-06-15",
		"end_time": "14:00",
		"location": "Chapel",
	}, account.AccessToken)
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	w = env.Request(http.MethodPost, "/api/events", map[string]string{
		"name":     "Ceremony",
		"date":     "2030-06-15",
		"time":     "3pm",
		"location": "Chapel",
	}, account.AccessToken)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = env.Request(http.MethodPost, "/api/events", map[string]string{
		"name":     "Reception",
		"date":     "2030-06-15",
		"time":     "18:00",
		"end_time": "23:30",
		"location": "Garden",
	}, account.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var reception struct {
		ID string `json:"id"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &reception)

	w = env.Request(http.MethodPost, "/api/events", map[string]string{
		"name":     "Ceremony",
		"date":     "2030-06-15",
		"time":     "15:00",
		"location": "Chapel",
	}, account.AccessToken)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = env.Request(http.MethodGet, "/api/events", nil, account.AccessToken)
	var events []struct {
		Name string `json:"name"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &events)
	require.Len(t, events, 2)
	require.Equal(t, "Ceremony", events[0].Name, "events are ordered by start")

	w = env.Request(http.MethodDelete, "/api/events/"+reception.ID, nil, account.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.Request(http.MethodDelete, "/api/events/"+reception.ID, nil, account.AccessToken)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestWorkspace_InvitationDesign(t *testing.T) {
	env := testutil.NewEnv(t)
	first := env.RegisterWithWedding()
	second := env.RegisterWithWedding()

	w := env.Request(http.MethodGet, "/api/invitation", nil, first.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var draft struct {
		Saved      bool `json:"saved"`
		Invitation struct {
			Slug        string `json:"slug"`
			AccentColor string `json:"accent_color"`
		} `json:"invitation"`
		Templates []struct {
			ID string `json:"id"`
		} `json:"templates"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &draft)
	require.False(t, draft.Saved)
	require.Len(t, draft.Invitation.Slug, 8)
	require.NotEmpty(t, draft.Invitation.AccentColor)
	require.NotEmpty(t, draft.Templates)

	w = env.Request(http.MethodGet, "/api/invitation/qr", nil, first.AccessToken)
	require.Equal(t, http.StatusNotFound, w.Code, "qr code needs a saved invitation")

	saved := saveInvitation(t, env, first.AccessToken, "Ana & Ben")
	require.Equal(t, http.StatusOK, saved.Code, saved.Body)
	var result struct {
		Invitation struct {
			Slug string `json:"slug"`
		} `json:"invitation"`
		PreviewPath string `json:"preview_path"`
	}
	testutil.DecodeInto(t, saved.Response.Data, &result)
	require.Equal(t, "ana-and-ben", result.Invitation.Slug)
	require.Equal(t, "/invitation/ana-and-ben", result.PreviewPath)

	conflict := saveInvitation(t, env, second.AccessToken, "ana-and-ben")
	require.Equal(t, http.StatusConflict, conflict.Code, conflict.Body)

	invalid := saveInvitation(t, env, second.AccessToken, "!!")
	require.Equal(t, http.StatusBadRequest, invalid.Code, invalid.Body)

	w = env.Request(http.MethodPost, "/api/invitation/slug", nil, first.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	var preview struct {
		Slug     string `json:"slug"`
		ShareURL string `json:"share_url"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &preview)
	require.Len(t, preview.Slug, 8)
	require.Equal(t, "http://rsvp.test/invitation/"+preview.Slug, preview.ShareURL)

	w = env.Request(http.MethodGet, "/api/invitation", nil, first.AccessToken)
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &draft)
	require.True(t, draft.Saved)
	require.Equal(t, "ana-and-ben", draft.Invitation.Slug, "regenerated slugs are not persisted")

	w = env.Request(http.MethodGet, "/api/invitation/qr?size=300", nil, first.AccessToken)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "image/png", w.Header().Get("Content-Type"))
	require.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	require.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

	w = env.Request(http.MethodGet, "/api/invitation/qr?size=10", nil, first.AccessToken)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestWorkspace_AnalyticsAndDashboard(t *testing.T) {
	env := testutil.NewEnv(t)
	account := env.RegisterWithWedding()
	for _, name := range []string{"Alice", "Bob", "Carla"} {
		createGuest(t, env, account.AccessToken, map[string]any{"name": name})
	}

	w := env.Request(http.MethodGet, "/api/analytics", nil, account.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var summary struct {
		TotalGuests  int  `json:"total_guests"`
		TotalRSVPs   int  `json:"total_rsvps"`
		Attending    int  `json:"attending"`
		Pending      int  `json:"pending"`
		ResponseRate int  `json:"response_rate"`
		Anomaly      bool `json:"anomaly"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &summary)
	require.Equal(t, 3, summary.TotalGuests)
	require.Zero(t, summary.TotalRSVPs)
	require.Zero(t, summary.Attending)
	require.Equal(t, 3, summary.Pending)
	require.Zero(t, summary.ResponseRate)
	require.False(t, summary.Anomaly)

	require.Equal(t, http.StatusOK, saveInvitation(t, env, account.AccessToken, "our-day").Code)

	w = env.Request(http.MethodGet, "/api/dashboard", nil, account.AccessToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var overview struct {
		WeddingRequired bool   `json:"wedding_required"`
		TotalGuests     int    `json:"total_guests"`
		Pending         int    `json:"pending"`
		ShareURL        string `json:"share_url"`
		DaysUntil       int    `json:"days_until"`
	}
	testutil.DecodeInto(t, testutil.DecodeResponse(t, w).Data, &overview)
	require.False(t, overview.WeddingRequired)
	require.Equal(t, 3, overview.TotalGuests)
	require.Equal(t, 3, overview.Pending)
	require.True(t, strings.HasSuffix(overview.ShareURL, "/invitation/our-day"))
	require.Positive(t, overview.DaysUntil)
}
