package auth

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/weddingrsvp/internal/models"
	"github.com/charlesng35/weddingrsvp/pkg/mail"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (m *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, msg)
	return nil
}

func (m *recordingMailer) last(t *testing.T) mail.Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.sent)
	return m.sent[len(m.sent)-1]
}

func setupIdentityService(t *testing.T) (*gorm.DB, *IdentityService, *recordingMailer, *testClock) {
	t.Helper()
	db, sessions, clock := setupSessionService(t, false)
	mailer := &recordingMailer{}
	svc, err := NewIdentityService(db, sessions, mailer, WithIdentityClock(clock.Now), WithResetTTL(30*time.Minute))
	require.NoError(t, err)
	return db, svc, mailer, clock
}

func TestNewIdentityServiceRequiresDependencies(t *testing.T) {
	_, err := NewIdentityService(nil, nil, nil)
	require.EqualError(t, err, "identity service: db is required")
}

func TestSignUpAndSignIn(t *testing.T) {
	_, svc, _, _ := setupIdentityService(t)
	ctx := context.Background()

	user, pair, err := svc.SignUp(ctx, SignUpInput{Email: " Ana@Example.com ", Password: "sunflower", FullName: "Ana Silva"}, SessionMetadata{})
	require.NoError(t, err)
	require.Equal(t, "ana@example.com", user.Email)
	require.Equal(t, "Ana Silva", user.FullName)
	require.NotEmpty(t, pair.AccessToken)

	_, _, err = svc.SignUp(ctx, SignUpInput{Email: "ana@example.com", Password: "another"}, SessionMetadata{})
	require.ErrorIs(t, err, ErrEmailTaken)

	signedIn, pair, err := svc.SignIn(ctx, "ANA@example.com", "sunflower", SessionMetadata{IPAddress: "1.2.3.4"})
	require.NoError(t, err)
	require.Equal(t, user.ID, signedIn.ID)
	require.NotNil(t, signedIn.LastLoginAt)
	require.NotEmpty(t, pair.RefreshToken)
}

func TestSignInFailuresAreGeneric(t *testing.T) {
	_, svc, _, _ := setupIdentityService(t)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, SignUpInput{Email: "ben@example.com", Password: "sunflower"}, SessionMetadata{})
	require.NoError(t, err)

	_, _, err = svc.SignIn(ctx, "ben@example.com", "wrong", SessionMetadata{})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.SignIn(ctx, "nobody@example.com", "sunflower", SessionMetadata{})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.SignIn(ctx, "", "", SessionMetadata{})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignOutRevokesSession(t *testing.T) {
	db, svc, _, _ := setupIdentityService(t)
	ctx := context.Background()

	_, pair, err := svc.SignUp(ctx, SignUpInput{Email: "carla@example.com", Password: "sunflower"}, SessionMetadata{})
	require.NoError(t, err)

	var session models.Session
	require.NoError(t, db.Order("created_at desc").Take(&session).Error)

	require.NoError(t, svc.SignOut(ctx, session.ID))
	require.NoError(t, svc.SignOut(ctx, session.ID))

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionRevoked)
}

func TestPasswordResetFlow(t *testing.T) {
	db, svc, mailer, clock := setupIdentityService(t)
	ctx := context.Background()

	user, pair, err := svc.SignUp(ctx, SignUpInput{Email: "dora@example.com", Password: "sunflower", FullName: "Dora"}, SessionMetadata{})
	require.NoError(t, err)

	require.NoError(t, svc.SendPasswordReset(ctx, "dora@example.com", "https://rsvp.example.com/"))

	msg := mailer.last(t)
	require.Equal(t, []string{"dora@example.com"}, msg.To)
	require.Contains(t, msg.Body, "Hi Dora")

	token := extractToken(t, msg.Body)

	var stored models.PasswordResetToken
	require.NoError(t, db.Take(&stored, "user_id = ?", user.ID).Error)
	require.NotEqual(t, token, stored.TokenHash)

	clock.Advance(10 * time.Minute)
	require.NoError(t, svc.UpdatePassword(ctx, token, "new-password"))

	_, _, err = svc.SignIn(ctx, "dora@example.com", "sunflower", SessionMetadata{})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, _, err = svc.SignIn(ctx, "dora@example.com", "new-password", SessionMetadata{})
	require.NoError(t, err)

	_, err = svc.Refresh(ctx, pair.RefreshToken)
	require.ErrorIs(t, err, ErrSessionRevoked)

	require.ErrorIs(t, svc.UpdatePassword(ctx, token, "again"), ErrResetTokenInvalid)
}

func TestPasswordResetTokenExpires(t *testing.T) {
	_, svc, mailer, clock := setupIdentityService(t)
	ctx := context.Background()

	_, _, err := svc.SignUp(ctx, SignUpInput{Email: "eve@example.com", Password: "sunflower"}, SessionMetadata{})
	require.NoError(t, err)
	require.NoError(t, svc.SendPasswordReset(ctx, "eve@example.com", "http://localhost:8000"))
	token := extractToken(t, mailer.last(t).Body)

	clock.Advance(31 * time.Minute)
	require.ErrorIs(t, svc.UpdatePassword(ctx, token, "new-password"), ErrResetTokenInvalid)
	require.ErrorIs(t, svc.UpdatePassword(ctx, "", "new-password"), ErrResetTokenInvalid)

	removed, err := svc.CleanupResetTokens(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)
}

func TestSendPasswordResetUnknownEmailSucceedsSilently(t *testing.T) {
	_, svc, mailer, _ := setupIdentityService(t)

	require.NoError(t, svc.SendPasswordReset(context.Background(), "ghost@example.com", "http://localhost"))
	require.Empty(t, mailer.sent)
}

func TestCurrentUser(t *testing.T) {
	_, svc, _, _ := setupIdentityService(t)
	ctx := context.Background()

	user, _, err := svc.SignUp(ctx, SignUpInput{Email: "finn@example.com", Password: "sunflower"}, SessionMetadata{})
	require.NoError(t, err)

	loaded, err := svc.CurrentUser(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, loaded.Email)

	_, err = svc.CurrentUser(ctx, "missing")
	require.ErrorIs(t, err, ErrUserNotFound)
}

func extractToken(t *testing.T, body string) string {
	t.Helper()
	for _, line := range strings.Split(body, "\n") {
		if strings.Contains(line, "/reset-password?token=") {
			u, err := url.Parse(strings.TrimSpace(line))
			require.NoError(t, err)
			return u.Query().Get("token")
		}
	}
	t.Fatalf("no reset link in %q", body)
	return ""
}
