package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/charlesng35/weddingrsvp/internal/api"
	"github.com/charlesng35/weddingrsvp/internal/app"
	iauth "github.com/charlesng35/weddingrsvp/internal/auth"
	sharedtestutil "github.com/charlesng35/weddingrsvp/internal/database/testutil"
	"github.com/charlesng35/weddingrsvp/internal/monitoring"
	"github.com/charlesng35/weddingrsvp/pkg/mail"
	"github.com/charlesng35/weddingrsvp/pkg/response"
)

// Env encapsulates a fully-wired router backed by an in-memory database for handler tests.
type Env struct {
	T        *testing.T
	DB       *gorm.DB
	Router   *gin.Engine
	JWT      *iauth.JWTService
	Sessions *iauth.SessionService
	Identity *iauth.IdentityService
	Mailer   *RecordingMailer
}

// NewEnv provisions a fresh handler test environment with migrations and seed data applied.
func NewEnv(t *testing.T) *Env {
	t.Helper()

	gin.SetMode(gin.TestMode)

	db := sharedtestutil.MustOpenTestDB(t, sharedtestutil.WithSeedData())

	cfg := &app.Config{
		Server: app.ServerConfig{PublicBaseURL: "http://rsvp.test"},
		Auth: app.AuthConfig{
			JWT: app.JWTSettings{
				Secret: "test-suite-super-secret-key-32-bytes!!",
				Issuer: "test-suite",
				TTL:    time.Hour,
			},
			Session: app.SessionSettings{
				RefreshTTL:    24 * time.Hour,
				RefreshLength: 48,
			},
		},
	}

	jwtSvc, err := iauth.NewJWTService(cfg.Auth.JWTServiceConfig())
	require.NoError(t, err)

	sessionSvc, err := iauth.NewSessionService(db, jwtSvc, cfg.Auth.SessionServiceConfig())
	require.NoError(t, err)

	mailer := &RecordingMailer{}
	identitySvc, err := iauth.NewIdentityService(db, sessionSvc, mailer, iauth.WithResetTTL(cfg.Auth.PasswordResetTTL()))
	require.NoError(t, err)

	router, err := api.NewRouter(db, cfg, jwtSvc, sessionSvc, identitySvc, monitoring.NewHealthManager())
	require.NoError(t, err)

	return &Env{
		T:        t,
		DB:       db,
		Router:   router,
		JWT:      jwtSvc,
		Sessions: sessionSvc,
		Identity: identitySvc,
		Mailer:   mailer,
	}
}

// RecordingMailer captures outgoing mail in memory.
type RecordingMailer struct {
	mu   sync.Mutex
	Sent []mail.Message
}

func (m *RecordingMailer) Send(_ context.Context, msg mail.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, msg)
	return nil
}

// Last returns the most recent message.
func (m *RecordingMailer) Last(t *testing.T) mail.Message {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.Sent, "no mail sent")
	return m.Sent[len(m.Sent)-1]
}

// Account is a registered couple with an access token for API calls.
type Account struct {
	UserID       string
	Email        string
	Password     string
	AccessToken  string
	RefreshToken string
}

// Register signs up a new account with a random email through the API.
func (e *Env) Register() Account {
	e.T.Helper()

	email := "couple-" + uuid.NewString()[:8] + "@example.com"
	password := "sunflower"

	w := e.Request(http.MethodPost, "/api/auth/register", map[string]string{
		"email":            email,
		"password":         password,
		"confirm_password": password,
		"full_name":        "Ana & Ben",
	}, "")
	require.Equal(e.T, http.StatusCreated, w.Code, w.Body.String())

	var result struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		Tokens struct {
			AccessToken  string `json:"access_token"`
			RefreshToken string `json:"refresh_token"`
		} `json:"tokens"`
	}
	DecodeInto(e.T, DecodeResponse(e.T, w).Data, &result)
	require.NotEmpty(e.T, result.Tokens.AccessToken)

	return Account{
		UserID:       result.User.ID,
		Email:        email,
		Password:     password,
		AccessToken:  result.Tokens.AccessToken,
		RefreshToken: result.Tokens.RefreshToken,
	}
}

// RegisterWithWedding signs up an account and creates its wedding.
func (e *Env) RegisterWithWedding() Account {
	e.T.Helper()

	account := e.Register()
	w := e.Request(http.MethodPut, "/api/wedding", map[string]string{
		"title":    "Ana & Ben",
		"date":     "2030-06-15",
		"location": "Lisbon",
	}, account.AccessToken)
	require.Equal(e.T, http.StatusOK, w.Code, w.Body.String())
	return account
}

// APIResponse represents the canonical API envelope returned by handlers.
type APIResponse struct {
	Success bool                `json:"success"`
	Data    json.RawMessage     `json:"data"`
	Error   *response.ErrorInfo `json:"error"`
	Meta    *response.Meta      `json:"meta"`
}

// DecodeResponse parses the standard API response object from a recorder.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

// DecodeInto unmarshals the data payload into the provided destination.
func DecodeInto[T any](t *testing.T, raw json.RawMessage, dest *T) {
	t.Helper()
	if dest == nil {
		t.Fatal("destination must not be nil")
	}
	require.NoError(t, json.Unmarshal(raw, dest))
}

// Request executes an HTTP request against the test router, applying JSON encoding and auth headers automatically.
func (e *Env) Request(method, path string, body any, token string) *httptest.ResponseRecorder {
	e.T.Helper()

	var buf *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(e.T, err)
		buf = bytes.NewBuffer(data)
	} else {
		buf = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(e.T, err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return e.Do(req)
}

// Do serves a prepared request.
func (e *Env) Do(req *http.Request) *httptest.ResponseRecorder {
	e.T.Helper()
	w := httptest.NewRecorder()
	e.Router.ServeHTTP(w, req)
	return w
}

// Cookie returns the named cookie set by the response, if any.
func Cookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
