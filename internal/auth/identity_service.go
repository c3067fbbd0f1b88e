package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/charlesng35/weddingrsvp/internal/database"
	"github.com/charlesng35/weddingrsvp/internal/models"
	"github.com/charlesng35/weddingrsvp/pkg/crypto"
	"github.com/charlesng35/weddingrsvp/pkg/logger"
	"github.com/charlesng35/weddingrsvp/pkg/mail"
)

const (
	defaultResetTTL        = time.Hour
	defaultResetTokenBytes = 32
)

var (
	// ErrInvalidCredentials covers unknown emails and wrong passwords alike.
	ErrInvalidCredentials = errors.New("identity: invalid email or password")
	// ErrEmailTaken is returned by SignUp when the email is already registered.
	ErrEmailTaken = errors.New("identity: email already registered")
	// ErrResetTokenInvalid covers unknown, expired and already used reset tokens.
	ErrResetTokenInvalid = errors.New("identity: invalid or expired reset token")
	// ErrUserNotFound indicates the authenticated user no longer exists.
	ErrUserNotFound = errors.New("identity: user not found")
)

// SignUpInput carries the fields required to create a couple account.
type SignUpInput struct {
	Email    string
	Password string
	FullName string
}

// IdentityOption customises IdentityService behaviour.
type IdentityOption func(*IdentityService)

// WithResetTTL overrides the password reset token lifetime.
func WithResetTTL(d time.Duration) IdentityOption {
	return func(s *IdentityService) {
		if d > 0 {
			s.resetTTL = d
		}
	}
}

// WithIdentityClock injects a custom clock primarily for testing.
func WithIdentityClock(clock func() time.Time) IdentityOption {
	return func(s *IdentityService) {
		if clock != nil {
			s.now = clock
		}
	}
}

// IdentityService is the local identity store: email/password accounts,
// sessions and password recovery.
type IdentityService struct {
	db       *gorm.DB
	sessions *SessionService
	mailer   mail.Mailer
	resetTTL time.Duration
	now      func() time.Time
	log      *zap.Logger
}

func NewIdentityService(db *gorm.DB, sessions *SessionService, mailer mail.Mailer, opts ...IdentityOption) (*IdentityService, error) {
	if db == nil {
		return nil, errors.New("identity service: db is required")
	}
	if sessions == nil {
		return nil, errors.New("identity service: session service is required")
	}

	svc := &IdentityService{
		db:       db,
		sessions: sessions,
		mailer:   mailer,
		resetTTL: defaultResetTTL,
		now:      time.Now,
		log:      logger.WithModule("identity"),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

// SignUp creates an account and signs it in.
func (s *IdentityService) SignUp(ctx context.Context, input SignUpInput, meta SessionMetadata) (*models.User, TokenPair, error) {
	email := normaliseEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, TokenPair{}, errors.New("identity: email and password are required")
	}

	hash, err := crypto.HashPassword(input.Password)
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("identity: hash password: %w", err)
	}

	user := &models.User{
		Email:    email,
		Password: hash,
		FullName: strings.TrimSpace(input.FullName),
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if database.IsUniqueViolation(err) {
			return nil, TokenPair{}, ErrEmailTaken
		}
		return nil, TokenPair{}, fmt.Errorf("identity: create user: %w", err)
	}

	pair, _, err := s.sessions.CreateSession(ctx, user, meta)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return user, pair, nil
}

// SignIn verifies credentials and opens a new session.
func (s *IdentityService) SignIn(ctx context.Context, email, password string, meta SessionMetadata) (*models.User, TokenPair, error) {
	email = normaliseEmail(email)
	if email == "" || password == "" {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return nil, TokenPair{}, fmt.Errorf("identity: find user: %w", err)
	}

	if !crypto.VerifyPassword(user.Password, password) {
		return nil, TokenPair{}, ErrInvalidCredentials
	}

	pair, _, err := s.sessions.CreateSession(ctx, &user, meta)
	if err != nil {
		return nil, TokenPair{}, err
	}

	now := s.now()
	if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]any{
		"last_login_at": now,
		"last_login_ip": strings.TrimSpace(meta.IPAddress),
	}).Error; err != nil {
		s.log.Warn("record last login", zap.String("user_id", user.ID), zap.Error(err))
	}
	user.LastLoginAt = &now

	return &user, pair, nil
}

// SignOut revokes the session. An already revoked session is not an error.
func (s *IdentityService) SignOut(ctx context.Context, sessionID string) error {
	err := s.sessions.RevokeSession(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) || errors.Is(err, ErrSessionInvalidToken) {
		return nil
	}
	return err
}

// Refresh rotates the refresh token.
func (s *IdentityService) Refresh(ctx context.Context, refreshToken string) (TokenPair, error) {
	pair, _, err := s.sessions.RefreshSession(ctx, refreshToken)
	return pair, err
}

// CurrentUser loads the user behind an authenticated request.
func (s *IdentityService) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Take(&user, "id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("identity: load user: %w", err)
	}
	return &user, nil
}

// SendPasswordReset emails a single-use reset link. Unknown addresses are
// ignored silently so the response never reveals which emails are registered.
func (s *IdentityService) SendPasswordReset(ctx context.Context, email, origin string) error {
	email = normaliseEmail(email)
	if email == "" {
		return nil
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("identity: find user: %w", err)
	}

	token, err := crypto.GenerateToken(defaultResetTokenBytes)
	if err != nil {
		return fmt.Errorf("identity: generate reset token: %w", err)
	}

	record := models.PasswordResetToken{
		UserID:    user.ID,
		TokenHash: crypto.HashToken(token),
		ExpiresAt: s.now().Add(s.resetTTL),
	}
	if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
		return fmt.Errorf("identity: store reset token: %w", err)
	}

	if s.mailer == nil {
		s.log.Warn("password reset requested but no mailer configured", zap.String("user_id", user.ID))
		return nil
	}

	link := resetLink(origin, token)
	msg := mail.Message{
		To:      []string{user.Email},
		Subject: "Reset your password",
		Body: fmt.Sprintf("Hi %s,\n\nWe received a request to reset your password. Use the link below within %s to choose a new one:\n%s\n\nIf you did not ask for this, you can ignore this email.\n",
			displayName(user), s.resetTTL, link),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		// The caller still reports success; delivery problems are operational.
		s.log.Error("send password reset email", zap.String("user_id", user.ID), zap.Error(err))
	}
	return nil
}

// UpdatePassword consumes a reset token, stores the new password and signs
// the user out everywhere.
func (s *IdentityService) UpdatePassword(ctx context.Context, token, password string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrResetTokenInvalid
	}
	if password == "" {
		return errors.New("identity: password is required")
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return fmt.Errorf("identity: hash password: %w", err)
	}

	now := s.now()
	var userID string

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record models.PasswordResetToken
		err := tx.Where("token_hash = ? AND used_at IS NULL AND expires_at > ?", crypto.HashToken(token), now).
			Take(&record).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrResetTokenInvalid
		}
		if err != nil {
			return err
		}

		consumed := tx.Model(&models.PasswordResetToken{}).
			Where("id = ? AND used_at IS NULL", record.ID).
			Update("used_at", now)
		if consumed.Error != nil {
			return consumed.Error
		}
		if consumed.RowsAffected == 0 {
			return ErrResetTokenInvalid
		}

		if err := tx.Model(&models.User{}).Where("id = ?", record.UserID).Update("password", hash).Error; err != nil {
			return err
		}
		userID = record.UserID
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrResetTokenInvalid) {
			return err
		}
		return fmt.Errorf("identity: update password: %w", err)
	}

	return s.sessions.RevokeUserSessions(ctx, userID)
}

// CleanupResetTokens removes expired or used reset tokens.
func (s *IdentityService) CleanupResetTokens(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).
		Where("expires_at < ? OR used_at IS NOT NULL", s.now()).
		Delete(&models.PasswordResetToken{})
	if result.Error != nil {
		return 0, fmt.Errorf("identity: cleanup reset tokens: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func normaliseEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func displayName(user models.User) string {
	if name := strings.TrimSpace(user.FullName); name != "" {
		return name
	}
	return user.Email
}

func resetLink(origin, token string) string {
	origin = strings.TrimRight(strings.TrimSpace(origin), "/")
	return origin + "/reset-password?token=" + url.QueryEscape(token)
}
