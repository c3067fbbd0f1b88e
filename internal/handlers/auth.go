package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/charlesng35/weddingrsvp/internal/auth"
	"github.com/charlesng35/weddingrsvp/internal/middleware"
	"github.com/charlesng35/weddingrsvp/internal/models"
	"github.com/charlesng35/weddingrsvp/pkg/errors"
	"github.com/charlesng35/weddingrsvp/pkg/logger"
	"github.com/charlesng35/weddingrsvp/pkg/metrics"
	"github.com/charlesng35/weddingrsvp/pkg/response"
)

// AuthHandler manages the email and password identity flows.
type AuthHandler struct {
	identity *iauth.IdentityService
	cookies  middleware.SessionCookies
	baseURL  string
}

func NewAuthHandler(identity *iauth.IdentityService, cookies middleware.SessionCookies, baseURL string) *AuthHandler {
	return &AuthHandler{identity: identity, cookies: cookies, baseURL: baseURL}
}

// RegisterForm creates a couple account. The confirmation is checked before any store call.
type RegisterForm struct {
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=6,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
	FullName        string `json:"full_name" validate:"max=200"`
}

func (f *RegisterForm) Normalize() {
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.FullName = strings.TrimSpace(f.FullName)
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Redirect string `json:"redirect"`
}

func (r *loginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type forgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Token           string `json:"token" validate:"required"`
	Password        string `json:"password" validate:"required,min=6,max=128"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type userPayload struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func toUserPayload(user *models.User) userPayload {
	return userPayload{ID: user.ID, Email: user.Email, FullName: user.FullName}
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var form RegisterForm
	if !bindAndValidate(c, &form) {
		return
	}

	user, pair, err := h.identity.SignUp(requestContext(c), iauth.SignUpInput{
		Email:    form.Email,
		Password: form.Password,
		FullName: form.FullName,
	}, sessionMetadata(c))
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("register", "failure").Inc()
		writeError(c, err)
		return
	}

	metrics.AuthAttempts.WithLabelValues("register", "success").Inc()
	h.cookies.Set(c, pair)
	response.Success(c, http.StatusCreated, gin.H{
		"user":     toUserPayload(user),
		"tokens":   tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken},
		"redirect": middleware.DashboardPath,
	})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !bindAndValidate(c, &req) {
		return
	}

	user, pair, err := h.identity.SignIn(requestContext(c), req.Email, req.Password, sessionMetadata(c))
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("login", "failure").Inc()
		writeError(c, err)
		return
	}

	metrics.AuthAttempts.WithLabelValues("login", "success").Inc()
	h.cookies.Set(c, pair)
	response.Success(c, http.StatusOK, gin.H{
		"user":     toUserPayload(user),
		"tokens":   tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken},
		"redirect": middleware.SafeRedirect(req.Redirect),
	})
}

// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req refreshRequest
	// The body is optional; browsers rely on the refresh cookie.
	_ = c.ShouldBindJSON(&req)

	token := strings.TrimSpace(req.RefreshToken)
	if token == "" {
		token, _ = c.Cookie(middleware.RefreshCookieName)
	}
	if token == "" {
		response.Error(c, errors.NewBadRequest("refresh token is required"))
		return
	}

	pair, err := h.identity.Refresh(requestContext(c), token)
	if err != nil {
		metrics.AuthAttempts.WithLabelValues("refresh", "failure").Inc()
		h.cookies.Clear(c)
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	metrics.AuthAttempts.WithLabelValues("refresh", "success").Inc()
	h.cookies.Set(c, pair)
	response.Success(c, http.StatusOK, tokenResponse{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken})
}

// POST /api/auth/forgot-password
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req forgotPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.identity.SendPasswordReset(requestContext(c), req.Email, mailOrigin(c, h.baseURL)); err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message": "If an account exists for that email, a reset link is on its way.",
	})
}

// POST /api/auth/reset-password
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req resetPasswordRequest
	if !bindAndValidate(c, &req) {
		return
	}

	if err := h.identity.UpdatePassword(requestContext(c), req.Token, req.Password); err != nil {
		metrics.AuthAttempts.WithLabelValues("reset", "failure").Inc()
		writeError(c, err)
		return
	}

	metrics.AuthAttempts.WithLabelValues("reset", "success").Inc()
	h.cookies.Clear(c)
	response.Success(c, http.StatusOK, gin.H{"redirect": middleware.LoginPath})
}

// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.identity.CurrentUser(requestContext(c), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserPayload(user))
}

// POST /api/auth/signout
func (h *AuthHandler) SignOut(c *gin.Context) {
	if sid := c.GetString(middleware.CtxSessionIDKey); sid != "" {
		if err := h.identity.SignOut(requestContext(c), sid); err != nil {
			// The cookies are cleared regardless; a stale session expires on its own.
			logger.WithModule("auth").Warn("sign out failed", zap.String("session_id", sid), zap.Error(err))
		}
	}

	h.cookies.Clear(c)
	c.Redirect(http.StatusSeeOther, "/")
}
