package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/weddingrsvp/internal/services"
	"github.com/charlesng35/weddingrsvp/pkg/response"
)

// SettingsHandler edits the couple's profile and wedding details.
type SettingsHandler struct {
	profiles *services.ProfileService
	weddings *services.WeddingService
}

func NewSettingsHandler(profiles *services.ProfileService, weddings *services.WeddingService) *SettingsHandler {
	return &SettingsHandler{profiles: profiles, weddings: weddings}
}

// GET /dashboard/settings
func (h *SettingsHandler) Page(c *gin.Context) {
	ctx := requestContext(c)
	userID := currentUserID(c)

	user, err := h.profiles.Get(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	wedding, err := h.weddings.Current(ctx, userID)
	if err != nil && !errors.Is(err, services.ErrWeddingRequired) {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"profile": toUserPayload(user),
		"wedding": wedding,
	})
}

// GET /api/wedding
func (h *SettingsHandler) Wedding(c *gin.Context) {
	wedding, err := h.weddings.Current(requestContext(c), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wedding)
}

// PUT /api/wedding
func (h *SettingsHandler) SaveWedding(c *gin.Context) {
	var form services.WeddingForm
	if !bindAndValidate(c, &form) {
		return
	}

	wedding, err := h.weddings.Save(requestContext(c), currentUserID(c), form)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, wedding)
}

// PATCH /api/profile
func (h *SettingsHandler) UpdateProfile(c *gin.Context) {
	var form services.ProfileForm
	if !bindAndValidate(c, &form) {
		return
	}

	user, err := h.profiles.UpdateFullName(requestContext(c), currentUserID(c), form)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserPayload(user))
}
