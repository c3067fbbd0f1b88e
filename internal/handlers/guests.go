package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/weddingrsvp/internal/services"
	"github.com/charlesng35/weddingrsvp/pkg/response"
)

// GuestHandler manages the guest list of the caller's wedding.
type GuestHandler struct {
	svc     *services.GuestService
	baseURL string
}

func NewGuestHandler(svc *services.GuestService, baseURL string) *GuestHandler {
	return &GuestHandler{svc: svc, baseURL: baseURL}
}

type markSentRequest struct {
	GuestIDs []string `json:"guest_ids" validate:"required,min=1,dive,required"`
}

// GET /dashboard/guests?q=
func (h *GuestHandler) Page(c *gin.Context) {
	ctx := requestContext(c)
	userID := currentUserID(c)
	query := strings.TrimSpace(c.Query("q"))

	guests, err := h.svc.List(ctx, userID, query, requestOrigin(c, h.baseURL))
	if err != nil {
		writeError(c, err)
		return
	}

	stats, err := h.svc.Stats(ctx, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"query":  query,
		"guests": guests,
		"stats":  stats,
	})
}

// GET /api/guests?q=
func (h *GuestHandler) List(c *gin.Context) {
	guests, err := h.svc.List(requestContext(c), currentUserID(c), strings.TrimSpace(c.Query("q")), requestOrigin(c, h.baseURL))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, guests)
}

// POST /api/guests
func (h *GuestHandler) Create(c *gin.Context) {
	var form services.GuestForm
	if !bindAndValidate(c, &form) {
		return
	}

	guest, err := h.svc.Create(requestContext(c), currentUserID(c), form)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, guest)
}

// DELETE /api/guests/:id
func (h *GuestHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), currentUserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// POST /api/guests/mark-sent
func (h *GuestHandler) MarkSent(c *gin.Context) {
	var req markSentRequest
	if !bindAndValidate(c, &req) {
		return
	}

	updated, err := h.svc.MarkInvitationsSent(requestContext(c), currentUserID(c), req.GuestIDs)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": updated})
}
