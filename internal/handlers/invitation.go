package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/weddingrsvp/internal/services"
	"github.com/charlesng35/weddingrsvp/pkg/errors"
	"github.com/charlesng35/weddingrsvp/pkg/response"
)

const maxQRCodeSize = 1024

// InvitationHandler drives the invitation designer.
type InvitationHandler struct {
	svc     *services.InvitationService
	baseURL string
}

func NewInvitationHandler(svc *services.InvitationService, baseURL string) *InvitationHandler {
	return &InvitationHandler{svc: svc, baseURL: baseURL}
}

// GET /dashboard/invitation, GET /api/invitation
func (h *InvitationHandler) Design(c *gin.Context) {
	design, err := h.svc.Design(requestContext(c), currentUserID(c), requestOrigin(c, h.baseURL))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, design)
}

// GET /api/templates
func (h *InvitationHandler) Templates(c *gin.Context) {
	templates, err := h.svc.Templates(requestContext(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, templates)
}

// PUT /api/invitation
func (h *InvitationHandler) Save(c *gin.Context) {
	var form services.InvitationForm
	if !bindAndValidate(c, &form) {
		return
	}

	invitation, err := h.svc.Save(requestContext(c), currentUserID(c), form)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"invitation":   invitation,
		"preview_path": services.InvitationPath(invitation.Slug),
	})
}

// POST /api/invitation/slug
func (h *InvitationHandler) RegenerateSlug(c *gin.Context) {
	preview, err := h.svc.RegenerateSlug(requestOrigin(c, h.baseURL))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, preview)
}

// GET /api/invitation/qr?size=
func (h *InvitationHandler) QRCode(c *gin.Context) {
	size := 0
	if raw := strings.TrimSpace(c.Query("size")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 64 || parsed > maxQRCodeSize {
			response.Error(c, errors.NewBadRequest("size must be between 64 and 1024 pixels"))
			return
		}
		size = parsed
	}

	png, err := h.svc.QRCode(requestContext(c), currentUserID(c), requestOrigin(c, h.baseURL), size)
	if err != nil {
		writeError(c, err)
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}
