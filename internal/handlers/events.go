package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/weddingrsvp/internal/services"
	"github.com/charlesng35/weddingrsvp/pkg/response"
)

// EventHandler manages the event schedule. Events are created and deleted, never edited.
type EventHandler struct {
	svc *services.EventService
}

func NewEventHandler(svc *services.EventService) *EventHandler {
	return &EventHandler{svc: svc}
}

// GET /dashboard/events
func (h *EventHandler) Page(c *gin.Context) {
	events, err := h.svc.List(requestContext(c), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"events": events})
}

// GET /api/events
func (h *EventHandler) List(c *gin.Context) {
	events, err := h.svc.List(requestContext(c), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, events)
}

// POST /api/events
func (h *EventHandler) Create(c *gin.Context) {
	var form services.EventForm
	if !bindAndValidate(c, &form) {
		return
	}

	event, err := h.svc.Create(requestContext(c), currentUserID(c), form)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, event)
}

// DELETE /api/events/:id
func (h *EventHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(requestContext(c), currentUserID(c), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
