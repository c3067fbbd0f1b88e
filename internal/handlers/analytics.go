package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/weddingrsvp/internal/services"
	"github.com/charlesng35/weddingrsvp/pkg/response"
)

// AnalyticsHandler exposes the RSVP summary of the caller's wedding.
type AnalyticsHandler struct {
	svc *services.AnalyticsService
}

func NewAnalyticsHandler(svc *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

// GET /dashboard/analytics, GET /api/analytics
func (h *AnalyticsHandler) Overview(c *gin.Context) {
	summary, err := h.svc.Overview(requestContext(c), currentUserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, summary)
}
