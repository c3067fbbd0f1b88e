package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/weddingrsvp/internal/services"
	"github.com/charlesng35/weddingrsvp/pkg/response"
)

// DashboardHandler serves the workspace landing view.
type DashboardHandler struct {
	svc     *services.DashboardService
	baseURL string
}

func NewDashboardHandler(svc *services.DashboardService, baseURL string) *DashboardHandler {
	return &DashboardHandler{svc: svc, baseURL: baseURL}
}

// GET /dashboard, GET /api/dashboard
func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.svc.Overview(requestContext(c), currentUserID(c), requestOrigin(c, h.baseURL))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, overview)
}
