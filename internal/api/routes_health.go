package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/weddingrsvp/internal/handlers"
)

func registerHealthRoutes(r *gin.Engine, handler *handlers.HealthHandler) {
	r.GET("/health", handler.Health)
	r.GET("/health/live", handler.Live)
	r.GET("/health/ready", handler.Ready)
}
