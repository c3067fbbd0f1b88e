package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/weddingrsvp/internal/handlers"
)

func registerPublicRoutes(api *gin.RouterGroup, handler *handlers.PublicInvitationHandler) {
	public := api.Group("/public/invitations")
	{
		public.GET("/:slug", handler.Get)
		public.POST("/:slug/rsvp", handler.Submit)
	}
}
