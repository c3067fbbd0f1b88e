package api

import "github.com/gin-gonic/gin"

func registerWorkspaceRoutes(api *gin.RouterGroup, h workspaceHandlers) {
	api.GET("/dashboard", h.Dashboard.Overview)
	api.GET("/analytics", h.Analytics.Overview)

	api.GET("/wedding", h.Settings.Wedding)
	api.PUT("/wedding", h.Settings.SaveWedding)
	api.PATCH("/profile", h.Settings.UpdateProfile)

	guests := api.Group("/guests")
	{
		guests.GET("", h.Guests.List)
		guests.POST("", h.Guests.Create)
		guests.POST("/mark-sent", h.Guests.MarkSent)
		guests.DELETE("/:id", h.Guests.Delete)
	}

	events := api.Group("/events")
	{
		events.GET("", h.Events.List)
		events.POST("", h.Events.Create)
		events.DELETE("/:id", h.Events.Delete)
	}

	api.GET("/templates", h.Invitation.Templates)

	invitation := api.Group("/invitation")
	{
		invitation.GET("", h.Invitation.Design)
		invitation.PUT("", h.Invitation.Save)
		invitation.POST("/slug", h.Invitation.RegenerateSlug)
		invitation.GET("/qr", h.Invitation.QRCode)
	}
}
