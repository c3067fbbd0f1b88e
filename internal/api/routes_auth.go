package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/weddingrsvp/internal/handlers"
)

func registerAuthRoutes(api *gin.RouterGroup, handler *handlers.AuthHandler, requireAuth gin.HandlerFunc) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", handler.Register)
		auth.POST("/login", handler.Login)
		auth.POST("/refresh", handler.Refresh)
		auth.POST("/forgot-password", handler.ForgotPassword)
		auth.POST("/reset-password", handler.ResetPassword)
		// Sign-out is a browser form post; it clears cookies even without a live session.
		auth.POST("/signout", handler.SignOut)
		auth.GET("/me", requireAuth, handler.Me)
	}
}
