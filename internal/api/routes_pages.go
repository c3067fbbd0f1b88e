package api

import (
	"github.com/gin-gonic/gin"

	"github.com/charlesng35/weddingrsvp/internal/handlers"
	"github.com/charlesng35/weddingrsvp/internal/middleware"
)

type workspaceHandlers struct {
	Dashboard  *handlers.DashboardHandler
	Guests     *handlers.GuestHandler
	Events     *handlers.EventHandler
	Invitation *handlers.InvitationHandler
	Analytics  *handlers.AnalyticsHandler
	Settings   *handlers.SettingsHandler
}

func registerPageRoutes(r *gin.Engine, workspace workspaceHandlers, public *handlers.PublicInvitationHandler) {
	pages := r.Group("/")
	pages.Use(middleware.Gate())
	{
		pages.GET("/", handlers.Page("home.html", ""))
		pages.GET("/features", handlers.Page("features.html", "Features"))
		pages.GET("/pricing", handlers.Page("pricing.html", "Pricing"))

		pages.GET("/login", handlers.LoginPage)
		pages.GET("/register", handlers.Page("register.html", "Create your account"))
		pages.GET("/forgot-password", handlers.Page("forgot_password.html", "Reset your password"))
		pages.GET("/reset-password", handlers.ResetPasswordPage)

		pages.GET("/invitation/:slug", public.Page)
	}

	dashboard := pages.Group("/dashboard")
	{
		dashboard.GET("", workspace.Dashboard.Overview)
		dashboard.GET("/guests", workspace.Guests.Page)
		dashboard.GET("/events", workspace.Events.Page)
		dashboard.GET("/invitation", workspace.Invitation.Design)
		dashboard.GET("/analytics", workspace.Analytics.Overview)
		dashboard.GET("/settings", workspace.Settings.Page)
	}
}
