package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/charlesng35/weddingrsvp/internal/app"
	iauth "github.com/charlesng35/weddingrsvp/internal/auth"
	"github.com/charlesng35/weddingrsvp/internal/handlers"
	"github.com/charlesng35/weddingrsvp/internal/middleware"
	"github.com/charlesng35/weddingrsvp/internal/monitoring"
	"github.com/charlesng35/weddingrsvp/internal/services"
	"github.com/charlesng35/weddingrsvp/web"
)

// NewRouter builds the Gin engine, wires middleware and registers page, API and operational routes.
func NewRouter(db *gorm.DB, cfg *app.Config, jwt *iauth.JWTService, sessions *iauth.SessionService, identity *iauth.IdentityService, health *monitoring.HealthManager) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config must be provided")
	}
	if jwt == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if sessions == nil {
		return nil, fmt.Errorf("session service must be provided")
	}
	if identity == nil {
		return nil, fmt.Errorf("identity service must be provided")
	}

	r := gin.New()

	templates, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	r.SetHTMLTemplate(templates)

	static, err := web.Static()
	if err != nil {
		return nil, fmt.Errorf("static assets: %w", err)
	}

	cookies := middleware.SessionCookies{
		Secure:     cfg.Server.CookieSecure,
		AccessTTL:  jwt.TTL(),
		RefreshTTL: sessions.RefreshTTL(),
	}
	baseURL := cfg.Server.PublicBaseURL

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowedOrigins...))
	r.Use(middleware.Identify(jwt, sessions, cookies))

	r.StaticFS("/static", http.FS(static))
	registerHealthRoutes(r, handlers.NewHealthHandler(health))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	svc, err := newServiceSet(db)
	if err != nil {
		return nil, err
	}

	authHandler := handlers.NewAuthHandler(identity, cookies, baseURL)
	workspace := workspaceHandlers{
		Dashboard:  handlers.NewDashboardHandler(svc.dashboard, baseURL),
		Guests:     handlers.NewGuestHandler(svc.guests, baseURL),
		Events:     handlers.NewEventHandler(svc.events),
		Invitation: handlers.NewInvitationHandler(svc.invitations, baseURL),
		Analytics:  handlers.NewAnalyticsHandler(svc.analytics),
		Settings:   handlers.NewSettingsHandler(svc.profiles, svc.weddings),
	}
	public := handlers.NewPublicInvitationHandler(svc.rsvps)

	registerPageRoutes(r, workspace, public)

	api := r.Group("/api")
	registerAuthRoutes(api, authHandler, middleware.Auth(jwt))
	registerPublicRoutes(api, public)

	protected := api.Group("")
	protected.Use(middleware.Auth(jwt))
	registerWorkspaceRoutes(protected, workspace)

	r.NoRoute(noRoute)

	return r, nil
}

type serviceSet struct {
	weddings    *services.WeddingService
	profiles    *services.ProfileService
	guests      *services.GuestService
	events      *services.EventService
	invitations *services.InvitationService
	rsvps       *services.RSVPService
	analytics   *services.AnalyticsService
	dashboard   *services.DashboardService
}

func newServiceSet(db *gorm.DB) (*serviceSet, error) {
	var (
		set serviceSet
		err error
	)
	if set.weddings, err = services.NewWeddingService(db); err != nil {
		return nil, err
	}
	if set.profiles, err = services.NewProfileService(db); err != nil {
		return nil, err
	}
	if set.guests, err = services.NewGuestService(db); err != nil {
		return nil, err
	}
	if set.events, err = services.NewEventService(db); err != nil {
		return nil, err
	}
	if set.invitations, err = services.NewInvitationService(db); err != nil {
		return nil, err
	}
	if set.rsvps, err = services.NewRSVPService(db); err != nil {
		return nil, err
	}
	if set.analytics, err = services.NewAnalyticsService(db); err != nil {
		return nil, err
	}
	if set.dashboard, err = services.NewDashboardService(db); err != nil {
		return nil, err
	}
	return &set, nil
}

// noRoute answers JSON for API and asset paths and the HTML 404 view for pages.
func noRoute(c *gin.Context) {
	path := c.Request.URL.Path
	if strings.HasPrefix(path, "/api/") || path == "/api" || strings.Contains(c.GetHeader("Accept"), "application/json") {
		middleware.NotFoundHandler(c)
		return
	}
	handlers.NotFoundPage(c)
}
