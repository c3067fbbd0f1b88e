package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	iauth "github.com/charlesng35/weddingrsvp/internal/auth"
)

const (
	// AccessCookieName carries the short-lived access token for browser sessions.
	AccessCookieName = "weddingrsvp_session"
	// RefreshCookieName carries the refresh token, scoped to the paths that rotate it.
	RefreshCookieName = "weddingrsvp_refresh"
)

// SessionCookies writes and clears the browser session cookies.
// All cookies are HttpOnly and SameSite=Lax.
type SessionCookies struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// Set stores a freshly issued token pair.
func (s SessionCookies) Set(c *gin.Context, pair iauth.TokenPair) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookieName, pair.AccessToken, int(s.AccessTTL.Seconds()), "/", "", s.Secure, true)
	c.SetCookie(RefreshCookieName, pair.RefreshToken, int(s.RefreshTTL.Seconds()), "/", "", s.Secure, true)
}

// Clear expires both cookies.
func (s SessionCookies) Clear(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessCookieName, "", -1, "/", "", s.Secure, true)
	c.SetCookie(RefreshCookieName, "", -1, "/", "", s.Secure, true)
}
