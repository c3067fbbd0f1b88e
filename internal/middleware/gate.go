package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// Decision is the outcome of the page access check.
type Decision int

const (
	Allow Decision = iota
	RedirectToLogin
	RedirectToDashboard
)

const (
	DashboardPath = "/dashboard"
	LoginPath     = "/login"
)

var authOnlyPaths = map[string]struct{}{
	"/login":           {},
	"/register":        {},
	"/forgot-password": {},
}

// Decide classifies a page request. Workspace paths need a session, the
// sign-in pages are skipped once signed in, everything else is public.
func Decide(path string, authenticated bool) Decision {
	if isWorkspacePath(path) {
		if authenticated {
			return Allow
		}
		return RedirectToLogin
	}
	if _, ok := authOnlyPaths[strings.TrimSuffix(path, "/")]; ok && authenticated {
		return RedirectToDashboard
	}
	return Allow
}

func isWorkspacePath(path string) bool {
	return path == DashboardPath || strings.HasPrefix(path, DashboardPath+"/")
}

// LoginRedirect is the login URL that returns to target after sign-in.
func LoginRedirect(target string) string {
	return LoginPath + "?redirect=" + url.QueryEscape(target)
}

// Gate applies Decide to page routes. It must run after Identify.
func Gate() gin.HandlerFunc {
	return func(c *gin.Context) {
		_, authenticated := UserID(c)

		switch Decide(c.Request.URL.Path, authenticated) {
		case RedirectToLogin:
			c.Redirect(http.StatusTemporaryRedirect, LoginRedirect(c.Request.URL.RequestURI()))
			c.Abort()
		case RedirectToDashboard:
			c.Redirect(http.StatusTemporaryRedirect, DashboardPath)
			c.Abort()
		default:
			c.Next()
		}
	}
}

// SafeRedirect returns target when it is a local workspace path, otherwise the dashboard.
func SafeRedirect(target string) string {
	target = strings.TrimSpace(target)
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.Contains(target, "\\") {
		return DashboardPath
	}
	return target
}
