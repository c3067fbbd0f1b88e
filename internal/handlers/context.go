package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	iauth "github.com/charlesng35/weddingrsvp/internal/auth"
	"github.com/charlesng35/weddingrsvp/internal/middleware"
)

// requestContext safely returns the request context with a background fallback for tests.
func requestContext(c *gin.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if req := c.Request; req != nil {
		return req.Context()
	}
	return context.Background()
}

// requestOrigin derives scheme://host for absolute links from the request,
// falling back to the configured public base URL.
func requestOrigin(c *gin.Context, fallback string) string {
	fallback = strings.TrimRight(strings.TrimSpace(fallback), "/")
	if c == nil || c.Request == nil || strings.TrimSpace(c.Request.Host) == "" {
		return fallback
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if forwarded := strings.TrimSpace(c.GetHeader("X-Forwarded-Proto")); forwarded != "" {
		scheme = strings.ToLower(strings.Split(forwarded, ",")[0])
	}
	return scheme + "://" + c.Request.Host
}

// mailOrigin is the origin for links sent out of band. The configured public
// base URL wins because request headers are caller controlled.
func mailOrigin(c *gin.Context, configured string) string {
	if configured = strings.TrimRight(strings.TrimSpace(configured), "/"); configured != "" {
		return configured
	}
	return requestOrigin(c, "")
}

func sessionMetadata(c *gin.Context) iauth.SessionMetadata {
	return iauth.SessionMetadata{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

// currentUserID reads the authenticated user. Routes using it sit behind Auth.
func currentUserID(c *gin.Context) string {
	userID, _ := middleware.UserID(c)
	return userID
}
