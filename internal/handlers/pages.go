package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/charlesng35/weddingrsvp/internal/middleware"
	"github.com/charlesng35/weddingrsvp/pkg/logger"
)

// Page renders a static HTML page.
func Page(name, title string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, name, gin.H{"Title": title})
	}
}

// LoginPage renders the sign-in form, keeping the gate's redirect target.
func LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Title":    "Sign in",
		"Redirect": middleware.SafeRedirect(c.Query("redirect")),
	})
}

// ResetPasswordPage renders the new-password form. Without a token only an error is shown.
func ResetPasswordPage(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	data := gin.H{"Title": "Choose a new password", "Token": token}
	if token == "" {
		data["Error"] = "This password reset link is invalid or incomplete. Request a new one."
	}
	c.HTML(http.StatusOK, "reset_password.html", data)
}

// NotFoundPage renders the HTML 404 view.
func NotFoundPage(c *gin.Context) {
	renderNotFound(c, "The page you are looking for does not exist.")
}

func renderNotFound(c *gin.Context, message string) {
	c.HTML(http.StatusNotFound, "not_found.html", gin.H{
		"Title":   "Not found",
		"Message": message,
	})
}

func renderError(c *gin.Context, err error) {
	logger.WithModule("http").Error("page failed",
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)
	c.HTML(http.StatusInternalServerError, "error.html", gin.H{"Title": "Something went wrong"})
}

func formatDate(date datatypes.Date) string {
	return time.Time(date).UTC().Format("Monday, January 2, 2006")
}
