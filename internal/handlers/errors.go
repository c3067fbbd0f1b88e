package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	iauth "github.com/charlesng35/weddingrsvp/internal/auth"
	"github.com/charlesng35/weddingrsvp/internal/services"
	appErrors "github.com/charlesng35/weddingrsvp/pkg/errors"
	"github.com/charlesng35/weddingrsvp/pkg/logger"
	"github.com/charlesng35/weddingrsvp/pkg/response"
)

var serviceErrors = []struct {
	err    error
	appErr *appErrors.AppError
}{
	{services.ErrWeddingRequired, appErrors.ErrWeddingRequired},
	{services.ErrGuestNotFound, appErrors.ErrNotFound.WithMessage("Guest not found")},
	{services.ErrEventNotFound, appErrors.ErrNotFound.WithMessage("Event not found")},
	{services.ErrInvitationNotFound, appErrors.ErrNotFound.WithMessage("Invitation not found")},
	{services.ErrUserNotFound, appErrors.ErrNotFound.WithMessage("User not found")},
	{services.ErrTemplateNotFound, appErrors.NewBadRequest("template_id does not reference an available template")},
	{services.ErrSlugTaken, appErrors.ErrConflict.WithMessage("This invitation URL is already taken")},
	{services.ErrInvalidSlug, appErrors.NewBadRequest("slug must be 3-64 lowercase letters, digits or hyphens")},
	{services.ErrAttendanceRequired, appErrors.NewBadRequest("Please let us know whether you can attend")},
	{services.ErrPlusOneNotAllowed, appErrors.NewBadRequest("This invitation does not include a plus-one")},
	{services.ErrInvalidEventTime, appErrors.NewBadRequest("end must not be before the start")},
	{iauth.ErrInvalidCredentials, appErrors.ErrInvalidCredentials},
	// Duplicate addresses get a generic message so registration does not reveal accounts.
	{iauth.ErrEmailTaken, appErrors.NewBadRequest("Unable to create an account with these details")},
	{iauth.ErrResetTokenInvalid, appErrors.ErrInvalidResetToken},
	{iauth.ErrUserNotFound, appErrors.ErrUnauthorized},
	{iauth.ErrSessionNotFound, appErrors.ErrUnauthorized},
	{iauth.ErrSessionRevoked, appErrors.ErrUnauthorized},
	{iauth.ErrSessionExpired, appErrors.ErrUnauthorized},
	{iauth.ErrSessionInvalidToken, appErrors.ErrUnauthorized},
}

// toAppError maps domain errors to their client-facing form. Unknown errors become 500s.
func toAppError(err error) *appErrors.AppError {
	var appErr *appErrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	for _, candidate := range serviceErrors {
		if errors.Is(err, candidate.err) {
			return candidate.appErr
		}
	}
	return appErrors.ErrInternalServer.WithInternal(err)
}

// writeError renders err and logs anything that surfaced as an internal error.
func writeError(c *gin.Context, err error) {
	appErr := toAppError(err)
	if appErr.StatusCode >= 500 {
		logger.WithModule("http").Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	response.Error(c, appErr)
}
