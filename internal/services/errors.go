package services

import (
	"context"
	"errors"
)

var (
	// ErrWeddingRequired is returned when the caller has not created a wedding yet.
	ErrWeddingRequired = errors.New("services: wedding required")
	// ErrGuestNotFound indicates the guest does not exist within the caller's wedding.
	ErrGuestNotFound = errors.New("services: guest not found")
	// ErrEventNotFound indicates the event does not exist within the caller's wedding.
	ErrEventNotFound = errors.New("services: event not found")
	// ErrInvitationNotFound indicates no invitation resolves for the request.
	ErrInvitationNotFound = errors.New("services: invitation not found")
	// ErrTemplateNotFound indicates the template id is not part of the catalog.
	ErrTemplateNotFound = errors.New("services: template not found")
	// ErrSlugTaken indicates another invitation already uses the slug.
	ErrSlugTaken = errors.New("services: slug already in use")
	// ErrInvalidSlug indicates the slug cannot be used in an invitation URL.
	ErrInvalidSlug = errors.New("services: invalid slug")
	// ErrAttendanceRequired is returned when an RSVP omits the attendance choice.
	ErrAttendanceRequired = errors.New("services: attendance is required")
	// ErrPlusOneNotAllowed is returned when plus-one details are sent for a guest without the allowance.
	ErrPlusOneNotAllowed = errors.New("services: plus-one not allowed for this guest")
	// ErrInvalidEventTime is returned when an event ends before it starts.
	ErrInvalidEventTime = errors.New("services: event ends before it starts")
	// ErrUserNotFound indicates the authenticated user no longer exists.
	ErrUserNotFound = errors.New("services: user not found")
)

func ensuredContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
