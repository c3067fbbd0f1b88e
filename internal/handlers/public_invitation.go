package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/charlesng35/weddingrsvp/internal/models"
	"github.com/charlesng35/weddingrsvp/internal/services"
	"github.com/charlesng35/weddingrsvp/pkg/response"
)

// PublicInvitationHandler renders shared invitations and records guest RSVPs.
type PublicInvitationHandler struct {
	svc *services.RSVPService
}

func NewPublicInvitationHandler(svc *services.RSVPService) *PublicInvitationHandler {
	return &PublicInvitationHandler{svc: svc}
}

type invitationPage struct {
	Title        string
	Slug         string
	Token        string
	DateLabel    string
	Location     string
	Description  string
	Message      string
	AccentColor  string
	FontChoice   string
	TemplateName string
	Events       []eventView
	Guest        *guestView
	Meals        []mealOption
	SubmitPath   string
}

type eventView struct {
	Name        string
	When        string
	Location    string
	Description string
}

type guestView struct {
	Name              string
	PlusOneAllowed    bool
	Responded         bool
	AttendingYes      bool
	AttendingNo       bool
	MealChoice        string
	PlusOneName       string
	PlusOneMealChoice string
	Notes             string
}

type mealOption struct {
	Value string
	Label string
}

// GET /invitation/:slug?guest=
func (h *PublicInvitationHandler) Page(c *gin.Context) {
	slug := c.Param("slug")
	page, err := h.svc.Resolve(requestContext(c), slug, c.Query("guest"))
	if err != nil {
		if errors.Is(err, services.ErrInvitationNotFound) {
			renderNotFound(c, "We couldn't find that invitation. Please check the link you were sent.")
			return
		}
		renderError(c, err)
		return
	}

	c.HTML(http.StatusOK, "invitation.html", buildInvitationPage(page, c.Query("guest")))
}

// GET /api/public/invitations/:slug?guest=
func (h *PublicInvitationHandler) Get(c *gin.Context) {
	page, err := h.svc.Resolve(requestContext(c), c.Param("slug"), c.Query("guest"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, page)
}

// POST /api/public/invitations/:slug/rsvp
func (h *PublicInvitationHandler) Submit(c *gin.Context) {
	var form services.RSVPForm
	if !bindAndValidate(c, &form) {
		return
	}

	rsvp, err := h.svc.Submit(requestContext(c), c.Param("slug"), form)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, rsvp)
}

func buildInvitationPage(page *services.PublicInvitation, token string) invitationPage {
	view := invitationPage{
		Title:       page.Wedding.Title,
		Slug:        page.Invitation.Slug,
		DateLabel:   formatDate(page.Wedding.Date),
		Location:    page.Wedding.Location,
		Description: deref(page.Wedding.Description),
		Message:     deref(page.Invitation.CustomMessage),
		AccentColor: page.Invitation.AccentColor,
		FontChoice:  page.Invitation.FontChoice,
		SubmitPath:  "/api/public/invitations/" + page.Invitation.Slug + "/rsvp",
	}
	if page.Invitation.Template != nil {
		view.TemplateName = page.Invitation.Template.Name
	}

	for _, event := range page.Events {
		view.Events = append(view.Events, eventView{
			Name:        event.Name,
			When:        formatEventTime(event),
			Location:    event.Location,
			Description: deref(event.Description),
		})
	}

	for _, meal := range page.MealChoices {
		view.Meals = append(view.Meals, mealOption{Value: meal, Label: capitalise(meal)})
	}

	if page.Guest != nil {
		view.Token = strings.TrimSpace(token)
		guest := &guestView{Name: page.Guest.Name, PlusOneAllowed: page.Guest.PlusOneAllowed}
		if rsvp := page.Guest.RSVP; rsvp != nil {
			guest.Responded = rsvp.Attending != nil
			guest.AttendingYes = rsvp.Attending != nil && *rsvp.Attending
			guest.AttendingNo = rsvp.Attending != nil && !*rsvp.Attending
			guest.MealChoice = deref(rsvp.MealChoice)
			guest.PlusOneName = deref(rsvp.PlusOneName)
			guest.PlusOneMealChoice = deref(rsvp.PlusOneMealChoice)
			guest.Notes = deref(rsvp.Notes)
		}
		view.Guest = guest
	}

	return view
}

func formatEventTime(event models.Event) string {
	start := event.Date.UTC()
	label := start.Format("Monday, January 2 · 3:04 PM")
	if event.EndDate == nil {
		return label
	}
	end := event.EndDate.UTC()
	if end.Format("2006-01-02") == start.Format("2006-01-02") {
		return label + " – " + end.Format("3:04 PM")
	}
	return label + " – " + end.Format("Monday, January 2 · 3:04 PM")
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func capitalise(value string) string {
	if value == "" {
		return value
	}
	return strings.ToUpper(value[:1]) + value[1:]
}
