package services

import (
	"strings"

	"github.com/charlesng35/weddingrsvp/internal/models"
	"github.com/charlesng35/weddingrsvp/pkg/validator"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

func init() {
	if err := validator.RegisterEnum("mealchoice", models.MealChoices...); err != nil {
		panic(err)
	}
	if err := validator.RegisterEnum("fontchoice", models.FontChoices...); err != nil {
		panic(err)
	}
}

// WeddingForm carries the editable wedding details from the settings page.
type WeddingForm struct {
	Title       string `json:"title" validate:"required,max=200"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Location    string `json:"location" validate:"required,max=300"`
	Description string `json:"description" validate:"max=2000"`
}

func (f *WeddingForm) Normalize() {
	f.Title = strings.TrimSpace(f.Title)
	f.Date = strings.TrimSpace(f.Date)
	f.Location = strings.TrimSpace(f.Location)
	f.Description = strings.TrimSpace(f.Description)
}

// ProfileForm updates the mutable part of a user's profile. Email is immutable.
type ProfileForm struct {
	FullName string `json:"full_name" validate:"required,max=200"`
}

func (f *ProfileForm) Normalize() {
	f.FullName = strings.TrimSpace(f.FullName)
}

// GuestForm adds a guest to the caller's wedding.
type GuestForm struct {
	Name           string `json:"name" validate:"required,max=200"`
	Email          string `json:"email" validate:"omitempty,email"`
	Phone          string `json:"phone" validate:"max=50"`
	PlusOneAllowed bool   `json:"plus_one_allowed"`
	GroupID        string `json:"group_id" validate:"max=100"`
}

func (f *GuestForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = strings.TrimSpace(f.Phone)
	f.GroupID = strings.TrimSpace(f.GroupID)
}

// EventForm schedules an event. Date and time are entered separately and merged.
type EventForm struct {
	Name        string `json:"name" validate:"required,max=200"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"omitempty,datetime=15:04"`
	EndDate     string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	EndTime     string `json:"end_time" validate:"omitempty,datetime=15:04"`
	Location    string `json:"location" validate:"required,max=300"`
	Description string `json:"description" validate:"max=2000"`
}

func (f *EventForm) Normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Date = strings.TrimSpace(f.Date)
	f.Time = strings.TrimSpace(f.Time)
	f.EndDate = strings.TrimSpace(f.EndDate)
	f.EndTime = strings.TrimSpace(f.EndTime)
	f.Location = strings.TrimSpace(f.Location)
	f.Description = strings.TrimSpace(f.Description)
}

// InvitationForm saves the invitation design.
type InvitationForm struct {
	TemplateID    string `json:"template_id" validate:"required"`
	CustomMessage string `json:"custom_message" validate:"max=2000"`
	AccentColor   string `json:"accent_color" validate:"required,hexcolor"`
	FontChoice    string `json:"font_choice" validate:"required,fontchoice"`
	Slug          string `json:"slug" validate:"required,max=64"`
}

func (f *InvitationForm) Normalize() {
	f.TemplateID = strings.TrimSpace(f.TemplateID)
	f.CustomMessage = strings.TrimSpace(f.CustomMessage)
	f.AccentColor = strings.TrimSpace(f.AccentColor)
	f.FontChoice = strings.TrimSpace(f.FontChoice)
	f.Slug = strings.TrimSpace(f.Slug)
	if f.AccentColor == "" {
		f.AccentColor = models.DefaultAccentColor
	}
	if f.FontChoice == "" {
		f.FontChoice = models.DefaultFontChoice
	}
}

// RSVPForm is a guest's response. Guest holds the token from the invitation link.
type RSVPForm struct {
	Guest             string `json:"guest" validate:"required"`
	Attending         *bool  `json:"attending" validate:"required"`
	MealChoice        string `json:"meal_choice" validate:"mealchoice"`
	PlusOneName       string `json:"plus_one_name" validate:"max=200"`
	PlusOneMealChoice string `json:"plus_one_meal_choice" validate:"mealchoice"`
	Notes             string `json:"notes" validate:"max=2000"`
}

func (f *RSVPForm) Normalize() {
	f.Guest = strings.TrimSpace(f.Guest)
	f.MealChoice = strings.ToLower(strings.TrimSpace(f.MealChoice))
	f.PlusOneName = strings.TrimSpace(f.PlusOneName)
	f.PlusOneMealChoice = strings.ToLower(strings.TrimSpace(f.PlusOneMealChoice))
	f.Notes = strings.TrimSpace(f.Notes)

	if f.Attending != nil && !*f.Attending {
		f.MealChoice = ""
		f.PlusOneName = ""
		f.PlusOneMealChoice = ""
	}
	if f.PlusOneName == "" {
		f.PlusOneMealChoice = ""
	}
}

// hasPlusOne reports whether the form carries any plus-one detail.
func (f RSVPForm) hasPlusOne() bool {
	return f.PlusOneName != "" || f.PlusOneMealChoice != ""
}
