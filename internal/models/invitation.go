package models

// InvitationTemplate is seeded reference data listing the available designs.
type InvitationTemplate struct {
	BaseModel

	Name         string  `gorm:"not null;uniqueIndex" json:"name"`
	Description  *string `json:"description"`
	ThumbnailURL *string `json:"thumbnail_url"`
	IsPremium    bool    `gorm:"not null;default:false" json:"is_premium"`
}

// Invitation is the published, slug-addressed design of a wedding.
type Invitation struct {
	BaseModel

	WeddingID     string              `gorm:"type:uuid;not null;uniqueIndex" json:"wedding_id"`
	TemplateID    string              `gorm:"type:uuid;not null;index" json:"template_id"`
	Template      *InvitationTemplate `gorm:"foreignKey:TemplateID" json:"template,omitempty"`
	CustomMessage *string             `json:"custom_message"`
	AccentColor   string              `gorm:"not null" json:"accent_color"`
	FontChoice    string              `gorm:"not null" json:"font_choice"`
	Slug          string              `gorm:"not null;uniqueIndex" json:"slug"`
}

const (
	DefaultAccentColor = "#8B4513"
	DefaultFontChoice  = "Playfair Display"
)

// FontChoices lists the typefaces an invitation may use, default first.
var FontChoices = []string{
	"Playfair Display",
	"Montserrat",
	"Roboto",
	"Lato",
	"Dancing Script",
	"Great Vibes",
}

// MealChoices lists the meal options offered to guests and their plus-ones.
var MealChoices = []string{"beef", "chicken", "fish", "vegetarian", "vegan"}
