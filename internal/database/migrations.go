package database

import (
	"gorm.io/gorm"

	"github.com/charlesng35/weddingrsvp/internal/models"
)

// AutoMigrate creates or updates the database schema for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.PasswordResetToken{},
		&models.CacheEntry{},
		&models.SystemSetting{},
		&models.Wedding{},
		&models.Event{},
		&models.Guest{},
		&models.RSVP{},
		&models.InvitationTemplate{},
		&models.Invitation{},
	)
}

// Seeded template ids are fixed so existing invitations keep pointing at them across restarts.
const (
	TemplateClassicID   = "6f0c2d3e-7f4b-4b8e-9a51-0c1e2a3b4c01"
	TemplateModernID    = "6f0c2d3e-7f4b-4b8e-9a51-0c1e2a3b4c02"
	TemplateRusticID    = "6f0c2d3e-7f4b-4b8e-9a51-0c1e2a3b4c03"
	TemplateBotanicalID = "6f0c2d3e-7f4b-4b8e-9a51-0c1e2a3b4c04"
)

func strPtr(v string) *string { return &v }

// DefaultTemplates is the invitation template catalog inserted by SeedData.
func DefaultTemplates() []models.InvitationTemplate {
	return []models.InvitationTemplate{
		{
			BaseModel:    models.BaseModel{ID: TemplateClassicID},
			Name:         "Classic Elegance",
			Description:  strPtr("Timeless serif typography on an ivory card"),
			ThumbnailURL: strPtr("/static/templates/classic.png"),
		},
		{
			BaseModel:    models.BaseModel{ID: TemplateModernID},
			Name:         "Modern Minimal",
			Description:  strPtr("Clean lines and generous whitespace"),
			ThumbnailURL: strPtr("/static/templates/modern.png"),
		},
		{
			BaseModel:    models.BaseModel{ID: TemplateRusticID},
			Name:         "Rustic Garden",
			Description:  strPtr("Kraft paper textures with hand-drawn florals"),
			ThumbnailURL: strPtr("/static/templates/rustic.png"),
		},
		{
			BaseModel:    models.BaseModel{ID: TemplateBotanicalID},
			Name:         "Botanical Luxe",
			Description:  strPtr("Watercolour greenery with gold foil accents"),
			ThumbnailURL: strPtr("/static/templates/botanical.png"),
			IsPremium:    true,
		},
	}
}

// SeedData populates the invitation template catalog. It is idempotent.
func SeedData(db *gorm.DB) error {
	for _, tpl := range DefaultTemplates() {
		if err := db.Where(models.InvitationTemplate{BaseModel: models.BaseModel{ID: tpl.ID}}).
			Attrs(tpl).
			FirstOrCreate(&models.InvitationTemplate{}).Error; err != nil {
			return err
		}
	}
	return nil
}
