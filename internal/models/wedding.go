package models

import "gorm.io/datatypes"

// Wedding is the root of a couple's workspace. Each user owns at most one.
type Wedding struct {
	BaseModel

	UserID      string         `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Title       string         `gorm:"not null" json:"title"`
	Date        datatypes.Date `gorm:"not null" json:"date"`
	Location    string         `gorm:"not null" json:"location"`
	Description *string        `json:"description"`

	Events     []Event     `gorm:"foreignKey:WeddingID;constraint:OnDelete:CASCADE" json:"-"`
	Guests     []Guest     `gorm:"foreignKey:WeddingID;constraint:OnDelete:CASCADE" json:"-"`
	Invitation *Invitation `gorm:"foreignKey:WeddingID;constraint:OnDelete:CASCADE" json:"-"`
}
