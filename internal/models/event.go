package models

import "time"

// Event is one scheduled part of the celebration (ceremony, reception, ...).
type Event struct {
	BaseModel

	WeddingID   string     `gorm:"type:uuid;not null;index" json:"wedding_id"`
	Name        string     `gorm:"not null" json:"name"`
	Date        time.Time  `gorm:"not null;index" json:"date"`
	EndDate     *time.Time `json:"end_date"`
	Location    string     `gorm:"not null" json:"location"`
	Description *string    `json:"description"`
}
