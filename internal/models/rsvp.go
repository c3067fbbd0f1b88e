package models

// RSVP is a guest's response. GuestID is unique so a guest has at most one row.
type RSVP struct {
	BaseModel

	GuestID           string  `gorm:"type:uuid;not null;uniqueIndex" json:"guest_id"`
	Attending         *bool   `json:"attending"`
	MealChoice        *string `json:"meal_choice"`
	PlusOneName       *string `json:"plus_one_name"`
	PlusOneMealChoice *string `json:"plus_one_meal_choice"`
	Notes             *string `json:"notes"`
}

func (RSVP) TableName() string {
	return "rsvps"
}
