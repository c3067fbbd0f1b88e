package models

// Guest is an invitee of a wedding. RSVPToken is the unguessable value carried
// in a guest's personal invitation link and is the only way a guest is identified.
type Guest struct {
	BaseModel

	WeddingID      string  `gorm:"type:uuid;not null;index" json:"wedding_id"`
	Name           string  `gorm:"not null;index" json:"name"`
	Email          *string `json:"email"`
	Phone          *string `json:"phone"`
	PlusOneAllowed bool    `gorm:"not null;default:false" json:"plus_one_allowed"`
	GroupID        *string `json:"group_id"`
	InvitationSent bool    `gorm:"not null;default:false" json:"invitation_sent"`
	RSVPToken      string  `gorm:"column:rsvp_token;uniqueIndex;not null" json:"rsvp_token"`

	RSVP *RSVP `gorm:"foreignKey:GuestID;constraint:OnDelete:CASCADE" json:"rsvp,omitempty"`
}
