package models

import "time"

// User is a couple account. Email is the login identity and never changes after sign-up.
type User struct {
	BaseModel

	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	FullName string `json:"full_name"`

	Wedding  *Wedding  `gorm:"foreignKey:UserID" json:"wedding,omitempty"`
	Sessions []Session `gorm:"foreignKey:UserID" json:"-"`

	LastLoginAt *time.Time `json:"last_login_at"`
	LastLoginIP string     `json:"-"`
}
