package models

import (
	"time"
)

// User is the account model. The password hash never serializes.
type User struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	Name            string     `gorm:"type:varchar(255)" json:"name"`
	Email           string     `gorm:"type:varchar(255);uniqueIndex" json:"email"`
	Password        string     `gorm:"type:varchar(255)" json:"-"`
	EmailVerifiedAt *time.Time `json:"email_verified_at"`
	FCMToken        string     `gorm:"type:varchar(255)" json:"-"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Tokens []PersonalAccessToken `json:"-"`
	Tasks  []Task                `json:"-"`
}
