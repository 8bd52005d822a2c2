package models

import "time"

// PersonalAccessToken is an opaque bearer credential. Only the SHA-256 of the
// random part is stored; the plaintext handed to clients is "<id>|<random>".
type PersonalAccessToken struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"index" json:"user_id"`
	Name       string     `gorm:"type:varchar(100)" json:"name"`
	Token      string     `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (PersonalAccessToken) TableName() string {
	return "personal_access_tokens"
}
