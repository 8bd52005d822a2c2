package models

import "time"

// LearningMilestone is a checkpoint on a learning path that tasks can attach to.
type LearningMilestone struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	UserID         uint      `gorm:"index" json:"user_id"`
	LearningPathID *uint     `json:"learning_path_id"`
	Title          string    `gorm:"type:varchar(255)" json:"title"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
