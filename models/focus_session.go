package models

import "time"

// FocusSession records one interval of sustained work on a task.
type FocusSession struct {
	ID               uint       `gorm:"primaryKey" json:"id"`
	TaskID           uint       `gorm:"index" json:"task_id"`
	UserID           uint       `gorm:"index" json:"user_id"`
	StartedAt        time.Time  `gorm:"index" json:"started_at"`
	EndedAt          *time.Time `json:"ended_at"`
	DurationMinutes  int        `gorm:"default:0" json:"duration_minutes"`
	DistractionCount int        `gorm:"default:0" json:"distraction_count"`
	CreatedAt        time.Time  `json:"created_at"`
}
