package models

import "time"

// Subtask is a single step under a task.
type Subtask struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	TaskID      uint      `gorm:"index" json:"task_id"`
	Title       string    `gorm:"type:varchar(255)" json:"title"`
	IsCompleted bool      `gorm:"default:false" json:"is_completed"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
