package models

import "time"

// Tag labels tasks; the task_tag join table carries the many-to-many.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100)" json:"name"`
	Color     string    `gorm:"type:varchar(20)" json:"color"`
	CreatedAt time.Time `json:"created_at"`

	Tasks []Task `gorm:"many2many:task_tag" json:"-"`
}
