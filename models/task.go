package models

import (
	"time"
)

// Task categories.
const (
	CategoryStudy    = "study"
	CategoryWork     = "work"
	CategoryPersonal = "personal"
	CategoryOther    = "other"
)

// Energy levels.
const (
	EnergyLow    = "low"
	EnergyMedium = "medium"
	EnergyHigh   = "high"
)

// StatusPending is the status every task starts in.
const StatusPending = "pending"

// Task is owned by exactly one user; all queries scope on UserID.
type Task struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	UserID              uint      `gorm:"index" json:"user_id"`
	ProjectID           *uint     `json:"project_id"`
	LearningMilestoneID *uint     `json:"learning_milestone_id"`
	Title               string    `gorm:"type:varchar(255)" json:"title"`
	Category            string    `gorm:"type:varchar(20);default:other" json:"category"`
	Description         string    `gorm:"type:text" json:"description"`
	Priority            int       `json:"priority"` // 1-5
	EnergyLevel         string    `gorm:"type:varchar(10)" json:"energy_level"`
	EstimatedMinutes    *int      `json:"estimated_minutes"`
	Deadline            *DateOnly `json:"deadline"`
	ScheduledTime       *string   `gorm:"type:time" json:"scheduled_time"` // HH:MM:SS
	Status              string    `gorm:"type:varchar(20);default:pending" json:"status"`
	AIBreakdownEnabled  bool      `gorm:"default:false" json:"ai_breakdown_enabled"`

	// Focus attributes
	RequiresDeepFocus  bool       `gorm:"default:false" json:"requires_deep_focus"`
	AllowInterruptions bool       `gorm:"default:true" json:"allow_interruptions"`
	FocusDifficulty    int        `gorm:"default:3" json:"focus_difficulty"` // 1-5
	WarmupMinutes      *int       `json:"warmup_minutes"`
	CooldownMinutes    *int       `json:"cooldown_minutes"`
	RecoveryMinutes    *int       `json:"recovery_minutes"`
	LastFocusAt        *time.Time `json:"last_focus_at"`
	TotalFocusMinutes  int        `gorm:"default:0" json:"total_focus_minutes"`
	DistractionCount   int        `gorm:"default:0" json:"distraction_count"`

	// Abandonment tracking
	LastActiveAt     *time.Time `json:"last_active_at"`
	IsAbandoned      bool       `gorm:"default:false" json:"is_abandoned"`
	AbandonmentCount int        `gorm:"default:0" json:"abandonment_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Project           *Project           `json:"project"`
	LearningMilestone *LearningMilestone `json:"learning_milestone"`
	Subtasks          []Subtask          `json:"subtasks"`
	Tags              []Tag              `gorm:"many2many:task_tag" json:"tags"`
	FocusSessions     []FocusSession     `json:"focus_sessions,omitempty"`
}

// ValidCategory reports whether c is one of the task categories.
func ValidCategory(c string) bool {
	switch c {
	case CategoryStudy, CategoryWork, CategoryPersonal, CategoryOther:
		return true
	}
	return false
}

// ValidEnergyLevel reports whether e is one of the energy levels.
func ValidEnergyLevel(e string) bool {
	switch e {
	case EnergyLow, EnergyMedium, EnergyHigh:
		return true
	}
	return false
}
