package models

import (
	"regexp"
	"time"
	"unicode"
)

// ValidationErrors maps a field name to its failure messages.
type ValidationErrors map[string][]string

func (v ValidationErrors) add(field, message string) {
	v[field] = append(v[field], message)
}

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate applies the registration rules. Email uniqueness is checked by the
// service, which merges its message into the same map.
func (r *RegisterRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}

	if r.Name == "" {
		errs.add("name", "name is required")
	} else if len(r.Name) < 2 {
		errs.add("name", "name must be at least 2 characters")
	} else if len(r.Name) > 255 {
		errs.add("name", "name must not exceed 255 characters")
	}

	if r.Email == "" {
		errs.add("email", "email is required")
	} else if len(r.Email) > 255 || !emailPattern.MatchString(r.Email) {
		errs.add("email", "email format is invalid")
	}

	if r.Password == "" {
		errs.add("password", "password is required")
	} else {
		if len(r.Password) < 8 {
			errs.add("password", "password must be at least 8 characters")
		}
		if !passwordMeetsPolicy(r.Password) {
			errs.add("password", "password must contain an uppercase letter, a lowercase letter and a digit")
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// passwordMeetsPolicy scans for the required character classes; Go's regexp
// has no lookahead.
func passwordMeetsPolicy(password string) bool {
	var lower, upper, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}

// LoginRequest is the body of POST /api/login. No strength check on login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}

	if r.Email == "" {
		errs.add("email", "email is required")
	} else if !emailPattern.MatchString(r.Email) {
		errs.add("email", "email format is invalid")
	}

	if r.Password == "" {
		errs.add("password", "password is required")
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// FCMTokenRequest is the body of POST /api/user/fcm-token.
type FCMTokenRequest struct {
	FCMToken string `json:"fcm_token"`
}

func (r *FCMTokenRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if r.FCMToken == "" {
		errs.add("fcm_token", "fcm_token is required")
	} else if len(r.FCMToken) > 255 {
		errs.add("fcm_token", "fcm_token must not exceed 255 characters")
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// CreateTaskRequest is the body of POST /api/tasks. Pointer fields distinguish
// "absent" from zero values so defaults only apply when a field was omitted.
type CreateTaskRequest struct {
	Title               string  `json:"title"`
	Category            *string `json:"category"`
	Description         *string `json:"description"`
	Priority            *int    `json:"priority"`
	EnergyLevel         string  `json:"energy_level"`
	EstimatedMinutes    *int    `json:"estimated_minutes"`
	Deadline            *string `json:"deadline"`       // YYYY-MM-DD
	ScheduledTime       *string `json:"scheduled_time"` // HH:MM:SS
	ProjectID           *uint   `json:"project_id"`
	LearningMilestoneID *uint   `json:"learning_milestone_id"`
	TagIDs              []uint  `json:"tag_ids"`

	RequiresDeepFocus  *bool `json:"requires_deep_focus"`
	AllowInterruptions *bool `json:"allow_interruptions"`
	FocusDifficulty    *int  `json:"focus_difficulty"`
	WarmupMinutes      *int  `json:"warmup_minutes"`
	CooldownMinutes    *int  `json:"cooldown_minutes"`
	RecoveryMinutes    *int  `json:"recovery_minutes"`
}

// Validate applies the field rules; reference checks (tags, project, milestone)
// belong to the service since they need the database. All bounds are inclusive.
func (r *CreateTaskRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}

	if r.Title == "" {
		errs.add("title", "title is required")
	} else if len(r.Title) > 255 {
		errs.add("title", "title must not exceed 255 characters")
	}

	if r.Category != nil && !ValidCategory(*r.Category) {
		errs.add("category", "category must be one of: study, work, personal, other")
	}

	if r.Description != nil && len(*r.Description) > 1000 {
		errs.add("description", "description must not exceed 1000 characters")
	}

	if r.Priority == nil {
		errs.add("priority", "priority is required")
	} else if *r.Priority < 1 || *r.Priority > 5 {
		errs.add("priority", "priority must be between 1 and 5")
	}

	if r.EnergyLevel == "" {
		errs.add("energy_level", "energy_level is required")
	} else if !ValidEnergyLevel(r.EnergyLevel) {
		errs.add("energy_level", "energy_level must be one of: low, medium, high")
	}

	validateTaskBounds(r.EstimatedMinutes, r.FocusDifficulty,
		r.WarmupMinutes, r.CooldownMinutes, r.RecoveryMinutes, errs)
	validateTaskTimes(r.Deadline, r.ScheduledTime, errs)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

// UpdateTaskRequest is the body of PUT/PATCH /api/tasks/{id}. Every field is
// optional; only present fields are validated and applied.
type UpdateTaskRequest struct {
	Title               *string `json:"title"`
	Category            *string `json:"category"`
	Description         *string `json:"description"`
	Priority            *int    `json:"priority"`
	EnergyLevel         *string `json:"energy_level"`
	EstimatedMinutes    *int    `json:"estimated_minutes"`
	Deadline            *string `json:"deadline"`
	ScheduledTime       *string `json:"scheduled_time"`
	ProjectID           *uint   `json:"project_id"`
	LearningMilestoneID *uint   `json:"learning_milestone_id"`
	TagIDs              []uint  `json:"tag_ids"`
	Status              *string `json:"status"`

	RequiresDeepFocus  *bool `json:"requires_deep_focus"`
	AllowInterruptions *bool `json:"allow_interruptions"`
	FocusDifficulty    *int  `json:"focus_difficulty"`
	WarmupMinutes      *int  `json:"warmup_minutes"`
	CooldownMinutes    *int  `json:"cooldown_minutes"`
	RecoveryMinutes    *int  `json:"recovery_minutes"`
}

func (r *UpdateTaskRequest) Validate() ValidationErrors {
	errs := ValidationErrors{}

	if r.Title != nil {
		if *r.Title == "" {
			errs.add("title", "title must not be empty")
		} else if len(*r.Title) > 255 {
			errs.add("title", "title must not exceed 255 characters")
		}
	}

	if r.Category != nil && !ValidCategory(*r.Category) {
		errs.add("category", "category must be one of: study, work, personal, other")
	}

	if r.Description != nil && len(*r.Description) > 1000 {
		errs.add("description", "description must not exceed 1000 characters")
	}

	if r.Priority != nil && (*r.Priority < 1 || *r.Priority > 5) {
		errs.add("priority", "priority must be between 1 and 5")
	}

	if r.EnergyLevel != nil && !ValidEnergyLevel(*r.EnergyLevel) {
		errs.add("energy_level", "energy_level must be one of: low, medium, high")
	}

	validateTaskBounds(r.EstimatedMinutes, r.FocusDifficulty,
		r.WarmupMinutes, r.CooldownMinutes, r.RecoveryMinutes, errs)
	validateTaskTimes(r.Deadline, r.ScheduledTime, errs)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validateTaskBounds(estimated, difficulty, warmup, cooldown, recovery *int, errs ValidationErrors) {
	if estimated != nil && (*estimated < 1 || *estimated > 600) {
		errs.add("estimated_minutes", "estimated_minutes must be between 1 and 600")
	}
	if difficulty != nil && (*difficulty < 1 || *difficulty > 5) {
		errs.add("focus_difficulty", "focus_difficulty must be between 1 and 5")
	}
	if warmup != nil && (*warmup < 0 || *warmup > 60) {
		errs.add("warmup_minutes", "warmup_minutes must be between 0 and 60")
	}
	if cooldown != nil && (*cooldown < 0 || *cooldown > 60) {
		errs.add("cooldown_minutes", "cooldown_minutes must be between 0 and 60")
	}
	if recovery != nil && (*recovery < 0 || *recovery > 120) {
		errs.add("recovery_minutes", "recovery_minutes must be between 0 and 120")
	}
}

func validateTaskTimes(deadline, scheduledTime *string, errs ValidationErrors) {
	// Past deadlines are allowed on purpose (backfilling old tasks).
	if deadline != nil {
		if _, err := ParseDateOnly(*deadline); err != nil {
			errs.add("deadline", "deadline must be a date in YYYY-MM-DD format")
		}
	}
	if scheduledTime != nil {
		if _, err := time.Parse("15:04:05", *scheduledTime); err != nil {
			errs.add("scheduled_time", "scheduled_time must be a time in HH:MM:SS format")
		}
	}
}
