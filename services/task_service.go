package services

import (
	"context"
	"errors"

	"github.com/tringuyenminh209/Kizamu/config"
	"github.com/tringuyenminh209/Kizamu/models"
	"gorm.io/gorm"
)

// TaskService owns validation and owner-scoped CRUD for tasks.
type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

// Create validates the payload, then inserts the task and its tag associations
// in one transaction. Either everything persists or nothing does.
func (s *TaskService) Create(ctx context.Context, userID uint, req *models.CreateTaskRequest) (*models.Task, error) {
	errs := req.Validate()
	if errs == nil {
		errs = models.ValidationErrors{}
	}
	if err := s.checkReferences(ctx, req.TagIDs, req.ProjectID, req.LearningMilestoneID, errs); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		config.Logger.Errorw("task validation failed",
			"userID", userID,
			"errors", errs,
			"input", req,
		)
		return nil, &ValidationError{Fields: errs}
	}

	task := models.Task{
		UserID:              userID,
		ProjectID:           req.ProjectID,
		LearningMilestoneID: req.LearningMilestoneID,
		Title:               req.Title,
		Category:            models.CategoryOther,
		Priority:            *req.Priority,
		EnergyLevel:         req.EnergyLevel,
		EstimatedMinutes:    req.EstimatedMinutes,
		ScheduledTime:       req.ScheduledTime,
		Status:              models.StatusPending,
		AIBreakdownEnabled:  false,
		RequiresDeepFocus:   false,
		AllowInterruptions:  true,
		FocusDifficulty:     3,
		WarmupMinutes:       req.WarmupMinutes,
		CooldownMinutes:     req.CooldownMinutes,
		RecoveryMinutes:     req.RecoveryMinutes,
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Deadline != nil {
		d, _ := models.ParseDateOnly(*req.Deadline) // validated above
		task.Deadline = &d
	}
	if req.RequiresDeepFocus != nil {
		task.RequiresDeepFocus = *req.RequiresDeepFocus
	}
	if req.AllowInterruptions != nil {
		task.AllowInterruptions = *req.AllowInterruptions
	}
	if req.FocusDifficulty != nil {
		task.FocusDifficulty = *req.FocusDifficulty
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		if len(req.TagIDs) > 0 {
			var tags []models.Tag
			if err := tx.Where("id IN ?", req.TagIDs).Find(&tags).Error; err != nil {
				return err
			}
			if err := tx.Model(&task).Association("Tags").Append(&tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		config.Logger.Errorw("task creation failed",
			"userID", userID,
			"error", err,
		)
		return nil, ErrServer
	}

	return s.reload(ctx, task.ID)
}

// Get fetches one task scoped to its owner. A task owned by someone else is
// indistinguishable from a missing one.
func (s *TaskService) Get(ctx context.Context, userID, id uint) (*models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).
		Preload("Project").
		Preload("LearningMilestone").
		Preload("Subtasks").
		Preload("Tags").
		Preload("FocusSessions", func(db *gorm.DB) *gorm.DB {
			return db.Order("started_at DESC").Limit(10)
		}).
		Where("user_id = ?", userID).
		First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		config.Logger.Errorw("task fetch failed", "userID", userID, "taskID", id, "error", err)
		return nil, ErrServer
	}
	return &task, nil
}

// List returns the owner's tasks, newest first, optionally filtered by status.
func (s *TaskService) List(ctx context.Context, userID uint, status string) ([]models.Task, error) {
	query := s.db.WithContext(ctx).
		Preload("Project").
		Preload("LearningMilestone").
		Preload("Subtasks").
		Preload("Tags").
		Where("user_id = ?", userID)

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var tasks []models.Task
	if err := query.Order("created_at DESC").Find(&tasks).Error; err != nil {
		config.Logger.Errorw("task list failed", "userID", userID, "error", err)
		return nil, ErrServer
	}
	return tasks, nil
}

// Update applies the present fields of the payload to an owned task. Tag
// replacement runs in the same transaction as the row update.
func (s *TaskService) Update(ctx context.Context, userID, id uint, req *models.UpdateTaskRequest) (*models.Task, error) {
	errs := req.Validate()
	if errs == nil {
		errs = models.ValidationErrors{}
	}
	if err := s.checkReferences(ctx, req.TagIDs, req.ProjectID, req.LearningMilestoneID, errs); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		config.Logger.Errorw("task validation failed",
			"userID", userID,
			"taskID", id,
			"errors", errs,
			"input", req,
		)
		return nil, &ValidationError{Fields: errs}
	}

	var task models.Task
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		config.Logger.Errorw("task fetch failed", "userID", userID, "taskID", id, "error", err)
		return nil, ErrServer
	}

	applyTaskUpdate(&task, req)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&task).Error; err != nil {
			return err
		}
		if req.TagIDs != nil {
			var tags []models.Tag
			if err := tx.Where("id IN ?", req.TagIDs).Find(&tags).Error; err != nil {
				return err
			}
			if err := tx.Model(&task).Association("Tags").Replace(&tags); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		config.Logger.Errorw("task update failed", "userID", userID, "taskID", id, "error", err)
		return nil, ErrServer
	}

	return s.reload(ctx, task.ID)
}

// Delete removes an owned task and its tag associations.
func (s *TaskService) Delete(ctx context.Context, userID, id uint) error {
	var task models.Task
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&task, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		config.Logger.Errorw("task fetch failed", "userID", userID, "taskID", id, "error", err)
		return ErrServer
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&task).Association("Tags").Clear(); err != nil {
			return err
		}
		return tx.Delete(&task).Error
	})
	if err != nil {
		config.Logger.Errorw("task delete failed", "userID", userID, "taskID", id, "error", err)
		return ErrServer
	}

	config.Logger.Infow("task deleted", "userID", userID, "taskID", id)
	return nil
}

// checkReferences verifies that every referenced tag/project/milestone row
// exists, merging failures into the caller's error map.
func (s *TaskService) checkReferences(ctx context.Context, tagIDs []uint, projectID, milestoneID *uint, errs models.ValidationErrors) error {
	if len(tagIDs) > 0 {
		ids := uniqueIDs(tagIDs)
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Tag{}).
			Where("id IN ?", ids).Count(&count).Error; err != nil {
			config.Logger.Errorw("tag reference check failed", "error", err)
			return ErrServer
		}
		if count != int64(len(ids)) {
			errs["tag_ids"] = append(errs["tag_ids"], "one or more tag_ids do not exist")
		}
	}
	if projectID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Project{}).
			Where("id = ?", *projectID).Count(&count).Error; err != nil {
			config.Logger.Errorw("project reference check failed", "error", err)
			return ErrServer
		}
		if count == 0 {
			errs["project_id"] = append(errs["project_id"], "project_id does not exist")
		}
	}
	if milestoneID != nil {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.LearningMilestone{}).
			Where("id = ?", *milestoneID).Count(&count).Error; err != nil {
			config.Logger.Errorw("milestone reference check failed", "error", err)
			return ErrServer
		}
		if count == 0 {
			errs["learning_milestone_id"] = append(errs["learning_milestone_id"], "learning_milestone_id does not exist")
		}
	}
	return nil
}

// reload re-reads a task with the relations the API responds with.
func (s *TaskService) reload(ctx context.Context, id uint) (*models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).
		Preload("Project").
		Preload("LearningMilestone").
		Preload("Subtasks").
		Preload("Tags").
		First(&task, id).Error
	if err != nil {
		config.Logger.Errorw("task reload failed", "taskID", id, "error", err)
		return nil, ErrServer
	}
	return &task, nil
}

func applyTaskUpdate(task *models.Task, req *models.UpdateTaskRequest) {
	if req.Title != nil {
		task.Title = *req.Title
	}
	if req.Category != nil {
		task.Category = *req.Category
	}
	if req.Description != nil {
		task.Description = *req.Description
	}
	if req.Priority != nil {
		task.Priority = *req.Priority
	}
	if req.EnergyLevel != nil {
		task.EnergyLevel = *req.EnergyLevel
	}
	if req.EstimatedMinutes != nil {
		task.EstimatedMinutes = req.EstimatedMinutes
	}
	if req.Deadline != nil {
		d, _ := models.ParseDateOnly(*req.Deadline) // validated by the caller
		task.Deadline = &d
	}
	if req.ScheduledTime != nil {
		task.ScheduledTime = req.ScheduledTime
	}
	if req.ProjectID != nil {
		task.ProjectID = req.ProjectID
	}
	if req.LearningMilestoneID != nil {
		task.LearningMilestoneID = req.LearningMilestoneID
	}
	if req.Status != nil {
		task.Status = *req.Status
	}
	if req.RequiresDeepFocus != nil {
		task.RequiresDeepFocus = *req.RequiresDeepFocus
	}
	if req.AllowInterruptions != nil {
		task.AllowInterruptions = *req.AllowInterruptions
	}
	if req.FocusDifficulty != nil {
		task.FocusDifficulty = *req.FocusDifficulty
	}
	if req.WarmupMinutes != nil {
		task.WarmupMinutes = req.WarmupMinutes
	}
	if req.CooldownMinutes != nil {
		task.CooldownMinutes = req.CooldownMinutes
	}
	if req.RecoveryMinutes != nil {
		task.RecoveryMinutes = req.RecoveryMinutes
	}
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
