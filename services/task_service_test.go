package services

import (
	"context"
	"testing"
	"time"

	"github.com/tringuyenminh209/Kizamu/models"
	"gorm.io/gorm"
)

func newTaskFixture(t *testing.T) (*TaskService, *gorm.DB, *models.User) {
	t.Helper()
	db := newTestDB(t)
	user := &models.User{Name: "Jo", Email: "jo@x.com", Password: "hash"}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return NewTaskService(db), db, user
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }
func uintPtr(v uint) *uint    { return &v }

func minimalCreate() *models.CreateTaskRequest {
	return &models.CreateTaskRequest{
		Title:       "Write spec",
		Priority:    intPtr(3),
		EnergyLevel: models.EnergyMedium,
	}
}

func TestCreateTaskDefaults(t *testing.T) {
	svc, _, user := newTaskFixture(t)

	task, err := svc.Create(context.Background(), user.ID, minimalCreate())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if task.Category != models.CategoryOther {
		t.Errorf("category = %q, want other", task.Category)
	}
	if task.Status != models.StatusPending {
		t.Errorf("status = %q, want pending", task.Status)
	}
	if task.RequiresDeepFocus {
		t.Error("requires_deep_focus should default to false")
	}
	if !task.AllowInterruptions {
		t.Error("allow_interruptions should default to true")
	}
	if task.FocusDifficulty != 3 {
		t.Errorf("focus_difficulty = %d, want 3", task.FocusDifficulty)
	}
	if task.AIBreakdownEnabled {
		t.Error("ai_breakdown_enabled should default to false")
	}
	if task.UserID != user.ID {
		t.Errorf("owner = %d, want %d", task.UserID, user.ID)
	}
}

func TestCreateTaskPriorityBounds(t *testing.T) {
	svc, _, user := newTaskFixture(t)
	ctx := context.Background()

	for _, p := range []int{0, 6} {
		req := minimalCreate()
		req.Priority = intPtr(p)
		_, err := svc.Create(ctx, user.ID, req)
		ve, ok := AsValidation(err)
		if !ok {
			t.Fatalf("priority %d: err = %v, want validation error", p, err)
		}
		if len(ve.Fields["priority"]) == 0 {
			t.Fatalf("priority %d: expected priority error, got %v", p, ve.Fields)
		}
	}

	for _, p := range []int{1, 5} {
		req := minimalCreate()
		req.Priority = intPtr(p)
		if _, err := svc.Create(ctx, user.ID, req); err != nil {
			t.Fatalf("priority %d should be accepted: %v", p, err)
		}
	}
}

func TestCreateTaskWithTags(t *testing.T) {
	svc, db, user := newTaskFixture(t)

	tags := []models.Tag{{Name: "go"}, {Name: "deep-work"}}
	if err := db.Create(&tags).Error; err != nil {
		t.Fatal(err)
	}

	req := minimalCreate()
	req.TagIDs = []uint{tags[0].ID, tags[1].ID}
	task, err := svc.Create(context.Background(), user.ID, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if len(task.Tags) != 2 {
		t.Fatalf("tags = %d, want 2 on the reloaded task", len(task.Tags))
	}
}

func TestCreateTaskUnknownTagRollsBack(t *testing.T) {
	svc, db, user := newTaskFixture(t)

	tag := models.Tag{Name: "go"}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatal(err)
	}

	req := minimalCreate()
	req.TagIDs = []uint{tag.ID, 9999}
	_, err := svc.Create(context.Background(), user.ID, req)
	ve, ok := AsValidation(err)
	if !ok {
		t.Fatalf("err = %v, want validation error", err)
	}
	if len(ve.Fields["tag_ids"]) == 0 {
		t.Fatalf("expected tag_ids error, got %v", ve.Fields)
	}

	var tasks, links int64
	db.Model(&models.Task{}).Count(&tasks)
	db.Table("task_tag").Count(&links)
	if tasks != 0 {
		t.Fatalf("task rows = %d, want 0", tasks)
	}
	if links != 0 {
		t.Fatalf("orphaned tag-association rows = %d, want 0", links)
	}
}

func TestCreateTaskUnknownProjectAndMilestone(t *testing.T) {
	svc, _, user := newTaskFixture(t)

	req := minimalCreate()
	req.ProjectID = uintPtr(42)
	req.LearningMilestoneID = uintPtr(43)
	_, err := svc.Create(context.Background(), user.ID, req)
	ve, ok := AsValidation(err)
	if !ok {
		t.Fatalf("err = %v, want validation error", err)
	}
	if len(ve.Fields["project_id"]) == 0 || len(ve.Fields["learning_milestone_id"]) == 0 {
		t.Fatalf("expected reference errors, got %v", ve.Fields)
	}
}

func TestCreateTaskDeadlineSerialization(t *testing.T) {
	svc, _, user := newTaskFixture(t)

	req := minimalCreate()
	req.Deadline = strPtr("2026-03-15")
	req.ScheduledTime = strPtr("09:30:00")
	task, err := svc.Create(context.Background(), user.ID, req)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	out, err := task.Deadline.MarshalJSON()
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `"2026-03-15"` {
		t.Errorf("deadline serialized as %s, want date-only", out)
	}
	if task.ScheduledTime == nil || *task.ScheduledTime != "09:30:00" {
		t.Errorf("scheduled_time = %v", task.ScheduledTime)
	}
}

func TestGetTaskOwnerScoping(t *testing.T) {
	svc, db, user := newTaskFixture(t)
	ctx := context.Background()

	other := &models.User{Name: "Mallory", Email: "mallory@x.com", Password: "hash"}
	if err := db.Create(other).Error; err != nil {
		t.Fatal(err)
	}

	task, err := svc.Create(ctx, user.ID, minimalCreate())
	if err != nil {
		t.Fatal(err)
	}

	// Someone else's task and a nonexistent id are the same error.
	_, errForeign := svc.Get(ctx, other.ID, task.ID)
	_, errMissing := svc.Get(ctx, other.ID, 99999)
	if errForeign != ErrNotFound || errMissing != ErrNotFound {
		t.Fatalf("foreign=%v missing=%v, both must be ErrNotFound", errForeign, errMissing)
	}

	if _, err := svc.Get(ctx, user.ID, task.ID); err != nil {
		t.Fatalf("owner fetch: %v", err)
	}
}

func TestGetTaskEagerLoadsRecentFocusSessions(t *testing.T) {
	svc, db, user := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, user.ID, minimalCreate())
	if err != nil {
		t.Fatal(err)
	}

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 12; i++ {
		session := models.FocusSession{
			TaskID:          task.ID,
			UserID:          user.ID,
			StartedAt:       base.Add(time.Duration(i) * time.Hour),
			DurationMinutes: 25,
		}
		if err := db.Create(&session).Error; err != nil {
			t.Fatal(err)
		}
	}

	got, err := svc.Get(ctx, user.ID, task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.FocusSessions) != 10 {
		t.Fatalf("focus sessions = %d, want the 10 most recent", len(got.FocusSessions))
	}
	for i := 1; i < len(got.FocusSessions); i++ {
		if got.FocusSessions[i].StartedAt.After(got.FocusSessions[i-1].StartedAt) {
			t.Fatal("focus sessions must be ordered by started_at descending")
		}
	}
	if !got.FocusSessions[0].StartedAt.Equal(base.Add(11 * time.Hour)) {
		t.Fatalf("first session = %v, want the newest", got.FocusSessions[0].StartedAt)
	}
}

func TestListTasksStatusFilter(t *testing.T) {
	svc, db, user := newTaskFixture(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, user.ID, minimalCreate())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, user.ID, minimalCreate()); err != nil {
		t.Fatal(err)
	}
	if err := db.Model(&models.Task{}).Where("id = ?", first.ID).
		Update("status", "completed").Error; err != nil {
		t.Fatal(err)
	}

	all, err := svc.List(ctx, user.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Fatalf("unfiltered list = %d, want 2", len(all))
	}

	pending, err := svc.List(ctx, user.ID, "pending")
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || pending[0].Status != models.StatusPending {
		t.Fatalf("filtered list = %+v", pending)
	}
}

func TestListTasksScopedToOwner(t *testing.T) {
	svc, db, user := newTaskFixture(t)
	ctx := context.Background()

	other := &models.User{Name: "Mallory", Email: "mallory@x.com", Password: "hash"}
	if err := db.Create(other).Error; err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Create(ctx, user.ID, minimalCreate()); err != nil {
		t.Fatal(err)
	}

	tasks, err := svc.List(ctx, other.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 0 {
		t.Fatalf("other owner sees %d tasks, want 0", len(tasks))
	}
}

func TestUpdateTask(t *testing.T) {
	svc, db, user := newTaskFixture(t)
	ctx := context.Background()

	tag := models.Tag{Name: "go"}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatal(err)
	}

	task, err := svc.Create(ctx, user.ID, minimalCreate())
	if err != nil {
		t.Fatal(err)
	}

	updated, err := svc.Update(ctx, user.ID, task.ID, &models.UpdateTaskRequest{
		Title:    strPtr("Review spec"),
		Priority: intPtr(5),
		Status:   strPtr("in_progress"),
		TagIDs:   []uint{tag.ID},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Title != "Review spec" || updated.Priority != 5 || updated.Status != "in_progress" {
		t.Fatalf("update not applied: %+v", updated)
	}
	if len(updated.Tags) != 1 || updated.Tags[0].ID != tag.ID {
		t.Fatalf("tags = %+v", updated.Tags)
	}
	// Untouched fields survive.
	if updated.EnergyLevel != models.EnergyMedium {
		t.Errorf("energy_level = %q", updated.EnergyLevel)
	}
}

func TestUpdateTaskValidation(t *testing.T) {
	svc, _, user := newTaskFixture(t)
	ctx := context.Background()

	task, err := svc.Create(ctx, user.ID, minimalCreate())
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Update(ctx, user.ID, task.ID, &models.UpdateTaskRequest{Priority: intPtr(9)})
	if _, ok := AsValidation(err); !ok {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestUpdateTaskOwnerScoping(t *testing.T) {
	svc, db, user := newTaskFixture(t)
	ctx := context.Background()

	other := &models.User{Name: "Mallory", Email: "mallory@x.com", Password: "hash"}
	if err := db.Create(other).Error; err != nil {
		t.Fatal(err)
	}
	task, err := svc.Create(ctx, user.ID, minimalCreate())
	if err != nil {
		t.Fatal(err)
	}

	_, err = svc.Update(ctx, other.ID, task.ID, &models.UpdateTaskRequest{Title: strPtr("stolen")})
	if err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDeleteTask(t *testing.T) {
	svc, db, user := newTaskFixture(t)
	ctx := context.Background()

	tag := models.Tag{Name: "go"}
	if err := db.Create(&tag).Error; err != nil {
		t.Fatal(err)
	}
	req := minimalCreate()
	req.TagIDs = []uint{tag.ID}
	task, err := svc.Create(ctx, user.ID, req)
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, user.ID, task.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var tasks, links int64
	db.Model(&models.Task{}).Count(&tasks)
	db.Table("task_tag").Count(&links)
	if tasks != 0 || links != 0 {
		t.Fatalf("tasks=%d links=%d after delete, want 0/0", tasks, links)
	}

	if err := svc.Delete(ctx, user.ID, task.ID); err != ErrNotFound {
		t.Fatalf("second delete err = %v, want ErrNotFound", err)
	}
}

func TestDeleteTaskOwnerScoping(t *testing.T) {
	svc, db, user := newTaskFixture(t)
	ctx := context.Background()

	other := &models.User{Name: "Mallory", Email: "mallory@x.com", Password: "hash"}
	if err := db.Create(other).Error; err != nil {
		t.Fatal(err)
	}
	task, err := svc.Create(ctx, user.ID, minimalCreate())
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.Delete(ctx, other.ID, task.ID); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	var count int64
	db.Model(&models.Task{}).Count(&count)
	if count != 1 {
		t.Fatal("foreign delete must not remove the task")
	}
}
