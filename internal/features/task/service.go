package task

import (
	"context"
	"fmt"
	"time"

	"opscrm/internal/common/models"
	"opscrm/internal/features/activity"
	"opscrm/internal/features/notification"
	"opscrm/internal/features/permission"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type TaskService interface {
	ListTasks(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Task, int64, error)
	GetTaskByID(ctx context.Context, id string) (*Task, error)
	CreateTask(ctx context.Context, task *Task) error
	UpdateTask(ctx context.Context, id string, task *Task) error
	DeleteTask(ctx context.Context, id string) error
}

type TaskServiceImpl struct {
	TaskRepo        TaskRepository
	ActivityService activity.ActivityService
	Emitter         notification.Emitter
}

func NewTaskService(taskRepo TaskRepository, activityService activity.ActivityService, emitter notification.Emitter) TaskService {
	return &TaskServiceImpl{
		TaskRepo:        taskRepo,
		ActivityService: activityService,
		Emitter:         emitter,
	}
}

func actorFrom(ctx context.Context) *models.AuthedUser {
	if user, ok := ctx.Value(models.AuthedUserKey).(*models.AuthedUser); ok {
		return user
	}
	return nil
}

func (s *TaskServiceImpl) ListTasks(ctx context.Context, filter map[string]interface{}, page, limit int64) ([]Task, int64, error) {
	if filter == nil {
		filter = make(map[string]interface{})
	}

	offset := (page - 1) * limit
	return s.TaskRepo.List(ctx, filter, limit, offset)
}

func (s *TaskServiceImpl) GetTaskByID(ctx context.Context, id string) (*Task, error) {
	task, err := s.TaskRepo.FindByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return nil, models.ErrNotFound
	}
	return task, err
}

func (s *TaskServiceImpl) CreateTask(ctx context.Context, task *Task) error {
	if task.Title == "" {
		return fmt.Errorf("title is required")
	}

	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	if task.Status == "" {
		task.Status = StatusOpen
	}
	if task.Assignees == nil {
		task.Assignees = []string{}
	}

	actor := actorFrom(ctx)
	if actor != nil {
		task.CreatedBy = actor.ID
	}
	task.CreatedAt = time.Now()
	task.UpdatedAt = time.Now()

	if err := s.TaskRepo.Create(ctx, task); err != nil {
		return err
	}

	s.ActivityService.LogSafe(ctx, "task", task.ID.Hex(), fmt.Sprintf("Task %q created", task.Title))

	if len(task.Assignees) > 0 {
		actorID := ""
		if actor != nil {
			actorID = actor.ID
		}
		s.Emitter.EmitSafe(ctx, &notification.Event{
			Type:       notification.EventTypeAssignment,
			Title:      fmt.Sprintf("You were assigned to %q", task.Title),
			Body:       fmt.Sprintf("Task %q assigned", task.Title),
			ActorID:    actorID,
			Recipients: notification.BuildRecipientList("", task.Assignees, actorID),
			EntityType: "task",
			EntityID:   task.ID.Hex(),
		})
	}

	return nil
}

// estimateOnly reports whether incoming differs from existing in nothing
// but the estimate fields.
func estimateOnly(existing, incoming *Task) bool {
	return incoming.Title == existing.Title &&
		incoming.Description == existing.Description &&
		incoming.Status == existing.Status &&
		notification.AreSameRecipientSets(incoming.Assignees, existing.Assignees) &&
		equalDueDates(existing.DueDate, incoming.DueDate)
}

func equalDueDates(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func fmtDueDate(t *time.Time) string {
	if t == nil {
		return "none"
	}
	return t.Format("2006-01-02 15:04")
}

func (s *TaskServiceImpl) UpdateTask(ctx context.Context, id string, incoming *Task) error {
	// Snapshot first; every rule below compares against pre-write state
	existing, err := s.TaskRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}

	actor := actorFrom(ctx)
	if actor == nil {
		return models.ErrForbidden
	}

	canEdit := permission.HasPermission(actor.Permissions, []string{permission.KeyTasksEdit})
	if !canEdit {
		// Carve-out: an assignee may touch the estimate fields of their
		// own task without tasks.edit, but nothing else.
		isAssignee := false
		for _, assignee := range existing.Assignees {
			if assignee == actor.ID {
				isAssignee = true
				break
			}
		}
		if !isAssignee || !estimateOnly(existing, incoming) {
			return models.ErrForbidden
		}
	}

	// Reassigning a task that already has assignees needs its own grant.
	// Checked against the pre-write assignee set, before any diff is
	// recorded.
	assigneesChanged := !notification.AreSameRecipientSets(existing.Assignees, incoming.Assignees)
	if assigneesChanged && len(existing.Assignees) > 0 {
		if !permission.HasPermission(actor.Permissions, []string{permission.KeyTasksReassign}) {
			return models.ErrForbidden
		}
	}

	changes := &activity.ChangeSet{}
	changes.Field("Title", existing.Title, incoming.Title)
	changes.Field("Description", existing.Description, incoming.Description)
	changes.Status(string(existing.Status), string(incoming.Status))
	changes.Assignees(existing.Assignees, incoming.Assignees)
	if !equalDueDates(existing.DueDate, incoming.DueDate) {
		changes.Field("Due date", fmtDueDate(existing.DueDate), fmtDueDate(incoming.DueDate))
	}
	changes.Field("Estimate number", existing.EstimateNumber, incoming.EstimateNumber)
	if existing.EstimateAmount != incoming.EstimateAmount {
		changes.Field("Estimate amount",
			fmt.Sprintf("%.2f", existing.EstimateAmount),
			fmt.Sprintf("%.2f", incoming.EstimateAmount))
	}

	incoming.UpdatedAt = time.Now()

	if err := s.TaskRepo.Update(ctx, id, incoming); err != nil {
		return err
	}

	if changes.Empty() {
		return nil
	}

	s.ActivityService.LogSafe(ctx, "task", id, changes.Note())

	if changes.ShouldNotify() {
		eventType := notification.EventTypeStatusChange
		if assigneesChanged {
			eventType = notification.EventTypeAssignment
		}

		// Previous and new assignees both hear about the change; dropped
		// assignees learn they were unassigned.
		audience := append(append([]string{}, existing.Assignees...), incoming.Assignees...)
		s.Emitter.EmitSafe(ctx, &notification.Event{
			Type:       eventType,
			Title:      fmt.Sprintf("Task %q updated", existing.Title),
			Body:       changes.Note(),
			ActorID:    actor.ID,
			Recipients: notification.BuildRecipientList(existing.CreatedBy, audience, actor.ID),
			EntityType: "task",
			EntityID:   id,
		})
	}

	return nil
}

func (s *TaskServiceImpl) DeleteTask(ctx context.Context, id string) error {
	task, err := s.TaskRepo.FindByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.ErrNotFound
		}
		return err
	}

	if err := s.TaskRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.ActivityService.LogSafe(ctx, "task", id, fmt.Sprintf("Task %q deleted", task.Title))

	return nil
}
