package task

import (
	"context"
	"strings"
	"testing"
	"time"

	"opscrm/internal/common/models"
	"opscrm/internal/features/activity"
	"opscrm/internal/features/notification"
	"opscrm/internal/features/permission"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type mockTaskRepo struct {
	tasks   map[string]*Task
	updates int
}

func (m *mockTaskRepo) Create(ctx context.Context, task *Task) error { return nil }

func (m *mockTaskRepo) FindByID(ctx context.Context, id string) (*Task, error) {
	if task, ok := m.tasks[id]; ok {
		copied := *task
		return &copied, nil
	}
	return nil, mongo.ErrNoDocuments
}

func (m *mockTaskRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int64) ([]Task, int64, error) {
	return nil, 0, nil
}

func (m *mockTaskRepo) Update(ctx context.Context, id string, task *Task) error {
	m.updates++
	copied := *task
	m.tasks[id] = &copied
	return nil
}

func (m *mockTaskRepo) Delete(ctx context.Context, id string) error { return nil }
func (m *mockTaskRepo) EnsureIndexes(ctx context.Context) error     { return nil }

type recordingActivity struct {
	notes []string
}

func (a *recordingActivity) Log(ctx context.Context, entityType, entityID, note string) error {
	a.notes = append(a.notes, note)
	return nil
}

func (a *recordingActivity) LogTyped(ctx context.Context, entityType, entityID, note string, entryType activity.EntryType) error {
	a.notes = append(a.notes, note)
	return nil
}

func (a *recordingActivity) LogSafe(ctx context.Context, entityType, entityID, note string) {
	a.notes = append(a.notes, note)
}

func (a *recordingActivity) LogTypedSafe(ctx context.Context, entityType, entityID, note string, entryType activity.EntryType) {
	a.notes = append(a.notes, note)
}

func (a *recordingActivity) ListByEntity(ctx context.Context, entityType, entityID string, limit int64) ([]activity.Entry, error) {
	return nil, nil
}

type recordingEmitter struct {
	events []*notification.Event
}

func (e *recordingEmitter) Emit(ctx context.Context, event *notification.Event) error {
	e.events = append(e.events, event)
	return nil
}

func (e *recordingEmitter) EmitSafe(ctx context.Context, event *notification.Event) {
	_ = e.Emit(ctx, event)
}

func ctxWithActor(id string, perms ...string) context.Context {
	return context.WithValue(context.Background(), models.AuthedUserKey, &models.AuthedUser{
		ID:          id,
		Active:      true,
		RoleKey:     "tester",
		Permissions: perms,
	})
}

func taskFixture(existing *Task) (*mockTaskRepo, *recordingActivity, *recordingEmitter, TaskService) {
	repo := &mockTaskRepo{tasks: map[string]*Task{existing.ID.Hex(): existing}}
	log := &recordingActivity{}
	emitter := &recordingEmitter{}
	return repo, log, emitter, NewTaskService(repo, log, emitter)
}

func TestUpdateProducesOneCompositeNote(t *testing.T) {
	creator := primitive.NewObjectID().Hex()
	assignee := primitive.NewObjectID().Hex()
	existing := &Task{
		ID:        primitive.NewObjectID(),
		Title:     "Wire the demo rig",
		Status:    StatusOpen,
		Assignees: []string{assignee},
		CreatedBy: creator,
	}
	_, log, emitter, service := taskFixture(existing)

	incoming := *existing
	incoming.Title = "Wire the demo rig for Q3"
	incoming.Status = StatusInProgress
	due := time.Now().Add(72 * time.Hour)
	incoming.DueDate = &due

	actor := primitive.NewObjectID().Hex()
	ctx := ctxWithActor(actor, permission.KeyTasksEdit)
	if err := service.UpdateTask(ctx, existing.ID.Hex(), &incoming); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	// One save, one timeline entry, however many fields changed
	if len(log.notes) != 1 {
		t.Fatalf("update produced %d notes, want 1", len(log.notes))
	}
	for _, field := range []string{"Title", "Status", "Due date"} {
		if !strings.Contains(log.notes[0], field) {
			t.Errorf("composite note %q is missing the %s change", log.notes[0], field)
		}
	}

	// Status changed, so the save also notifies
	if len(emitter.events) != 1 {
		t.Fatalf("update emitted %d events, want 1", len(emitter.events))
	}
	recipients := emitter.events[0].Recipients
	for _, r := range recipients {
		if r == actor {
			t.Error("actor must not be notified of their own change")
		}
	}
}

func TestUpdateWithNoChangesIsSilent(t *testing.T) {
	existing := &Task{
		ID:        primitive.NewObjectID(),
		Title:     "Quiet task",
		Status:    StatusOpen,
		Assignees: []string{},
	}
	_, log, emitter, service := taskFixture(existing)

	incoming := *existing
	ctx := ctxWithActor(primitive.NewObjectID().Hex(), permission.KeyTasksEdit)
	if err := service.UpdateTask(ctx, existing.ID.Hex(), &incoming); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if len(log.notes) != 0 {
		t.Errorf("no-op save logged %d notes", len(log.notes))
	}
	if len(emitter.events) != 0 {
		t.Errorf("no-op save emitted %d events", len(emitter.events))
	}
}

func TestReassignRequiresGrant(t *testing.T) {
	existing := &Task{
		ID:        primitive.NewObjectID(),
		Title:     "Handover",
		Status:    StatusOpen,
		Assignees: []string{primitive.NewObjectID().Hex()},
	}
	_, _, _, service := taskFixture(existing)

	incoming := *existing
	incoming.Assignees = []string{primitive.NewObjectID().Hex()}

	// tasks.edit alone is not enough to move an assigned task
	ctx := ctxWithActor(primitive.NewObjectID().Hex(), permission.KeyTasksEdit)
	if err := service.UpdateTask(ctx, existing.ID.Hex(), &incoming); err != models.ErrForbidden {
		t.Fatalf("reassign without grant: err = %v, want ErrForbidden", err)
	}

	ctx = ctxWithActor(primitive.NewObjectID().Hex(), permission.KeyTasksEdit, permission.KeyTasksReassign)
	if err := service.UpdateTask(ctx, existing.ID.Hex(), &incoming); err != nil {
		t.Fatalf("reassign with grant failed: %v", err)
	}
}

func TestFirstAssignmentNeedsNoReassignGrant(t *testing.T) {
	existing := &Task{
		ID:        primitive.NewObjectID(),
		Title:     "Fresh task",
		Status:    StatusOpen,
		Assignees: []string{},
	}
	_, _, emitter, service := taskFixture(existing)

	incoming := *existing
	incoming.Assignees = []string{primitive.NewObjectID().Hex()}

	ctx := ctxWithActor(primitive.NewObjectID().Hex(), permission.KeyTasksEdit)
	if err := service.UpdateTask(ctx, existing.ID.Hex(), &incoming); err != nil {
		t.Fatalf("first assignment failed: %v", err)
	}
	if len(emitter.events) != 1 || emitter.events[0].Type != notification.EventTypeAssignment {
		t.Error("first assignment must emit an assignment event")
	}
}

func TestAssigneeEstimateCarveOut(t *testing.T) {
	assignee := primitive.NewObjectID().Hex()
	existing := &Task{
		ID:        primitive.NewObjectID(),
		Title:     "Estimate me",
		Status:    StatusOpen,
		Assignees: []string{assignee},
	}
	_, log, _, service := taskFixture(existing)

	// The assignee, holding no task permissions at all, may set estimates
	incoming := *existing
	incoming.EstimateNumber = "EST-104"
	incoming.EstimateAmount = 1250

	ctx := ctxWithActor(assignee)
	if err := service.UpdateTask(ctx, existing.ID.Hex(), &incoming); err != nil {
		t.Fatalf("estimate carve-out rejected: %v", err)
	}
	if len(log.notes) != 1 {
		t.Fatalf("estimate change logged %d notes, want 1", len(log.notes))
	}

	// But nothing beyond the estimate fields
	incoming.Title = "Renamed"
	if err := service.UpdateTask(ctx, existing.ID.Hex(), &incoming); err != models.ErrForbidden {
		t.Fatalf("carve-out leaked beyond estimates: err = %v, want ErrForbidden", err)
	}
}

func TestNonAssigneeWithoutEditIsRejected(t *testing.T) {
	existing := &Task{
		ID:        primitive.NewObjectID(),
		Title:     "Locked task",
		Status:    StatusOpen,
		Assignees: []string{primitive.NewObjectID().Hex()},
	}
	_, _, _, service := taskFixture(existing)

	incoming := *existing
	incoming.EstimateNumber = "EST-900"

	ctx := ctxWithActor(primitive.NewObjectID().Hex())
	if err := service.UpdateTask(ctx, existing.ID.Hex(), &incoming); err != models.ErrForbidden {
		t.Fatalf("outsider update: err = %v, want ErrForbidden", err)
	}
}

func TestDroppedAssigneeIsStillNotified(t *testing.T) {
	creator := primitive.NewObjectID().Hex()
	dropped := primitive.NewObjectID().Hex()
	existing := &Task{
		ID:        primitive.NewObjectID(),
		Title:     "Moving on",
		Status:    StatusOpen,
		Assignees: []string{dropped},
		CreatedBy: creator,
	}
	_, _, emitter, service := taskFixture(existing)

	incoming := *existing
	incoming.Assignees = []string{primitive.NewObjectID().Hex()}

	ctx := ctxWithActor(primitive.NewObjectID().Hex(), permission.KeyTasksEdit, permission.KeyTasksReassign)
	if err := service.UpdateTask(ctx, existing.ID.Hex(), &incoming); err != nil {
		t.Fatalf("reassign failed: %v", err)
	}

	if len(emitter.events) != 1 {
		t.Fatalf("reassign emitted %d events, want 1", len(emitter.events))
	}
	found := false
	for _, r := range emitter.events[0].Recipients {
		if r == dropped {
			found = true
		}
	}
	if !found {
		t.Error("the unassigned user must hear about losing the task")
	}
}
