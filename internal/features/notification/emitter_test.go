package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type mockNotificationRepo struct {
	events     []Event
	inbox      []Notification
	failEvent  error
	failInsert error
}

func (m *mockNotificationRepo) CreateEvent(ctx context.Context, event *Event) error {
	if m.failEvent != nil {
		return m.failEvent
	}
	m.events = append(m.events, *event)
	return nil
}

func (m *mockNotificationRepo) InsertInbox(ctx context.Context, rows []Notification) error {
	if m.failInsert != nil {
		return m.failInsert
	}
	m.inbox = append(m.inbox, rows...)
	return nil
}

func (m *mockNotificationRepo) ListRecent(ctx context.Context, userID string, limit int64) ([]Notification, error) {
	return nil, nil
}

func (m *mockNotificationRepo) UnreadCount(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func (m *mockNotificationRepo) MarkRead(ctx context.Context, id string, userID string) error {
	return nil
}

func (m *mockNotificationRepo) MarkAllRead(ctx context.Context, userID string) error {
	return nil
}

func (m *mockNotificationRepo) Watch(ctx context.Context, userID string) (*mongo.ChangeStream, error) {
	return nil, errors.New("not supported in mock")
}

func (m *mockNotificationRepo) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (m *mockNotificationRepo) EnsureIndexes(ctx context.Context) error {
	return nil
}

type mockUserSource struct {
	ids []string
	err error
}

func (m *mockUserSource) ListActiveUserIDs(ctx context.Context) ([]string, error) {
	return m.ids, m.err
}

func TestEmitSkipsOrphanEvents(t *testing.T) {
	repo := &mockNotificationRepo{}
	emitter := NewEmitter(repo, &mockUserSource{}, zap.NewNop())

	err := emitter.Emit(context.Background(), &Event{
		Type:  EventTypeStatusChange,
		Title: "nobody cares",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.events) != 0 {
		t.Error("event with no recipients and no broadcast must not be written")
	}
}

func TestEmitFansOutPerRecipient(t *testing.T) {
	repo := &mockNotificationRepo{}
	emitter := NewEmitter(repo, &mockUserSource{}, zap.NewNop())

	err := emitter.Emit(context.Background(), &Event{
		Type:       EventTypeStatusChange,
		Title:      "Task done",
		Recipients: []string{"c", "a"},
		EntityType: "task",
		EntityID:   "t1",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.events))
	}
	if len(repo.inbox) != 2 {
		t.Fatalf("expected 2 inbox rows, got %d", len(repo.inbox))
	}
	for _, row := range repo.inbox {
		if row.IsRead {
			t.Error("fanned-out rows must start unread")
		}
		if row.EntityID != "t1" {
			t.Errorf("row lost entity reference: %+v", row)
		}
	}
}

func TestEmitBroadcastExcludesActor(t *testing.T) {
	repo := &mockNotificationRepo{}
	users := &mockUserSource{ids: []string{"u1", "u2", "u3"}}
	emitter := NewEmitter(repo, users, zap.NewNop())

	err := emitter.Emit(context.Background(), &Event{
		Type:      EventTypeSystem,
		Title:     "Maintenance window",
		ActorID:   "u2",
		Broadcast: true,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(repo.inbox) != 2 {
		t.Fatalf("expected 2 inbox rows, got %d", len(repo.inbox))
	}
	for _, row := range repo.inbox {
		if row.UserID == "u2" {
			t.Error("broadcast must not notify the actor")
		}
	}
}

func TestEmitSafeSwallowsFailures(t *testing.T) {
	repo := &mockNotificationRepo{failEvent: errors.New("store unavailable")}
	emitter := NewEmitter(repo, &mockUserSource{}, zap.NewNop())

	// Must not panic or propagate; the caller's mutation already committed
	emitter.EmitSafe(context.Background(), &Event{
		Type:       EventTypeAssignment,
		Recipients: []string{"u1"},
	})
}
