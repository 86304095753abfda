package notification

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func unreadRow(id string) Notification {
	oid, _ := primitive.ObjectIDFromHex(id)
	return Notification{ID: oid, UserID: "u1", IsRead: false, CreatedAt: time.Now()}
}

func readRow(id string) Notification {
	n := unreadRow(id)
	n.IsRead = true
	return n
}

// Stable 24-char hex ids for test rows
var testIDs = []string{
	"65f000000000000000000001",
	"65f000000000000000000002",
	"65f000000000000000000003",
	"65f000000000000000000004",
	"65f000000000000000000005",
}

func countToasts(frames []Frame) int {
	n := 0
	for _, f := range frames {
		if f.Type == "toast" {
			n++
		}
	}
	return n
}

func TestFeedInitialLoadSuppressesToasts(t *testing.T) {
	feed := NewFeedSession("u1", 50, 6*time.Second)

	frames := feed.Apply([]Notification{
		unreadRow(testIDs[0]), unreadRow(testIDs[1]), unreadRow(testIDs[2]),
	})

	if len(frames) != 1 || frames[0].Type != "snapshot" {
		t.Fatalf("initial load must produce exactly one snapshot frame, got %+v", frames)
	}
	if frames[0].Unread != 3 {
		t.Errorf("unread = %d, want 3", frames[0].Unread)
	}
	if countToasts(frames) != 0 {
		t.Error("historical items must never toast")
	}
}

func TestFeedToastsOnlyGenuinelyNewUnread(t *testing.T) {
	feed := NewFeedSession("u1", 50, 6*time.Second)

	initial := []Notification{
		unreadRow(testIDs[0]), unreadRow(testIDs[1]), unreadRow(testIDs[2]),
	}
	feed.Apply(initial)

	// A new unread item arrives while watching
	next := append([]Notification{unreadRow(testIDs[3])}, initial...)
	frames := feed.Apply(next)

	if frames[0].Unread != 4 {
		t.Errorf("unread = %d, want 4", frames[0].Unread)
	}
	if got := countToasts(frames); got != 1 {
		t.Fatalf("toasts = %d, want exactly 1", got)
	}

	var toast Frame
	for _, f := range frames {
		if f.Type == "toast" {
			toast = f
		}
	}
	if toast.Item == nil || toast.Item.ID.Hex() != testIDs[3] {
		t.Errorf("toast carries wrong item: %+v", toast.Item)
	}
	if toast.ExpiresAt == nil || !toast.ExpiresAt.After(time.Now()) {
		t.Error("toast must carry a future auto-dismiss deadline")
	}

	// The same snapshot again must not re-toast
	if got := countToasts(feed.Apply(next)); got != 0 {
		t.Errorf("repeat snapshot produced %d toasts, want 0", got)
	}
}

func TestFeedMarkAllReadDropsUnreadToZero(t *testing.T) {
	feed := NewFeedSession("u1", 50, 6*time.Second)

	feed.Apply([]Notification{
		unreadRow(testIDs[0]), unreadRow(testIDs[1]), unreadRow(testIDs[2]),
	})

	// Mark-all-read arrives as a snapshot where everything is read
	allRead := []Notification{
		readRow(testIDs[0]), readRow(testIDs[1]), readRow(testIDs[2]),
	}
	frames := feed.Apply(allRead)
	if frames[0].Unread != 0 {
		t.Errorf("unread = %d, want 0", frames[0].Unread)
	}
	if countToasts(frames) != 0 {
		t.Error("read items must not toast")
	}

	// Idempotent: the same all-read snapshot again changes nothing
	frames = feed.Apply(allRead)
	if frames[0].Unread != 0 || countToasts(frames) != 0 {
		t.Errorf("repeated mark-all-read snapshot not a no-op: %+v", frames)
	}
}

func TestFeedReadItemsNeverToast(t *testing.T) {
	feed := NewFeedSession("u1", 50, 6*time.Second)
	feed.Apply(nil)

	// An item that arrives already read (e.g. read on another device)
	frames := feed.Apply([]Notification{readRow(testIDs[0])})
	if countToasts(frames) != 0 {
		t.Error("an already-read arrival must not toast")
	}
}

func TestFeedCapsSnapshot(t *testing.T) {
	feed := NewFeedSession("u1", 3, 6*time.Second)

	rows := make([]Notification, 0, len(testIDs))
	for _, id := range testIDs {
		rows = append(rows, unreadRow(id))
	}

	frames := feed.Apply(rows)
	if len(frames[0].Items) != 3 {
		t.Errorf("snapshot holds %d items, cap is 3", len(frames[0].Items))
	}
}

func TestFeedFreshSessionStartsClean(t *testing.T) {
	// A user change means a brand-new session: the first snapshot is
	// historical again even if the process saw these rows before.
	first := NewFeedSession("u1", 50, 6*time.Second)
	first.Apply([]Notification{unreadRow(testIDs[0])})

	second := NewFeedSession("u2", 50, 6*time.Second)
	frames := second.Apply([]Notification{unreadRow(testIDs[0])})
	if countToasts(frames) != 0 {
		t.Error("a fresh session must suppress toasts on its first snapshot")
	}
}
