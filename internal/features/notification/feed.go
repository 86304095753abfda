package notification

import (
	"time"
)

// Frame is one message pushed to a live feed client.
type Frame struct {
	Type   string    `json:"type"` // "snapshot" | "toast"
	Unread int       `json:"unread"`
	Items  []Notification `json:"items,omitempty"`
	Item   *Notification  `json:"item,omitempty"`
	// ExpiresAt tells the client when to auto-dismiss a toast. Manual
	// dismissal and the timeout race; whichever fires first wins.
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// FeedSession is the per-connection state machine behind the live feed.
// It distinguishes "existed before I opened the app" from "arrived while
// I was watching": the first snapshot after subscribing updates the
// unread view but never produces toasts, tracked by a one-shot flag and
// a seen-id set that accumulates across snapshots.
//
// A session belongs to exactly one user and one connection. A change of
// user means a new session; state is never reused.
type FeedSession struct {
	UserID string

	cap      int
	toastTTL time.Duration

	seenIDs             map[string]struct{}
	initialLoadComplete bool
}

func NewFeedSession(userID string, cap int, toastTTL time.Duration) *FeedSession {
	return &FeedSession{
		UserID:   userID,
		cap:      cap,
		toastTTL: toastTTL,
		seenIDs:  make(map[string]struct{}),
	}
}

// Apply folds one snapshot of the user's recency-sorted notifications
// into the session and returns the frames to push: always a snapshot
// frame, plus one toast frame per genuinely new unread item once the
// initial load is behind us.
func (s *FeedSession) Apply(snapshot []Notification) []Frame {
	if len(snapshot) > s.cap {
		snapshot = snapshot[:s.cap]
	}

	unread := 0
	for _, n := range snapshot {
		if !n.IsRead {
			unread++
		}
	}

	frames := []Frame{{
		Type:   "snapshot",
		Unread: unread,
		Items:  snapshot,
	}}

	if !s.initialLoadComplete {
		// Everything in the first snapshot is historical as far as this
		// session is concerned, however recent it is.
		for _, n := range snapshot {
			s.seenIDs[n.ID.Hex()] = struct{}{}
		}
		s.initialLoadComplete = true
		return frames
	}

	expires := time.Now().Add(s.toastTTL)
	for i := range snapshot {
		n := snapshot[i]
		if n.IsRead {
			s.seenIDs[n.ID.Hex()] = struct{}{}
			continue
		}
		if _, seen := s.seenIDs[n.ID.Hex()]; seen {
			continue
		}
		s.seenIDs[n.ID.Hex()] = struct{}{}
		frames = append(frames, Frame{
			Type:      "toast",
			Unread:    unread,
			Item:      &n,
			ExpiresAt: &expires,
		})
	}

	return frames
}
