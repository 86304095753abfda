package activity

import (
	"fmt"
	"strings"

	"opscrm/internal/features/notification"
)

// ChangeSet accumulates field-level deltas during one save operation and
// decides what the save produces: nothing, a timeline note, or a note
// plus a notification. All observed changes collapse into a single
// composite note so one save yields one readable timeline entry.
//
// Callers must capture the previous snapshot synchronously before
// initiating the write, then record deltas against it.
type ChangeSet struct {
	lines  []string
	notify bool
}

// Field records a log-only delta. Equal values are ignored.
func (c *ChangeSet) Field(label, old, new string) {
	if old == new {
		return
	}
	c.lines = append(c.lines, fmt.Sprintf("%s changed from %q to %q", label, old, new))
}

// Status records a status transition. Status changes both log and notify.
func (c *ChangeSet) Status(old, new string) {
	if old == new {
		return
	}
	c.lines = append(c.lines, fmt.Sprintf("Status changed from %q to %q", old, new))
	c.notify = true
}

// Assignees records an assignment change. Comparison is set equality
// with the recipient resolver's dedup semantics: reordering the same
// assignees is not a change.
func (c *ChangeSet) Assignees(prev, next []string) {
	if notification.AreSameRecipientSets(prev, next) {
		return
	}
	c.lines = append(c.lines, fmt.Sprintf("Assignees changed from [%s] to [%s]",
		strings.Join(prev, ", "), strings.Join(next, ", ")))
	c.notify = true
}

// Empty reports whether the save changed anything worth recording.
func (c *ChangeSet) Empty() bool {
	return len(c.lines) == 0
}

// ShouldNotify reports whether any recorded delta warrants a
// notification event in addition to the timeline note.
func (c *ChangeSet) ShouldNotify() bool {
	return c.notify
}

// Note renders the composite timeline note for this save.
func (c *ChangeSet) Note() string {
	return strings.Join(c.lines, "; ")
}
