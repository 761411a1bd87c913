// Package audit keeps a durable trail of moderation-relevant happenings:
// submissions, status transitions, profile removals. Events are accepted on a
// channel and persisted by a background worker, so audit latency never sits
// on a user-facing path; an audit failure is logged and dropped, never
// surfaced to the user.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Event kinds.
const (
	KindSubmission     = "submission.created"
	KindStatusChange   = "status.changed"
	KindProfileRemoved = "profile.removed"
	KindNotification   = "notification.sent"
)

// Event is one audit record.
type Event struct {
	ID       string    `json:"id"`
	Kind     string    `json:"kind"`
	UserID   int64     `json:"user_id"`
	RecordID string    `json:"record_id,omitempty"`
	Locale   string    `json:"locale,omitempty"`
	Detail   string    `json:"detail,omitempty"`
	At       time.Time `json:"at"`
}

// NewEvent stamps identity and time; callers fill the rest.
func NewEvent(kind string, userID int64) Event {
	return Event{
		ID:     uuid.NewString(),
		Kind:   kind,
		UserID: userID,
		At:     time.Now().UTC(),
	}
}
