package model

import "github.com/google/uuid"

// NotificationKind mirrors the type tags the application backend stores in
// its durable notification log.
type NotificationKind string

const (
	NotificationLike               NotificationKind = "like"
	NotificationComment            NotificationKind = "comment"
	NotificationConnectionRequest  NotificationKind = "connection_request"
	NotificationConnectionAccepted NotificationKind = "connection_accepted"
	NotificationMissedCall         NotificationKind = "missed_call"
)

// Valid reports whether k is one of the known tags. Unknown tags from newer
// backend versions are forwarded untouched, so this is advisory only.
func (k NotificationKind) Valid() bool {
	switch k {
	case NotificationLike, NotificationComment, NotificationConnectionRequest,
		NotificationConnectionAccepted, NotificationMissedCall:
		return true
	}
	return false
}

// Notification is the transient live-push view of a durable notification
// record. The backend remains the source of truth for read state; the hub
// never stores these.
type Notification struct {
	ID        uuid.UUID        `json:"id"`
	UserID    uuid.UUID        `json:"user_id"`
	Kind      NotificationKind `json:"kind"`
	Sender    Profile          `json:"sender"`
	Message   string           `json:"message"`
	CreatedAt int64            `json:"created_at"`
}
