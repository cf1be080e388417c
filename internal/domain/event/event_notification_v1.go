package event

import (
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/model"
)

var _ Eventer = (*NotificationV1Event)(nil)

// NotificationV1Event is the live-push view of a durable notification record.
// The durable store already owns delivery guarantees, so this event is pure
// best-effort and safe to drop under backpressure.
type NotificationV1Event struct {
	EventID      uuid.UUID
	Notification *model.Notification

	// Read concurrently by every device's write pump.
	cached atomic.Value
}

func NewNotificationV1Event(n *model.Notification) *NotificationV1Event {
	return &NotificationV1Event{
		EventID:      uuid.New(),
		Notification: n,
	}
}

func (e *NotificationV1Event) GetID() string        { return e.EventID.String() }
func (e *NotificationV1Event) GetKind() EventKind   { return Notification }
func (e *NotificationV1Event) GetUserID() uuid.UUID { return e.Notification.UserID }
func (e *NotificationV1Event) GetOccurredAt() int64 { return e.Notification.CreatedAt }
func (e *NotificationV1Event) GetPayload() any      { return e.Notification }
func (e *NotificationV1Event) GetCached() any       { return e.cached.Load() }
func (e *NotificationV1Event) SetCached(v any)      { e.cached.Store(v) }

// Missed-call pushes matter more than likes: the client surfaces them like a
// ringing event that already ended.
func (e *NotificationV1Event) GetPriority() EventPriority {
	if e.Notification.Kind == model.NotificationMissedCall {
		return PriorityHigh
	}
	return PriorityNormal
}
