package amqp

import (
	"context"

	"github.com/google/uuid"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/event"
)

// OnNotificationCreatedV1 pushes a freshly persisted notification to the
// recipient's live connections on this node. The push is best-effort; the
// record is already durable, so an unreachable user is not a failure and a
// receipt is emitted only when somebody was actually reached.
func (h *NotificationHandler) OnNotificationCreatedV1(ctx context.Context, userID uuid.UUID, raw *NotificationV1) (event.Exportable, error) {
	n := raw.ToDomain()
	if n.UserID == uuid.Nil {
		n.UserID = userID
	}

	outcome := h.notifier.Push(ctx, n)
	if outcome.Unreachable() {
		return nil, nil
	}

	return event.NewDeliveryReceiptV1Event(n.ID, n.UserID, outcome.Reached), nil
}
