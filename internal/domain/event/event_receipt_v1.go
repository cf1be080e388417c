package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ Exportable = (*DeliveryReceiptV1Event)(nil)

// DeliveryReceiptV1Event tells the application backend that a notification
// reached at least one live connection, so it can render the record as
// "seen on a device" distinct from read. Informational only; unread state
// still changes exclusively through the mark-read acknowledgement.
type DeliveryReceiptV1Event struct {
	NotificationID uuid.UUID `json:"notification_id"`
	UserID         uuid.UUID `json:"user_id"`
	Reached        int       `json:"reached"`
	OccurredAt     int64     `json:"occurred_at"`
}

func NewDeliveryReceiptV1Event(notificationID, userID uuid.UUID, reached int) *DeliveryReceiptV1Event {
	return &DeliveryReceiptV1Event{
		NotificationID: notificationID,
		UserID:         userID,
		Reached:        reached,
		OccurredAt:     time.Now().UnixMilli(),
	}
}

func (e *DeliveryReceiptV1Event) GetRoutingKey() string {
	return fmt.Sprintf("social.delivery.%s.receipt.v1", e.UserID)
}
