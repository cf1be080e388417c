package event

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

var _ Exportable = (*MissedCallV1Event)(nil)

// MissedCallV1Event is published to the message bus when an invitation
// expires (callee offline or ring timeout), so the application backend can
// persist a missed_call notification. The hub itself stores nothing.
type MissedCallV1Event struct {
	InvitationID uuid.UUID `json:"invitation_id"`
	CallerID     uuid.UUID `json:"caller_id"`
	CalleeID     uuid.UUID `json:"callee_id"`
	RoomURL      string    `json:"room_url"`
	Reason       string    `json:"reason"` // "unreachable" or "ring_timeout"
	OccurredAt   int64     `json:"occurred_at"`
}

func NewMissedCallV1Event(invitationID, caller, callee uuid.UUID, roomURL, reason string) *MissedCallV1Event {
	return &MissedCallV1Event{
		InvitationID: invitationID,
		CallerID:     caller,
		CalleeID:     callee,
		RoomURL:      roomURL,
		Reason:       reason,
		OccurredAt:   time.Now().UnixMilli(),
	}
}

// GetRoutingKey follows the social.<domain>.<entity>.<action>.v1 convention
// of the application bus.
func (e *MissedCallV1Event) GetRoutingKey() string {
	return fmt.Sprintf("social.call.%s.missed.v1", e.CalleeID)
}
