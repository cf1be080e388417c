package model

import "github.com/google/uuid"

// IncomingCallPayload rings the callee: who is calling and which room to
// join if they pick up.
type IncomingCallPayload struct {
	InvitationID uuid.UUID `json:"invitation_id"`
	From         Profile   `json:"from"`
	RoomURL      string    `json:"room_url"`
}

// CallAnswerPayload flows back to the caller's connections once the callee
// answered (or the invitation ended some other way).
type CallAnswerPayload struct {
	InvitationID uuid.UUID `json:"invitation_id"`
	RoomURL      string    `json:"room_url,omitempty"`
}
