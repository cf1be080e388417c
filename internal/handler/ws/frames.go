package ws

import "github.com/google/uuid"

// Frame types accepted from the client.
const (
	FrameRegisterUser = "register-user"
	FrameOfferCall    = "offer-call"
	FrameAcceptCall   = "accept-call"
	FrameDeclineCall  = "decline-call"
	FrameCancelCall   = "cancel-call"
)

// ClientFrame is the single inbound envelope; the Type tag decides which
// fields are meaningful.
type ClientFrame struct {
	Type string `json:"type"`

	// register-user
	UserID     uuid.UUID `json:"user_id,omitempty"`
	Credential string    `json:"credential,omitempty"`
	Platform   string    `json:"platform,omitempty"`

	// offer-call
	CalleeID uuid.UUID `json:"callee_id,omitempty"`

	// accept-call / decline-call / cancel-call
	InvitationID uuid.UUID `json:"invitation_id,omitempty"`
}
