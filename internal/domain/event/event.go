package event

import "github.com/google/uuid"

type EventKind int16

const (
	Connected     EventKind = iota + 1 // [SYSTEM]
	Disconnected                       // [SYSTEM]
	ProtocolError                      // [SYSTEM]
	IncomingCall                       // [SIGNALING]
	CallOffered                        // [SIGNALING] ack to the offering device
	CallAccepted                       // [SIGNALING]
	CallDeclined                       // [SIGNALING]
	CallCancelled                      // [SIGNALING]
	CallExpired                        // [SIGNALING]
	Notification                       // [BUSINESS]
)

func (k EventKind) String() string {
	switch k {
	case Connected:
		return "Connected"
	case Disconnected:
		return "Disconnected"
	case ProtocolError:
		return "ProtocolError"
	case IncomingCall:
		return "IncomingCall"
	case CallOffered:
		return "CallOffered"
	case CallAccepted:
		return "CallAccepted"
	case CallDeclined:
		return "CallDeclined"
	case CallCancelled:
		return "CallCancelled"
	case CallExpired:
		return "CallExpired"
	case Notification:
		return "Notification"
	}
	return "Unknown"
}

// WireName is the protocol tag clients see in pushed frames, shared by
// every JSON transport.
func (k EventKind) WireName() string {
	switch k {
	case Connected:
		return "connected"
	case Disconnected:
		return "disconnected"
	case ProtocolError:
		return "error"
	case IncomingCall:
		return "incoming-call"
	case CallOffered:
		return "call-offered"
	case CallAccepted:
		return "call-accepted"
	case CallDeclined:
		return "call-declined"
	case CallCancelled:
		return "call-cancelled"
	case CallExpired:
		return "call-expired"
	case Notification:
		return "notification"
	}
	return "unknown"
}

type EventPriority int32

const (
	PriorityLow    EventPriority = 10
	PriorityNormal EventPriority = 20
	PriorityHigh   EventPriority = 30
)

// Eventer defines the contract for all data packets flowing through the Hub.
type Eventer interface {
	GetID() string
	GetKind() EventKind
	GetUserID() uuid.UUID
	GetPriority() EventPriority
	GetOccurredAt() int64
	GetPayload() any
	GetCached() any
	SetCached(any)
}

// Exportable marks an event that should also be re-published to the message
// bus for the application backend to persist (e.g. missed-call records).
type Exportable interface {
	// GetRoutingKey returns the broker topic. An empty key means the event
	// is not ready for export and the dispatcher skips it.
	GetRoutingKey() string
}
