package wsmarshaller

import (
	"encoding/json"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/event"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/model"
)

// WSEvent is the generic frame wrapper for WebSocket transmission.
type WSEvent struct {
	Event   string `json:"event"` // e.g. "incoming-call", "notification"
	ID      string `json:"id"`
	SentAt  int64  `json:"sent_at"`
	Payload any    `json:"payload"`
}

// MarshallDeliveryEvent prepares a domain event for WebSocket transmission.
// The encoded frame is cached on the event, so fan-out to several devices
// of the same user marshals only once.
func MarshallDeliveryEvent(ev event.Eventer) ([]byte, error) {
	if cached := ev.GetCached(); cached != nil {
		if raw, ok := cached.([]byte); ok {
			return raw, nil
		}
	}

	res := &WSEvent{
		Event:  ev.GetKind().WireName(),
		ID:     ev.GetID(),
		SentAt: ev.GetOccurredAt(),
	}

	switch p := ev.GetPayload().(type) {
	case *model.Notification:
		res.Payload = mapNotification(p)
	default:
		// Call and system payloads are wire-shaped already.
		res.Payload = p
	}

	raw, err := json.Marshal(res)
	if err != nil {
		return nil, err
	}

	ev.SetCached(raw)
	return raw, nil
}
