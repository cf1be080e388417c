package event

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/model"
)

var _ Eventer = (*CallV1Event)(nil)

// CallV1Event carries one leg of the call-signaling handshake to a single
// recipient: the ring to the callee, or the answer/expiry ack back to the
// caller. Signaling always outranks notification traffic.
type CallV1Event struct {
	ID         uuid.UUID
	UserID     uuid.UUID // routing target, not necessarily a call party's "from"
	Kind       EventKind
	Payload    any // *model.IncomingCallPayload or *model.CallAnswerPayload
	OccurredAt int64

	// Read concurrently by every device's write pump.
	cached atomic.Value
}

// NewRingEvent addresses the incoming-call frame to one callee.
func NewRingEvent(callee uuid.UUID, p *model.IncomingCallPayload) *CallV1Event {
	return newCallEvent(callee, IncomingCall, p)
}

// NewAnswerEvent informs the opposite party how the invitation ended.
func NewAnswerEvent(target uuid.UUID, kind EventKind, p *model.CallAnswerPayload) *CallV1Event {
	return newCallEvent(target, kind, p)
}

func newCallEvent(target uuid.UUID, kind EventKind, payload any) *CallV1Event {
	return &CallV1Event{
		ID:         uuid.New(),
		UserID:     target,
		Kind:       kind,
		Payload:    payload,
		OccurredAt: time.Now().UnixMilli(),
	}
}

func (e *CallV1Event) GetID() string              { return e.ID.String() }
func (e *CallV1Event) GetKind() EventKind         { return e.Kind }
func (e *CallV1Event) GetUserID() uuid.UUID       { return e.UserID }
func (e *CallV1Event) GetPriority() EventPriority { return PriorityHigh }
func (e *CallV1Event) GetOccurredAt() int64       { return e.OccurredAt }
func (e *CallV1Event) GetPayload() any            { return e.Payload }
func (e *CallV1Event) GetCached() any             { return e.cached.Load() }
func (e *CallV1Event) SetCached(v any)            { e.cached.Store(v) }
