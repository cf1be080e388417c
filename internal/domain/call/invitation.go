package call

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/model"
)

type State int32

const (
	StateOffered   State = iota + 1 // created, ring not yet confirmed
	StateDelivered                  // ringing, waiting for the callee
	StateAccepted                   // terminal
	StateDeclined                   // terminal
	StateExpired                    // terminal
	StateCancelled                  // terminal
)

func (s State) String() string {
	switch s {
	case StateOffered:
		return "offered"
	case StateDelivered:
		return "delivered"
	case StateAccepted:
		return "accepted"
	case StateDeclined:
		return "declined"
	case StateExpired:
		return "expired"
	case StateCancelled:
		return "cancelled"
	}
	return "unknown"
}

// Terminal states are absorbing: no transition ever leaves them.
func (s State) Terminal() bool { return s >= StateAccepted }

// Invitation is one attempt to establish a call. It lives from Offer until
// a terminal state and is then dropped from the signaler's indexes, which is
// what makes duplicate or late responses no-ops.
type Invitation struct {
	ID            uuid.UUID
	Caller        uuid.UUID
	Callee        uuid.UUID
	CallerProfile model.Profile
	RoomURL       string
	CreatedAt     time.Time

	mu             sync.Mutex
	state          State
	transitionedAt time.Time
	ringTimer      *time.Timer
}

func newInvitation(caller model.Profile, callee uuid.UUID, roomURL string) *Invitation {
	now := time.Now()
	return &Invitation{
		ID:             uuid.New(),
		Caller:         caller.ID,
		Callee:         callee,
		CallerProfile:  caller,
		RoomURL:        roomURL,
		CreatedAt:      now,
		state:          StateOffered,
		transitionedAt: now,
	}
}

func (i *Invitation) State() State {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.state
}

func (i *Invitation) TransitionedAt() time.Time {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.transitionedAt
}

// tryFinish is the single compare-and-transition gate out of the ringing
// phase. Exactly one of accept, decline, cancel and timeout can win it; the
// losers observe false and must treat their action as a no-op. A pending
// ring timer is disarmed by the winner (harmless if it already fired).
func (i *Invitation) tryFinish(to State, from ...State) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	for _, f := range from {
		if i.state == f {
			i.state = to
			i.transitionedAt = time.Now()
			if i.ringTimer != nil {
				i.ringTimer.Stop()
				i.ringTimer = nil
			}
			return true
		}
	}
	return false
}

// confirmDelivered moves Offered → Delivered and arms the ring timer, unless
// a response from a fast callee device already finished the invitation.
func (i *Invitation) confirmDelivered(timeout time.Duration, onExpire func()) bool {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.state != StateOffered {
		return false
	}
	i.state = StateDelivered
	i.transitionedAt = time.Now()
	i.ringTimer = time.AfterFunc(timeout, onExpire)
	return true
}
