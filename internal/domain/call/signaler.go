/*
Package call models the lifecycle of a call invitation as a short-lived
state machine on top of the registry's event routing:

	Offered ── ring unreachable ──────────────▶ Expired
	Offered ── ring delivered ──▶ Delivered ──▶ Accepted │ Declined │ Expired │ Cancelled

All terminal states are absorbing. The hub only confirms the handshake and
tells both parties which room to join; media transport happens elsewhere.
*/
package call

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/event"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/model"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/registry"
)

var (
	// ErrAlreadyRinging rejects a second offer for the same ordered
	// (caller, callee) pair while one is still pending. The opposite
	// direction is allowed.
	ErrAlreadyRinging = errors.New("call: invitation for this pair is already ringing")

	// ErrSelfCall rejects a user calling themselves.
	ErrSelfCall = errors.New("call: caller and callee are the same user")

	// ErrNoCallee rejects an offer that names no callee. Without this check
	// the zero id would ring nobody and still file a missed-call record.
	ErrNoCallee = errors.New("call: callee is not specified")
)

// MissedCallReporter is the outbound edge to the application backend: it
// persists a missed_call notification when an invitation expires. Durability
// is the backend's responsibility, the hub only reports.
type MissedCallReporter interface {
	ReportMissedCall(ctx context.Context, ev *event.MissedCallV1Event)
}

type pairKey struct {
	caller uuid.UUID
	callee uuid.UUID
}

// Signaler owns every in-flight invitation.
type Signaler struct {
	hub      registry.Hubber
	reporter MissedCallReporter
	logger   *slog.Logger

	ringTimeout time.Duration
	roomBaseURL string

	mu     sync.Mutex
	byID   map[uuid.UUID]*Invitation
	byPair map[pairKey]*Invitation
}

type SignalerOption func(*Signaler)

// WithRingTimeout overrides how long a delivered invitation rings before it
// expires.
func WithRingTimeout(d time.Duration) SignalerOption {
	return func(s *Signaler) { s.ringTimeout = d }
}

// WithRoomBaseURL sets the prefix under which opaque room references are
// allocated.
func WithRoomBaseURL(u string) SignalerOption {
	return func(s *Signaler) { s.roomBaseURL = u }
}

func NewSignaler(hub registry.Hubber, reporter MissedCallReporter, logger *slog.Logger, opts ...SignalerOption) *Signaler {
	s := &Signaler{
		hub:         hub,
		reporter:    reporter,
		logger:      logger,
		ringTimeout: 45 * time.Second,
		roomBaseURL: "https://meet.example.com/room",
		byID:        make(map[uuid.UUID]*Invitation),
		byPair:      make(map[pairKey]*Invitation),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Offer creates an invitation from caller to callee and rings every live
// connection of the callee. The outcome is reflected in the returned
// invitation's state: Delivered when at least one device is ringing,
// Expired when the callee was unreachable.
func (s *Signaler) Offer(ctx context.Context, caller model.Profile, callee uuid.UUID) (*Invitation, error) {
	if callee == uuid.Nil {
		return nil, ErrNoCallee
	}
	if caller.ID == callee {
		return nil, ErrSelfCall
	}

	room := fmt.Sprintf("%s/%s", s.roomBaseURL, uuid.NewString())
	inv := newInvitation(caller, callee, room)
	key := pairKey{caller: caller.ID, callee: callee}

	// Index before ringing so a concurrent second offer for the same pair
	// is rejected, not interleaved.
	s.mu.Lock()
	if existing, ok := s.byPair[key]; ok && !existing.State().Terminal() {
		s.mu.Unlock()
		return nil, ErrAlreadyRinging
	}
	s.byPair[key] = inv
	s.byID[inv.ID] = inv
	s.mu.Unlock()

	outcome := s.hub.Deliver(event.NewRingEvent(callee, &model.IncomingCallPayload{
		InvitationID: inv.ID,
		From:         caller,
		RoomURL:      room,
	}))

	if outcome.Unreachable() {
		// Nobody is ringing; no device ever saw the invitation id, so no
		// response can race this transition.
		if inv.tryFinish(StateExpired, StateOffered) {
			s.unindex(inv)
			s.notifyCaller(inv, event.CallExpired)
			s.reportMissed(ctx, inv, "unreachable")
		}
		return inv, nil
	}

	// A fast answer from one of the ringing devices may already have
	// finished the invitation; arming the timer would then be wrong.
	if !inv.confirmDelivered(s.ringTimeout, func() { s.expire(inv.ID) }) {
		return inv, nil
	}

	s.logger.Info("call ringing",
		slog.String("invitation_id", inv.ID.String()),
		slog.String("caller", caller.ID.String()),
		slog.String("callee", callee.String()),
		slog.Int("devices", outcome.Reached),
	)
	return inv, nil
}

// Accept processes the callee's accept. The first response processed wins;
// anything referencing an unknown or already-terminal invitation, or coming
// from a user who is not the callee, is a no-op per the absorbing-terminal
// rule, never an error.
func (s *Signaler) Accept(ctx context.Context, invitationID, from uuid.UUID) (*Invitation, bool) {
	inv, ok := s.lookup(invitationID)
	if !ok || from != inv.Callee {
		return nil, false
	}
	if !inv.tryFinish(StateAccepted, StateOffered, StateDelivered) {
		return inv, false
	}
	s.unindex(inv)

	// Let the caller's devices navigate into the room as well.
	s.notifyCaller(inv, event.CallAccepted)

	s.logger.Info("call accepted", slog.String("invitation_id", inv.ID.String()))
	return inv, true
}

// Decline processes the callee's decline; same idempotency rules as Accept.
func (s *Signaler) Decline(ctx context.Context, invitationID, from uuid.UUID) (*Invitation, bool) {
	inv, ok := s.lookup(invitationID)
	if !ok || from != inv.Callee {
		return nil, false
	}
	if !inv.tryFinish(StateDeclined, StateOffered, StateDelivered) {
		return inv, false
	}
	s.unindex(inv)

	s.notifyCaller(inv, event.CallDeclined)

	s.logger.Info("call declined", slog.String("invitation_id", inv.ID.String()))
	return inv, true
}

// Cancel withdraws an invitation before the callee responded. Only the
// caller may cancel. The callee's devices are told to stop ringing.
func (s *Signaler) Cancel(ctx context.Context, invitationID, from uuid.UUID) (*Invitation, bool) {
	inv, ok := s.lookup(invitationID)
	if !ok || from != inv.Caller {
		return nil, false
	}
	if !inv.tryFinish(StateCancelled, StateOffered, StateDelivered) {
		return inv, false
	}
	s.unindex(inv)

	s.hub.Deliver(event.NewAnswerEvent(inv.Callee, event.CallCancelled, &model.CallAnswerPayload{
		InvitationID: inv.ID,
	}))

	s.logger.Info("call cancelled", slog.String("invitation_id", inv.ID.String()))
	return inv, true
}

// expire fires from the ring timer. It races the accept/decline/cancel
// paths through the same compare-and-transition, so exactly one of them
// wins and the rest degrade to no-ops.
func (s *Signaler) expire(invitationID uuid.UUID) {
	inv, ok := s.lookup(invitationID)
	if !ok {
		return
	}
	if !inv.tryFinish(StateExpired, StateDelivered) {
		return
	}
	s.unindex(inv)

	s.notifyCaller(inv, event.CallExpired)
	s.reportMissed(context.Background(), inv, "ring_timeout")

	s.logger.Info("call expired", slog.String("invitation_id", inv.ID.String()))
}

// ActiveCount reports the number of non-terminal invitations.
func (s *Signaler) ActiveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byID)
}

// Shutdown drops all pending invitations without notifying anyone; the
// process is going away and clients re-handshake on reconnect.
func (s *Signaler) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, inv := range s.byID {
		inv.tryFinish(StateCancelled, StateOffered, StateDelivered)
		delete(s.byID, id)
	}
	s.byPair = make(map[pairKey]*Invitation)
}

func (s *Signaler) lookup(invitationID uuid.UUID) (*Invitation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.byID[invitationID]
	return inv, ok
}

// unindex drops a terminal invitation from both indexes. Later messages for
// its id miss the lookup and become no-ops.
func (s *Signaler) unindex(inv *Invitation) {
	key := pairKey{caller: inv.Caller, callee: inv.Callee}

	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byID, inv.ID)
	if s.byPair[key] == inv {
		delete(s.byPair, key)
	}
}

func (s *Signaler) notifyCaller(inv *Invitation, kind event.EventKind) {
	payload := &model.CallAnswerPayload{InvitationID: inv.ID}
	if kind == event.CallAccepted {
		payload.RoomURL = inv.RoomURL
	}
	s.hub.Deliver(event.NewAnswerEvent(inv.Caller, kind, payload))
}

func (s *Signaler) reportMissed(ctx context.Context, inv *Invitation, reason string) {
	if s.reporter == nil {
		return
	}
	s.reporter.ReportMissedCall(ctx, event.NewMissedCallV1Event(inv.ID, inv.Caller, inv.Callee, inv.RoomURL, reason))
}
