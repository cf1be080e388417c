package call_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/call"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/event"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/model"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/registry"
)

// fakeHub routes nothing; it records what the signaler asked for and
// reports a configurable device count per user.
type fakeHub struct {
	mu        sync.Mutex
	online    map[uuid.UUID]int
	delivered []event.Eventer
}

func newFakeHub() *fakeHub {
	return &fakeHub{online: make(map[uuid.UUID]int)}
}

func (f *fakeHub) Register(registry.Connector)       {}
func (f *fakeHub) Unregister(_, _ uuid.UUID)         {}
func (f *fakeHub) Shutdown()                         {}
func (f *fakeHub) Stats() model.HubStats             { return model.HubStats{} }
func (f *fakeHub) Lookup(uuid.UUID) []uuid.UUID      { return nil }
func (f *fakeHub) IsConnected(userID uuid.UUID) bool { return f.online[userID] > 0 }

func (f *fakeHub) Deliver(ev event.Eventer) registry.DeliveryOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.delivered = append(f.delivered, ev)
	return registry.DeliveryOutcome{Reached: f.online[ev.GetUserID()]}
}

// eventsFor filters recorded deliveries addressed to one user.
func (f *fakeHub) eventsFor(userID uuid.UUID) []event.Eventer {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []event.Eventer
	for _, ev := range f.delivered {
		if ev.GetUserID() == userID {
			out = append(out, ev)
		}
	}
	return out
}

func (f *fakeHub) lastKindFor(userID uuid.UUID) event.EventKind {
	evs := f.eventsFor(userID)
	if len(evs) == 0 {
		return 0
	}
	return evs[len(evs)-1].GetKind()
}

type fakeReporter struct {
	mu      sync.Mutex
	reports []*event.MissedCallV1Event
}

func (f *fakeReporter) ReportMissedCall(_ context.Context, ev *event.MissedCallV1Event) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reports = append(f.reports, ev)
}

func (f *fakeReporter) reasons() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, r := range f.reports {
		out = append(out, r.Reason)
	}
	return out
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSignaler(hub *fakeHub, reporter *fakeReporter, opts ...call.SignalerOption) *call.Signaler {
	return call.NewSignaler(hub, reporter, testLogger(), opts...)
}

func caller() model.Profile {
	return model.Profile{ID: uuid.New(), Username: "alice", DisplayName: "Alice"}
}

func TestOfferToOfflineCalleeExpiresImmediately(t *testing.T) {
	hub := newFakeHub()
	reporter := &fakeReporter{}
	s := newTestSignaler(hub, reporter)

	alice := caller()
	bob := uuid.New()

	inv, err := s.Offer(context.Background(), alice, bob)
	require.NoError(t, err)

	assert.Equal(t, call.StateExpired, inv.State())
	assert.Equal(t, 0, s.ActiveCount())
	assert.Equal(t, event.CallExpired, hub.lastKindFor(alice.ID))
	assert.Equal(t, []string{"unreachable"}, reporter.reasons())
}

func TestOfferRingsTheCallee(t *testing.T) {
	hub := newFakeHub()
	s := newTestSignaler(hub, &fakeReporter{}, call.WithRoomBaseURL("https://meet.test/room"))

	alice := caller()
	bob := uuid.New()
	hub.online[bob] = 2

	inv, err := s.Offer(context.Background(), alice, bob)
	require.NoError(t, err)

	assert.Equal(t, call.StateDelivered, inv.State())
	assert.Equal(t, 1, s.ActiveCount())

	rings := hub.eventsFor(bob)
	require.Len(t, rings, 1)
	assert.Equal(t, event.IncomingCall, rings[0].GetKind())

	payload, ok := rings[0].GetPayload().(*model.IncomingCallPayload)
	require.True(t, ok)
	assert.Equal(t, inv.ID, payload.InvitationID)
	assert.Equal(t, alice, payload.From)
	assert.True(t, strings.HasPrefix(payload.RoomURL, "https://meet.test/room/"))
}

func TestOfferToSelfIsRejected(t *testing.T) {
	s := newTestSignaler(newFakeHub(), &fakeReporter{})

	alice := caller()
	_, err := s.Offer(context.Background(), alice, alice.ID)

	assert.ErrorIs(t, err, call.ErrSelfCall)
}

func TestOfferWithoutCalleeIsRejected(t *testing.T) {
	hub := newFakeHub()
	reporter := &fakeReporter{}
	s := newTestSignaler(hub, reporter)

	_, err := s.Offer(context.Background(), caller(), uuid.Nil)

	assert.ErrorIs(t, err, call.ErrNoCallee)
	assert.Equal(t, 0, s.ActiveCount())
	// Nobody was rung and no missed call was filed against the zero id.
	assert.Empty(t, hub.eventsFor(uuid.Nil))
	assert.Empty(t, reporter.reasons())
}

func TestDuplicateOfferSameDirectionIsRejected(t *testing.T) {
	hub := newFakeHub()
	s := newTestSignaler(hub, &fakeReporter{})

	alice := caller()
	bob := caller()
	hub.online[alice.ID] = 1
	hub.online[bob.ID] = 1

	_, err := s.Offer(context.Background(), alice, bob.ID)
	require.NoError(t, err)

	_, err = s.Offer(context.Background(), alice, bob.ID)
	assert.ErrorIs(t, err, call.ErrAlreadyRinging)

	// The opposite direction is an independent pair.
	_, err = s.Offer(context.Background(), bob, alice.ID)
	assert.NoError(t, err)
}

func TestAcceptNotifiesCallerWithRoom(t *testing.T) {
	hub := newFakeHub()
	s := newTestSignaler(hub, &fakeReporter{})

	alice := caller()
	bob := uuid.New()
	hub.online[bob] = 1

	inv, err := s.Offer(context.Background(), alice, bob)
	require.NoError(t, err)

	got, ok := s.Accept(context.Background(), inv.ID, bob)
	require.True(t, ok)
	assert.Equal(t, call.StateAccepted, got.State())
	assert.Equal(t, 0, s.ActiveCount())

	acks := hub.eventsFor(alice.ID)
	require.Len(t, acks, 1)
	assert.Equal(t, event.CallAccepted, acks[0].GetKind())

	payload := acks[0].GetPayload().(*model.CallAnswerPayload)
	assert.Equal(t, inv.ID, payload.InvitationID)
	assert.Equal(t, inv.RoomURL, payload.RoomURL)
}

func TestFirstResponseWins(t *testing.T) {
	hub := newFakeHub()
	s := newTestSignaler(hub, &fakeReporter{})

	alice := caller()
	bob := uuid.New()
	hub.online[bob] = 2

	inv, _ := s.Offer(context.Background(), alice, bob)

	_, ok := s.Accept(context.Background(), inv.ID, bob)
	require.True(t, ok)

	// The second device answers late; both variants must be no-ops.
	_, ok = s.Accept(context.Background(), inv.ID, bob)
	assert.False(t, ok)
	_, ok = s.Decline(context.Background(), inv.ID, bob)
	assert.False(t, ok)

	assert.Equal(t, call.StateAccepted, inv.State())
	// Exactly one ack reached the caller.
	assert.Len(t, hub.eventsFor(alice.ID), 1)
}

func TestDeclineNotifiesCallerWithoutRoom(t *testing.T) {
	hub := newFakeHub()
	s := newTestSignaler(hub, &fakeReporter{})

	alice := caller()
	bob := uuid.New()
	hub.online[bob] = 1

	inv, _ := s.Offer(context.Background(), alice, bob)

	_, ok := s.Decline(context.Background(), inv.ID, bob)
	require.True(t, ok)
	assert.Equal(t, call.StateDeclined, inv.State())

	acks := hub.eventsFor(alice.ID)
	require.Len(t, acks, 1)
	assert.Equal(t, event.CallDeclined, acks[0].GetKind())
	assert.Empty(t, acks[0].GetPayload().(*model.CallAnswerPayload).RoomURL)
}

func TestCancelStopsTheCalleeRinging(t *testing.T) {
	hub := newFakeHub()
	s := newTestSignaler(hub, &fakeReporter{})

	alice := caller()
	bob := uuid.New()
	hub.online[bob] = 1

	inv, _ := s.Offer(context.Background(), alice, bob)

	_, ok := s.Cancel(context.Background(), inv.ID, alice.ID)
	require.True(t, ok)
	assert.Equal(t, call.StateCancelled, inv.State())

	calleeEvents := hub.eventsFor(bob)
	require.Len(t, calleeEvents, 2) // ring, then cancel
	assert.Equal(t, event.CallCancelled, calleeEvents[1].GetKind())
}

func TestResponsesFromWrongPartyAreIgnored(t *testing.T) {
	hub := newFakeHub()
	s := newTestSignaler(hub, &fakeReporter{})

	alice := caller()
	bob := uuid.New()
	stranger := uuid.New()
	hub.online[bob] = 1

	inv, _ := s.Offer(context.Background(), alice, bob)

	_, ok := s.Accept(context.Background(), inv.ID, alice.ID)
	assert.False(t, ok, "only the callee may accept")

	_, ok = s.Cancel(context.Background(), inv.ID, bob)
	assert.False(t, ok, "only the caller may cancel")

	_, ok = s.Decline(context.Background(), inv.ID, stranger)
	assert.False(t, ok)

	assert.Equal(t, call.StateDelivered, inv.State())
}

func TestUnknownInvitationIsANoOp(t *testing.T) {
	s := newTestSignaler(newFakeHub(), &fakeReporter{})

	_, ok := s.Accept(context.Background(), uuid.New(), uuid.New())
	assert.False(t, ok)
}

func TestRingTimeoutExpiresTheInvitation(t *testing.T) {
	hub := newFakeHub()
	reporter := &fakeReporter{}
	s := newTestSignaler(hub, reporter, call.WithRingTimeout(20*time.Millisecond))

	alice := caller()
	bob := uuid.New()
	hub.online[bob] = 1

	inv, _ := s.Offer(context.Background(), alice, bob)
	require.Equal(t, call.StateDelivered, inv.State())

	require.Eventually(t, func() bool {
		return inv.State() == call.StateExpired
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, 0, s.ActiveCount())
	assert.Equal(t, event.CallExpired, hub.lastKindFor(alice.ID))
	assert.Equal(t, []string{"ring_timeout"}, reporter.reasons())

	// A late accept after expiry is a no-op, never a resurrection.
	_, ok := s.Accept(context.Background(), inv.ID, bob)
	assert.False(t, ok)
	assert.Equal(t, call.StateExpired, inv.State())
}

func TestConcurrentAcceptAndRingTimeoutReachOneTerminalState(t *testing.T) {
	alice := caller()
	bob := uuid.New()

	// Fire the accept right at the deadline, repeatedly, so both orderings
	// of the race get exercised. Whichever side wins the transition gate,
	// there must be exactly one terminal state and one caller ack.
	for i := 0; i < 25; i++ {
		hub := newFakeHub()
		reporter := &fakeReporter{}
		s := newTestSignaler(hub, reporter, call.WithRingTimeout(time.Millisecond))
		hub.online[bob] = 1

		inv, err := s.Offer(context.Background(), alice, bob)
		require.NoError(t, err)

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			time.Sleep(time.Millisecond)
			s.Accept(context.Background(), inv.ID, bob)
		}()
		wg.Wait()

		require.Eventually(t, func() bool {
			return inv.State().Terminal()
		}, time.Second, time.Millisecond)

		state := inv.State()
		require.Contains(t, []call.State{call.StateAccepted, call.StateExpired}, state)

		// The loser's ack must never show up, even a beat later.
		require.Eventually(t, func() bool {
			return len(hub.eventsFor(alice.ID)) == 1
		}, time.Second, time.Millisecond)
		time.Sleep(5 * time.Millisecond)

		acks := hub.eventsFor(alice.ID)
		require.Len(t, acks, 1)
		if state == call.StateAccepted {
			assert.Equal(t, event.CallAccepted, acks[0].GetKind())
			assert.Empty(t, reporter.reasons())
		} else {
			assert.Equal(t, event.CallExpired, acks[0].GetKind())
			assert.Equal(t, []string{"ring_timeout"}, reporter.reasons())
		}
		assert.Equal(t, 0, s.ActiveCount())
	}
}

func TestAcceptDisarmsTheRingTimer(t *testing.T) {
	hub := newFakeHub()
	reporter := &fakeReporter{}
	s := newTestSignaler(hub, reporter, call.WithRingTimeout(20*time.Millisecond))

	alice := caller()
	bob := uuid.New()
	hub.online[bob] = 1

	inv, _ := s.Offer(context.Background(), alice, bob)
	_, ok := s.Accept(context.Background(), inv.ID, bob)
	require.True(t, ok)

	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, call.StateAccepted, inv.State())
	assert.Empty(t, reporter.reasons())
}

func TestPairIsFreedAfterTerminalState(t *testing.T) {
	hub := newFakeHub()
	s := newTestSignaler(hub, &fakeReporter{})

	alice := caller()
	bob := uuid.New()
	hub.online[bob] = 1

	first, _ := s.Offer(context.Background(), alice, bob)
	_, ok := s.Decline(context.Background(), first.ID, bob)
	require.True(t, ok)

	second, err := s.Offer(context.Background(), alice, bob)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestShutdownDropsPendingInvitations(t *testing.T) {
	hub := newFakeHub()
	s := newTestSignaler(hub, &fakeReporter{})

	alice := caller()
	bob := uuid.New()
	hub.online[bob] = 1

	inv, _ := s.Offer(context.Background(), alice, bob)

	s.Shutdown()

	assert.Equal(t, 0, s.ActiveCount())
	assert.Equal(t, call.StateCancelled, inv.State())
}
