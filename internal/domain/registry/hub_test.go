package registry_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/event"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/registry"
)

func newTestHub() *registry.Hub {
	return registry.NewHub(
		registry.WithMailboxSize(8),
		registry.WithSendTimeout(50*time.Millisecond),
	)
}

func newConn(userID uuid.UUID) registry.Connector {
	return registry.NewConnector(context.Background(), userID, registry.ConnectMetadata{}, 8)
}

func testEvent(userID uuid.UUID) event.Eventer {
	return event.NewSystemEvent(userID, event.Notification, event.PriorityNormal, "payload")
}

func TestRegisterIsIdempotent(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()
	conn := newConn(userID)

	hub.Register(conn)
	hub.Register(conn)

	require.Len(t, hub.Lookup(userID), 1)
	assert.True(t, hub.IsConnected(userID))
}

func TestDeliverFansOutToAllDevices(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()
	phone := newConn(userID)
	laptop := newConn(userID)

	hub.Register(phone)
	hub.Register(laptop)

	outcome := hub.Deliver(testEvent(userID))

	require.True(t, outcome.Delivered())
	assert.Equal(t, 2, outcome.Reached)

	for _, conn := range []registry.Connector{phone, laptop} {
		select {
		case ev := <-conn.Recv():
			assert.Equal(t, event.Notification, ev.GetKind())
		default:
			t.Fatalf("connection %s received nothing", conn.GetID())
		}
	}
}

func TestDeliverToOfflineUserIsUnreachable(t *testing.T) {
	hub := newTestHub()

	outcome := hub.Deliver(testEvent(uuid.New()))

	assert.True(t, outcome.Unreachable())
	assert.Equal(t, 0, outcome.Reached)
}

func TestUnregisterPurgesEmptyEntry(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()
	conn := newConn(userID)

	hub.Register(conn)
	hub.Unregister(userID, conn.GetID())

	assert.False(t, hub.IsConnected(userID))
	assert.Empty(t, hub.Lookup(userID))

	// A repeated disconnect (client timeout racing explicit logout) must
	// stay a no-op.
	hub.Unregister(userID, conn.GetID())
	hub.Unregister(uuid.New(), conn.GetID())
}

func TestUnregisterClosesTheConnection(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()
	conn := newConn(userID)

	hub.Register(conn)
	hub.Unregister(userID, conn.GetID())

	select {
	case <-conn.Done():
	case <-time.After(time.Second):
		t.Fatal("connection was not closed on unregister")
	}
}

func TestUnregisterKeepsOtherDevices(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()
	phone := newConn(userID)
	laptop := newConn(userID)

	hub.Register(phone)
	hub.Register(laptop)
	hub.Unregister(userID, phone.GetID())

	require.True(t, hub.IsConnected(userID))
	require.Len(t, hub.Lookup(userID), 1)

	outcome := hub.Deliver(testEvent(userID))
	assert.Equal(t, 1, outcome.Reached)
}

func TestDeliverPrunesStaleConnections(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()
	conn := newConn(userID)

	hub.Register(conn)

	// Simulate a transport that died without unregistering.
	conn.Close()

	outcome := hub.Deliver(testEvent(userID))

	assert.True(t, outcome.Unreachable())
	assert.False(t, hub.IsConnected(userID), "stale connection must be pruned synchronously")
}

func TestIsConnectedMatchesLookup(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()

	assert.False(t, hub.IsConnected(userID))
	assert.Empty(t, hub.Lookup(userID))

	conn := newConn(userID)
	hub.Register(conn)

	assert.True(t, hub.IsConnected(userID))
	assert.Equal(t, []uuid.UUID{conn.GetID()}, hub.Lookup(userID))
}

func TestStats(t *testing.T) {
	hub := newTestHub()
	alice := uuid.New()
	bob := uuid.New()

	hub.Register(newConn(alice))
	hub.Register(newConn(alice))
	hub.Register(newConn(bob))

	stats := hub.Stats()
	assert.Equal(t, 2, stats.TotalUsers)
	assert.Equal(t, 3, stats.TotalConnections)
}

func TestShutdownClosesEverything(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()
	conn := newConn(userID)
	hub.Register(conn)

	hub.Shutdown()

	assert.False(t, hub.IsConnected(userID))
	select {
	case <-conn.Done():
	case <-time.After(time.Second):
		t.Fatal("connection survived shutdown")
	}
}

// The purge of an emptied entry must never strand a concurrently registering
// connection in an unreachable cell.
func TestConcurrentRegisterUnregister(t *testing.T) {
	hub := newTestHub()
	userID := uuid.New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		old := newConn(userID)
		hub.Register(old)

		wg.Add(2)
		go func() {
			defer wg.Done()
			hub.Unregister(userID, old.GetID())
		}()
		fresh := newConn(userID)
		go func() {
			defer wg.Done()
			hub.Register(fresh)
		}()
		wg.Wait()

		require.True(t, hub.IsConnected(userID))
		outcome := hub.Deliver(testEvent(userID))
		require.Equal(t, 1, outcome.Reached, "registered connection must be reachable")

		hub.Unregister(userID, fresh.GetID())
	}
}
