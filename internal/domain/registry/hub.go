package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/event"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/model"
)

// DeliveryOutcome reports how many live connections an event reached at the
// instant of the call. Zero is not an error: "offline" and "unknown user"
// are the same observable state, and callers that need guaranteed delivery
// must rely on the durable store, not on the hub retrying.
type DeliveryOutcome struct {
	Reached int
}

func (o DeliveryOutcome) Delivered() bool   { return o.Reached > 0 }
func (o DeliveryOutcome) Unreachable() bool { return o.Reached == 0 }

// Hubber is the gateway for session management and event routing.
type Hubber interface {
	Register(conn Connector)
	Unregister(userID, connID uuid.UUID)
	Deliver(ev event.Eventer) DeliveryOutcome
	IsConnected(userID uuid.UUID) bool
	Lookup(userID uuid.UUID) []uuid.UUID
	Stats() model.HubStats
	Shutdown()
}

var _ Hubber = (*Hub)(nil)

// Hub is an in-process registry instance. It is explicitly owned and
// injected; nothing here is a process-wide singleton, so tests and multiple
// embedded hubs each hold an independent one.
type Hub struct {
	// cells stores map[uuid.UUID]*Cell. Optimized for read-heavy workloads.
	cells     sync.Map
	config    hubConfig
	startedAt time.Time
}

type hubConfig struct {
	mailboxSize int
	sendTimeout time.Duration
}

func NewHub(opts ...Option) *Hub {
	h := &Hub{
		config: hubConfig{
			mailboxSize: 256,
			sendTimeout: 500 * time.Millisecond,
		},
		startedAt: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register binds a connection to its user's cell, creating the cell lazily.
// Registering the same connection twice is a no-op; a second connection for
// the same user rings alongside the first (multi-device).
//
// Once Register returns, Deliver for that user reaches the connection: the
// map mutation happens-before any later lookup.
func (h *Hub) Register(conn Connector) {
	uID := conn.GetUserID()

	for {
		val, _ := h.cells.LoadOrStore(uID, newCell(uID))
		cell := val.(*Cell)
		cell.Attach(conn)

		// A concurrent unregister may have purged the cell between
		// LoadOrStore and Attach, stranding the connection in a cell no
		// lookup can reach. Detect and retry against a fresh cell.
		if cur, ok := h.cells.Load(uID); ok && cur == val {
			return
		}
		cell.Detach(conn.GetID())
	}
}

// Unregister removes a connection no matter which user it is bound to and
// purges the cell when it was the last one. Unregistering an absent
// connection is a no-op, so double-disconnect races are harmless.
func (h *Hub) Unregister(userID, connID uuid.UUID) {
	val, ok := h.cells.Load(userID)
	if !ok {
		return
	}
	cell := val.(*Cell)

	conn, remaining := cell.Detach(connID)
	if conn != nil {
		// Closing here lets a zombie transport notice it was pruned; the
		// handler's own deferred Close then degrades to a no-op.
		conn.Close()
	}
	if remaining == 0 {
		// No empty-set entries persist: the user's entry goes away with
		// its last connection, synchronously.
		h.cells.CompareAndDelete(userID, val)
	}
}

// Deliver routes ev to every live connection of its target user and reports
// how many were reached. Sessions that fail the bounded send are stale; they
// are unregistered on the spot and folded silently into the count.
func (h *Hub) Deliver(ev event.Eventer) DeliveryOutcome {
	val, ok := h.cells.Load(ev.GetUserID())
	if !ok {
		return DeliveryOutcome{}
	}
	cell := val.(*Cell)

	reached, dead := cell.Deliver(ev, h.config.sendTimeout)
	for _, connID := range dead {
		h.Unregister(ev.GetUserID(), connID)
	}
	return DeliveryOutcome{Reached: reached}
}

// IsConnected reports whether the user has at least one live connection.
func (h *Hub) IsConnected(userID uuid.UUID) bool {
	val, ok := h.cells.Load(userID)
	return ok && val.(*Cell).Len() > 0
}

// Lookup returns the identifiers of the user's live connections. Possibly
// empty, never an error.
func (h *Hub) Lookup(userID uuid.UUID) []uuid.UUID {
	val, ok := h.cells.Load(userID)
	if !ok {
		return nil
	}
	return val.(*Cell).ConnIDs()
}

// Stats walks the registry for a monitoring snapshot.
func (h *Hub) Stats() model.HubStats {
	stats := model.HubStats{Uptime: time.Since(h.startedAt)}
	h.cells.Range(func(_, val any) bool {
		if n := val.(*Cell).Len(); n > 0 {
			stats.TotalUsers++
			stats.TotalConnections += n
		}
		return true
	})
	return stats
}

// Shutdown closes every session and clears the registry.
func (h *Hub) Shutdown() {
	h.cells.Range(func(key, val any) bool {
		val.(*Cell).Stop()
		h.cells.Delete(key)
		return true
	})
}
