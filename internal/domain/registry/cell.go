/*
Package registry is the authoritative mapping from user identity to live
connections, plus the routing of targeted events onto them.

Key architectural concepts:
  - Per-user cells: every online user is represented by an isolated Cell that
    encapsulates all concurrent transport sessions (devices, tabs) for that
    identity. Lookups are lock-free via sync.Map; mutation is fine-grained
    per cell, so traffic for different users never contends.
  - Bounded sends: delivery to one session is a best-effort push with a
    strict time budget. A session that cannot absorb an event in time is
    treated as dead and pruned immediately; there is no delayed garbage
    collection of stale mappings.
  - Synchronous teardown: removing the last session for a user removes the
    user's cell in the same operation, so "unknown user" and "known user,
    zero sessions" are the same observable state.
*/
package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/event"
)

// Cell holds the isolated delivery state for a single user.
type Cell struct {
	userID uuid.UUID

	// sessions holds all active transport channels for the user. Multiple
	// entries mean multiple devices; every delivery fans out to all of them.
	mu       sync.RWMutex
	sessions map[uuid.UUID]Connector
}

func newCell(userID uuid.UUID) *Cell {
	return &Cell{
		userID:   userID,
		sessions: make(map[uuid.UUID]Connector),
	}
}

// Attach registers a transport session. Re-attaching the same connection is
// a no-op; a different connection for the same user is added alongside.
func (c *Cell) Attach(conn Connector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessions[conn.GetID()] = conn
}

// Detach removes one session and reports how many remain, handing the
// detached connector back so the hub can close it. Detaching an unknown
// connection is a no-op, which makes double-disconnect races benign.
func (c *Cell) Detach(connID uuid.UUID) (detached Connector, remaining int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	detached = c.sessions[connID]
	delete(c.sessions, connID)
	return detached, len(c.sessions)
}

// Len reports the number of live sessions.
func (c *Cell) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

// ConnIDs returns the identifiers of all live sessions. Only opaque IDs
// leave the registry, never references into its storage.
func (c *Cell) ConnIDs() []uuid.UUID {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]uuid.UUID, 0, len(c.sessions))
	for id := range c.sessions {
		ids = append(ids, id)
	}
	return ids
}

// Deliver fans ev out to every session, independently: one session failing
// never aborts delivery to its siblings. Failed sessions are reported back
// as dead so the hub can prune them.
//
// The read lock is held across the sends. That serializes Deliver against
// Detach+Close for the same user, which is what makes a concurrent
// unregister unable to yank a session out from under an in-flight send.
// Sends are individually bounded by timeout, so the hold time is too.
func (c *Cell) Deliver(ev event.Eventer, timeout time.Duration) (reached int, dead []uuid.UUID) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for id, conn := range c.sessions {
		if conn.Send(ev, timeout) {
			reached++
		} else {
			dead = append(dead, id)
		}
	}
	return reached, dead
}

// Stop closes every session. Used only on hub shutdown.
func (c *Cell) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, conn := range c.sessions {
		conn.Close()
		delete(c.sessions, id)
	}
}
