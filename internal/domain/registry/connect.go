package registry

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/event"
)

// Interface guard
var _ Connector = (*connect)(nil)

// Connector is the opaque send-capability handed out by the registry. The
// transport handler drains Recv; every other component only pushes via Send.
type Connector interface {
	GetID() uuid.UUID
	GetUserID() uuid.UUID
	GetCreatedAt() time.Time
	Send(ev event.Eventer, timeout time.Duration) bool // thread-safe, bounded wait
	Recv() <-chan event.Eventer
	Done() <-chan struct{} // closed once the session is terminated
	Close()                // terminate the session; idempotent
}

// ConnectMetadata is exported for transport and analytics layers.
type ConnectMetadata struct {
	Platform  string
	RemoteIP  string
	UserAgent string
}

// connect is unexported to force interface usage by outer layers.
type connect struct {
	id           uuid.UUID
	userID       uuid.UUID
	metadata     ConnectMetadata
	createdAt    time.Time
	ctx          context.Context
	cancelFn     context.CancelFunc
	sendCh       chan event.Eventer
	closeOnce    sync.Once
	droppedCount uint64 // [ATOMIC_FIELD]
}

// NewConnector allocates a connector bound to userID. The returned value is
// live immediately; registration order is up to the caller.
func NewConnector(ctx context.Context, userID uuid.UUID, meta ConnectMetadata, bufferSize int) Connector {
	childCtx, cancel := context.WithCancel(ctx)

	return &connect{
		id:        uuid.New(),
		userID:    userID,
		metadata:  meta,
		createdAt: time.Now(),
		ctx:       childCtx,
		cancelFn:  cancel,
		sendCh:    make(chan event.Eventer, bufferSize),
	}
}

func (c *connect) GetID() uuid.UUID        { return c.id }
func (c *connect) GetUserID() uuid.UUID    { return c.userID }
func (c *connect) GetCreatedAt() time.Time { return c.createdAt }

// Send attempts to push an event into the session mailbox within timeout.
// A send that cannot complete in time is a failed delivery to this
// connection, never an indefinite block on the caller.
func (c *connect) Send(ev event.Eventer, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	select {
	// 1. Abort immediately if the session is already terminated.
	case <-c.ctx.Done():
		return false

	// 2. Enqueue, waiting up to 'timeout' for space. Unlike a 'default'
	// branch this smooths out transient consumer jitter.
	case c.sendCh <- ev:
		return true

	// 3. Buffer stayed saturated for the whole window: persistent slow
	// consumer. Shed load instead of holding the caller hostage.
	case <-ctx.Done():
		return c.handleBackpressure(ev)
	}
}

// handleBackpressure manages full buffers by dropping low-priority events.
func (c *connect) handleBackpressure(ev event.Eventer) bool {
	// A low-priority event is dropped outright to keep buffer headroom for
	// signaling traffic.
	if ev.GetPriority() <= event.PriorityLow {
		atomic.AddUint64(&c.droppedCount, 1)
		return false
	}

	// Evict one queued event if it ranks below the incoming one.
	select {
	case oldEv := <-c.sendCh:
		if oldEv.GetPriority() < ev.GetPriority() {
			select {
			case c.sendCh <- ev:
				return true
			default:
			}
		} else {
			// The queued event mattered too; best-effort requeue.
			select {
			case c.sendCh <- oldEv:
			default:
			}
		}
	default:
	}

	atomic.AddUint64(&c.droppedCount, 1)
	return false
}

func (c *connect) Recv() <-chan event.Eventer { return c.sendCh }
func (c *connect) Done() <-chan struct{}      { return c.ctx.Done() }

// Close terminates the session. Safe to invoke concurrently from the hub
// (shutdown), the cell (stale-write pruning) and the transport handler
// (defer): the teardown runs exactly once, and late Sends fail cleanly via
// the cancelled context instead of hitting a closed channel.
func (c *connect) Close() {
	c.closeOnce.Do(func() {
		c.cancelFn()
	})
}
