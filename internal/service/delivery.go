package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/config"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/registry"
)

// Deliverer owns the registration and teardown of a connection against the
// hub. Transport handlers (WebSocket, long-poll) call Subscribe once the
// user's identity is validated and Unsubscribe when the transport ends.
type Deliverer interface {
	Subscribe(ctx context.Context, userID uuid.UUID, meta registry.ConnectMetadata) (registry.Connector, error)
	Unsubscribe(userID, connID uuid.UUID)
}

type DeliveryService struct {
	hub registry.Hubber
	cfg *config.Config
}

func NewDeliveryService(hub registry.Hubber, cfg *config.Config) *DeliveryService {
	return &DeliveryService{
		hub: hub,
		cfg: cfg,
	}
}

// Subscribe allocates a connector and binds it to the user's cell. Safe to
// call repeatedly across reconnect cycles: each transport session gets its
// own connector, and registering it twice is a no-op in the hub.
func (s *DeliveryService) Subscribe(ctx context.Context, userID uuid.UUID, meta registry.ConnectMetadata) (registry.Connector, error) {
	conn := registry.NewConnector(ctx, userID, meta, s.cfg.Hub.MailboxSize)
	s.hub.Register(conn)
	return conn, nil
}

// Unsubscribe detaches and closes the connection. Unregister is idempotent,
// so the transport-close path and an explicit client logout racing each
// other is harmless; no guard is needed at this layer.
func (s *DeliveryService) Unsubscribe(userID, connID uuid.UUID) {
	s.hub.Unregister(userID, connID)
}
