package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/infra/client/appapi"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/event"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/model"
	"github.com/Utkal9/Social-Media-like-LinkedIn-sub001/internal/domain/registry"
)

// Notifier is the bridge between the durable notification store and the
// live push path. Push never retries: on Unreachable the durable record is
// the recovery path, fetched by the client on its next registration.
type Notifier interface {
	Push(ctx context.Context, n *model.Notification) registry.DeliveryOutcome
	List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error
}

type NotificationBridge struct {
	hub      registry.Hubber
	enricher Enricher
	api      *appapi.Client
	logger   *slog.Logger
}

func NewNotificationBridge(hub registry.Hubber, enricher Enricher, api *appapi.Client, logger *slog.Logger) *NotificationBridge {
	return &NotificationBridge{
		hub:      hub,
		enricher: enricher,
		api:      api,
		logger:   logger,
	}
}

// Push enriches the sender identity and hands the record to the router.
// The outcome is returned as-is; an unreachable recipient is a normal
// result here, not a failure.
func (b *NotificationBridge) Push(ctx context.Context, n *model.Notification) registry.DeliveryOutcome {
	if n.Sender.ID != uuid.Nil && n.Sender.DisplayName == "" {
		// Err already logged by the enricher decorator; a bare sender
		// profile is still deliverable.
		n.Sender, _ = b.enricher.ResolveProfile(ctx, n.Sender.ID)
	}

	outcome := b.hub.Deliver(event.NewNotificationV1Event(n))

	b.logger.Debug("notification pushed",
		slog.String("notification_id", n.ID.String()),
		slog.String("user_id", n.UserID.String()),
		slog.String("kind", string(n.Kind)),
		slog.Int("reached", outcome.Reached),
	)
	return outcome
}

// List proxies the reconnect-recovery query to the durable store.
func (b *NotificationBridge) List(ctx context.Context, userID uuid.UUID, unreadOnly bool) ([]model.Notification, error) {
	return b.api.ListNotifications(ctx, userID, unreadOnly)
}

// MarkRead flows a client acknowledgement back into the durable read-state,
// scoped to the owning user.
func (b *NotificationBridge) MarkRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	return b.api.MarkNotificationRead(ctx, userID, notificationID)
}
